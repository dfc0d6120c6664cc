package main

import "github.com/theirongolddev/budgetwise/cmd"

func main() {
	cmd.Execute()
}
