package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/budgetwise/internal/cli"
	"github.com/theirongolddev/budgetwise/internal/intake"
)

var flagCatalogTemplate bool

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the expense catalog",
	RunE:  runCatalog,
}

func init() {
	catalogCmd.Flags().BoolVar(&flagCatalogTemplate, "template", false, "Print a message template for advise --text")
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(_ *cobra.Command, _ []string) error {
	cat, err := activeCatalog()
	if err != nil {
		return err
	}

	if flagCatalogTemplate {
		fmt.Println(intake.Template(cat))
		return nil
	}

	rows := make([][]string, 0, cat.Size())
	for _, e := range cat.Entries() {
		rows = append(rows, []string{e.Name, string(e.Category), string(e.Priority)})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Expense catalog (%d)", cat.Size()),
		Headers: []string{"Expense", "Category", "Priority"},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}
