package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/budgetwise/internal/cli"
	"github.com/theirongolddev/budgetwise/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func configFile() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.ConfigPath()
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appCfg
	path := configFile()

	fmt.Printf("  Config file: %s\n", path)
	if _, err := os.Stat(path); err == nil {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	if income := cfg.Income(); income.IsPositive() {
		fmt.Printf("    Monthly income: %s\n", cli.FormatMoney(income))
	} else {
		fmt.Println("    Monthly income: not set")
	}
	if cfg.General.CatalogPath != "" {
		fmt.Printf("    Catalog:        %s\n", cfg.General.CatalogPath)
	} else {
		fmt.Println("    Catalog:        built-in")
	}
	fmt.Println()

	fmt.Println("  [Ledger]")
	fmt.Printf("    Database: %s\n", cfg.LedgerPath())
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:         %s\n", cfg.Server.Addr)
	if len(cfg.Server.AllowedOrigins) > 0 {
		fmt.Printf("    Allowed origins: %s\n", strings.Join(cfg.Server.AllowedOrigins, ", "))
	} else {
		fmt.Println("    Allowed origins: * (any)")
	}
	fmt.Println()

	fmt.Println("  [Adjuster]")
	fmt.Printf("    Reduction order: %s\n", strings.Join(cfg.Adjuster.ReductionOrder, " then "))
	if cfg.Adjuster.MaxCycles > 0 {
		fmt.Printf("    Max cycles:      %d\n", cfg.Adjuster.MaxCycles)
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	var overridden []string
	for _, name := range []string{config.EnvAddr, config.EnvIncome, config.EnvDB} {
		if os.Getenv(name) != "" {
			overridden = append(overridden, name)
		}
	}
	if len(overridden) > 0 {
		fmt.Printf("  Environment overrides: %s\n\n", strings.Join(overridden, ", "))
	}

	fmt.Println("  Run `budgetwise setup` to reconfigure.")
	return nil
}
