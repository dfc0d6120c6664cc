package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/budgetwise/internal/cli"
	"github.com/theirongolddev/budgetwise/internal/ledger"
)

var flagImportForce bool

var importCmd = &cobra.Command{
	Use:   "import <file.csv|dir>...",
	Short: "Import expense transactions from CSV into the ledger",
	Long: "Import CSV files with Date (or Year/Month/Day[/Hour/Minute]), Category\n" +
		"(or Expense) and Amount columns. Directories are scanned for *.csv.\n" +
		"Unchanged files are skipped; changed files replace their earlier rows.",
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&flagImportForce, "force", false, "Re-import files even if unchanged")
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	paths, err := expandCSVPaths(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Println("\n  No CSV files found.")
		return nil
	}

	cat, err := activeCatalog()
	if err != nil {
		return err
	}
	store, err := ledger.Open(appCfg.LedgerPath())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	progress("  Importing %d files...\n", len(paths))
	res, err := ledger.Import(store, cat, paths, ledger.ImportOptions{
		Force: flagImportForce,
		Progress: func(current, total int) {
			if current%10 == 0 || current == total {
				progress("\r  Parsing [%d/%d]", current, total)
			}
		},
	})
	if err != nil {
		return err
	}
	if res.ParsedFiles > 0 {
		progress("\n")
	}

	total, err := store.Count()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title: "Import",
		Rows: [][]string{
			{"Files", cli.FormatNumber(int64(res.TotalFiles))},
			{"Parsed", cli.FormatNumber(int64(res.ParsedFiles))},
			{"Unchanged", cli.FormatNumber(int64(res.Unchanged))},
			{"Transactions", cli.FormatNumber(int64(res.Transactions))},
			{"---"},
			{"Skipped rows", warnIfNonZero(res.ParseErrors)},
			{"Failed files", warnIfNonZero(res.FileErrors)},
			{"---"},
			{"Ledger total", cli.FormatNumber(int64(total))},
		},
	}))
	fmt.Printf("  Ledger: %s\n\n", appCfg.LedgerPath())
	return nil
}

func warnIfNonZero(n int) string {
	s := cli.FormatNumber(int64(n))
	if n > 0 {
		return cli.Warn(s)
	}
	return s
}

// expandCSVPaths replaces directory arguments with the *.csv files they hold.
func expandCSVPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(path) == ".csv" {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", arg, err)
		}
	}
	return paths, nil
}
