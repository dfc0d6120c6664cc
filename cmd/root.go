// Package cmd implements the budgetwise CLI commands.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/budgetwise/internal/budget"
	"github.com/theirongolddev/budgetwise/internal/catalog"
	"github.com/theirongolddev/budgetwise/internal/cli"
	"github.com/theirongolddev/budgetwise/internal/config"
)

var (
	flagConfig  string
	flagVerbose bool
	flagQuiet   bool
	flagNoColor bool
)

// Populated by PersistentPreRunE for every command.
var (
	appCfg config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "budgetwise",
	Short: "Rule-based monthly budget advisor",
	Long: "Classify your savings against the 20% target and get a priority-ordered plan\n" +
		"for cutting expenses when you fall short.",
	SilenceUsage:      true,
	PersistentPreRunE: initApp,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default "+config.ConfigPath()+")")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging on stderr (rule firings, requests)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
}

func initApp(_ *cobra.Command, _ []string) error {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := config.LoadDotEnv(".env", filepath.Join(config.ConfigDir(), ".env")); err != nil {
		return err
	}

	path := flagConfig
	if path == "" {
		path = config.ConfigPath()
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return err
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return err
	}
	appCfg = cfg

	if flagNoColor || os.Getenv("NO_COLOR") != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	cli.ApplyTheme(cfg.Appearance.Theme)

	logger.Debug("config loaded", "path", path, "ledger", cfg.LedgerPath(), "theme", cfg.Appearance.Theme)
	return nil
}

// budgetConfig returns the session configuration for the loaded config.
func budgetConfig() (budget.Config, error) {
	bc, err := appCfg.BudgetConfig(logger)
	if err != nil {
		return bc, fmt.Errorf("loading budget settings: %w", err)
	}
	return bc, nil
}

// activeCatalog returns the configured catalog.
func activeCatalog() (*catalog.Catalog, error) {
	cat, err := appCfg.Catalog()
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return cat, nil
}

// progress writes an import progress line unless --quiet.
func progress(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
