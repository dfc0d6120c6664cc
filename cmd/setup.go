package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/budgetwise/internal/config"
	"github.com/theirongolddev/budgetwise/internal/tui"
)

var flagSetupAccessible bool

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	setupCmd.Flags().BoolVar(&flagSetupAccessible, "accessible", false, "Plain prompts instead of the interactive form")
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	path := configFile()

	// Start from the file rather than appCfg so env overrides are not persisted.
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return err
	}

	err = tui.RunSetup(&cfg, tui.Options{Output: os.Stderr, Accessible: flagSetupAccessible})
	if errors.Is(err, tui.ErrAborted) {
		fmt.Fprintln(os.Stderr, "  Setup cancelled, nothing saved.")
		return nil
	}
	if err != nil {
		return err
	}

	if err := config.SaveTo(path, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", path)
	fmt.Println("  Run `budgetwise setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
