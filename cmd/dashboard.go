package cmd

import (
	"errors"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/budgetwise/internal/ledger"
	"github.com/theirongolddev/budgetwise/internal/tui"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"tui"},
	Short:   "Browse monthly ledger advice in an interactive dashboard",
	RunE:    runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(_ *cobra.Command, _ []string) error {
	bc, err := budgetConfig()
	if err != nil {
		return err
	}
	income := appCfg.Income()
	if !income.IsPositive() {
		return errors.New("the dashboard needs a monthly income: run `budgetwise setup` or set BUDGETWISE_INCOME")
	}
	dbPath := appCfg.LedgerPath()

	load := func() ([]tui.MonthView, error) {
		store, err := ledger.Open(dbPath)
		if err != nil {
			return nil, err
		}
		defer func() { _ = store.Close() }()

		txs, err := store.Transactions(time.Time{}, time.Time{})
		if err != nil {
			return nil, err
		}
		return tui.LoadMonths(txs, income, bc)
	}

	// Background fills need a color profile even when stdout is piped.
	if !flagNoColor {
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
	return tui.RunDashboard(load, tui.Options{})
}
