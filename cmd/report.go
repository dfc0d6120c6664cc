package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/budgetwise/internal/budget"
	"github.com/theirongolddev/budgetwise/internal/cli"
	"github.com/theirongolddev/budgetwise/internal/ledger"
)

var (
	flagReportIncome float64
	flagReportCSV    bool
	flagReportYear   int
)

var reportCmd = &cobra.Command{
	Use:       "report [monthly|yearly]",
	Short:     "Summarize ledger spending per month or year",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(ledger.Monthly), string(ledger.Yearly)},
	RunE:      runReport,
}

func init() {
	reportCmd.Flags().Float64Var(&flagReportIncome, "income", 0, "Monthly income (default from config)")
	reportCmd.Flags().BoolVar(&flagReportCSV, "csv", false, "Write the pivot as CSV to stdout")
	reportCmd.Flags().IntVar(&flagReportYear, "year", 0, "Only include one calendar year")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	period := ledger.Monthly
	if len(args) == 1 {
		p, err := ledger.ParsePeriod(args[0])
		if err != nil {
			return err
		}
		period = p
	}

	income := appCfg.Income()
	if flagReportIncome != 0 {
		if flagReportIncome < 0 {
			return errors.New("--income must be positive")
		}
		income = decimal.NewFromFloat(flagReportIncome)
	}

	store, err := ledger.Open(appCfg.LedgerPath())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var from, until time.Time
	if flagReportYear != 0 {
		from = time.Date(flagReportYear, time.January, 1, 0, 0, 0, 0, time.Local)
		until = from.AddDate(1, 0, 0)
	}
	txs, err := store.Transactions(from, until)
	if err != nil {
		return err
	}
	if len(txs) == 0 {
		fmt.Fprintln(os.Stderr, "\n  No transactions in the ledger. Run `budgetwise import` first.")
		return nil
	}

	rep := ledger.Pivot(txs, period, income)
	if flagReportCSV {
		return rep.WriteCSV(cmd.OutOrStdout())
	}

	fmt.Print(renderReport(rep, income.IsPositive()))
	return nil
}

func renderReport(rep ledger.Report, hasIncome bool) string {
	var b strings.Builder

	title := "MONTHLY SPENDING"
	if rep.Period == ledger.Yearly {
		title = "YEARLY SPENDING"
	}
	b.WriteString("\n")
	b.WriteString(cli.RenderTitle(title))
	b.WriteString("\n\n")

	headers := []string{"Period", "Expenses", "Count"}
	if hasIncome {
		headers = append(headers, "Income", "Savings", "Rate")
	}

	rows := make([][]string, 0, len(rep.Rows))
	rates := make([]float64, 0, len(rep.Rows))
	for _, row := range rep.Rows {
		cells := []string{row.Key, cli.FormatWhole(row.TotalExpenses), cli.FormatNumber(int64(row.TotalFrequency))}
		if hasIncome {
			savings := row.Savings()
			rate := savings.Mul(decimal.NewFromInt(100)).Div(row.Income)
			rates = append(rates, max(0, rate.InexactFloat64()))

			cells = append(cells,
				cli.FormatWhole(row.Income),
				cli.FormatWhole(savings),
				rateCell(rate),
			)
		}
		rows = append(rows, cells)
	}
	b.WriteString(cli.RenderTable(cli.Table{Title: "By period", Headers: headers, Rows: rows}))

	if len(rates) > 1 {
		fmt.Fprintf(&b, "  Savings rate  %s\n", cli.RenderSparkline(rates))
	}
	b.WriteString("\n")

	totals := make(map[string]ledger.CategoryTotal, len(rep.Categories))
	grand := decimal.Zero
	for _, row := range rep.Rows {
		for name, ct := range row.Categories {
			t := totals[name]
			t.Total = t.Total.Add(ct.Total)
			t.Frequency += ct.Frequency
			totals[name] = t
			grand = grand.Add(ct.Total)
		}
	}

	catRows := make([][]string, 0, len(rep.Categories)+2)
	for _, name := range rep.Categories {
		t := totals[name]
		share := "-"
		if grand.IsPositive() {
			share = cli.FormatPercent(t.Total.Mul(decimal.NewFromInt(100)).Div(grand))
		}
		catRows = append(catRows, []string{name, cli.FormatWhole(t.Total), strconv.Itoa(t.Frequency), share})
	}
	catRows = append(catRows, []string{"---"}, []string{"Total", cli.FormatWhole(grand), "", ""})
	b.WriteString(cli.RenderTable(cli.Table{
		Title:   "By expense",
		Headers: []string{"Expense", "Total", "Count", "Share"},
		Rows:    catRows,
	}))
	b.WriteString("\n")
	return b.String()
}

func rateCell(rate decimal.Decimal) string {
	s := cli.FormatPercent(rate)
	switch {
	case rate.GreaterThanOrEqual(decimal.NewFromInt(budget.TargetPercent)):
		return cli.Good(s)
	case rate.IsNegative():
		return cli.Bad(s)
	default:
		return cli.Warn(s)
	}
}
