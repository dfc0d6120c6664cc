package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/budgetwise/internal/budget"
	"github.com/theirongolddev/budgetwise/internal/catalog"
	"github.com/theirongolddev/budgetwise/internal/cli"
	"github.com/theirongolddev/budgetwise/internal/intake"
	"github.com/theirongolddev/budgetwise/internal/ledger"
	"github.com/theirongolddev/budgetwise/internal/tui"
)

var (
	flagAdviseFile         string
	flagAdviseText         string
	flagAdviseInteractive  bool
	flagAdviseMonth        string
	flagAdviseJSON         bool
	flagAdviseReply        bool
	flagAdviseProtectNeeds bool
)

var adviseCmd = &cobra.Command{
	Use:   "advise",
	Short: "Run a budget session and show advice",
	Long: "Run a budget session from a TOML budget file (--file), a chat-style message\n" +
		"(--text, or - for stdin), an interactive form (-i) or a ledger month (--month).",
	Example: "  budgetwise advise --file budget.toml\n" +
		"  budgetwise catalog --template | budgetwise advise --text -\n" +
		"  budgetwise advise --month 2024-03 --json",
	RunE: runAdvise,
}

func init() {
	adviseCmd.Flags().StringVarP(&flagAdviseFile, "file", "f", "", "TOML budget file")
	adviseCmd.Flags().StringVarP(&flagAdviseText, "text", "t", "", `Message "Income: N, Rent/Mortgage: N, ..." (- reads stdin)`)
	adviseCmd.Flags().BoolVarP(&flagAdviseInteractive, "interactive", "i", false, "Enter the budget in a form")
	adviseCmd.Flags().StringVar(&flagAdviseMonth, "month", "", "Use ledger transactions for a month (YYYY-MM)")
	adviseCmd.Flags().BoolVar(&flagAdviseJSON, "json", false, "Print the API response JSON")
	adviseCmd.Flags().BoolVar(&flagAdviseReply, "reply", false, "Print the plain-text chat reply")
	adviseCmd.Flags().BoolVar(&flagAdviseProtectNeeds, "protect-needs", false, "Never propose cuts to Needs")
	adviseCmd.MarkFlagsMutuallyExclusive("file", "text", "interactive", "month")
	adviseCmd.MarkFlagsMutuallyExclusive("json", "reply")
	rootCmd.AddCommand(adviseCmd)
}

func runAdvise(cmd *cobra.Command, _ []string) error {
	bc, err := budgetConfig()
	if err != nil {
		return err
	}
	if flagAdviseProtectNeeds {
		bc.Policy = budget.ProtectNeedsPolicy()
	}

	in, err := adviseInput(cmd.InOrStdin(), bc.Catalog)
	if err != nil {
		if errors.Is(err, tui.ErrAborted) {
			return nil
		}
		return err
	}

	res, err := budget.RunWithConfig(in, bc)
	if err != nil {
		return err
	}
	logger.Debug("session complete",
		"session", res.SessionID,
		"cycles", res.Stats.Cycles,
		"firings", res.Stats.Firings,
	)

	switch {
	case flagAdviseJSON:
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(intake.NewResponse(res))
	case flagAdviseReply:
		fmt.Fprint(cmd.OutOrStdout(), intake.FormatReply(res))
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), renderResult(res, bc.Policy))
	return nil
}

func adviseInput(stdin io.Reader, cat *catalog.Catalog) (budget.Input, error) {
	switch {
	case flagAdviseFile != "":
		return intake.LoadFile(flagAdviseFile, cat)

	case flagAdviseText != "":
		text := flagAdviseText
		if text == "-" {
			data, err := io.ReadAll(stdin)
			if err != nil {
				return budget.Input{}, fmt.Errorf("reading stdin: %w", err)
			}
			text = string(data)
		}
		return intake.ParseText(text, cat)

	case flagAdviseMonth != "":
		month, err := time.ParseInLocation("2006-01", flagAdviseMonth, time.Local)
		if err != nil {
			return budget.Input{}, fmt.Errorf("--month %q: want YYYY-MM", flagAdviseMonth)
		}
		income := appCfg.Income()
		if !income.IsPositive() {
			return budget.Input{}, errors.New("--month needs a monthly income: set general.monthly_income or BUDGETWISE_INCOME")
		}
		store, err := ledger.Open(appCfg.LedgerPath())
		if err != nil {
			return budget.Input{}, err
		}
		defer func() { _ = store.Close() }()
		return store.MonthInput(month, income, cat)

	case flagAdviseInteractive:
		return tui.PromptBudget(cat, appCfg.Income(), tui.Options{Output: os.Stderr})
	}

	return budget.Input{}, errors.New("no budget given: use --file, --text, --month or -i")
}

func renderResult(res budget.Result, policy budget.Policy) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(cli.RenderTitle("BUDGET ADVICE"))
	b.WriteString("\n\n")

	standing := cli.Good("good standing")
	if res.Standing == budget.NeedsAdjustment {
		standing = cli.Warn("below target")
	}
	b.WriteString(cli.RenderTable(cli.Table{
		Title: "Summary",
		Rows: [][]string{
			{"Income", cli.FormatMoney(res.Income)},
			{"Total expenses", cli.FormatMoney(res.TotalExpenses)},
			{"Savings", cli.FormatMoney(res.Savings)},
			{"---"},
			{"Classification", standing},
		},
	}))
	b.WriteString("\n  Savings rate  ")
	b.WriteString(cli.RenderSavingsBar(res.SavingsPercent.InexactFloat64(), budget.TargetPercent, 30))
	b.WriteString("\n\n")

	if len(res.Breakdown) > 0 {
		b.WriteString("  " + cli.Muted("Share of expenses") + "\n")
		for _, s := range res.Breakdown {
			b.WriteString(cli.RenderHorizontalBar(string(s.Category), s.Percent.InexactFloat64(), 100, 6, 30))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	adjusted := len(res.Advice) > 1
	var rows [][]string
	for _, e := range res.Expenses {
		if e.Original.IsZero() {
			continue
		}
		row := []string{e.Name, string(e.Category), string(e.Priority), cli.FormatMoney(e.Original)}
		if adjusted {
			cell := cli.FormatMoney(e.Amount)
			if !e.Amount.Equal(e.Original) {
				cell = cli.Warn(cell)
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}
	if len(rows) > 0 {
		headers := []string{"Expense", "Category", "Priority", "Amount"}
		if adjusted {
			headers = append(headers, "Proposed")
			rows = append(rows, []string{"---"}, []string{"Total", "", "", cli.FormatMoney(res.TotalExpenses), cli.FormatMoney(res.AdjustedTotal())})
		}
		b.WriteString(cli.RenderTable(cli.Table{Title: "Expenses", Headers: headers, Rows: rows}))
		b.WriteString("\n")
	}

	b.WriteString("  " + cli.Muted("Advice") + "\n")
	for _, a := range res.Advice {
		switch a.Kind {
		case budget.AdviceGoodStanding:
			fmt.Fprintf(&b, "  %s You're saving %s of your income.\n", cli.Good(a.Message()), cli.FormatPercent(a.SavingsPercent))
		case budget.AdviceShortfall:
			fmt.Fprintf(&b, "  %s (currently %s).\n", cli.Warn(a.Message()), cli.FormatPercent(a.SavingsPercent))
		case budget.AdviceReduceExpense:
			fmt.Fprintf(&b, "  %s on %s: %s, new amount %s\n", a.Message(), a.Expense,
				cli.Warn(cli.FormatReduction(a.Reduction)), cli.FormatMoney(a.NewAmount))
		case budget.AdviceInsufficient:
			fmt.Fprintf(&b, "  %s Still %s short after cutting every %s expense.\n",
				cli.Bad(a.Message()+"."), cli.FormatMoney(a.Deficit), policyLabel(policy))
		}
	}
	b.WriteString("\n")
	return b.String()
}

func policyLabel(p budget.Policy) string {
	names := make([]string, len(p.ReductionOrder))
	for i, c := range p.ReductionOrder {
		names[i] = string(c)
	}
	return strings.Join(names, "/")
}
