package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/budgetwise/internal/budget"
	"github.com/theirongolddev/budgetwise/internal/cli"
	"github.com/theirongolddev/budgetwise/internal/tui/components"
	"github.com/theirongolddev/budgetwise/internal/tui/theme"
)

func (d Dashboard) renderOverviewTab(mv MonthView, cw int) string {
	t := theme.Active
	res := mv.Result
	rate := res.SavingsPercent.InexactFloat64()

	standing := "on target"
	if res.Standing == budget.NeedsAdjustment {
		standing = "below target"
	}
	var b strings.Builder
	b.WriteString(components.MetricRow([]components.Metric{
		{Label: "Income", Value: cli.FormatMoney(res.Income)},
		{Label: "Expenses", Value: cli.FormatMoney(res.TotalExpenses), Note: d.expenseDelta()},
		{Label: "Savings", Value: cli.FormatMoney(res.Savings), Color: t.Savings(rate, budget.TargetPercent)},
		{Label: "Savings rate", Value: cli.FormatPercent(res.SavingsPercent), Note: standing, Color: t.Savings(rate, budget.TargetPercent)},
	}, cw))
	b.WriteString("\n")

	gaugeW := components.CardInnerWidth(cw)
	gauge := components.SavingsGauge(rate, budget.TargetPercent, gaugeW)
	b.WriteString(components.ContentCard(fmt.Sprintf("Savings rate · target %d%%", budget.TargetPercent), gauge, cw))
	b.WriteString("\n")

	b.WriteString(components.ContentCard("Advice", renderAdvice(res), cw))
	return b.String()
}

// expenseDelta compares the selected month's expenses with the month before.
func (d Dashboard) expenseDelta() string {
	if d.selected < 1 || d.selected >= len(d.months) {
		return ""
	}
	prev := d.months[d.selected-1].Result.TotalExpenses
	cur := d.months[d.selected].Result.TotalExpenses
	diff := cur.Sub(prev)
	if diff.IsNegative() {
		return cli.FormatMoney(diff) + " vs prev"
	}
	return "+" + cli.FormatMoney(diff) + " vs prev"
}

func renderAdvice(res budget.Result) string {
	t := theme.Active
	good := lipgloss.NewStyle().Foreground(t.Good).Background(t.Surface).Bold(true)
	warn := lipgloss.NewStyle().Foreground(t.Warn).Background(t.Surface).Bold(true)
	bad := lipgloss.NewStyle().Foreground(t.Bad).Background(t.Surface).Bold(true)
	text := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var lines []string
	for _, a := range res.Advice {
		switch a.Kind {
		case budget.AdviceGoodStanding:
			lines = append(lines, good.Render("✓ ")+text.Render(a.Message()))
		case budget.AdviceShortfall:
			lines = append(lines, warn.Render("! ")+text.Render(a.Message()))
		case budget.AdviceReduceExpense:
			lines = append(lines, muted.Render("  • ")+text.Render(fmt.Sprintf("%s on %s by %s",
				a.Message(), a.Expense, cli.FormatMoney(a.Reduction)))+
				muted.Render(" → "+cli.FormatMoney(a.NewAmount)))
		case budget.AdviceInsufficient:
			lines = append(lines, bad.Render("✗ ")+text.Render(a.Message())+
				muted.Render(fmt.Sprintf(" (%s still short)", cli.FormatMoney(a.Deficit))))
		}
	}
	return strings.Join(lines, "\n")
}
