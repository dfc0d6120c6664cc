package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/budgetwise/internal/budget"
	"github.com/theirongolddev/budgetwise/internal/catalog"
	"github.com/theirongolddev/budgetwise/internal/cli"
	"github.com/theirongolddev/budgetwise/internal/tui/components"
	"github.com/theirongolddev/budgetwise/internal/tui/theme"
)

func (d Dashboard) renderExpensesTab(mv MonthView, cw int) string {
	t := theme.Active
	res := mv.Result
	halves := components.LayoutRow(cw, 2)

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	cutStyle := lipgloss.NewStyle().Foreground(t.Warn).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	lines := make([]string, 0, len(res.Expenses)+1)
	lines = append(lines, headerStyle.Render(fmt.Sprintf("%-16s %-4s %11s %11s", "Expense", "Pri", "Spent", "Proposed")))
	var spent []budget.ExpenseLine
	for _, e := range res.Expenses {
		if e.Original.IsPositive() {
			spent = append(spent, e)
		}
	}
	sort.SliceStable(spent, func(i, j int) bool { return spent[i].Original.GreaterThan(spent[j].Original) })
	for _, e := range spent {
		proposed := dimStyle.Render(fmt.Sprintf(" %11s", "-"))
		if !e.Amount.Equal(e.Original) {
			proposed = cutStyle.Render(fmt.Sprintf(" %11s", cli.FormatMoney(e.Amount)))
		}
		lines = append(lines, rowStyle.Render(fmt.Sprintf("%-16s %-4s %11s",
			truncStr(e.Name, 16), priorityTag(e.Priority), cli.FormatMoney(e.Original)))+proposed)
	}
	if len(spent) == 0 {
		lines = append(lines, dimStyle.Render("No spending recorded this month."))
	}
	left := components.ContentCard(fmt.Sprintf("Expenses · %s", mv.Month.Format("January 2006")), strings.Join(lines, "\n"), halves[0])

	inner := components.CardInnerWidth(halves[1])
	barW := max(6, inner-14-8)
	var shares []string
	for _, s := range res.Breakdown {
		color := t.Needs
		if s.Category == catalog.Wants {
			color = t.Wants
		}
		shares = append(shares, components.ShareBar(string(s.Category), s.Percent.InexactFloat64()/100, color, 12, barW))
	}
	if total := res.TotalReduction(); total.IsPositive() {
		shares = append(shares, "", rowStyle.Render("Proposed cuts  ")+cutStyle.Render(cli.FormatMoney(total)))
	}
	right := components.ContentCard("Share of spending", strings.Join(shares, "\n"), halves[1])

	return components.CardRow([]string{left, right})
}

func priorityTag(p catalog.Priority) string {
	switch p {
	case catalog.High:
		return "high"
	case catalog.Medium:
		return "med"
	default:
		return "low"
	}
}

func truncStr(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
