package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetwise/internal/budget"
	"github.com/theirongolddev/budgetwise/internal/cli"
	"github.com/theirongolddev/budgetwise/internal/tui/components"
	"github.com/theirongolddev/budgetwise/internal/tui/theme"
)

// trendMonths is how many months the trends tab charts.
const trendMonths = 12

func (d Dashboard) renderTrendsTab(cw int) string {
	t := theme.Active

	end := min(len(d.months), d.selected+1)
	start := max(0, end-trendMonths)
	window := d.months[start:end]

	bars := make([]components.Bar, len(window))
	rates := make([]float64, len(window))
	for i, mv := range window {
		color := t.Good
		if mv.Result.Standing == budget.NeedsAdjustment {
			color = t.Warn
		}
		bars[i] = components.Bar{
			Label: mv.Month.Format("Jan"),
			Value: mv.Result.TotalExpenses.InexactFloat64(),
			Color: color,
		}
		rates[i] = max(0, mv.Result.SavingsPercent.InexactFloat64())
	}

	var b strings.Builder
	chartW := components.CardInnerWidth(cw)
	title := fmt.Sprintf("Monthly expenses · %s to %s", window[0].Month.Format("Jan 2006"), window[len(window)-1].Month.Format("Jan 2006"))
	b.WriteString(components.ContentCard(title, components.BarChart(bars, chartW, 10), cw))
	b.WriteString("\n")

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	text := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	onTarget := 0
	for _, mv := range window {
		if mv.Result.Standing == budget.GoodStanding {
			onTarget++
		}
	}
	summary := muted.Render("Savings rate  ") + components.Sparkline(rates, t.Accent) + "\n" +
		muted.Render("On target     ") + text.Render(fmt.Sprintf("%d of %d months", onTarget, len(window))) + "\n" +
		muted.Render("Average spend ") + text.Render(cli.FormatMoney(averageExpenses(window)))
	b.WriteString(components.ContentCard("Savings", summary, cw))
	return b.String()
}

func averageExpenses(months []MonthView) decimal.Decimal {
	if len(months) == 0 {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, mv := range months {
		total = total.Add(mv.Result.TotalExpenses)
	}
	return total.Div(decimal.NewFromInt(int64(len(months))))
}
