package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/budgetwise/internal/tui/theme"
)

// SavingsGauge renders the savings rate as a bar scaled so the target sits
// at the midpoint, followed by the rate.
func SavingsGauge(percent, target float64, width int) string {
	t := theme.Active
	color := t.Savings(percent, target)

	fill := max(0, min(1, percent/(target*2)))
	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(max(4, width-8)),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)
	return bar.ViewAs(fill) + spaceStyle.Render(" ") + pctStyle.Render(fmt.Sprintf("%5.1f%%", percent))
}

// ShareBar renders one labeled share of a whole (0..1) with its percentage.
func ShareBar(label string, share float64, color lipgloss.Color, labelW, barW int) string {
	t := theme.Active
	share = max(0, min(1, share))

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barW),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, truncate(label, labelW))) +
		spaceStyle.Render(" ") +
		bar.ViewAs(share) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%5.1f%%", share*100))
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit || limit < 2 {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
