package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/budgetwise/internal/tui/theme"
)

// RenderStatusBar renders the bottom bar: key hints on the left and a
// status note on the right.
func RenderStatusBar(width int, hints, note string) string {
	t := theme.Active

	left := " " + hints
	right := ""
	if note != "" {
		right = note + " "
	}
	padding := max(0, width-lipgloss.Width(left)-lipgloss.Width(right))

	bar := left
	for range padding {
		bar += " "
	}
	bar += right

	return lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width).
		MaxWidth(width).
		Render(bar)
}
