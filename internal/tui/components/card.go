// Package components provides the widgets drawn by the ledger dashboard.
package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/budgetwise/internal/tui/theme"
)

// Metric is one headline number in a metric card.
type Metric struct {
	Label string
	Value string
	Note  string
	Color lipgloss.Color // value color; empty uses the primary text color
}

// LayoutRow distributes totalWidth into n widths that sum to exactly totalWidth.
// First items absorb the remainder from integer division.
func LayoutRow(totalWidth, n int) []int {
	if n <= 0 {
		return nil
	}
	base := totalWidth / n
	remainder := totalWidth % n
	widths := make([]int, n)
	for i := range widths {
		widths[i] = base
		if i < remainder {
			widths[i]++
		}
	}
	return widths
}

func cardStyle(outerWidth int) lipgloss.Style {
	t := theme.Active
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		BorderBackground(t.Surface).
		Background(t.Surface).
		Width(max(10, outerWidth-2)).
		Padding(0, 1)
}

// MetricCard renders a label, a bold value and an optional note.
// outerWidth is the total rendered width including border.
func MetricCard(m Metric, outerWidth int) string {
	t := theme.Active

	color := m.Color
	if color == "" {
		color = t.TextPrimary
	}
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	noteStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	content := labelStyle.Render(m.Label) + "\n" + valueStyle.Render(m.Value)
	if m.Note != "" {
		content += "\n" + noteStyle.Render(m.Note)
	}
	return cardStyle(outerWidth).Render(content)
}

// MetricRow renders metric cards side by side, filling totalWidth.
func MetricRow(metrics []Metric, totalWidth int) string {
	if len(metrics) == 0 {
		return ""
	}
	widths := LayoutRow(totalWidth, len(metrics))
	cards := make([]string, len(metrics))
	for i, m := range metrics {
		cards[i] = MetricCard(m, widths[i])
	}
	return CardRow(cards)
}

// ContentCard renders a bordered card with an optional title.
func ContentCard(title, body string, outerWidth int) string {
	t := theme.Active
	titleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)

	content := body
	if title != "" {
		content = titleStyle.Render(title) + "\n" + body
	}
	return cardStyle(outerWidth).Render(content)
}

// CardRow joins cards horizontally. Shorter cards are padded with the
// surface color so the row has no unstyled gaps.
func CardRow(cards []string) string {
	if len(cards) == 0 {
		return ""
	}
	height := 0
	for _, c := range cards {
		height = max(height, lipgloss.Height(c))
	}
	padded := make([]string, len(cards))
	for i, c := range cards {
		padded[i] = lipgloss.PlaceVertical(height, lipgloss.Top, c,
			lipgloss.WithWhitespaceBackground(theme.Active.Surface))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, padded...)
}

// CardInnerWidth returns the usable text width inside a ContentCard
// given its outer width (subtracts border + padding).
func CardInnerWidth(outerWidth int) int {
	return max(10, outerWidth-4)
}
