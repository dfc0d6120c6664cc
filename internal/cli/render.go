package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/budgetwise/internal/tui/theme"
)

// Styles, rebuilt by ApplyTheme.
var (
	titleStyle  lipgloss.Style
	headerStyle lipgloss.Style
	valueStyle  lipgloss.Style
	mutedStyle  lipgloss.Style
	goodStyle   lipgloss.Style
	warnStyle   lipgloss.Style
	badStyle    lipgloss.Style
	dimStyle    lipgloss.Style
	borderColor lipgloss.Color
)

func init() {
	ApplyTheme(theme.Active.Name)
}

// ApplyTheme activates a named theme for all CLI output.
func ApplyTheme(name string) {
	theme.SetActive(name)
	t := theme.Active

	borderColor = t.Border
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary).Align(lipgloss.Center)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	valueStyle = lipgloss.NewStyle().Foreground(t.TextPrimary)
	mutedStyle = lipgloss.NewStyle().Foreground(t.TextMuted)
	goodStyle = lipgloss.NewStyle().Foreground(t.Good)
	warnStyle = lipgloss.NewStyle().Foreground(t.Warn)
	badStyle = lipgloss.NewStyle().Foreground(t.Bad).Bold(true)
	dimStyle = lipgloss.NewStyle().Foreground(t.TextDim)
}

// Good, Warn, Bad and Muted color a one-off string.
func Good(s string) string  { return goodStyle.Render(s) }
func Warn(s string) string  { return warnStyle.Render(s) }
func Bad(s string) string   { return badStyle.Render(s) }
func Muted(s string) string { return mutedStyle.Render(s) }

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	width := 55
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

func writeRule(b *strings.Builder, widths []int, left, mid, right string) {
	b.WriteString(dimStyle.Render(left))
	for i, w := range widths {
		b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
		if i < len(widths)-1 {
			b.WriteString(dimStyle.Render(mid))
		}
	}
	b.WriteString(dimStyle.Render(right))
	b.WriteString("\n")
}

// RenderTable renders a bordered table with headers and rows. The first
// column is left-aligned, the rest are right-aligned. A row holding the
// single cell "---" renders as a separator.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
	} else {
		for i, h := range t.Headers {
			widths[i] = max(widths[i], lipgloss.Width(h))
		}
		for _, row := range t.Rows {
			for i, cell := range row {
				if i < numCols {
					widths[i] = max(widths[i], lipgloss.Width(cell))
				}
			}
		}
	}

	var b strings.Builder

	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	writeRule(&b, widths, "╭", "┬", "╮")

	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			b.WriteString(headerStyle.Render(pad(h, widths[i], i > 0)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
		writeRule(&b, widths, "├", "┼", "┤")
	}

	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "---" {
			writeRule(&b, widths, "├", "┼", "┤")
			continue
		}

		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(valueStyle.Render(pad(cell, widths[i], i > 0)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}

	writeRule(&b, widths, "╰", "┴", "╯")
	return b.String()
}

// pad pads by display width so pre-styled cells line up.
func pad(cell string, width int, right bool) string {
	gap := strings.Repeat(" ", max(0, width-lipgloss.Width(cell)))
	if right {
		return " " + gap + cell + " "
	}
	return " " + cell + gap + " "
}

// SavingsColor picks the bar color for a savings rate against the target.
func SavingsColor(percent, target float64) string {
	return string(theme.Active.Savings(percent, target))
}

// RenderSavingsBar renders the savings rate as a bar scaled so the target
// sits at the bar's midpoint.
func RenderSavingsBar(percent, target float64, width int) string {
	scale := target * 2
	pct := percent / scale
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}

	bar := progress.New(
		progress.WithSolidFill(SavingsColor(percent, target)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(theme.Active.TextDim)

	label := lipgloss.NewStyle().
		Foreground(lipgloss.Color(SavingsColor(percent, target))).
		Bold(true).
		Render(fmt.Sprintf("%5.1f%%", percent))
	return bar.ViewAs(pct) + " " + label + " " + mutedStyle.Render(fmt.Sprintf("(target %.0f%%)", target))
}

// RenderHorizontalBar renders one labeled bar chart entry.
func RenderHorizontalBar(label string, value, maxValue float64, labelWidth, maxWidth int) string {
	barLen := 0
	if maxValue > 0 {
		barLen = int(value / maxValue * float64(maxWidth))
	}
	barLen = max(0, min(barLen, maxWidth))
	return fmt.Sprintf("  %-*s %s%s %s",
		labelWidth, label,
		headerStyle.Render(strings.Repeat("█", barLen)),
		dimStyle.Render(strings.Repeat("░", maxWidth-barLen)),
		mutedStyle.Render(fmt.Sprintf("%.1f%%", value)),
	)
}

// RenderSparkline generates a unicode block sparkline from a series of values.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	hi := values[0]
	for _, v := range values[1:] {
		hi = max(hi, v)
	}
	if hi <= 0 {
		hi = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int(v / hi * float64(len(blocks)-1))
		b.WriteRune(blocks[max(0, min(idx, len(blocks)-1))])
	}
	return b.String()
}
