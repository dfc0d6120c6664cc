package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/budgetwise/internal/tui/theme"
)

// Bar is one column of a BarChart.
type Bar struct {
	Label string
	Value float64
	Color lipgloss.Color // empty uses the accent color
}

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline from values. Negative values
// render as the lowest block.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}

	peak := 0.0
	for _, v := range values {
		peak = max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	var buf strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(sparkBlocks)-1))
		buf.WriteRune(sparkBlocks[max(0, min(idx, len(sparkBlocks)-1))])
	}
	return lipgloss.NewStyle().Foreground(color).Background(theme.Active.Surface).Render(buf.String())
}

// BarChart renders bars over a money-labeled y axis. Each bar may carry its
// own color. Charts smaller than 15x3 fall back to a sparkline; when bars
// do not fit they are sampled evenly.
func BarChart(bars []Bar, width, height int) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active
	if width < 15 || height < 3 {
		values := make([]float64, len(bars))
		for i, b := range bars {
			values[i] = b.Value
		}
		return Sparkline(values, t.Accent)
	}

	maxVal := 0.0
	for _, b := range bars {
		maxVal = max(maxVal, b.Value)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	tickStep := chartTickStep(maxVal)
	maxIntervals := max(2, height/2)
	for int(math.Ceil(maxVal/tickStep)) > maxIntervals {
		tickStep *= 2
	}
	ceiling := math.Ceil(maxVal/tickStep) * tickStep
	numIntervals := max(1, int(math.Round(ceiling/tickStep)))
	rowsPerTick := max(2, height/numIntervals)
	chartH := rowsPerTick * numIntervals

	yLabelW := max(5, len(moneyLabel(ceiling))+1)
	tickLabels := make(map[int]string, numIntervals)
	for i := 1; i <= numIntervals; i++ {
		tickLabels[i*rowsPerTick] = moneyLabel(tickStep * float64(i))
	}

	chartW := max(5, width-yLabelW-1)
	bars = sampleBars(bars, chartW)
	n := len(bars)
	gap := 1
	if n == 1 {
		gap = 0
	}
	barW := min(6, max(2, (chartW-(n-1)*gap)/n))
	axisLen := n*barW + (n-1)*gap

	blocks := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	bg := lipgloss.NewStyle().Background(t.Surface)
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		rowTop := ceiling * float64(row) / float64(chartH)
		rowBottom := ceiling * float64(row-1) / float64(chartH)

		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, tickLabels[row])))
		b.WriteString(axisStyle.Render("│"))

		for i, bar := range bars {
			if i > 0 && gap > 0 {
				b.WriteString(bg.Render(strings.Repeat(" ", gap)))
			}
			color := bar.Color
			if color == "" {
				color = t.Accent
			}
			style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
			switch {
			case bar.Value >= rowTop:
				b.WriteString(style.Render(strings.Repeat("█", barW)))
			case bar.Value > rowBottom:
				idx := int((bar.Value - rowBottom) / (rowTop - rowBottom) * 8)
				b.WriteString(style.Render(strings.Repeat(string(blocks[max(1, min(idx, 8))]), barW)))
			default:
				b.WriteString(bg.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, "0")))
	b.WriteString(axisStyle.Render("└" + strings.Repeat("─", axisLen)))

	buf := []byte(strings.Repeat(" ", axisLen))
	lastEnd := -1
	for i, bar := range bars {
		pos := i * (barW + gap)
		lbl := bar.Label
		if pos <= lastEnd || lbl == "" {
			continue
		}
		end := min(axisLen, pos+len(lbl))
		if end-pos < 2 {
			continue
		}
		copy(buf[pos:end], lbl[:end-pos])
		lastEnd = end
	}
	b.WriteString("\n")
	b.WriteString(bg.Render(strings.Repeat(" ", yLabelW+1)))
	b.WriteString(axisStyle.Render(strings.TrimRight(string(buf), " ")))

	return b.String()
}

// sampleBars keeps an even sample of bars when each could not get at
// least two columns plus a gap.
func sampleBars(bars []Bar, chartW int) []Bar {
	n := len(bars)
	maxN := max(2, (chartW+1)/3)
	if n <= maxN {
		return bars
	}
	sampled := make([]Bar, maxN)
	for i := range sampled {
		sampled[i] = bars[i*(n-1)/(maxN-1)]
	}
	return sampled
}

// chartTickStep computes a round tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	base := math.Pow(10, math.Floor(math.Log10(rough)))
	switch frac := rough / base; {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

// moneyLabel formats an axis value: $950, $1.5k, $12k, $1.2M.
func moneyLabel(v float64) string {
	switch {
	case v >= 1e6:
		return "$" + trimZero(fmt.Sprintf("%.1f", v/1e6)) + "M"
	case v >= 1e3:
		return "$" + trimZero(fmt.Sprintf("%.1f", v/1e3)) + "k"
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}
