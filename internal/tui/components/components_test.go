package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/budgetwise/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
	theme.SetActive("flexoki-dark")
}

func TestLayoutRowSumsToWidth(t *testing.T) {
	for _, n := range []int{1, 3, 4, 7} {
		total := 0
		for _, w := range LayoutRow(101, n) {
			total += w
		}
		if total != 101 {
			t.Errorf("LayoutRow(101, %d) sums to %d", n, total)
		}
	}
	if LayoutRow(10, 0) != nil {
		t.Error("LayoutRow with n=0 should be nil")
	}
}

func TestCardRowMatchesTallestCard(t *testing.T) {
	short := ContentCard("Short", "Content", 22)
	tall := ContentCard("Tall", "1\n2\n3\n4\n5", 22)

	lines := strings.Split(CardRow([]string{tall, short}), "\n")
	if len(lines) != lipgloss.Height(tall) {
		t.Fatalf("joined height = %d, want %d", len(lines), lipgloss.Height(tall))
	}
	for i, line := range lines {
		if lipgloss.Width(line) != 44 {
			t.Errorf("line %d width = %d, want 44", i, lipgloss.Width(line))
		}
	}
}

func TestMetricRowWidth(t *testing.T) {
	row := MetricRow([]Metric{
		{Label: "Income", Value: "$5,000.00"},
		{Label: "Savings", Value: "$500.00", Note: "10.0%", Color: theme.Active.Warn},
	}, 60)
	if w := lipgloss.Width(row); w != 60 {
		t.Errorf("row width = %d, want 60", w)
	}
	if !strings.Contains(row, "Savings") || !strings.Contains(row, "10.0%") {
		t.Error("row missing content")
	}
}

func TestBarChartLabels(t *testing.T) {
	chart := BarChart([]Bar{
		{Label: "Jan", Value: 1200},
		{Label: "Feb", Value: 900, Color: theme.Active.Bad},
		{Label: "Mar", Value: 1500},
	}, 40, 8)
	if !strings.Contains(chart, "Jan") || !strings.Contains(chart, "Mar") {
		t.Errorf("chart missing x labels:\n%s", chart)
	}
	if !strings.Contains(chart, "$") {
		t.Error("chart missing money axis labels")
	}

	if got := BarChart([]Bar{{Value: 1}, {Value: 2}}, 10, 2); lipgloss.Height(got) != 1 {
		t.Errorf("small chart should be a sparkline, got %q", got)
	}
}

func TestMoneyLabel(t *testing.T) {
	cases := map[float64]string{
		500:     "$500",
		1000:    "$1k",
		1500:    "$1.5k",
		2000000: "$2M",
	}
	for v, want := range cases {
		if got := moneyLabel(v); got != want {
			t.Errorf("moneyLabel(%v) = %s, want %s", v, got, want)
		}
	}
}

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := range Tabs {
		pos := 0
		for i, tab := range Tabs {
			w := TabVisualWidth(tab, i == active)
			if got := TabAtX(pos+w/2, active); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, pos+w/2, got, i)
			}
			pos += w + 1
		}
	}
	if TabAtX(500, 0) != -1 {
		t.Error("x past the last tab should miss")
	}
	if TabIdxByKey('t') != 2 || TabIdxByKey('z') != -1 {
		t.Error("TabIdxByKey mismatch")
	}
}

func TestGaugesRender(t *testing.T) {
	if g := SavingsGauge(10, 20, 30); !strings.Contains(g, "10.0%") {
		t.Errorf("gauge = %q", g)
	}
	if s := ShareBar("Restaurants and cafes", 0.25, theme.Active.Accent, 12, 10); !strings.Contains(s, "25.0%") || !strings.Contains(s, "…") {
		t.Errorf("share bar = %q", s)
	}
}
