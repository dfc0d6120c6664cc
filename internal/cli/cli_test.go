package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/shopspring/decimal"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"5", "$5.00"},
		{"1234.5", "$1,234.50"},
		{"1234567.891", "$1,234,567.89"},
		{"-300", "-$300.00"},
	}
	for _, tt := range tests {
		if got := FormatMoney(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("FormatMoney(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatWholeAndPercent(t *testing.T) {
	if got := FormatWhole(decimal.RequireFromString("1499.6")); got != "$1,500" {
		t.Errorf("FormatWhole = %q", got)
	}
	if got := FormatPercent(decimal.RequireFromString("33.333")); got != "33.3%" {
		t.Errorf("FormatPercent = %q", got)
	}
	if got := FormatReduction(decimal.NewFromInt(200)); got != "-$200.00" {
		t.Errorf("FormatReduction = %q", got)
	}
}

func TestRenderTableAlignsStyledCells(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() { lipgloss.SetColorProfile(termenv.TrueColor) })

	out := RenderTable(Table{
		Headers: []string{"Expense", "Amount"},
		Rows: [][]string{
			{"Rent/Mortgage", "$1,500.00"},
			{"---"},
			{"Total", Good("$1,500.00")},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("lines = %d, want 7:\n%s", len(lines), out)
	}
	w := lipgloss.Width(lines[0])
	for i, l := range lines {
		if lipgloss.Width(l) != w {
			t.Errorf("line %d width = %d, want %d: %q", i, lipgloss.Width(l), w, l)
		}
	}
}

func TestRenderSavingsBar(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() { lipgloss.SetColorProfile(termenv.TrueColor) })

	out := RenderSavingsBar(40, 20, 20)
	if !strings.Contains(out, "40.0%") || !strings.Contains(out, "target 20%") {
		t.Errorf("bar = %q", out)
	}
}

func TestSavingsColor(t *testing.T) {
	if SavingsColor(20, 20) == SavingsColor(19.9, 20) {
		t.Error("target boundary should change color")
	}
}

func TestRenderSparkline(t *testing.T) {
	if got := RenderSparkline([]float64{0, 5, 10}); got != "▁▄█" {
		t.Errorf("sparkline = %q", got)
	}
	if RenderSparkline(nil) != "" {
		t.Error("empty series should render empty")
	}
}
