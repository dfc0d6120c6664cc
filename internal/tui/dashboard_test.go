package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetwise/internal/budget"
	"github.com/theirongolddev/budgetwise/internal/ledger"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func sampleMonths(t *testing.T) []MonthView {
	t.Helper()
	at := func(m time.Month, d int) time.Time { return time.Date(2024, m, d, 12, 0, 0, 0, time.Local) }
	txs := []ledger.Transaction{
		{Date: at(time.January, 2), Category: "Rent/Mortgage", Amount: decimal.NewFromInt(1500)},
		{Date: at(time.January, 9), Category: "Restaurants", Amount: decimal.NewFromInt(200)},
		{Date: at(time.February, 2), Category: "Rent/Mortgage", Amount: decimal.NewFromInt(1500)},
		{Date: at(time.February, 14), Category: "Restaurants", Amount: decimal.NewFromInt(900)},
		{Date: at(time.February, 20), Category: "Electronics", Amount: decimal.NewFromInt(400)},
	}
	months, err := LoadMonths(txs, decimal.NewFromInt(3000), budget.DefaultConfig())
	if err != nil {
		t.Fatalf("LoadMonths: %v", err)
	}
	return months
}

func loadedDashboard(t *testing.T) Dashboard {
	t.Helper()
	months := sampleMonths(t)
	d := NewDashboard(func() ([]MonthView, error) { return months, nil })
	m, _ := d.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m, _ = m.Update(monthsLoadedMsg{months: months})
	return m.(Dashboard)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestLoadMonths(t *testing.T) {
	months := sampleMonths(t)
	if len(months) != 2 {
		t.Fatalf("months = %d, want 2", len(months))
	}
	jan, feb := months[0].Result, months[1].Result
	if jan.Standing != budget.GoodStanding {
		t.Errorf("January standing = %s, want good", jan.Standing)
	}
	if feb.Standing != budget.NeedsAdjustment || len(feb.Advice) < 2 {
		t.Errorf("February = %s with %d advice", feb.Standing, len(feb.Advice))
	}
}

func TestDashboardSelectsLatestMonth(t *testing.T) {
	d := loadedDashboard(t)
	if d.selected != 1 {
		t.Fatalf("selected = %d, want latest (1)", d.selected)
	}

	m, _ := d.Update(key("left"))
	d = m.(Dashboard)
	if d.selected != 0 {
		t.Errorf("after left selected = %d", d.selected)
	}
	m, _ = d.Update(key("left"))
	if m.(Dashboard).selected != 0 {
		t.Error("left past the first month should stay put")
	}
	m, _ = m.Update(key("G"))
	if m.(Dashboard).selected != 1 {
		t.Error("G should jump to the latest month")
	}
}

func TestDashboardTabs(t *testing.T) {
	d := loadedDashboard(t)

	m, _ := d.Update(key("t"))
	if m.(Dashboard).activeTab != 2 {
		t.Errorf("t -> tab %d", m.(Dashboard).activeTab)
	}
	m, _ = m.Update(key("tab"))
	if m.(Dashboard).activeTab != 0 {
		t.Errorf("tab wraps to %d", m.(Dashboard).activeTab)
	}

	m, _ = m.Update(tea.MouseMsg{X: 12, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if m.(Dashboard).activeTab != 1 {
		t.Errorf("click on Expenses -> tab %d", m.(Dashboard).activeTab)
	}
}

func TestDashboardViews(t *testing.T) {
	d := loadedDashboard(t)

	view := d.View()
	for _, want := range []string{"Feb 2024", "Savings rate", "Reduce spending", "Restaurants"} {
		if !strings.Contains(view, want) {
			t.Errorf("overview missing %q", want)
		}
	}

	m, _ := d.Update(key("e"))
	if view := m.View(); !strings.Contains(view, "Electronics") || !strings.Contains(view, "Share of spending") {
		t.Error("expenses tab missing content")
	}

	m, _ = m.Update(key("t"))
	if view := m.View(); !strings.Contains(view, "1 of 2 months") {
		t.Error("trends tab missing on-target count")
	}

	m, _ = m.Update(key("?"))
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("help overlay not shown")
	}
}

func TestDashboardEmptyAndError(t *testing.T) {
	d := NewDashboard(nil)
	m, _ := d.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	if !strings.Contains(m.View(), "Running monthly budget sessions") {
		t.Error("loading view not shown")
	}

	empty, _ := m.Update(monthsLoadedMsg{})
	if !strings.Contains(empty.View(), "No transactions yet") {
		t.Error("empty view not shown")
	}

	failed, _ := m.Update(monthsLoadedMsg{err: errors.New("disk on fire")})
	if !strings.Contains(failed.View(), "disk on fire") {
		t.Error("error view not shown")
	}

	narrow, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 30})
	if !strings.Contains(narrow.View(), "too narrow") {
		t.Error("narrow view not shown")
	}
}
