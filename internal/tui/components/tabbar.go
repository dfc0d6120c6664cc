package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/budgetwise/internal/tui/theme"
)

// Tab is one dashboard tab and its shortcut key.
type Tab struct {
	Name string
	Key  rune
}

// Tabs lists the dashboard tabs in display order.
var Tabs = []Tab{
	{Name: "Overview", Key: 'o'},
	{Name: "Expenses", Key: 'e'},
	{Name: "Trends", Key: 't'},
}

const tabSeparator = " "

func tabLabel(tab Tab, active bool) string {
	t := theme.Active
	if active {
		return lipgloss.NewStyle().
			Foreground(t.AccentBright).
			Background(t.SurfaceHover).
			Bold(true).
			Padding(0, 1).
			Render(tab.Name)
	}

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	key := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	name := tab.Name
	if i := strings.IndexRune(strings.ToLower(name), tab.Key); i >= 0 {
		return muted.Render(" "+name[:i]) + key.Render(name[i:i+1]) + muted.Render(name[i+1:]+" ")
	}
	return muted.Render(" "+name+" ") + key.Render("["+string(tab.Key)+"]")
}

// TabVisualWidth is the rendered width of a tab label.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(tabLabel(tab, active))
}

// RenderTabBar renders the tab row with the active tab highlighted and the
// right-hand label flush right.
func RenderTabBar(activeIdx, width int, right string) string {
	t := theme.Active
	sep := lipgloss.NewStyle().Background(t.Surface).Render(tabSeparator)

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		parts[i] = tabLabel(tab, i == activeIdx)
	}
	left := strings.Join(parts, sep)

	rightStyled := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true).Render(right)
	gap := max(0, width-lipgloss.Width(left)-lipgloss.Width(rightStyled))
	return left + lipgloss.NewStyle().Background(t.Surface).Render(strings.Repeat(" ", gap)) + rightStyled
}

// TabIdxByKey returns the tab index for a shortcut key, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}

// TabAtX returns the tab under column x of the tab bar, or -1.
func TabAtX(x, activeIdx int) int {
	pos := 0
	sepW := lipgloss.Width(tabSeparator)
	for i, tab := range Tabs {
		w := TabVisualWidth(tab, i == activeIdx)
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + sepW
	}
	return -1
}
