package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetwise/internal/budget"
	"github.com/theirongolddev/budgetwise/internal/ledger"
	"github.com/theirongolddev/budgetwise/internal/tui/components"
	"github.com/theirongolddev/budgetwise/internal/tui/theme"
)

// MonthView is one ledger month run through a budget session.
type MonthView struct {
	Month  time.Time
	Result budget.Result
}

// LoadFunc loads the months shown by the dashboard, oldest first.
type LoadFunc func() ([]MonthView, error)

// LoadMonths runs a budget session for every month in txs.
func LoadMonths(txs []ledger.Transaction, income decimal.Decimal, cfg budget.Config) ([]MonthView, error) {
	inputs := ledger.MonthlyInputs(txs, income, cfg.Catalog)
	views := make([]MonthView, 0, len(inputs))
	for _, mb := range inputs {
		res, err := budget.RunWithConfig(mb.Input, cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", mb.Month.Format("2006-01"), err)
		}
		views = append(views, MonthView{Month: mb.Month, Result: res})
	}
	return views, nil
}

// monthsLoadedMsg is sent when a load finishes.
type monthsLoadedMsg struct {
	months []MonthView
	err    error
	took   time.Duration
}

func loadCmd(load LoadFunc) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		months, err := load()
		return monthsLoadedMsg{months: months, err: err, took: time.Since(start)}
	}
}

const (
	minTerminalWidth = 70
	maxContentWidth  = 140
	minContentHeight = 5
)

// Dashboard is the Bubble Tea model for the ledger dashboard.
type Dashboard struct {
	load LoadFunc

	months   []MonthView
	selected int
	loaded   bool
	loading  bool
	err      error
	loadTime time.Duration

	width     int
	height    int
	activeTab int
	showHelp  bool

	spinner spinner.Model
}

// NewDashboard creates a dashboard that loads its months with load.
func NewDashboard(load LoadFunc) Dashboard {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return Dashboard{load: load, loading: true, spinner: sp}
}

// Init implements tea.Model.
func (d Dashboard) Init() tea.Cmd {
	return tea.Batch(tea.EnableMouseCellMotion, d.spinner.Tick, loadCmd(d.load))
}

func (d Dashboard) current() (MonthView, bool) {
	if d.selected < 0 || d.selected >= len(d.months) {
		return MonthView{}, false
	}
	return d.months[d.selected], true
}

// Update implements tea.Model.
func (d Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		return d, nil

	case tea.MouseMsg:
		if !d.loaded || d.showHelp {
			return d, nil
		}
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && msg.Y == 0 {
			if tab := components.TabAtX(msg.X, d.activeTab); tab >= 0 {
				d.activeTab = tab
			}
		}
		return d, nil

	case tea.KeyMsg:
		return d.updateKey(msg)

	case monthsLoadedMsg:
		d.loading = false
		d.loaded = true
		d.err = msg.err
		d.loadTime = msg.took
		if msg.err == nil {
			keep := d.selected < len(d.months)-1
			d.months = msg.months
			if !keep || d.selected >= len(d.months) {
				d.selected = len(d.months) - 1
			}
		}
		return d, nil

	case spinner.TickMsg:
		if d.loading {
			var cmd tea.Cmd
			d.spinner, cmd = d.spinner.Update(msg)
			return d, cmd
		}
		return d, nil
	}
	return d, nil
}

func (d Dashboard) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" || key == "q" {
		return d, tea.Quit
	}
	if !d.loaded {
		return d, nil
	}

	if key == "?" {
		d.showHelp = !d.showHelp
		return d, nil
	}
	if d.showHelp {
		d.showHelp = false
		return d, nil
	}

	switch key {
	case "tab":
		d.activeTab = (d.activeTab + 1) % len(components.Tabs)
	case "shift+tab":
		d.activeTab = (d.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case "left", "h":
		if d.selected > 0 {
			d.selected--
		}
	case "right", "l":
		if d.selected < len(d.months)-1 {
			d.selected++
		}
	case "home", "g":
		d.selected = 0
	case "end", "G":
		d.selected = len(d.months) - 1
	case "r":
		if !d.loading {
			d.loading = true
			return d, tea.Batch(d.spinner.Tick, loadCmd(d.load))
		}
	default:
		if len(msg.Runes) == 1 {
			if tab := components.TabIdxByKey(msg.Runes[0]); tab >= 0 {
				d.activeTab = tab
			}
		}
	}
	return d, nil
}

func (d Dashboard) contentWidth() int {
	return min(d.width, maxContentWidth)
}

// View implements tea.Model.
func (d Dashboard) View() string {
	switch {
	case d.width == 0:
		return ""
	case d.width < minTerminalWidth:
		return fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  budgetwise needs at least %d columns.\n",
			d.width, minTerminalWidth)
	case !d.loaded:
		return d.viewLoading()
	case d.err != nil:
		return d.viewMessage("Could not load the ledger", d.err.Error())
	case len(d.months) == 0:
		return d.viewMessage("No transactions yet", "Run `budgetwise import <file.csv>` and come back.")
	case d.showHelp:
		return d.viewHelp()
	}
	return d.viewMain()
}

func (d Dashboard) overlay(body string) string {
	t := theme.Active
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3).
		Render(body)
	return lipgloss.Place(d.width, d.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (d Dashboard) viewLoading() string {
	t := theme.Active
	logo := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	return d.overlay(logo.Render("◈ budgetwise") + muted.Render(" · ledger dashboard") + "\n\n" +
		d.spinner.View() + muted.Render(" Running monthly budget sessions..."))
}

func (d Dashboard) viewMessage(title, detail string) string {
	t := theme.Active
	titleStyle := lipgloss.NewStyle().Foreground(t.Warn).Background(t.Surface).Bold(true)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	return d.overlay(titleStyle.Render(title) + "\n\n" + muted.Render(detail) + "\n\n" + muted.Render("Press q to quit"))
}

func (d Dashboard) viewHelp() string {
	t := theme.Active
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Key).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	bindings := []struct{ key, desc string }{
		{"o e t", "Jump to tab"},
		{"tab", "Next tab"},
		{"← → h l", "Previous / next month"},
		{"g G", "First / latest month"},
		{"r", "Reload ledger"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
	for _, bind := range bindings {
		fmt.Fprintf(&b, "  %s  %s\n", keyStyle.Render(fmt.Sprintf("%-10s", bind.key)), descStyle.Render(bind.desc))
	}
	return d.overlay(strings.TrimRight(b.String(), "\n"))
}

func (d Dashboard) viewMain() string {
	t := theme.Active
	w := d.width
	cw := d.contentWidth()

	mv, _ := d.current()
	monthLabel := fmt.Sprintf("◀ %s ▶ ", mv.Month.Format("Jan 2006"))
	header := components.RenderTabBar(d.activeTab, w, monthLabel)

	note := fmt.Sprintf("%d months · loaded in %.1fs", len(d.months), d.loadTime.Seconds())
	if d.loading {
		note = d.spinner.View() + " reloading"
	}
	statusBar := components.RenderStatusBar(w, "[?]help  [←→]month  [r]eload  [q]uit", note)

	contentH := max(minContentHeight, d.height-lipgloss.Height(header)-lipgloss.Height(statusBar))

	var content string
	switch d.activeTab {
	case 0:
		content = d.renderOverviewTab(mv, cw)
	case 1:
		content = d.renderExpensesTab(mv, cw)
	case 2:
		content = d.renderTrendsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// RunDashboard runs the dashboard full screen until the user quits.
func RunDashboard(load LoadFunc, opts Options) error {
	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(opts.Output))
	}
	if _, err := tea.NewProgram(NewDashboard(load), programOpts...).Run(); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}
