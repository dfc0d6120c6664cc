package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/budgetwise/internal/config"
	"github.com/theirongolddev/budgetwise/internal/tui/theme"
)

// Reduction order choices offered by setup.
const (
	orderWantsThenNeeds = "wants,needs"
	orderWantsOnly      = "wants"
)

// setupValues backs the setup form fields.
type setupValues struct {
	income string
	dbPath string
	addr   string
	order  string
	theme  string
}

func newSetupValues(cfg config.Config) *setupValues {
	v := &setupValues{
		dbPath: cfg.Ledger.DBPath,
		addr:   cfg.Server.Addr,
		order:  orderWantsThenNeeds,
		theme:  cfg.Appearance.Theme,
	}
	if cfg.General.MonthlyIncome > 0 {
		v.income = strconv.FormatFloat(cfg.General.MonthlyIncome, 'f', -1, 64)
	}
	if len(cfg.Adjuster.ReductionOrder) == 1 {
		v.order = orderWantsOnly
	}
	return v
}

// apply writes the collected values into cfg.
func (v *setupValues) apply(cfg *config.Config) error {
	cfg.General.MonthlyIncome = 0
	if s := strings.TrimSpace(v.income); s != "" {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("monthly income %q: must be a positive number", v.income)
		}
		cfg.General.MonthlyIncome = f
	}
	cfg.Ledger.DBPath = strings.TrimSpace(v.dbPath)
	if addr := strings.TrimSpace(v.addr); addr != "" {
		cfg.Server.Addr = addr
	}
	switch v.order {
	case orderWantsOnly:
		cfg.Adjuster.ReductionOrder = []string{"Wants"}
	default:
		cfg.Adjuster.ReductionOrder = []string{"Wants", "Needs"}
	}
	cfg.Appearance.Theme = theme.ByName(v.theme).Name
	return nil
}

func validateOptionalIncome(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return validateIncome(s)
}

func newSetupForm(v *setupValues) *huh.Form {
	themes := huh.NewOptions(theme.Names()...)

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to budgetwise!").
				Description("A few settings, all optional. Run `budgetwise setup` anytime to change them."),
			huh.NewInput().
				Title("Monthly income").
				Description("Used by `advise --month` and ledger reports.").
				Placeholder("e.g. 5000").
				Value(&v.income).
				Validate(validateOptionalIncome),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("When savings fall short, cut spending from").
				Options(
					huh.NewOption("Wants first, then Needs", orderWantsThenNeeds),
					huh.NewOption("Wants only", orderWantsOnly),
				).
				Value(&v.order),
			huh.NewInput().
				Title("Ledger database").
				Description("Blank uses the default data directory.").
				Value(&v.dbPath),
			huh.NewInput().
				Title("API listen address").
				Value(&v.addr),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&v.theme),
		),
	)
}

// RunSetup runs the setup wizard and updates cfg in place. The caller
// saves the result.
func RunSetup(cfg *config.Config, opts Options) error {
	v := newSetupValues(*cfg)
	form := newSetupForm(v).WithAccessible(opts.Accessible)
	if opts.Output != nil {
		form = form.WithProgramOptions(tea.WithOutput(opts.Output))
	}

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return fmt.Errorf("setup form: %w", err)
	}
	return v.apply(cfg)
}
