// Package tui holds the interactive terminal UI: the budget entry and setup
// forms, and the Bubble Tea ledger dashboard.
package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetwise/internal/budget"
	"github.com/theirongolddev/budgetwise/internal/catalog"
)

// ErrAborted is returned when the user cancels a form.
var ErrAborted = errors.New("form aborted")

// Options controls where forms and the dashboard draw.
type Options struct {
	Output     io.Writer
	Accessible bool
}

// budgetValues backs the budget form fields.
type budgetValues struct {
	income  string
	amounts map[string]*string
	names   []string
}

func newBudgetValues(cat *catalog.Catalog, income decimal.Decimal) *budgetValues {
	v := &budgetValues{amounts: make(map[string]*string, cat.Size()), names: cat.Names()}
	if income.IsPositive() {
		v.income = income.String()
	}
	for _, name := range v.names {
		s := ""
		v.amounts[name] = &s
	}
	return v
}

// validateIncome accepts a positive number.
func validateIncome(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return errors.New("enter a number")
	}
	if !d.IsPositive() {
		return errors.New("income must be greater than zero")
	}
	return nil
}

// validateAmount accepts blank (zero) or a non-negative number.
func validateAmount(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return errors.New("enter a number")
	}
	if d.IsNegative() {
		return errors.New("amount cannot be negative")
	}
	return nil
}

// input converts the collected strings; blank amounts are zero.
func (v *budgetValues) input(cat *catalog.Catalog) (budget.Input, error) {
	income, err := decimal.NewFromString(strings.TrimSpace(v.income))
	if err != nil {
		return budget.Input{}, &budget.ValidationError{Err: budget.ErrInvalidIncome, Field: "income", Detail: fmt.Sprintf("not a number: %q", v.income)}
	}
	in := budget.Input{Income: income, Amounts: make(map[string]decimal.Decimal, len(v.names))}
	for _, name := range v.names {
		raw := strings.TrimSpace(*v.amounts[name])
		if raw == "" {
			in.Amounts[name] = decimal.Zero
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return budget.Input{}, &budget.ValidationError{Err: budget.ErrMalformedAmount, Field: name, Detail: fmt.Sprintf("not a number: %q", raw)}
		}
		in.Amounts[name] = d
	}
	return budget.Validate(in, cat)
}

// newBudgetForm builds one page for income and one page per category.
func newBudgetForm(cat *catalog.Catalog, v *budgetValues) *huh.Form {
	groups := []*huh.Group{
		huh.NewGroup(
			huh.NewNote().
				Title("Monthly budget").
				Description("Enter your monthly income and what you spend in each category.\nLeave an expense blank for zero."),
			huh.NewInput().
				Title("Income").
				Placeholder("e.g. 5000").
				Value(&v.income).
				Validate(validateIncome),
		),
	}

	for _, c := range cat.Categories() {
		var fields []huh.Field
		for _, e := range cat.Entries() {
			if e.Category != c {
				continue
			}
			fields = append(fields, huh.NewInput().
				Title(e.Name).
				Description(fmt.Sprintf("%s priority", e.Priority)).
				Placeholder("0").
				Value(v.amounts[e.Name]).
				Validate(validateAmount))
		}
		groups = append(groups, huh.NewGroup(fields...).Title(string(c)))
	}

	return huh.NewForm(groups...)
}

// PromptBudget asks for income and every catalog expense and returns the
// validated input. income pre-fills the income field when positive.
func PromptBudget(cat *catalog.Catalog, income decimal.Decimal, opts Options) (budget.Input, error) {
	v := newBudgetValues(cat, income)
	form := newBudgetForm(cat, v).WithAccessible(opts.Accessible)
	if opts.Output != nil {
		form = form.WithProgramOptions(tea.WithOutput(opts.Output))
	}

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return budget.Input{}, ErrAborted
		}
		return budget.Input{}, fmt.Errorf("budget form: %w", err)
	}
	return v.input(cat)
}
