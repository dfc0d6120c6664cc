// Package budget implements the budget advice rule set and the session that
// runs it: totals, savings classification, category breakdown and the
// priority-ordered spending adjuster.
package budget

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetwise/internal/catalog"
	"github.com/theirongolddev/budgetwise/internal/engine"
	"github.com/theirongolddev/budgetwise/internal/facts"
)

// Config controls a session run.
type Config struct {
	Catalog   *catalog.Catalog
	Policy    Policy
	Logger    *slog.Logger
	MaxCycles int
}

// DefaultConfig returns the configuration used by Run.
func DefaultConfig() Config {
	return Config{
		Catalog:   catalog.Default(),
		Policy:    DefaultPolicy(),
		MaxCycles: engine.DefaultOptions().MaxCycles,
	}
}

// Share is one category's part of total expenses.
type Share struct {
	Category catalog.Category
	Total    decimal.Decimal
	Percent  decimal.Decimal // of total expenses
}

// ExpenseLine is an expense as supplied and after adjustment.
type ExpenseLine struct {
	Name     string
	Category catalog.Category
	Priority catalog.Priority
	Original decimal.Decimal
	Amount   decimal.Decimal
}

// Result is everything a session derived.
type Result struct {
	SessionID      string
	Income         decimal.Decimal
	Standing       Standing
	TotalExpenses  decimal.Decimal // as supplied, before any reduction
	Savings        decimal.Decimal
	SavingsPercent decimal.Decimal
	Breakdown      []Share
	Advice         []Advice
	Expenses       []ExpenseLine
	Stats          engine.Stats
}

// AdjustedTotal sums the expense amounts after adjustment.
func (r Result) AdjustedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, e := range r.Expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// TotalReduction sums every proposed reduction.
func (r Result) TotalReduction() decimal.Decimal {
	total := decimal.Zero
	for _, a := range r.Advice {
		if a.Kind == AdviceReduceExpense {
			total = total.Add(a.Reduction)
		}
	}
	return total
}

// Run validates in and runs one budget session with the default config.
func Run(in Input) (Result, error) {
	return RunWithConfig(in, DefaultConfig())
}

// RunWithConfig validates in and runs one budget session. Invalid input is
// rejected before any fact is declared.
func RunWithConfig(in Input, cfg Config) (Result, error) {
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}
	if len(cfg.Policy.ReductionOrder) == 0 {
		cfg.Policy = DefaultPolicy()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	valid, err := Validate(in, cfg.Catalog)
	if err != nil {
		return Result{}, err
	}

	id := uuid.NewString()
	logger = logger.With("session", id)

	wm := facts.NewStore()
	if err := seed(wm, cfg.Catalog, valid); err != nil {
		return Result{}, err
	}

	rules := append(calculatorRules(), adjusterRules(cfg.Policy)...)
	eng := engine.New(engine.Options{MaxCycles: cfg.MaxCycles, Logger: logger}, rules...)
	stats, err := eng.Run(wm)
	if err != nil {
		return Result{}, fmt.Errorf("running budget rules: %w", err)
	}

	res, err := readBack(wm, valid)
	if err != nil {
		return Result{}, err
	}
	res.SessionID = id
	res.Stats = stats

	logger.Debug("budget session complete",
		"standing", res.Standing,
		"savings_percent", res.SavingsPercent.StringFixed(2),
		"advice", len(res.Advice),
		"firings", stats.Firings,
	)
	return res, nil
}

func seed(wm *facts.Store, cat *catalog.Catalog, in Input) error {
	if _, err := wm.Declare(kindIncome, facts.Fields{fAmount: in.Income}); err != nil {
		return err
	}
	if _, err := wm.Declare(kindResolved, facts.Fields{fCount: 0, fExpected: cat.Size()}); err != nil {
		return err
	}
	for _, e := range cat.Entries() {
		if _, err := wm.Declare(kindExpense, facts.Fields{
			fName:     e.Name,
			fCategory: string(e.Category),
			fPriority: string(e.Priority),
			fOrder:    e.Order,
			fAmount:   in.Amounts[e.Name],
			fResolved: false,
		}); err != nil {
			return err
		}
	}
	return nil
}

func readBack(wm *facts.Store, in Input) (Result, error) {
	res := Result{Income: in.Income}

	totals, ok := wm.First(facts.Pattern{Kind: kindTotals})
	if !ok {
		return Result{}, errors.New("budget rules finished without totals")
	}
	res.TotalExpenses = totals.Decimal(fTotalExpenses)
	res.Savings = totals.Decimal(fSavings)

	assessment, ok := wm.First(facts.Pattern{Kind: kindAssessment})
	if !ok {
		return Result{}, errors.New("budget rules finished without a classification")
	}
	res.Standing = Standing(assessment.String(fStanding))
	res.SavingsPercent = assessment.Decimal(fSavingsPercent)

	for f := range wm.Query(facts.Pattern{Kind: kindShare}) {
		res.Breakdown = append(res.Breakdown, Share{
			Category: catalog.Category(f.String(fCategory)),
			Total:    f.Decimal(fTotal),
			Percent:  f.Decimal(fPercent),
		})
	}

	for f := range wm.Query(facts.Pattern{Kind: kindAdvice}) {
		res.Advice = append(res.Advice, Advice{
			Kind:           AdviceKind(f.String(fKind)),
			SavingsPercent: f.Decimal(fSavingsPercent),
			Expense:        f.String(fExpense),
			Reduction:      f.Decimal(fReduction),
			NewAmount:      f.Decimal(fNewAmount),
			Deficit:        f.Decimal(fDeficit),
		})
	}

	for f := range wm.Query(facts.Pattern{Kind: kindExpense}) {
		name := f.String(fName)
		res.Expenses = append(res.Expenses, ExpenseLine{
			Name:     name,
			Category: catalog.Category(f.String(fCategory)),
			Priority: catalog.Priority(f.String(fPriority)),
			Original: in.Amounts[name],
			Amount:   f.Decimal(fAmount),
		})
	}

	return res, nil
}
