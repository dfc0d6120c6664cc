package budget

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetwise/internal/catalog"
	"github.com/theirongolddev/budgetwise/internal/engine"
	"github.com/theirongolddev/budgetwise/internal/facts"
)

// Fact kinds.
const (
	kindIncome     facts.Kind = "income"
	kindExpense    facts.Kind = "expense"
	kindResolved   facts.Kind = "resolved"
	kindTotals     facts.Kind = "totals"
	kindAssessment facts.Kind = "assessment"
	kindShare      facts.Kind = "share"
	kindAdjustment facts.Kind = "adjustment"
	kindAdvice     facts.Kind = "advice"
)

// Field names.
const (
	fAmount         = "amount"
	fName           = "name"
	fCategory       = "category"
	fPriority       = "priority"
	fOrder          = "order"
	fResolved       = "resolved"
	fCount          = "count"
	fExpected       = "expected"
	fTotalExpenses  = "total_expenses"
	fSavings        = "savings"
	fSavingsPercent = "savings_percent"
	fStanding       = "standing"
	fTotal          = "total"
	fPercent        = "percent"
	fTarget         = "target"
	fDeficit        = "deficit"
	fKind           = "kind"
	fExpense        = "expense"
	fReduction      = "reduction"
	fNewAmount      = "new_amount"
)

// TargetPercent is the share of income that should be saved.
const TargetPercent = 20

var hundred = decimal.NewFromInt(100)

// Rule salience. The calculator always runs ahead of the adjuster.
const (
	salienceResolve    = 100
	salienceTotals     = 90
	salienceClassify   = 80
	salienceBreakdown  = 70
	salienceOpenAdjust = 60
	salienceReduce     = 50
	salienceTerminal   = 40
	salienceConclude   = 0
)

const groupCalculator = "calculator"

func calculatorRules() []engine.Rule {
	return []engine.Rule{
		{
			Name:     "resolve-expense",
			Group:    groupCalculator,
			Salience: salienceResolve,
			Match: func(wm *facts.Store) []engine.Binding {
				var out []engine.Binding
				for f := range wm.Query(facts.Pattern{Kind: kindExpense, Eq: facts.Fields{fResolved: false}}) {
					out = append(out, engine.Binding{f})
				}
				return out
			},
			Fire: fireResolveExpense,
		},
		{
			Name:     "calculate-totals",
			Group:    groupCalculator,
			Salience: salienceTotals,
			Match: func(wm *facts.Store) []engine.Binding {
				if wm.Exists(facts.Pattern{Kind: kindTotals}) {
					return nil
				}
				income, ok := wm.First(facts.Pattern{Kind: kindIncome})
				if !ok {
					return nil
				}
				counter, ok := wm.First(facts.Pattern{Kind: kindResolved}.Where(facts.IntEqualsField(fCount, fExpected)))
				if !ok {
					return nil
				}
				return []engine.Binding{{income, counter}}
			},
			Fire: fireCalculateTotals,
		},
		{
			Name:     "classify-savings",
			Group:    groupCalculator,
			Salience: salienceClassify,
			Match: func(wm *facts.Store) []engine.Binding {
				if wm.Exists(facts.Pattern{Kind: kindAssessment}) {
					return nil
				}
				totals, ok := wm.First(facts.Pattern{Kind: kindTotals})
				if !ok {
					return nil
				}
				income, ok := wm.First(facts.Pattern{Kind: kindIncome})
				if !ok {
					return nil
				}
				return []engine.Binding{{totals, income}}
			},
			Fire: fireClassifySavings,
		},
		{
			Name:     "category-breakdown",
			Group:    groupCalculator,
			Salience: salienceBreakdown,
			Match: func(wm *facts.Store) []engine.Binding {
				if wm.Exists(facts.Pattern{Kind: kindShare}) {
					return nil
				}
				assessment, ok := wm.First(facts.Pattern{Kind: kindAssessment})
				if !ok {
					return nil
				}
				totals, ok := wm.First(facts.Pattern{Kind: kindTotals})
				if !ok {
					return nil
				}
				return []engine.Binding{{assessment, totals}}
			},
			Fire: fireCategoryBreakdown,
		},
		{
			Name:     "conclude-good-standing",
			Group:    groupCalculator,
			Salience: salienceConclude,
			Match: func(wm *facts.Store) []engine.Binding {
				if !wm.Exists(facts.Pattern{Kind: kindShare}) {
					return nil
				}
				assessment, ok := wm.First(facts.Pattern{
					Kind: kindAssessment,
					Eq:   facts.Fields{fStanding: string(GoodStanding)},
				})
				if !ok {
					return nil
				}
				return []engine.Binding{{assessment}}
			},
			Fire: func(ctx *engine.Context, _ engine.Binding) error {
				ctx.Halt()
				return nil
			},
		},
	}
}

func fireResolveExpense(ctx *engine.Context, b engine.Binding) error {
	if err := ctx.Modify(b[0].Handle, facts.Fields{fResolved: true}); err != nil {
		return err
	}
	counter, ok := ctx.Facts().First(facts.Pattern{Kind: kindResolved})
	if !ok {
		return nil
	}
	return ctx.Modify(counter.Handle, facts.Fields{fCount: counter.Int(fCount) + 1})
}

func fireCalculateTotals(ctx *engine.Context, b engine.Binding) error {
	income := b[0].Decimal(fAmount)
	total := decimal.Zero
	for f := range ctx.Facts().Query(facts.Pattern{Kind: kindExpense}) {
		total = total.Add(f.Decimal(fAmount))
	}
	_, err := ctx.Declare(kindTotals, facts.Fields{
		fTotalExpenses: total,
		fSavings:       income.Sub(total),
	})
	return err
}

func fireClassifySavings(ctx *engine.Context, b engine.Binding) error {
	savings := b[0].Decimal(fSavings)
	income := b[1].Decimal(fAmount)

	percent := savings.Div(income).Mul(hundred)
	// savings/income*100 >= 20 without the rounding of a division
	standing := NeedsAdjustment
	if savings.Mul(hundred).GreaterThanOrEqual(income.Mul(decimal.NewFromInt(TargetPercent))) {
		standing = GoodStanding
	}

	if _, err := ctx.Declare(kindAssessment, facts.Fields{
		fSavingsPercent: percent,
		fStanding:       string(standing),
	}); err != nil {
		return err
	}

	kind := AdviceShortfall
	if standing == GoodStanding {
		kind = AdviceGoodStanding
	}
	_, err := ctx.Declare(kindAdvice, facts.Fields{
		fKind:           string(kind),
		fSavingsPercent: percent,
	})
	return err
}

func fireCategoryBreakdown(ctx *engine.Context, b engine.Binding) error {
	total := b[1].Decimal(fTotalExpenses)

	var order []catalog.Category
	sums := make(map[catalog.Category]decimal.Decimal)
	for f := range ctx.Facts().Query(facts.Pattern{Kind: kindExpense}) {
		cat := catalog.Category(f.String(fCategory))
		if _, seen := sums[cat]; !seen {
			order = append(order, cat)
			sums[cat] = decimal.Zero
		}
		sums[cat] = sums[cat].Add(f.Decimal(fAmount))
	}

	for _, cat := range order {
		percent := decimal.Zero
		if total.IsPositive() {
			percent = sums[cat].Div(total).Mul(hundred)
		}
		if _, err := ctx.Declare(kindShare, facts.Fields{
			fCategory: string(cat),
			fTotal:    sums[cat],
			fPercent:  percent,
		}); err != nil {
			return err
		}
	}
	return nil
}
