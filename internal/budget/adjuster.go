package budget

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetwise/internal/catalog"
	"github.com/theirongolddev/budgetwise/internal/engine"
	"github.com/theirongolddev/budgetwise/internal/facts"
)

const groupAdjuster = "adjuster"

var targetRate = decimal.NewFromInt(TargetPercent).Div(hundred)

// Policy controls which expenses the adjuster may cut.
type Policy struct {
	// ReductionOrder lists the categories eligible for cuts, most
	// discretionary first. Categories not listed are never reduced.
	ReductionOrder []catalog.Category
}

// DefaultPolicy cuts Wants before Needs.
func DefaultPolicy() Policy {
	return Policy{ReductionOrder: []catalog.Category{catalog.Wants, catalog.Needs}}
}

// ProtectNeedsPolicy only ever cuts Wants.
func ProtectNeedsPolicy() Policy {
	return Policy{ReductionOrder: []catalog.Category{catalog.Wants}}
}

func (p Policy) rank(cat catalog.Category) (int, bool) {
	for i, c := range p.ReductionOrder {
		if c == cat {
			return i, true
		}
	}
	return 0, false
}

// candidates returns the expenses that can still be reduced, in the order
// they should be cut: category order from the policy, then priority
// severity ascending (Low, Medium, High), then catalog order.
func (p Policy) candidates(wm *facts.Store) []facts.Fact {
	var out []facts.Fact
	for f := range wm.Query(facts.Pattern{Kind: kindExpense}.Where(facts.DecimalIsPositive(fAmount))) {
		if _, ok := p.rank(catalog.Category(f.String(fCategory))); ok {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, _ := p.rank(catalog.Category(out[i].String(fCategory)))
		rj, _ := p.rank(catalog.Category(out[j].String(fCategory)))
		if ri != rj {
			return ri < rj
		}
		si := catalog.Priority(out[i].String(fPriority)).Severity()
		sj := catalog.Priority(out[j].String(fPriority)).Severity()
		if si != sj {
			return si < sj
		}
		return out[i].Int(fOrder) < out[j].Int(fOrder)
	})
	return out
}

func adjusterRules(p Policy) []engine.Rule {
	openDeficit := facts.Pattern{Kind: kindAdjustment}.Where(facts.DecimalIsPositive(fDeficit))

	return []engine.Rule{
		{
			Name:     "open-adjustment",
			Group:    groupAdjuster,
			Salience: salienceOpenAdjust,
			Match: func(wm *facts.Store) []engine.Binding {
				if wm.Exists(facts.Pattern{Kind: kindAdjustment}) || !wm.Exists(facts.Pattern{Kind: kindShare}) {
					return nil
				}
				assessment, ok := wm.First(facts.Pattern{
					Kind: kindAssessment,
					Eq:   facts.Fields{fStanding: string(NeedsAdjustment)},
				})
				if !ok {
					return nil
				}
				income, _ := wm.First(facts.Pattern{Kind: kindIncome})
				totals, _ := wm.First(facts.Pattern{Kind: kindTotals})
				return []engine.Binding{{assessment, income, totals}}
			},
			Fire: fireOpenAdjustment,
		},
		{
			Name:     "reduce-expense",
			Group:    groupAdjuster,
			Salience: salienceReduce,
			Match: func(wm *facts.Store) []engine.Binding {
				adj, ok := wm.First(openDeficit)
				if !ok {
					return nil
				}
				next := p.candidates(wm)
				if len(next) == 0 {
					return nil
				}
				return []engine.Binding{{adj, next[0]}}
			},
			Fire: fireReduceExpense,
		},
		{
			Name:     "target-met",
			Group:    groupAdjuster,
			Salience: salienceTerminal,
			Match: func(wm *facts.Store) []engine.Binding {
				adj, ok := wm.First(facts.Pattern{Kind: kindAdjustment}.Where(func(f facts.Fact) bool {
					return !f.Decimal(fDeficit).IsPositive()
				}))
				if !ok {
					return nil
				}
				return []engine.Binding{{adj}}
			},
			Fire: func(ctx *engine.Context, _ engine.Binding) error {
				ctx.Halt()
				return nil
			},
		},
		{
			Name:     "insufficient-funds",
			Group:    groupAdjuster,
			Salience: salienceTerminal,
			Match: func(wm *facts.Store) []engine.Binding {
				adj, ok := wm.First(openDeficit)
				if !ok || len(p.candidates(wm)) > 0 {
					return nil
				}
				return []engine.Binding{{adj}}
			},
			Fire: func(ctx *engine.Context, b engine.Binding) error {
				if _, err := ctx.Declare(kindAdvice, facts.Fields{
					fKind:    string(AdviceInsufficient),
					fDeficit: b[0].Decimal(fDeficit),
				}); err != nil {
					return err
				}
				ctx.Halt()
				return nil
			},
		},
	}
}

func fireOpenAdjustment(ctx *engine.Context, b engine.Binding) error {
	income := b[1].Decimal(fAmount)
	savings := b[2].Decimal(fSavings)
	target := income.Mul(targetRate)
	_, err := ctx.Declare(kindAdjustment, facts.Fields{
		fTarget:  target,
		fDeficit: target.Sub(savings),
	})
	return err
}

func fireReduceExpense(ctx *engine.Context, b engine.Binding) error {
	adj, expense := b[0], b[1]
	deficit := adj.Decimal(fDeficit)
	amount := expense.Decimal(fAmount)

	reduction := decimal.Min(deficit, amount)
	newAmount := amount.Sub(reduction)

	if _, err := ctx.Declare(kindAdvice, facts.Fields{
		fKind:      string(AdviceReduceExpense),
		fExpense:   expense.String(fName),
		fReduction: reduction,
		fNewAmount: newAmount,
	}); err != nil {
		return err
	}
	if err := ctx.Modify(expense.Handle, facts.Fields{fAmount: newAmount}); err != nil {
		return err
	}
	return ctx.Modify(adj.Handle, facts.Fields{fDeficit: deficit.Sub(reduction)})
}
