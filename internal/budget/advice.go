package budget

import "github.com/shopspring/decimal"

// Standing is the savings classification of a session.
type Standing string

const (
	GoodStanding    Standing = "good"
	NeedsAdjustment Standing = "shortfall"
)

// AdviceKind tags the Advice variant.
type AdviceKind string

const (
	AdviceGoodStanding  AdviceKind = "good_standing"
	AdviceShortfall     AdviceKind = "shortfall"
	AdviceReduceExpense AdviceKind = "reduce_expense"
	AdviceInsufficient  AdviceKind = "insufficient"
)

// Advice is one recommendation. Which payload fields are set depends on Kind:
//
//	good_standing, shortfall: SavingsPercent
//	reduce_expense:           Expense, Reduction, NewAmount
//	insufficient:             Deficit
type Advice struct {
	Kind           AdviceKind
	SavingsPercent decimal.Decimal
	Expense        string
	Reduction      decimal.Decimal
	NewAmount      decimal.Decimal
	Deficit        decimal.Decimal
}

// Message returns the human-readable headline for the advice.
func (a Advice) Message() string {
	switch a.Kind {
	case AdviceGoodStanding:
		return "Your spending habits are good!"
	case AdviceShortfall:
		return "Your savings are lower than the recommended 20%"
	case AdviceReduceExpense:
		return "Reduce spending"
	case AdviceInsufficient:
		return "You're spending more than you need to"
	}
	return string(a.Kind)
}
