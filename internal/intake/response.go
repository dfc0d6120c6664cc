package intake

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetwise/internal/budget"
)

// Breakdown is one category share in a response.
type Breakdown struct {
	Category string  `json:"category"`
	Percent  float64 `json:"percent"`
}

// AdviceItem is one advice record in a response. Only the payload fields of
// its kind are set.
type AdviceItem struct {
	Advice         string   `json:"advice"`
	Kind           string   `json:"kind"`
	SavingsPercent *float64 `json:"savings_percent,omitempty"`
	Expense        string   `json:"expense,omitempty"`
	Reduction      *float64 `json:"reduction,omitempty"`
	NewAmount      *float64 `json:"new_amount,omitempty"`
	Deficit        *float64 `json:"deficit,omitempty"`
}

// Response is the JSON body returned by the budget endpoint.
type Response struct {
	SessionID         string       `json:"session_id"`
	Classification    string       `json:"classification"`
	TotalExpenses     float64      `json:"total_expenses"`
	Savings           float64      `json:"savings"`
	SavingsPercent    float64      `json:"savings_percent"`
	ExpenseBreakdowns []Breakdown  `json:"expense_breakdowns"`
	Advice            []AdviceItem `json:"advice"`
}

// ErrorResponse is returned for rejected requests.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func money(v decimal.Decimal) float64   { return v.Round(2).InexactFloat64() }
func percent(v decimal.Decimal) float64 { return v.Round(1).InexactFloat64() }

func ptr(v float64) *float64 { return &v }

// NewResponse renders a session result, rounding money to cents and
// percentages to one decimal place.
func NewResponse(res budget.Result) Response {
	out := Response{
		SessionID:         res.SessionID,
		Classification:    string(res.Standing),
		TotalExpenses:     money(res.TotalExpenses),
		Savings:           money(res.Savings),
		SavingsPercent:    percent(res.SavingsPercent),
		ExpenseBreakdowns: make([]Breakdown, 0, len(res.Breakdown)),
		Advice:            make([]AdviceItem, 0, len(res.Advice)),
	}

	for _, s := range res.Breakdown {
		out.ExpenseBreakdowns = append(out.ExpenseBreakdowns, Breakdown{
			Category: string(s.Category),
			Percent:  percent(s.Percent),
		})
	}

	for _, a := range res.Advice {
		item := AdviceItem{Advice: a.Message(), Kind: string(a.Kind)}
		switch a.Kind {
		case budget.AdviceGoodStanding, budget.AdviceShortfall:
			item.SavingsPercent = ptr(percent(a.SavingsPercent))
		case budget.AdviceReduceExpense:
			item.Expense = a.Expense
			item.Reduction = ptr(money(a.Reduction))
			item.NewAmount = ptr(money(a.NewAmount))
		case budget.AdviceInsufficient:
			item.Deficit = ptr(money(a.Deficit))
		}
		out.Advice = append(out.Advice, item)
	}

	return out
}
