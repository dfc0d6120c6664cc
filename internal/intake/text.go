package intake

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetwise/internal/budget"
	"github.com/theirongolddev/budgetwise/internal/catalog"
)

const incomeLabel = "Income"

// ParseText parses the chat text protocol: comma-separated "Label: value"
// pairs, Income first, then every catalog expense exactly once.
//
//	Income: 5000, Rent/Mortgage: 1500, Healthcare: 0, ...
func ParseText(text string, cat *catalog.Catalog) (budget.Input, error) {
	var fields []string
	for _, f := range strings.Split(text, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	if len(fields) < cat.Size()+1 {
		return budget.Input{}, &budget.ValidationError{
			Err:    budget.ErrIncompleteInput,
			Detail: fmt.Sprintf("got %d fields, want %d (Income plus %d expenses)", len(fields), cat.Size()+1, cat.Size()),
		}
	}

	label, value, ok := splitPair(fields[0])
	if !ok || !strings.EqualFold(label, incomeLabel) {
		return budget.Input{}, &budget.ValidationError{
			Err:    budget.ErrInvalidIncome,
			Field:  "income",
			Detail: fmt.Sprintf("first field must be %q, got %q", incomeLabel+": <amount>", fields[0]),
		}
	}
	income, err := decimal.NewFromString(value)
	if err != nil {
		return budget.Input{}, &budget.ValidationError{Err: budget.ErrInvalidIncome, Field: "income", Detail: fmt.Sprintf("not a number: %q", value)}
	}

	in := budget.Input{Income: income, Amounts: make(map[string]decimal.Decimal, cat.Size())}
	for _, f := range fields[1:] {
		label, value, ok := splitPair(f)
		if !ok {
			return budget.Input{}, &budget.ValidationError{Err: budget.ErrMalformedAmount, Field: f, Detail: `expected "Label: value"`}
		}
		entry, ok := cat.Lookup(label)
		if !ok {
			return budget.Input{}, &budget.ValidationError{Err: budget.ErrUnknownExpense, Field: label, Detail: "not in the expense catalog"}
		}
		amount, err := decimal.NewFromString(value)
		if err != nil {
			return budget.Input{}, &budget.ValidationError{Err: budget.ErrMalformedAmount, Field: entry.Name, Detail: fmt.Sprintf("not a number: %q", value)}
		}
		if _, dup := in.Amounts[entry.Name]; dup {
			return budget.Input{}, &budget.ValidationError{Err: budget.ErrDuplicateExpense, Field: entry.Name, Detail: "supplied more than once"}
		}
		in.Amounts[entry.Name] = amount
	}

	return budget.Validate(in, cat)
}

func splitPair(field string) (label, value string, ok bool) {
	i := strings.LastIndex(field, ":")
	if i < 0 {
		return "", "", false
	}
	return strings.TrimSpace(field[:i]), strings.TrimSpace(field[i+1:]), true
}

// Template returns a blank text-protocol message for users to fill in.
func Template(cat *catalog.Catalog) string {
	var b strings.Builder
	b.WriteString(incomeLabel + ": 0")
	for _, name := range cat.Names() {
		b.WriteString(",\n")
		b.WriteString(name)
		b.WriteString(": 0")
	}
	b.WriteString("\n")
	return b.String()
}

// FormatReply renders a result as a plain-text chat reply.
func FormatReply(res budget.Result) string {
	var b strings.Builder
	for _, a := range res.Advice {
		switch a.Kind {
		case budget.AdviceGoodStanding:
			fmt.Fprintf(&b, "%s You're saving %s%% of your income.\n", a.Message(), a.SavingsPercent.StringFixed(2))
		case budget.AdviceShortfall:
			fmt.Fprintf(&b, "%s.\nWe can adjust your spending to achieve this goal.\n", a.Message())
		case budget.AdviceReduceExpense:
			fmt.Fprintf(&b, "Suggestion: Reduce spending on %s by %s.\nNew amount: %s\n",
				a.Expense, a.Reduction.StringFixed(2), a.NewAmount.StringFixed(2))
		case budget.AdviceInsufficient:
			fmt.Fprintf(&b, "%s. Still short by %s.\n", a.Message(), a.Deficit.StringFixed(2))
		}
	}

	for _, e := range res.Expenses {
		if e.Amount.IsPositive() {
			fmt.Fprintf(&b, "%s - %s\n", e.Name, e.Amount.StringFixed(2))
		}
	}
	for _, s := range res.Breakdown {
		fmt.Fprintf(&b, "%s: %s%%\n", s.Category, s.Percent.StringFixed(2))
	}
	return b.String()
}
