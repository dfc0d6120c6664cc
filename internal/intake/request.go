// Package intake turns external request formats (JSON requests, the chat
// text protocol, TOML budget files) into a validated budget.Input, and
// budget results back into those formats.
package intake

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetwise/internal/budget"
	"github.com/theirongolddev/budgetwise/internal/catalog"
)

// ExpenseItem is one expense in a JSON request. Older clients put the
// expense name in "category"; "expense" wins when both are set.
type ExpenseItem struct {
	Expense  string          `json:"expense,omitempty"`
	Category string          `json:"category,omitempty"`
	Amount   json.RawMessage `json:"amount"`
	Priority string          `json:"priority,omitempty"`
}

// Request is the JSON body accepted by the budget endpoint.
type Request struct {
	Income   json.RawMessage `json:"income"`
	Expenses []ExpenseItem   `json:"expenses"`
}

// DecodeRequest reads a JSON request and converts it to a validated Input.
func DecodeRequest(r io.Reader, cat *catalog.Catalog) (budget.Input, error) {
	var req Request
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return budget.Input{}, &budget.ValidationError{
			Err:    budget.ErrMalformedAmount,
			Detail: fmt.Sprintf("decoding request: %v", err),
		}
	}
	return req.Input(cat)
}

// Input converts the request to a validated Input.
func (req Request) Input(cat *catalog.Catalog) (budget.Input, error) {
	income, err := parseNumber(req.Income)
	if err != nil {
		return budget.Input{}, &budget.ValidationError{Err: budget.ErrInvalidIncome, Field: "income", Detail: err.Error()}
	}

	in := budget.Input{Income: income, Amounts: make(map[string]decimal.Decimal, len(req.Expenses))}
	for i, item := range req.Expenses {
		name := strings.TrimSpace(item.Expense)
		if name == "" {
			name = strings.TrimSpace(item.Category)
		}
		if name == "" {
			return budget.Input{}, &budget.ValidationError{
				Err:    budget.ErrUnknownExpense,
				Field:  fmt.Sprintf("expenses[%d]", i),
				Detail: "missing expense name",
			}
		}
		entry, ok := cat.Lookup(name)
		if !ok {
			return budget.Input{}, &budget.ValidationError{Err: budget.ErrUnknownExpense, Field: name, Detail: "not in the expense catalog"}
		}
		if item.Priority != "" {
			if _, ok := catalog.ParsePriority(item.Priority); !ok {
				return budget.Input{}, &budget.ValidationError{
					Err:    budget.ErrMalformedAmount,
					Field:  entry.Name,
					Detail: fmt.Sprintf("unknown priority %q", item.Priority),
				}
			}
		}
		amount, err := parseNumber(item.Amount)
		if err != nil {
			return budget.Input{}, &budget.ValidationError{Err: budget.ErrMalformedAmount, Field: entry.Name, Detail: err.Error()}
		}
		if _, dup := in.Amounts[entry.Name]; dup {
			return budget.Input{}, &budget.ValidationError{Err: budget.ErrDuplicateExpense, Field: entry.Name, Detail: "supplied more than once"}
		}
		in.Amounts[entry.Name] = amount
	}

	return budget.Validate(in, cat)
}

// parseNumber accepts a JSON number or a numeric string.
func parseNumber(raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Decimal{}, errors.New("missing value")
	}
	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Decimal{}, fmt.Errorf("not a number: %s", raw)
		}
	}
	v, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("not a number: %s", raw)
	}
	return v, nil
}
