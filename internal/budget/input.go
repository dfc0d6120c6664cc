package budget

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetwise/internal/catalog"
)

// Boundary validation failures. A session never starts on input that fails
// any of these.
var (
	ErrInvalidIncome    = errors.New("invalid income")
	ErrMalformedAmount  = errors.New("malformed amount")
	ErrIncompleteInput  = errors.New("incomplete input")
	ErrUnknownExpense   = errors.New("unknown expense")
	ErrDuplicateExpense = errors.New("duplicate expense")
)

// ValidationError describes which field failed validation. It unwraps to
// one of the sentinel errors above.
type ValidationError struct {
	Err    error
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: %s", e.Err, e.Detail)
	}
	return fmt.Sprintf("%v: %s: %s", e.Err, e.Field, e.Detail)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Input is a normalized budget request: monthly income and one amount per
// catalog expense, keyed by expense name.
type Input struct {
	Income  decimal.Decimal
	Amounts map[string]decimal.Decimal
}

// Validate checks in against the catalog and returns a copy whose keys are
// the canonical catalog names.
func Validate(in Input, cat *catalog.Catalog) (Input, error) {
	if !in.Income.IsPositive() {
		return Input{}, &ValidationError{
			Err:    ErrInvalidIncome,
			Field:  "income",
			Detail: fmt.Sprintf("must be greater than zero, got %s", in.Income),
		}
	}

	keys := make([]string, 0, len(in.Amounts))
	for k := range in.Amounts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := Input{Income: in.Income, Amounts: make(map[string]decimal.Decimal, cat.Size())}
	for _, k := range keys {
		entry, ok := cat.Lookup(k)
		if !ok {
			return Input{}, &ValidationError{Err: ErrUnknownExpense, Field: k, Detail: "not in the expense catalog"}
		}
		amount := in.Amounts[k]
		if amount.IsNegative() {
			return Input{}, &ValidationError{
				Err:    ErrMalformedAmount,
				Field:  entry.Name,
				Detail: fmt.Sprintf("must not be negative, got %s", amount),
			}
		}
		if _, dup := out.Amounts[entry.Name]; dup {
			return Input{}, &ValidationError{Err: ErrDuplicateExpense, Field: entry.Name, Detail: "supplied more than once"}
		}
		out.Amounts[entry.Name] = amount
	}

	if len(out.Amounts) < cat.Size() {
		var missing []string
		for _, name := range cat.Names() {
			if _, ok := out.Amounts[name]; !ok {
				missing = append(missing, name)
			}
		}
		return Input{}, &ValidationError{
			Err:    ErrIncompleteInput,
			Detail: fmt.Sprintf("%d of %d expenses missing: %s", len(missing), cat.Size(), strings.Join(missing, ", ")),
		}
	}

	return out, nil
}

// Code returns a stable machine-readable code for a validation failure, or
// "" when err is not one.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidIncome):
		return "invalid_income"
	case errors.Is(err, ErrMalformedAmount):
		return "malformed_amount"
	case errors.Is(err, ErrIncompleteInput):
		return "incomplete_input"
	case errors.Is(err, ErrUnknownExpense):
		return "unknown_expense"
	case errors.Is(err, ErrDuplicateExpense):
		return "duplicate_expense"
	}
	return ""
}
