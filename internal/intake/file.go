package intake

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetwise/internal/budget"
	"github.com/theirongolddev/budgetwise/internal/catalog"
)

// budgetFile is the on-disk budget document.
//
//	income = 5000
//	fill_missing = true
//
//	[expenses]
//	"Rent/Mortgage" = 1500
//	Restaurants = 220.50
type budgetFile struct {
	Income      any            `toml:"income"`
	FillMissing bool           `toml:"fill_missing"`
	Expenses    map[string]any `toml:"expenses"`
}

// LoadFile reads a TOML budget file and converts it to a validated Input.
func LoadFile(path string, cat *catalog.Catalog) (budget.Input, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the local user
	if err != nil {
		return budget.Input{}, fmt.Errorf("reading budget file: %w", err)
	}
	return ParseFile(data, cat)
}

// ParseFile converts a TOML budget document to a validated Input.
func ParseFile(data []byte, cat *catalog.Catalog) (budget.Input, error) {
	var doc budgetFile
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return budget.Input{}, fmt.Errorf("parsing budget file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return budget.Input{}, fmt.Errorf("parsing budget file: unknown keys %s", strings.Join(keys, ", "))
	}

	income, err := toDecimal(doc.Income)
	if err != nil {
		return budget.Input{}, &budget.ValidationError{Err: budget.ErrInvalidIncome, Field: "income", Detail: err.Error()}
	}

	in := budget.Input{Income: income, Amounts: make(map[string]decimal.Decimal, cat.Size())}
	for name, raw := range doc.Expenses {
		amount, err := toDecimal(raw)
		if err != nil {
			return budget.Input{}, &budget.ValidationError{Err: budget.ErrMalformedAmount, Field: name, Detail: err.Error()}
		}
		in.Amounts[name] = amount
	}

	if doc.FillMissing {
		present := make(map[string]bool, len(in.Amounts))
		for name := range in.Amounts {
			if e, ok := cat.Lookup(name); ok {
				present[e.Name] = true
			}
		}
		for _, name := range cat.Names() {
			if !present[name] {
				in.Amounts[name] = decimal.Zero
			}
		}
	}

	return budget.Validate(in, cat)
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case int64:
		return decimal.NewFromInt(n), nil
	case float64:
		return decimal.NewFromFloat(n), nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("not a number: %q", n)
		}
		return d, nil
	case nil:
		return decimal.Decimal{}, errors.New("missing value")
	default:
		return decimal.Decimal{}, fmt.Errorf("not a number: %v", v)
	}
}
