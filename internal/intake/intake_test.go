package intake

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/budgetwise/internal/budget"
	"github.com/theirongolddev/budgetwise/internal/catalog"
)

func fullText(income string, amounts map[string]string) string {
	parts := []string{"Income: " + income}
	for _, name := range catalog.Default().Names() {
		v := amounts[name]
		if v == "" {
			v = "0"
		}
		parts = append(parts, name+": "+v)
	}
	return strings.Join(parts, ", ")
}

func TestParseText(t *testing.T) {
	cat := catalog.Default()
	in, err := ParseText(fullText("5000", map[string]string{"Rent/Mortgage": "1500", "Restaurants": "220.50"}), cat)
	require.NoError(t, err)

	assert.True(t, in.Income.Equal(decimal.NewFromInt(5000)))
	assert.Len(t, in.Amounts, cat.Size())
	assert.True(t, in.Amounts["Restaurants"].Equal(decimal.RequireFromString("220.5")))
	assert.True(t, in.Amounts["Healthcare"].IsZero())
}

func TestParseTextTemplateRoundTrip(t *testing.T) {
	cat := catalog.Default()
	tmpl := strings.Replace(Template(cat), "Income: 0", "Income: 100", 1)
	in, err := ParseText(tmpl, cat)
	require.NoError(t, err)
	assert.Len(t, in.Amounts, cat.Size())
}

func TestParseTextErrors(t *testing.T) {
	cat := catalog.Default()
	full := fullText("5000", nil)

	tests := []struct {
		name string
		text string
		want error
	}{
		{"too few fields", "Income: 5000, Rent/Mortgage: 100", budget.ErrIncompleteInput},
		{"zero income", fullText("0", nil), budget.ErrInvalidIncome},
		{"negative income", fullText("-10", nil), budget.ErrInvalidIncome},
		{"income not first", strings.Replace(full, "Income: 5000", "Salary: 5000", 1), budget.ErrInvalidIncome},
		{"unknown label", strings.Replace(full, "Pets: 0", "Yachts: 0", 1), budget.ErrUnknownExpense},
		{"bad amount", strings.Replace(full, "Pets: 0", "Pets: lots", 1), budget.ErrMalformedAmount},
		{"negative amount", strings.Replace(full, "Pets: 0", "Pets: -5", 1), budget.ErrMalformedAmount},
		{"duplicate", strings.Replace(full, "Pets: 0", "Clothing: 0", 1), budget.ErrDuplicateExpense},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseText(tt.text, cat)
			require.Error(t, err)
			assert.Truef(t, errors.Is(err, tt.want), "err = %v, want %v", err, tt.want)
		})
	}
}

func TestDecodeRequest(t *testing.T) {
	cat := catalog.Default()
	body := `{"income": 5000, "expenses": [
		{"expense": "Rent/Mortgage", "amount": 1500, "priority": "High"},
		{"category": "restaurants", "amount": "220.50"}
	]}`

	// Only two expenses: the rest are missing.
	_, err := DecodeRequest(strings.NewReader(body), cat)
	require.ErrorIs(t, err, budget.ErrIncompleteInput)

	req := Request{Income: json.RawMessage(`"5000"`)}
	for _, name := range cat.Names() {
		req.Expenses = append(req.Expenses, ExpenseItem{Expense: name, Amount: json.RawMessage(`0`)})
	}
	req.Expenses[0].Amount = json.RawMessage(`1500`)
	data, err := json.Marshal(req)
	require.NoError(t, err)

	in, err := DecodeRequest(strings.NewReader(string(data)), cat)
	require.NoError(t, err)
	assert.True(t, in.Income.Equal(decimal.NewFromInt(5000)))
	assert.True(t, in.Amounts[cat.Names()[0]].Equal(decimal.NewFromInt(1500)))
}

func TestDecodeRequestErrors(t *testing.T) {
	cat := catalog.Default()
	tests := []struct {
		name string
		body string
		want string
	}{
		{"not json", `{income`, "malformed_amount"},
		{"unknown field", `{"income": 1, "bonus": 2}`, "malformed_amount"},
		{"missing income", `{"expenses": []}`, "invalid_income"},
		{"income text", `{"income": "lots"}`, "invalid_income"},
		{"unknown expense", `{"income": 1, "expenses": [{"expense": "Yachts", "amount": 1}]}`, "unknown_expense"},
		{"nameless expense", `{"income": 1, "expenses": [{"amount": 1}]}`, "unknown_expense"},
		{"bad priority", `{"income": 1, "expenses": [{"expense": "Pets", "amount": 1, "priority": "urgent"}]}`, "malformed_amount"},
		{"bad amount", `{"income": 1, "expenses": [{"expense": "Pets", "amount": true}]}`, "malformed_amount"},
		{"duplicate", `{"income": 1, "expenses": [{"expense": "Pets", "amount": 1}, {"category": "pets", "amount": 2}]}`, "duplicate_expense"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRequest(strings.NewReader(tt.body), cat)
			require.Error(t, err)
			assert.Equal(t, tt.want, budget.Code(err))
		})
	}
}

func TestParseFile(t *testing.T) {
	cat := catalog.Default()
	doc := `
income = 5000
fill_missing = true

[expenses]
"Rent/Mortgage" = 1500
Restaurants = 220.50
Pets = "40"
`
	in, err := ParseFile([]byte(doc), cat)
	require.NoError(t, err)
	assert.Len(t, in.Amounts, cat.Size())
	assert.True(t, in.Amounts["Restaurants"].Equal(decimal.RequireFromString("220.5")))
	assert.True(t, in.Amounts["Pets"].Equal(decimal.NewFromInt(40)))

	_, err = ParseFile([]byte("income = 5000\n[expenses]\nPets = 1\n"), cat)
	require.ErrorIs(t, err, budget.ErrIncompleteInput)

	_, err = ParseFile([]byte("income = 5000\nbonus = 1\n"), cat)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown keys")

	_, err = ParseFile([]byte("fill_missing = true\n"), cat)
	require.ErrorIs(t, err, budget.ErrInvalidIncome)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "budget.toml")
	require.NoError(t, os.WriteFile(path, []byte("income = 100\nfill_missing = true\n"), 0o600))

	in, err := LoadFile(path, catalog.Default())
	require.NoError(t, err)
	assert.True(t, in.Income.Equal(decimal.NewFromInt(100)))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.toml"), catalog.Default())
	require.Error(t, err)
}

func runText(t *testing.T, text string) budget.Result {
	t.Helper()
	in, err := ParseText(text, catalog.Default())
	require.NoError(t, err)
	res, err := budget.Run(in)
	require.NoError(t, err)
	return res
}

func TestNewResponseShortfall(t *testing.T) {
	res := runText(t, fullText("5000", map[string]string{
		"Rent/Mortgage":  "2000",
		"Food/Groceries": "800",
		"Utilities":      "400",
		"Transportation": "500",
		"Restaurants":    "300",
		"Electronics":    "500",
	}))
	resp := NewResponse(res)

	assert.Equal(t, "shortfall", resp.Classification)
	assert.NotEmpty(t, resp.SessionID)
	assert.InDelta(t, 4500.0, resp.TotalExpenses, 0.001)

	require.Len(t, resp.Advice, 3)
	assert.Equal(t, "shortfall", resp.Advice[0].Kind)
	assert.Equal(t, "Restaurants", resp.Advice[1].Expense)
	require.NotNil(t, resp.Advice[1].NewAmount)
	assert.InDelta(t, 0.0, *resp.Advice[1].NewAmount, 0.001)
	assert.Equal(t, "Electronics", resp.Advice[2].Expense)
	assert.InDelta(t, 200.0, *resp.Advice[2].Reduction, 0.001)

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"new_amount":0`)
	assert.Contains(t, string(data), `"expense_breakdowns"`)
}

func TestNewResponseRounding(t *testing.T) {
	res := runText(t, fullText("3000", map[string]string{
		"Rent/Mortgage": "100",
		"Restaurants":   "100",
		"Pets":          "100",
	}))
	resp := NewResponse(res)

	require.Len(t, resp.ExpenseBreakdowns, 2)
	assert.Equal(t, "Needs", resp.ExpenseBreakdowns[0].Category)
	assert.InDelta(t, 33.3, resp.ExpenseBreakdowns[0].Percent, 1e-9)
	assert.InDelta(t, 66.7, resp.ExpenseBreakdowns[1].Percent, 1e-9)
	assert.InDelta(t, 90.0, resp.SavingsPercent, 1e-9)
}

func TestFormatReply(t *testing.T) {
	good := FormatReply(runText(t, fullText("5000", map[string]string{"Rent/Mortgage": "1500"})))
	assert.Contains(t, good, "Your spending habits are good! You're saving 70.00% of your income.")
	assert.Contains(t, good, "Rent/Mortgage - 1500.00")

	short := FormatReply(runText(t, fullText("1000", map[string]string{"Restaurants": "900"})))
	assert.Contains(t, short, "Your savings are lower than the recommended 20%")
	assert.Contains(t, short, fmt.Sprintf("Suggestion: Reduce spending on Restaurants by %s.", "100.00"))
	assert.Contains(t, short, "New amount: 800.00")
}
