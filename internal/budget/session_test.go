package budget

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/budgetwise/internal/catalog"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// input builds a complete Input: every catalog expense is present, the ones
// named in amounts get the given value and the rest are zero.
func input(income string, amounts map[string]string) Input {
	in := Input{Income: d(income), Amounts: map[string]decimal.Decimal{}}
	for _, name := range catalog.Default().Names() {
		in.Amounts[name] = decimal.Zero
	}
	for name, v := range amounts {
		in.Amounts[name] = d(v)
	}
	return in
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.Truef(t, got.Equal(d(want)), "%s = %s, want %s", msg, got, want)
}

func reductions(res Result) map[string]Advice {
	out := map[string]Advice{}
	for _, a := range res.Advice {
		if a.Kind == AdviceReduceExpense {
			out[a.Expense] = a
		}
	}
	return out
}

func TestScenarioA_GoodStanding(t *testing.T) {
	res, err := Run(input("5000", map[string]string{
		"Rent/Mortgage":  "1500",
		"Food/Groceries": "500",
		"Utilities":      "200",
		"Transportation": "300",
		"Restaurants":    "500",
	}))
	require.NoError(t, err)

	assertDecimal(t, "3000", res.TotalExpenses, "TotalExpenses")
	assertDecimal(t, "2000", res.Savings, "Savings")
	assertDecimal(t, "40", res.SavingsPercent, "SavingsPercent")
	assert.Equal(t, GoodStanding, res.Standing)

	require.Len(t, res.Advice, 1)
	assert.Equal(t, AdviceGoodStanding, res.Advice[0].Kind)
	assertDecimal(t, "40", res.Advice[0].SavingsPercent, "advice SavingsPercent")
	assert.Empty(t, reductions(res))
	assert.True(t, res.Stats.Halted)
}

func TestScenarioB_WantsLowFirst(t *testing.T) {
	res, err := Run(input("5000", map[string]string{
		"Rent/Mortgage":  "2000",
		"Food/Groceries": "600",
		"Utilities":      "300",
		"Insurance":      "200",
		"Healthcare":     "100",
		"Transportation": "400",
		"Clothing":       "200",
		"Restaurants":    "300",
		"Electronics":    "300",
		"Subscriptions":  "100",
	}))
	require.NoError(t, err)

	assertDecimal(t, "4500", res.TotalExpenses, "TotalExpenses")
	assertDecimal(t, "500", res.Savings, "Savings")
	assertDecimal(t, "10", res.SavingsPercent, "SavingsPercent")
	assert.Equal(t, NeedsAdjustment, res.Standing)

	require.Len(t, res.Advice, 3)
	assert.Equal(t, AdviceShortfall, res.Advice[0].Kind)

	// Low-priority Wants in catalog order: Restaurants, then Electronics.
	assert.Equal(t, AdviceReduceExpense, res.Advice[1].Kind)
	assert.Equal(t, "Restaurants", res.Advice[1].Expense)
	assertDecimal(t, "300", res.Advice[1].Reduction, "Restaurants reduction")
	assertDecimal(t, "0", res.Advice[1].NewAmount, "Restaurants new amount")

	assert.Equal(t, "Electronics", res.Advice[2].Expense)
	assertDecimal(t, "200", res.Advice[2].Reduction, "Electronics reduction")
	assertDecimal(t, "100", res.Advice[2].NewAmount, "Electronics new amount")

	assertDecimal(t, "500", res.TotalReduction(), "TotalReduction")
	assertDecimal(t, "4000", res.AdjustedTotal(), "AdjustedTotal")
}

func TestScenarioC_NeedsOnly(t *testing.T) {
	amounts := map[string]string{
		"Rent/Mortgage":  "500",
		"Food/Groceries": "300",
		"Utilities":      "190",
	}

	t.Run("default policy cuts needs", func(t *testing.T) {
		res, err := Run(input("1000", amounts))
		require.NoError(t, err)

		assertDecimal(t, "10", res.Savings, "Savings")
		assertDecimal(t, "1", res.SavingsPercent, "SavingsPercent")
		assert.Equal(t, NeedsAdjustment, res.Standing)

		cuts := reductions(res)
		require.Len(t, cuts, 1)
		assertDecimal(t, "190", cuts["Rent/Mortgage"].Reduction, "Rent/Mortgage reduction")
		assertDecimal(t, "310", cuts["Rent/Mortgage"].NewAmount, "Rent/Mortgage new amount")
		for _, a := range res.Advice {
			assert.NotEqual(t, AdviceInsufficient, a.Kind)
		}
	})

	t.Run("protected needs are insufficient", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Policy = ProtectNeedsPolicy()
		res, err := RunWithConfig(input("1000", amounts), cfg)
		require.NoError(t, err)

		assert.Empty(t, reductions(res))
		last := res.Advice[len(res.Advice)-1]
		assert.Equal(t, AdviceInsufficient, last.Kind)
		assertDecimal(t, "190", last.Deficit, "Deficit")
		assertDecimal(t, "990", res.AdjustedTotal(), "AdjustedTotal")
		assert.True(t, res.Stats.Halted)
	})
}

func TestPriorityOrder_LowMediumHigh(t *testing.T) {
	// Every Wants tier holds a little, Needs hold the rest. The deficit is
	// large enough to empty Wants and dig into Needs.
	res, err := Run(input("1000", map[string]string{
		"Pets":          "50",  // Wants/Medium
		"Subscriptions": "40",  // Wants/Low
		"Restaurants":   "30",  // Wants/Low
		"Rent/Mortgage": "900", // Needs/High
	}))
	require.NoError(t, err)

	var order []string
	for _, a := range res.Advice {
		if a.Kind == AdviceReduceExpense {
			order = append(order, a.Expense)
		}
	}
	assert.Equal(t, []string{"Restaurants", "Subscriptions", "Pets", "Rent/Mortgage"}, order)

	// deficit = 200 - (1000 - 1020) = 220; Wants yield 120, rent 100
	assertDecimal(t, "220", res.TotalReduction(), "TotalReduction")
	assertDecimal(t, "800", reductions(res)["Rent/Mortgage"].NewAmount, "rent new amount")
}

func TestClassificationBoundary(t *testing.T) {
	res, err := Run(input("1000", map[string]string{"Rent/Mortgage": "800"}))
	require.NoError(t, err)
	assertDecimal(t, "20", res.SavingsPercent, "SavingsPercent")
	assert.Equal(t, GoodStanding, res.Standing, "exactly 20%% is good")

	res, err = Run(input("100000", map[string]string{"Rent/Mortgage": "80001"}))
	require.NoError(t, err)
	assertDecimal(t, "19.999", res.SavingsPercent, "SavingsPercent")
	assert.Equal(t, NeedsAdjustment, res.Standing, "19.999%% is a shortfall")

	res, err = Run(input("3", map[string]string{"Rent/Mortgage": "2.4000000000000001"}))
	require.NoError(t, err)
	assert.Equal(t, NeedsAdjustment, res.Standing, "classification is exact, not rounded")
}

func TestBreakdown_PercentOfTotalExpenses(t *testing.T) {
	res, err := Run(input("9000", map[string]string{
		"Rent/Mortgage": "1000",
		"Pets":          "1000",
		"Restaurants":   "1000",
	}))
	require.NoError(t, err)

	require.Len(t, res.Breakdown, 2)
	assert.Equal(t, catalog.Needs, res.Breakdown[0].Category)
	assert.Equal(t, catalog.Wants, res.Breakdown[1].Category)
	assertDecimal(t, "1000", res.Breakdown[0].Total, "Needs total")
	assertDecimal(t, "2000", res.Breakdown[1].Total, "Wants total")

	sum := res.Breakdown[0].Percent.Add(res.Breakdown[1].Percent)
	assert.InDelta(t, 100.0, sum.InexactFloat64(), 1e-9)
	assert.InDelta(t, 33.3333, res.Breakdown[0].Percent.InexactFloat64(), 1e-3)
}

func TestBreakdown_ZeroExpenses(t *testing.T) {
	res, err := Run(input("2500", nil))
	require.NoError(t, err)
	assert.Equal(t, GoodStanding, res.Standing)
	assertDecimal(t, "100", res.SavingsPercent, "SavingsPercent")
	for _, s := range res.Breakdown {
		assert.True(t, s.Percent.IsZero(), "%s percent = %s", s.Category, s.Percent)
	}
}

func TestBreakdown_UsesPreAdjustmentAmounts(t *testing.T) {
	res, err := Run(input("1000", map[string]string{
		"Rent/Mortgage": "500",
		"Restaurants":   "500",
	}))
	require.NoError(t, err)
	require.Equal(t, NeedsAdjustment, res.Standing)

	for _, s := range res.Breakdown {
		assertDecimal(t, "50", s.Percent, string(s.Category)+" percent")
	}
}

func TestRun_Idempotent(t *testing.T) {
	in := input("4200.50", map[string]string{
		"Rent/Mortgage": "1800.25",
		"Utilities":     "210.10",
		"Clothing":      "333.33",
		"Services":      "1500",
	})
	a, err := Run(in)
	require.NoError(t, err)
	b, err := Run(in)
	require.NoError(t, err)

	assert.NotEqual(t, a.SessionID, b.SessionID)
	assert.True(t, a.TotalExpenses.Equal(b.TotalExpenses))
	assert.True(t, a.SavingsPercent.Equal(b.SavingsPercent))
	require.Equal(t, len(a.Breakdown), len(b.Breakdown))
	for i := range a.Breakdown {
		assert.True(t, a.Breakdown[i].Percent.Equal(b.Breakdown[i].Percent))
	}
	require.Equal(t, len(a.Advice), len(b.Advice))
	for i := range a.Advice {
		assert.Equal(t, a.Advice[i].Expense, b.Advice[i].Expense)
		assert.True(t, a.Advice[i].Reduction.Equal(b.Advice[i].Reduction))
	}
}

func TestRun_Invariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	names := catalog.Default().Names()

	for i := 0; i < 200; i++ {
		in := Input{Income: decimal.NewFromInt(int64(rng.IntN(10_000) + 1)), Amounts: map[string]decimal.Decimal{}}
		sum := decimal.Zero
		for _, name := range names {
			amt := decimal.Zero
			if rng.IntN(3) > 0 {
				amt = decimal.New(int64(rng.IntN(200_000)), -2)
			}
			in.Amounts[name] = amt
			sum = sum.Add(amt)
		}

		res, err := Run(in)
		require.NoError(t, err)

		require.True(t, res.TotalExpenses.Equal(sum), "total = sum of amounts")
		require.True(t, res.Savings.Equal(in.Income.Sub(sum)), "savings = income - total")

		for _, e := range res.Expenses {
			require.False(t, e.Amount.IsNegative(), "%s went negative", e.Name)
		}

		if res.Standing == GoodStanding {
			require.True(t, res.TotalReduction().IsZero())
			continue
		}

		target := in.Income.Mul(d("0.2"))
		deficit := target.Sub(res.Savings)
		insufficient := res.Advice[len(res.Advice)-1].Kind == AdviceInsufficient
		require.True(t, res.TotalReduction().LessThanOrEqual(deficit))
		if !insufficient {
			require.True(t, res.TotalReduction().Equal(deficit),
				"reductions %s != deficit %s", res.TotalReduction(), deficit)
		}
		require.True(t, res.AdjustedTotal().Equal(sum.Sub(res.TotalReduction())))
	}
}

func TestRun_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want error
	}{
		{"zero income", input("0", nil), ErrInvalidIncome},
		{"negative income", input("-10", nil), ErrInvalidIncome},
		{"negative amount", input("100", map[string]string{"Pets": "-1"}), ErrMalformedAmount},
		{"unknown expense", func() Input {
			in := input("100", nil)
			in.Amounts["Yacht"] = decimal.NewFromInt(1)
			return in
		}(), ErrUnknownExpense},
		{"duplicate by case", func() Input {
			in := input("100", nil)
			in.Amounts["pets"] = decimal.NewFromInt(1)
			return in
		}(), ErrDuplicateExpense},
		{"missing expense", func() Input {
			in := input("100", nil)
			delete(in.Amounts, "Childcare")
			return in
		}(), ErrIncompleteInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var verr *ValidationError
			assert.True(t, errors.As(err, &verr))
			assert.NotEmpty(t, Code(err))
		})
	}
}

func TestValidate_CanonicalNames(t *testing.T) {
	in := input("100", nil)
	delete(in.Amounts, "Travel & Entertainment")
	in.Amounts["  travel & ENTERTAINMENT"] = d("12.5")

	out, err := Validate(in, catalog.Default())
	require.NoError(t, err)
	assertDecimal(t, "12.5", out.Amounts["Travel & Entertainment"], "canonical amount")
	assert.Len(t, out.Amounts, catalog.Default().Size())
}

func TestEngineRuleOrder(t *testing.T) {
	rules := append(calculatorRules(), adjusterRules(DefaultPolicy())...)
	for _, r := range rules {
		if r.Group == groupAdjuster {
			assert.Less(t, r.Salience, salienceBreakdown, "%s must run after the calculator", r.Name)
		}
	}
}
