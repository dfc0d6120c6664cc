package facts

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeclareModifyRetract(t *testing.T) {
	s := NewStore()

	h, err := s.Declare("expense", Fields{"name": "Pets", "amount": decimal.NewFromInt(40)})
	require.NoError(t, err)

	f, ok := s.Get(h)
	require.True(t, ok)
	assert.Equal(t, "Pets", f.String("name"))
	assert.True(t, f.Decimal("amount").Equal(decimal.NewFromInt(40)))
	assert.Equal(t, 0, f.Revision)

	require.NoError(t, s.Modify(h, Fields{"amount": decimal.NewFromInt(10)}))
	f, _ = s.Get(h)
	assert.Equal(t, h, f.Handle, "modify keeps identity")
	assert.Equal(t, 1, f.Revision)
	assert.True(t, f.Decimal("amount").Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "Pets", f.String("name"), "untouched fields survive")

	require.NoError(t, s.Retract(h))
	_, ok = s.Get(h)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())

	err = s.Modify(h, Fields{"amount": decimal.Zero})
	assert.True(t, errors.Is(err, ErrNoSuchFact))
	assert.True(t, errors.Is(s.Retract(h), ErrNoSuchFact))
}

func TestDeclare_RejectsMalformedShape(t *testing.T) {
	s := NewStore()

	_, err := s.Declare("", Fields{})
	assert.Error(t, err)

	_, err = s.Declare("expense", Fields{"amount": 12.5})
	assert.Error(t, err, "float values are not a supported field type")

	_, err = s.Declare("expense", Fields{"amount": decimal.NewFromInt(-1)})
	assert.Error(t, err)

	h, err := s.Declare("expense", Fields{"amount": decimal.NewFromInt(1)})
	require.NoError(t, err)
	assert.Error(t, s.Modify(h, Fields{"amount": decimal.NewFromInt(-5)}))
	assert.Equal(t, 1, s.Len())
}

func TestDeclare_CopiesFields(t *testing.T) {
	s := NewStore()
	fields := Fields{"name": "Pets"}
	h, err := s.Declare("expense", fields)
	require.NoError(t, err)

	fields["name"] = "Clothing"
	f, _ := s.Get(h)
	assert.Equal(t, "Pets", f.String("name"))

	f.Fields["name"] = "Electronics"
	f, _ = s.Get(h)
	assert.Equal(t, "Pets", f.String("name"), "views must not alias the store")
}

func TestQuery(t *testing.T) {
	s := NewStore()
	mustDeclare := func(kind Kind, fields Fields) Handle {
		t.Helper()
		h, err := s.Declare(kind, fields)
		require.NoError(t, err)
		return h
	}

	mustDeclare("income", Fields{"amount": decimal.NewFromInt(5000)})
	a := mustDeclare("expense", Fields{"name": "Rent/Mortgage", "category": "Needs", "amount": decimal.NewFromInt(1500)})
	b := mustDeclare("expense", Fields{"name": "Pets", "category": "Wants", "amount": decimal.Zero})
	c := mustDeclare("expense", Fields{"name": "Clothing", "category": "Wants", "amount": decimal.NewFromInt(90)})

	var got []Handle
	for f := range s.Query(Pattern{Kind: "expense"}) {
		got = append(got, f.Handle)
	}
	assert.Equal(t, []Handle{a, b, c}, got, "declaration order")

	got = nil
	for f := range s.Query(Pattern{Kind: "expense", Eq: Fields{"category": "Wants"}}) {
		got = append(got, f.Handle)
	}
	assert.Equal(t, []Handle{b, c}, got)

	zero, ok := s.First(Pattern{Kind: "expense"}.Where(DecimalIsZero("amount")))
	require.True(t, ok)
	assert.Equal(t, b, zero.Handle)

	assert.True(t, s.Exists(Pattern{Kind: "expense", Eq: Fields{"amount": decimal.RequireFromString("1500.00")}}),
		"decimal equality compares by value")
	assert.False(t, s.Exists(Pattern{Kind: "expense", Eq: Fields{"amount": 1500}}),
		"int never equals a decimal")
	assert.False(t, s.Exists(Pattern{Kind: "totals"}))
}

func TestQuery_LazyAndRetractSafe(t *testing.T) {
	s := NewStore()
	for i := 0; i < 5; i++ {
		_, err := s.Declare("counter", Fields{"n": i})
		require.NoError(t, err)
	}

	visited := 0
	for f := range s.Query(Pattern{Kind: "counter"}) {
		visited++
		if f.Int("n") == 0 {
			// retract a later fact while iterating
			require.NoError(t, s.Retract(f.Handle+1))
		}
		if visited == 3 {
			break
		}
	}
	assert.Equal(t, 3, visited)
	assert.Equal(t, 4, s.Len())
}

func TestIntEqualsField(t *testing.T) {
	s := NewStore()
	_, err := s.Declare("resolved", Fields{"count": 3, "expected": 17})
	require.NoError(t, err)

	p := Pattern{Kind: "resolved"}.Where(IntEqualsField("count", "expected"))
	assert.False(t, s.Exists(p))

	f, _ := s.First(Pattern{Kind: "resolved"})
	require.NoError(t, s.Modify(f.Handle, Fields{"count": 17}))
	assert.True(t, s.Exists(p))
}

func TestPatternWhere_DoesNotAlias(t *testing.T) {
	base := Pattern{Kind: "expense"}.Where(DecimalIsPositive("amount"))
	p1 := base.Where(func(Fact) bool { return true })
	p2 := base.Where(func(Fact) bool { return false })

	assert.Len(t, base.Tests, 1)
	assert.Len(t, p1.Tests, 2)
	assert.Len(t, p2.Tests, 2)

	s := NewStore()
	_, err := s.Declare("expense", Fields{"amount": decimal.NewFromInt(3)})
	require.NoError(t, err)
	assert.True(t, s.Exists(p1))
	assert.False(t, s.Exists(p2))
}
