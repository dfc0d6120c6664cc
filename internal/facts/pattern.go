package facts

import "github.com/shopspring/decimal"

// Pattern is a conjunction of equality tests and predicates over one fact.
// An empty Kind matches facts of any kind.
type Pattern struct {
	Kind  Kind
	Eq    Fields
	Tests []func(Fact) bool
}

// Where returns a copy of p with an extra predicate.
func (p Pattern) Where(test func(Fact) bool) Pattern {
	tests := make([]func(Fact) bool, 0, len(p.Tests)+1)
	tests = append(tests, p.Tests...)
	p.Tests = append(tests, test)
	return p
}

func (p Pattern) matches(f Fact) bool {
	for k, want := range p.Eq {
		got, ok := f.Fields[k]
		if !ok || !equal(got, want) {
			return false
		}
	}
	for _, test := range p.Tests {
		if !test(f) {
			return false
		}
	}
	return true
}

func equal(a, b any) bool {
	da, aIsDec := a.(decimal.Decimal)
	db, bIsDec := b.(decimal.Decimal)
	if aIsDec || bIsDec {
		return aIsDec && bIsDec && da.Equal(db)
	}
	return a == b
}

// DecimalIsZero is a predicate for "field == 0".
func DecimalIsZero(key string) func(Fact) bool {
	return func(f Fact) bool { return f.Decimal(key).IsZero() }
}

// DecimalIsPositive is a predicate for "field > 0".
func DecimalIsPositive(key string) func(Fact) bool {
	return func(f Fact) bool { return f.Decimal(key).IsPositive() }
}

// IntEqualsField is a predicate comparing two int fields of the same fact,
// such as "count == expected".
func IntEqualsField(key, other string) func(Fact) bool {
	return func(f Fact) bool { return f.Int(key) == f.Int(other) }
}
