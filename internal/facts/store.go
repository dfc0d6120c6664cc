// Package facts implements the working memory used by the rule engine: a set
// of typed facts addressable by stable handles.
package facts

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"sort"

	"github.com/shopspring/decimal"
)

// Handle identifies a fact for its whole lifetime in a store.
type Handle uint64

// Kind names the role of a fact (income, expense, totals...).
type Kind string

// Fields holds the named attributes of a fact. Values must be string, int,
// bool or decimal.Decimal.
type Fields map[string]any

// ErrNoSuchFact is returned when a handle does not address a live fact.
var ErrNoSuchFact = errors.New("no such fact")

// Fact is a read-only view of a stored fact.
type Fact struct {
	Handle   Handle
	Kind     Kind
	Revision int
	Fields   Fields
}

// String returns a string field, or "" when absent.
func (f Fact) String(key string) string {
	s, _ := f.Fields[key].(string)
	return s
}

// Int returns an int field, or 0 when absent.
func (f Fact) Int(key string) int {
	n, _ := f.Fields[key].(int)
	return n
}

// Bool returns a bool field, or false when absent.
func (f Fact) Bool(key string) bool {
	b, _ := f.Fields[key].(bool)
	return b
}

// Decimal returns a decimal field, or zero when absent.
func (f Fact) Decimal(key string) decimal.Decimal {
	d, _ := f.Fields[key].(decimal.Decimal)
	return d
}

// Has reports whether the fact carries the named field.
func (f Fact) Has(key string) bool {
	_, ok := f.Fields[key]
	return ok
}

type entry struct {
	kind     Kind
	revision int
	fields   Fields
}

// Store is a single session's working memory. It is not safe for concurrent
// use; a session owns its store exclusively.
type Store struct {
	next    Handle
	entries map[Handle]*entry
}

// NewStore returns an empty working memory.
func NewStore() *Store {
	return &Store{entries: make(map[Handle]*entry)}
}

// Declare inserts a new fact and returns its handle.
func (s *Store) Declare(kind Kind, fields Fields) (Handle, error) {
	if kind == "" {
		return 0, errors.New("declaring fact: empty kind")
	}
	if err := checkFields(fields); err != nil {
		return 0, fmt.Errorf("declaring %s fact: %w", kind, err)
	}
	stored := maps.Clone(fields)
	if stored == nil {
		stored = Fields{}
	}
	s.next++
	s.entries[s.next] = &entry{kind: kind, fields: stored}
	return s.next, nil
}

// Modify replaces the named fields of a fact in place. The handle is kept
// and the revision advances, so rules bound to the old revision may match
// again.
func (s *Store) Modify(h Handle, updates Fields) error {
	e, ok := s.entries[h]
	if !ok {
		return fmt.Errorf("modifying fact %d: %w", h, ErrNoSuchFact)
	}
	if err := checkFields(updates); err != nil {
		return fmt.Errorf("modifying %s fact %d: %w", e.kind, h, err)
	}
	for k, v := range updates {
		e.fields[k] = v
	}
	e.revision++
	return nil
}

// Retract removes a fact.
func (s *Store) Retract(h Handle) error {
	if _, ok := s.entries[h]; !ok {
		return fmt.Errorf("retracting fact %d: %w", h, ErrNoSuchFact)
	}
	delete(s.entries, h)
	return nil
}

// Get returns the fact for a handle.
func (s *Store) Get(h Handle) (Fact, bool) {
	e, ok := s.entries[h]
	if !ok {
		return Fact{}, false
	}
	return s.view(h, e), true
}

// Len returns the number of live facts.
func (s *Store) Len() int { return len(s.entries) }

// Query returns the facts matching p, lazily, in declaration order.
func (s *Store) Query(p Pattern) iter.Seq[Fact] {
	return func(yield func(Fact) bool) {
		for _, h := range s.handles() {
			e, ok := s.entries[h]
			if !ok {
				// retracted by the consumer mid-iteration
				continue
			}
			if p.Kind != "" && e.kind != p.Kind {
				continue
			}
			f := s.view(h, e)
			if !p.matches(f) {
				continue
			}
			if !yield(f) {
				return
			}
		}
	}
}

// First returns the first fact matching p.
func (s *Store) First(p Pattern) (Fact, bool) {
	for f := range s.Query(p) {
		return f, true
	}
	return Fact{}, false
}

// Exists reports whether any fact matches p.
func (s *Store) Exists(p Pattern) bool {
	_, ok := s.First(p)
	return ok
}

// Snapshot copies every live fact in declaration order.
func (s *Store) Snapshot() []Fact {
	out := make([]Fact, 0, len(s.entries))
	for f := range s.Query(Pattern{}) {
		out = append(out, f)
	}
	return out
}

func (s *Store) handles() []Handle {
	hs := make([]Handle, 0, len(s.entries))
	for h := range s.entries {
		hs = append(hs, h)
	}
	sort.Slice(hs, func(i, j int) bool { return hs[i] < hs[j] })
	return hs
}

func (s *Store) view(h Handle, e *entry) Fact {
	return Fact{Handle: h, Kind: e.kind, Revision: e.revision, Fields: maps.Clone(e.fields)}
}

func checkFields(fields Fields) error {
	for k, v := range fields {
		if k == "" {
			return errors.New("empty field name")
		}
		switch val := v.(type) {
		case string, int, bool:
		case decimal.Decimal:
			if k == "amount" && val.IsNegative() {
				return fmt.Errorf("field %q: negative amount %s", k, val)
			}
		default:
			return fmt.Errorf("field %q: unsupported value type %T", k, v)
		}
	}
	return nil
}
