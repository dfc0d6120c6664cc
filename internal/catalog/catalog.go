// Package catalog holds the fixed table of known expenses, their category
// and their priority tier.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

//go:embed catalog.toml
var defaultDoc []byte

// Category groups expenses by essentiality.
type Category string

const (
	Needs Category = "Needs"
	Wants Category = "Wants"
)

// Priority is the tier of an expense within its category.
type Priority string

const (
	High   Priority = "High"
	Medium Priority = "Medium"
	Low    Priority = "Low"
)

// Severity ranks priorities so that lower values are cut first.
func (p Priority) Severity() int {
	switch p {
	case Low:
		return 1
	case Medium:
		return 2
	case High:
		return 3
	default:
		return 0
	}
}

// ParsePriority accepts a priority label in any letter case.
func ParsePriority(s string) (Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return High, true
	case "medium":
		return Medium, true
	case "low":
		return Low, true
	}
	return "", false
}

func parseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "needs":
		return Needs, true
	case "wants":
		return Wants, true
	}
	return "", false
}

// Entry is one known expense.
type Entry struct {
	Name     string
	Category Category
	Priority Priority
	Order    int // position in the catalog document
}

// Catalog is an immutable, ordered set of entries.
type Catalog struct {
	entries []Entry
	byName  map[string]int
}

type document struct {
	Expense []struct {
		Name     string `toml:"name"`
		Category string `toml:"category"`
		Priority string `toml:"priority"`
	} `toml:"expense"`
}

// Parse decodes a catalog TOML document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if len(doc.Expense) == 0 {
		return nil, errors.New("catalog has no expenses")
	}

	c := &Catalog{byName: make(map[string]int, len(doc.Expense))}
	for i, raw := range doc.Expense {
		name := strings.TrimSpace(raw.Name)
		if name == "" {
			return nil, fmt.Errorf("catalog entry %d: missing name", i+1)
		}
		cat, ok := parseCategory(raw.Category)
		if !ok {
			return nil, fmt.Errorf("catalog entry %q: unknown category %q", name, raw.Category)
		}
		prio, ok := ParsePriority(raw.Priority)
		if !ok {
			return nil, fmt.Errorf("catalog entry %q: unknown priority %q", name, raw.Priority)
		}
		key := strings.ToLower(name)
		if _, dup := c.byName[key]; dup {
			return nil, fmt.Errorf("catalog entry %q: duplicate name", name)
		}
		c.byName[key] = len(c.entries)
		c.entries = append(c.entries, Entry{Name: name, Category: cat, Priority: prio, Order: i})
	}
	return c, nil
}

// LoadFile reads a catalog TOML file, for deployments that replace the
// embedded catalog.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the user's config
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data)
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the process-wide catalog embedded in the binary.
// It is decoded once; the embedded document is validated by tests, so a
// decode failure is a build defect and panics.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(defaultDoc)
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Size returns the number of entries.
func (c *Catalog) Size() int { return len(c.entries) }

// Entries returns a copy of the entries in catalog order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Names returns entry names in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Name
	}
	return out
}

// Lookup finds an entry by name, ignoring surrounding space and letter case.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	idx, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Entry{}, false
	}
	return c.entries[idx], true
}

// Categories returns each category once, in order of first appearance.
func (c *Catalog) Categories() []Category {
	seen := make(map[Category]bool)
	var out []Category
	for _, e := range c.entries {
		if !seen[e.Category] {
			seen[e.Category] = true
			out = append(out, e.Category)
		}
	}
	return out
}
