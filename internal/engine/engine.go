// Package engine runs forward-chaining rules over a facts.Store until no rule
// has a new match or a rule halts the run.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/theirongolddev/budgetwise/internal/facts"
)

// ErrCycleLimit is returned when a run exceeds Options.MaxCycles. It points
// at a rule set that keeps producing new matches, never at bad input.
var ErrCycleLimit = errors.New("rule engine cycle limit reached")

// Binding is the ordered list of facts a rule matched.
type Binding []facts.Fact

func (b Binding) key(rule string) string {
	var sb strings.Builder
	sb.WriteString(rule)
	for _, f := range b {
		sb.WriteByte('|')
		sb.WriteString(strconv.FormatUint(uint64(f.Handle), 10))
		sb.WriteByte('@')
		sb.WriteString(strconv.Itoa(f.Revision))
	}
	return sb.String()
}

// Rule pairs a pattern over the working memory with an action.
//
// Match returns every binding currently satisfying the rule, in the order the
// rule wants them fired. Fire runs the action for one binding.
type Rule struct {
	Name     string
	Group    string
	Salience int
	Match    func(wm *facts.Store) []Binding
	Fire     func(ctx *Context, b Binding) error
}

// Options tunes a run.
type Options struct {
	MaxCycles int
	Logger    *slog.Logger
}

// DefaultOptions returns the default run options.
func DefaultOptions() Options {
	return Options{MaxCycles: 10_000}
}

// Stats summarizes one run.
type Stats struct {
	Cycles      int
	Firings     int
	Halted      bool
	FiredByRule map[string]int
}

// Engine holds an ordered rule set. It keeps no per-run state, so one
// Engine may serve many sequential or concurrent runs over distinct stores.
type Engine struct {
	rules []Rule
	opts  Options
}

// New returns an engine over the given rules. Rules are evaluated by
// descending salience, then in the order given.
func New(opts Options, rules ...Rule) *Engine {
	if opts.MaxCycles <= 0 {
		opts.MaxCycles = DefaultOptions().MaxCycles
	}
	ordered := make([]Rule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Salience > ordered[j].Salience
	})
	return &Engine{rules: ordered, opts: opts}
}

// Rules returns rule names in evaluation order.
func (e *Engine) Rules() []string {
	names := make([]string, len(e.rules))
	for i, r := range e.rules {
		names[i] = r.Name
	}
	return names
}

// Run fires rules against wm until fixpoint or halt.
//
// Each cycle scans the rules in evaluation order and fires the first binding
// that has not fired before for the same fact revisions. A modified fact
// therefore re-activates the rules that match it.
func (e *Engine) Run(wm *facts.Store) (Stats, error) {
	logger := e.opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	stats := Stats{FiredByRule: make(map[string]int)}
	fired := make(map[string]struct{})
	ctx := &Context{wm: wm}

	for {
		if stats.Cycles >= e.opts.MaxCycles {
			return stats, fmt.Errorf("%w after %d cycles", ErrCycleLimit, stats.Cycles)
		}
		stats.Cycles++

		rule, binding, ok := e.next(wm, fired)
		if !ok {
			return stats, nil
		}

		fired[binding.key(rule.Name)] = struct{}{}
		if err := rule.Fire(ctx, binding); err != nil {
			return stats, fmt.Errorf("rule %s: %w", rule.Name, err)
		}
		stats.Firings++
		stats.FiredByRule[rule.Name]++
		logger.Debug("rule fired",
			"rule", rule.Name,
			"group", rule.Group,
			"cycle", stats.Cycles,
			"facts", wm.Len(),
		)

		if ctx.halted {
			stats.Halted = true
			return stats, nil
		}
	}
}

func (e *Engine) next(wm *facts.Store, fired map[string]struct{}) (Rule, Binding, bool) {
	for _, r := range e.rules {
		for _, b := range r.Match(wm) {
			if _, done := fired[b.key(r.Name)]; done {
				continue
			}
			return r, b, true
		}
	}
	return Rule{}, nil, false
}

// Context is handed to rule actions to change the working memory.
type Context struct {
	wm     *facts.Store
	halted bool
}

// Facts exposes the working memory for read access inside an action.
func (c *Context) Facts() *facts.Store { return c.wm }

// Declare adds a fact.
func (c *Context) Declare(kind facts.Kind, fields facts.Fields) (facts.Handle, error) {
	return c.wm.Declare(kind, fields)
}

// Modify updates a fact in place.
func (c *Context) Modify(h facts.Handle, updates facts.Fields) error {
	return c.wm.Modify(h, updates)
}

// Retract removes a fact.
func (c *Context) Retract(h facts.Handle) error {
	return c.wm.Retract(h)
}

// Halt stops the run once the current action returns.
func (c *Context) Halt() { c.halted = true }
