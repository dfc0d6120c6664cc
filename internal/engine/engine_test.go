package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/budgetwise/internal/facts"
)

func all(kind facts.Kind) func(*facts.Store) []Binding {
	return func(wm *facts.Store) []Binding {
		var out []Binding
		for f := range wm.Query(facts.Pattern{Kind: kind}) {
			out = append(out, Binding{f})
		}
		return out
	}
}

func TestRun_FiresOncePerBinding(t *testing.T) {
	wm := facts.NewStore()
	for i := 0; i < 3; i++ {
		_, err := wm.Declare("item", facts.Fields{"n": i})
		require.NoError(t, err)
	}

	var seen []int
	e := New(DefaultOptions(), Rule{
		Name:  "visit",
		Match: all("item"),
		Fire: func(_ *Context, b Binding) error {
			seen = append(seen, b[0].Int("n"))
			return nil
		},
	})

	stats, err := e.Run(wm)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, seen)
	assert.Equal(t, 3, stats.Firings)
	assert.False(t, stats.Halted)
}

func TestRun_ModifyReactivates(t *testing.T) {
	wm := facts.NewStore()
	_, err := wm.Declare("counter", facts.Fields{"n": 0})
	require.NoError(t, err)

	e := New(DefaultOptions(), Rule{
		Name: "increment",
		Match: func(wm *facts.Store) []Binding {
			f, ok := wm.First(facts.Pattern{Kind: "counter"}.Where(func(f facts.Fact) bool {
				return f.Int("n") < 5
			}))
			if !ok {
				return nil
			}
			return []Binding{{f}}
		},
		Fire: func(ctx *Context, b Binding) error {
			return ctx.Modify(b[0].Handle, facts.Fields{"n": b[0].Int("n") + 1})
		},
	})

	stats, err := e.Run(wm)
	require.NoError(t, err)
	f, _ := wm.First(facts.Pattern{Kind: "counter"})
	assert.Equal(t, 5, f.Int("n"))
	assert.Equal(t, 5, stats.FiredByRule["increment"])
}

func TestRun_SalienceOrder(t *testing.T) {
	wm := facts.NewStore()
	_, err := wm.Declare("seed", nil)
	require.NoError(t, err)

	var order []string
	record := func(name string) Rule {
		return Rule{
			Name:  name,
			Match: all("seed"),
			Fire: func(*Context, Binding) error {
				order = append(order, name)
				return nil
			},
		}
	}
	low := record("low")
	low.Salience = -10
	high := record("high")
	high.Salience = 10
	first := record("first-default")
	second := record("second-default")

	e := New(DefaultOptions(), low, first, high, second)
	assert.Equal(t, []string{"high", "first-default", "second-default", "low"}, e.Rules())

	_, err = e.Run(wm)
	require.NoError(t, err)
	assert.Equal(t, []string{"high", "first-default", "second-default", "low"}, order)
}

func TestRun_Halt(t *testing.T) {
	wm := facts.NewStore()
	for i := 0; i < 4; i++ {
		_, err := wm.Declare("item", facts.Fields{"n": i})
		require.NoError(t, err)
	}

	fired := 0
	e := New(DefaultOptions(), Rule{
		Name:  "stop-at-two",
		Match: all("item"),
		Fire: func(ctx *Context, b Binding) error {
			fired++
			if b[0].Int("n") == 1 {
				ctx.Halt()
			}
			return nil
		},
	})

	stats, err := e.Run(wm)
	require.NoError(t, err)
	assert.True(t, stats.Halted)
	assert.Equal(t, 2, fired)
}

func TestRun_ActionErrorAborts(t *testing.T) {
	wm := facts.NewStore()
	_, err := wm.Declare("item", nil)
	require.NoError(t, err)

	boom := errors.New("boom")
	e := New(DefaultOptions(), Rule{
		Name:  "explode",
		Match: all("item"),
		Fire:  func(*Context, Binding) error { return boom },
	})

	_, err = e.Run(wm)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "explode")
}

func TestRun_CycleLimit(t *testing.T) {
	wm := facts.NewStore()
	e := New(Options{MaxCycles: 50}, Rule{
		Name: "runaway",
		Match: func(*facts.Store) []Binding {
			return []Binding{{}}
		},
		Fire: func(ctx *Context, _ Binding) error {
			_, err := ctx.Declare("noise", nil)
			return err
		},
	})

	// an empty binding has the same key each time, so refraction stops it
	stats, err := e.Run(wm)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Firings)

	e = New(Options{MaxCycles: 50}, Rule{
		Name:  "runaway",
		Match: all("noise"),
		Fire: func(ctx *Context, _ Binding) error {
			_, err := ctx.Declare("noise", nil)
			return err
		},
	})
	_, err = wm.Declare("noise", nil)
	require.NoError(t, err)

	_, err = e.Run(wm)
	assert.ErrorIs(t, err, ErrCycleLimit)
}

func TestRun_EmptyRuleSetReachesFixpoint(t *testing.T) {
	stats, err := New(DefaultOptions()).Run(facts.NewStore())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Cycles)
	assert.Equal(t, 0, stats.Firings)
}
