package workflow

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChain(t *testing.T) {
	t.Run("executes steps in order", func(t *testing.T) {
		var order []string
		mkStep := func(name string) Step {
			return NewFuncStep(name, func(ctx context.Context, state *State) error {
				order = append(order, name)
				return nil
			})
		}

		chain := NewChain("test", mkStep("one"), mkStep("two"), mkStep("three"))
		state := NewState()

		result, err := chain.Run(context.Background(), state)
		require.NoError(t, err)
		assert.Equal(t, "test", result.StepName)
		assert.Equal(t, []string{"one", "two", "three"}, order)
	})

	t.Run("stops on first error", func(t *testing.T) {
		var order []string
		ok := NewFuncStep("ok", func(ctx context.Context, state *State) error {
			order = append(order, "ok")
			return nil
		})
		fail := NewFuncStep("fail", func(ctx context.Context, state *State) error {
			return assert.AnError
		})
		never := NewFuncStep("never", func(ctx context.Context, state *State) error {
			order = append(order, "never")
			return nil
		})

		chain := NewChain("test", ok, fail, never)
		_, err := chain.Run(context.Background(), NewState())

		require.Error(t, err)
		var stepErr *StepError
		assert.ErrorAs(t, err, &stepErr)
		assert.Equal(t, "fail", stepErr.StepName)
		assert.Equal(t, []string{"ok"}, order)
	})

	t.Run("continue on error with handler", func(t *testing.T) {
		var order []string
		fail := NewFuncStep("fail", func(ctx context.Context, state *State) error {
			return assert.AnError
		})
		after := NewFuncStep("after", func(ctx context.Context, state *State) error {
			order = append(order, "after")
			return nil
		})

		chain := NewChain("test", fail, after)
		_, err := chain.Run(context.Background(), NewState(),
			WithErrorHandler(func(ctx context.Context, stepName string, err error) error {
				return nil
			}),
			WithContinueOnError(true),
		)
		require.NoError(t, err)
		assert.Equal(t, []string{"after"}, order)
	})

	t.Run("state flows between steps", func(t *testing.T) {
		produce := NewFuncStep("produce", func(ctx context.Context, state *State) error {
			state.Set("value", "from-produce")
			return nil
		})
		var observed string
		consume := NewFuncStep("consume", func(ctx context.Context, state *State) error {
			observed = state.GetString("value")
			return nil
		})

		chain := NewChain("test", produce, consume)
		_, err := chain.Run(context.Background(), NewState())
		require.NoError(t, err)
		assert.Equal(t, "from-produce", observed)
	})
}

func TestRouter(t *testing.T) {
	mkStep := func(name string, mark *string) Step {
		return NewFuncStep(name, func(ctx context.Context, state *State) error {
			*mark = name
			return nil
		})
	}

	t.Run("first matching route wins", func(t *testing.T) {
		var ran string
		router := NewRouter("choose", []Route{
			{
				Name:      "a",
				Condition: func(ctx context.Context, s *State) bool { return s.GetString("pick") == "a" },
				Step:      mkStep("step-a", &ran),
			},
			{
				Name:      "b",
				Condition: func(ctx context.Context, s *State) bool { return true },
				Step:      mkStep("step-b", &ran),
			},
		}, nil)

		state := NewState()
		state.Set("pick", "a")

		_, err := router.Run(context.Background(), state)
		require.NoError(t, err)
		assert.Equal(t, "step-a", ran)
		assert.Equal(t, "a", state.GetString("choose_route"))
	})

	t.Run("falls back to default route", func(t *testing.T) {
		var ran string
		router := NewRouter("choose", []Route{
			{
				Name:      "never",
				Condition: func(ctx context.Context, s *State) bool { return false },
				Step:      mkStep("step-never", &ran),
			},
		}, mkStep("step-default", &ran))

		state := NewState()
		_, err := router.Run(context.Background(), state)
		require.NoError(t, err)
		assert.Equal(t, "step-default", ran)
		assert.Equal(t, "default", state.GetString("choose_route"))
	})

	t.Run("no route and no default", func(t *testing.T) {
		router := NewRouter("choose", []Route{
			{
				Name:      "never",
				Condition: func(ctx context.Context, s *State) bool { return false },
				Step:      NewFuncStep("noop", func(ctx context.Context, state *State) error { return nil }),
			},
		}, nil)

		_, err := router.Run(context.Background(), NewState())
		assert.ErrorIs(t, err, ErrNoRouteMatched)
	})
}

func TestParallel(t *testing.T) {
	t.Run("runs all steps and merges state", func(t *testing.T) {
		var count atomic.Int32
		mkStep := func(name, key string) Step {
			return NewFuncStep(name, func(ctx context.Context, state *State) error {
				count.Add(1)
				state.Set(key, name)
				return nil
			})
		}

		par := NewParallel("fanout", []Step{
			mkStep("one", "k1"),
			mkStep("two", "k2"),
			mkStep("three", "k3"),
		}, nil)

		state := NewState()
		_, err := par.Run(context.Background(), state)
		require.NoError(t, err)
		assert.Equal(t, int32(3), count.Load())
		assert.Equal(t, "one", state.GetString("k1"))
		assert.Equal(t, "two", state.GetString("k2"))
		assert.Equal(t, "three", state.GetString("k3"))
	})

	t.Run("custom aggregator", func(t *testing.T) {
		mkStep := func(name string) Step {
			return NewFuncStep(name, func(ctx context.Context, state *State) error {
				state.Set(name, true)
				return nil
			})
		}

		par := NewParallel("fanout", []Step{mkStep("a"), mkStep("b")},
			func(state *State, results map[string]*StepResult, errors map[string]error) error {
				state.Set("aggregated", len(results))
				return nil
			})

		state := NewState()
		_, err := par.Run(context.Background(), state)
		require.NoError(t, err)
		assert.Equal(t, 2, state.GetInt("aggregated"))
		// Aggregator replaces default merge
		assert.False(t, state.Has("a"))
	})

	t.Run("collects branch errors", func(t *testing.T) {
		ok := NewFuncStep("ok", func(ctx context.Context, state *State) error { return nil })
		fail := NewFuncStep("fail", func(ctx context.Context, state *State) error { return assert.AnError })

		par := NewParallel("fanout", []Step{ok, fail}, nil)
		_, err := par.Run(context.Background(), NewState())

		require.Error(t, err)
		var parErr *ParallelError
		require.ErrorAs(t, err, &parErr)
		assert.Len(t, parErr.Errors, 1)
		assert.ErrorIs(t, parErr.Errors["fail"], assert.AnError)
	})
}

func TestWorkflowRun(t *testing.T) {
	t.Run("completes and returns final state", func(t *testing.T) {
		step := NewFuncStep("work", func(ctx context.Context, state *State) error {
			state.Set("done", true)
			return nil
		})

		wf := New("test", step)
		result, err := wf.Run(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, TerminationComplete, result.Termination)
		assert.True(t, result.State.GetBool("done"))
	})

	t.Run("error keeps partial state", func(t *testing.T) {
		chain := NewChain("root",
			NewFuncStep("first", func(ctx context.Context, state *State) error {
				state.Set("progress", "partial")
				return nil
			}),
			NewFuncStep("second", func(ctx context.Context, state *State) error {
				return assert.AnError
			}),
		)

		wf := New("test", chain)
		result, err := wf.Run(context.Background(), NewState())
		require.Error(t, err)
		assert.Equal(t, TerminationError, result.Termination)
		assert.Equal(t, "partial", result.State.GetString("progress"))
	})

	t.Run("cancellation reported", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		step := NewFuncStep("cancel-me", func(ctx context.Context, state *State) error {
			cancel()
			return ctx.Err()
		})

		wf := New("test", NewChain("root", step,
			NewFuncStep("never", func(ctx context.Context, state *State) error { return nil })))
		result, err := wf.Run(ctx, NewState())
		require.Error(t, err)
		assert.Equal(t, TerminationCancelled, result.Termination)
	})
}

func TestTypedKeys(t *testing.T) {
	t.Run("get set roundtrip", func(t *testing.T) {
		key := NewKey[[]string]("items")
		s := NewState()

		Set(s, key, []string{"a", "b"})
		items, ok := Get(s, key)
		require.True(t, ok)
		assert.Equal(t, []string{"a", "b"}, items)
	})

	t.Run("type mismatch returns false", func(t *testing.T) {
		s := NewState()
		s.Set("n", "not-an-int")

		_, ok := Get(s, NewKey[int]("n"))
		assert.False(t, ok)
	})

	t.Run("GetOr default", func(t *testing.T) {
		s := NewState()
		assert.Equal(t, 7, GetOr(s, NewKey[int]("missing"), 7))
	})

	t.Run("MustGet panics on missing key", func(t *testing.T) {
		s := NewState()
		assert.Panics(t, func() {
			MustGet(s, NewKey[string]("missing"))
		})
	})

	t.Run("Update applies function", func(t *testing.T) {
		key := NewKey[int]("counter")
		s := NewState()

		v := Update(s, key, func(n int) int { return n + 1 })
		assert.Equal(t, 1, v)
		v = Update(s, key, func(n int) int { return n + 1 })
		assert.Equal(t, 2, v)
	})

	t.Run("SetIfAbsent", func(t *testing.T) {
		key := NewKey[string]("once")
		s := NewState()

		assert.True(t, SetIfAbsent(s, key, "first"))
		assert.False(t, SetIfAbsent(s, key, "second"))
		assert.Equal(t, "first", MustGet(s, key))
	})
}
