// Package workflow provides composable orchestration primitives for
// multi-step generation pipelines.
//
// A workflow is a tree of Steps. Primitives compose:
//
//   - Chain: sequential execution
//   - Router: conditional branching, first matching route wins
//   - Loop: repeat a step until a condition holds, bounded by max iterations
//   - Parallel: concurrent execution with isolated branch state
//
// Steps communicate through a shared State, a thread-safe string-keyed map.
// Typed keys (Key[T] with Get/Set/MustGet) give compile-time safety over the
// untyped map:
//
//	var KeyStrategy = workflow.NewKey[string]("brand_strategy")
//
//	workflow.Set(state, KeyStrategy, text)
//	strategy, ok := workflow.Get(state, KeyStrategy)
//
// # Example
//
// A refinement loop that repeats until a reviewer approves:
//
//	draft := workflow.NewFuncStep("draft", draftFn)
//	review := workflow.NewFuncStep("review", reviewFn)
//	loop := workflow.NewLoopUntil("refine",
//	    workflow.NewChain("round", draft, review),
//	    "approved", true,
//	    workflow.WithMaxIterations(3),
//	)
//
//	wf := workflow.New("pipeline", loop)
//	result, err := wf.Run(ctx, state)
//
// Progress is observable through an event channel passed via
// workflow.WithEvents; emission is non-blocking and a nil channel is fine.
package workflow
