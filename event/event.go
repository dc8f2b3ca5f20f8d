// Package event provides a unified event system for observing execution
// across the client and workflow packages. Callers that don't care about
// progress simply pass a nil channel; Emit never blocks either way.
package event

import (
	"time"

	ai "github.com/moritzschallercs50/FrameAgent-Studio"
)

// Type identifies the kind of event.
type Type string

// Run lifecycle events
const (
	// RunStart fires when execution begins (workflow run or single request).
	RunStart Type = "run_start"

	// RunEnd fires when execution completes successfully.
	RunEnd Type = "run_end"

	// RunError fires when an unrecoverable error occurs.
	RunError Type = "run_error"
)

// Step lifecycle events
const (
	// StepStart fires when a workflow step begins.
	StepStart Type = "step_start"

	// StepEnd fires when a workflow step completes.
	StepEnd Type = "step_end"

	// StepSkipped fires when a step is skipped (e.g., routing).
	StepSkipped Type = "step_skipped"
)

// Request lifecycle events
const (
	// RequestStart fires when a backend request begins.
	RequestStart Type = "request_start"

	// RequestEnd fires when a backend request completes.
	RequestEnd Type = "request_end"
)

// Workflow control events
const (
	// RouteSelected fires when a route is chosen.
	RouteSelected Type = "route_selected"

	// LoopIteration fires at the start of each loop iteration.
	LoopIteration Type = "loop_iteration"

	// ParallelStart fires when parallel execution begins.
	ParallelStart Type = "parallel_start"

	// ParallelEnd fires when all parallel branches complete.
	ParallelEnd Type = "parallel_end"
)

// Degradation diagnostics
const (
	// ParseFallback fires when a model response could not be parsed and a
	// documented fallback value was substituted. The pipeline continues; the
	// event is the only trace that degradation happened.
	ParseFallback Type = "parse_fallback"

	// StageDegraded fires when a backend failure was absorbed by a stage,
	// which proceeded with a safe default instead of failing the run.
	StageDegraded Type = "stage_degraded"
)

// Event represents an observable occurrence during execution.
// This unified type is used by the client, workflow, and pipeline packages.
type Event struct {
	// Type identifies the kind of event.
	Type Type

	// Response contains the complete response for RequestEnd and RunEnd events.
	Response *ai.Response

	// StepName identifies the step for workflow events.
	StepName string

	// RouteName identifies the selected route for RouteSelected events.
	RouteName string

	// Iteration is the loop iteration (1-indexed) for LoopIteration events.
	Iteration int

	// Error contains the error for RunError events, and the parse error
	// that triggered substitution for ParseFallback events.
	Error error

	// Message contains additional context (e.g., fallback description,
	// termination reason).
	Message string

	// Raw holds the unparseable model output for ParseFallback events.
	Raw string

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Emit sends an event with timestamp to the channel (non-blocking).
// A nil channel is silently ignored.
func Emit(ch chan<- Event, e Event) {
	if ch == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	default:
		// Channel full - don't block
	}
}

// NewChannel creates a buffered event channel with standard capacity.
func NewChannel() chan Event {
	return make(chan Event, 100)
}
