package workflow

import (
	"context"

	ai "github.com/moritzschallercs50/FrameAgent-Studio"
	"github.com/moritzschallercs50/FrameAgent-Studio/event"
)

// TerminationReason indicates why the workflow stopped.
type TerminationReason string

const (
	// TerminationComplete indicates normal completion.
	TerminationComplete TerminationReason = "complete"

	// TerminationTimeout indicates the deadline was exceeded.
	TerminationTimeout TerminationReason = "timeout"

	// TerminationCancelled indicates context cancellation.
	TerminationCancelled TerminationReason = "cancelled"

	// TerminationError indicates an error occurred.
	TerminationError TerminationReason = "error"
)

// Result represents the final outcome of workflow execution.
// State contains all output from the workflow - access results via typed keys.
type Result struct {
	// WorkflowName identifies the workflow.
	WorkflowName string

	// State contains the final state after execution.
	State *State

	// Usage accumulates token usage across all steps.
	Usage ai.Usage

	// Termination indicates why execution stopped.
	Termination TerminationReason

	// Error contains any error that caused termination.
	Error error
}

// Workflow is the top-level orchestrator that wraps a root step.
// It provides the primary entry point for workflow execution.
type Workflow struct {
	name string
	root Step
}

// New creates a new workflow with a root step.
func New(name string, root Step) *Workflow {
	return &Workflow{name: name, root: root}
}

// Name returns the workflow name.
func (w *Workflow) Name() string { return w.name }

// Run executes the workflow synchronously.
// The returned Result always carries the final state, even on error, so
// callers can inspect partial progress.
func (w *Workflow) Run(ctx context.Context, state *State, opts ...Option) (*Result, error) {
	if state == nil {
		state = NewState()
	}

	options := ApplyOptions(opts...)
	event.Emit(options.Events, event.Event{Type: event.RunStart, StepName: w.name})

	stepResult, err := w.root.Run(ctx, state, opts...)
	if err != nil {
		termination := TerminationError
		if ctx.Err() == context.Canceled {
			termination = TerminationCancelled
		} else if ctx.Err() == context.DeadlineExceeded {
			termination = TerminationTimeout
		}
		event.Emit(options.Events, event.Event{Type: event.RunError, StepName: w.name, Error: err})
		return &Result{
			WorkflowName: w.name,
			State:        state,
			Error:        err,
			Termination:  termination,
		}, err
	}

	event.Emit(options.Events, event.Event{Type: event.RunEnd, StepName: w.name})

	return &Result{
		WorkflowName: w.name,
		State:        state,
		Usage:        stepResult.Usage,
		Termination:  TerminationComplete,
	}, nil
}
