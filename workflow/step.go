package workflow

import (
	"context"

	ai "github.com/moritzschallercs50/FrameAgent-Studio"
	"github.com/moritzschallercs50/FrameAgent-Studio/event"
)

// Step represents a single unit of work in a workflow.
// Steps can be functions, LLM calls, or nested workflows.
type Step interface {
	// Name returns a unique identifier for the step.
	Name() string

	// Run executes the step and returns the result.
	Run(ctx context.Context, state *State, opts ...Option) (*StepResult, error)
}

// StepResult represents the outcome of a step execution.
type StepResult struct {
	// StepName identifies which step produced this result.
	StepName string

	// Output is the primary output value of the step, if any.
	Output any

	// Response is the raw model response for LLM-backed steps.
	Response *ai.Response

	// Usage accumulates token usage for the step and its children.
	Usage ai.Usage

	// Metadata carries step-specific extras.
	Metadata map[string]any
}

// StepFunc is a function signature for simple step implementations.
type StepFunc func(ctx context.Context, state *State) error

// FuncStep wraps a function as a Step.
type FuncStep struct {
	name string
	fn   StepFunc
}

// NewFuncStep creates a step from a function.
func NewFuncStep(name string, fn StepFunc) *FuncStep {
	return &FuncStep{name: name, fn: fn}
}

// Name returns the step name.
func (f *FuncStep) Name() string { return f.name }

// Run executes the function.
func (f *FuncStep) Run(ctx context.Context, state *State, opts ...Option) (*StepResult, error) {
	options := ApplyOptions(opts...)

	event.Emit(options.Events, event.Event{Type: event.StepStart, StepName: f.name})
	if err := f.fn(ctx, state); err != nil {
		return nil, err
	}
	event.Emit(options.Events, event.Event{Type: event.StepEnd, StepName: f.name})

	return &StepResult{
		StepName: f.name,
	}, nil
}

// PromptFunc generates messages from state for an LLM call.
type PromptFunc func(state *State) []ai.Message

// PromptStep makes a single LLM call with a dynamic prompt.
type PromptStep struct {
	name       string
	chatClient ai.ChatProvider
	prompt     PromptFunc
	outputKey  string
	chatOpts   []ai.Option
}

// NewPromptStep creates a step for a single LLM call.
// The prompt function generates messages from current state.
// If outputKey is non-empty, the response content is stored in state under that key.
func NewPromptStep(name string, c ai.ChatProvider, prompt PromptFunc, outputKey string, opts ...ai.Option) *PromptStep {
	return &PromptStep{
		name:       name,
		chatClient: c,
		prompt:     prompt,
		outputKey:  outputKey,
		chatOpts:   opts,
	}
}

// Name returns the step name.
func (p *PromptStep) Name() string { return p.name }

// Run executes the LLM call.
func (p *PromptStep) Run(ctx context.Context, state *State, opts ...Option) (*StepResult, error) {
	options := ApplyOptions(opts...)

	// Merge chat options
	chatOpts := make([]ai.Option, 0, len(p.chatOpts)+len(options.ChatOptions))
	chatOpts = append(chatOpts, p.chatOpts...)
	chatOpts = append(chatOpts, options.ChatOptions...)

	event.Emit(options.Events, event.Event{Type: event.StepStart, StepName: p.name})

	msgs := p.prompt(state)
	resp, err := p.chatClient.Chat(ctx, msgs, chatOpts...)
	if err != nil {
		return nil, err
	}

	if p.outputKey != "" {
		state.Set(p.outputKey, resp.Content)
	}

	event.Emit(options.Events, event.Event{Type: event.StepEnd, StepName: p.name, Response: resp})

	return &StepResult{
		StepName: p.name,
		Output:   resp.Content,
		Response: resp,
		Usage:    resp.Usage,
	}, nil
}
