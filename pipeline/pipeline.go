package pipeline

import (
	"context"
	"errors"

	ai "github.com/moritzschallercs50/FrameAgent-Studio"
	"github.com/moritzschallercs50/FrameAgent-Studio/brand"
	"github.com/moritzschallercs50/FrameAgent-Studio/event"
	"github.com/moritzschallercs50/FrameAgent-Studio/workflow"
)

// DefaultMaxRevisions bounds each approval cycle. The loops are
// conceptually "until approved", but an unbounded loop against a
// backend that never satisfies the user burns money silently.
const DefaultMaxRevisions = 3

// ErrNoChatProvider is returned by New when no text backend is
// configured. This is a fatal configuration error, surfaced before any
// pipeline work starts.
var ErrNoChatProvider = errors.New("pipeline: no chat provider configured")

// Config holds the pipeline's collaborators and knobs.
type Config struct {
	// Chat is the generative text backend. Required.
	Chat ai.ChatProvider

	// Images is the generative image backend for storyboard rendering.
	// Optional; RenderStoryboard fails without it.
	Images ai.ImageProvider

	// Source provides the brand record for research. Nil yields an
	// empty record.
	Source brand.Source

	// Style names the visual style folded into image prompts.
	Style string

	// MaxRevisions caps both approval cycles. Zero means
	// DefaultMaxRevisions.
	MaxRevisions int

	// MaxConcurrency bounds parallel per-scene calls. Zero means 4.
	MaxConcurrency int

	// Events receives lifecycle and degradation events. Nil disables
	// them.
	Events chan<- event.Event

	// ChatOptions are applied to every model call.
	ChatOptions []ai.Option

	// Decide supplies the strategy approval answer. Nil auto-approves.
	Decide DecisionFunc

	// Feedback supplies concept revision feedback. Nil supplies none.
	Feedback FeedbackFunc

	// Approve supplies the concept approval signal. Nil auto-approves.
	Approve ApprovalFunc
}

// Pipeline drives the full generation graph.
type Pipeline struct {
	cfg    Config
	stages *Stages
}

// New validates the configuration and builds a pipeline.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Chat == nil {
		return nil, ErrNoChatProvider
	}
	if cfg.MaxRevisions <= 0 {
		cfg.MaxRevisions = DefaultMaxRevisions
	}
	return &Pipeline{
		cfg: cfg,
		stages: &Stages{
			Chat:           cfg.Chat,
			Source:         cfg.Source,
			Events:         cfg.Events,
			ChatOptions:    cfg.ChatOptions,
			MaxConcurrency: cfg.MaxConcurrency,
		},
	}, nil
}

// Stages exposes the stage constructors for callers that drive the
// graph one stage at a time.
func (p *Pipeline) Stages() *Stages { return p.stages }

// Graph assembles the full workflow:
//
//	research
//	-> [brand_strategist -> user_feedback_yes_no]*  (until approved)
//	-> [creative_director -> br_feedback -> user_feedback_loop]*  (until happy)
//	-> creation_of_scripts -> generate_global_themes -> generate_frame_prompts
//
// Both cycles are bounded by MaxRevisions and report
// ErrMaxIterationsExceeded when the cap is hit.
func (p *Pipeline) Graph() *workflow.Workflow {
	s := p.stages

	strategyLoop := workflow.NewLoopUntilKey("strategy_approval",
		workflow.NewChain("strategy_cycle",
			s.BrandStrategist(),
			s.Decision(p.cfg.Decide),
		),
		KeyUserDecision, DecisionApprove,
		workflow.WithMaxIterations(p.cfg.MaxRevisions),
	)

	conceptLoop := workflow.NewLoopUntilKey("concept_approval",
		workflow.NewChain("concept_cycle",
			s.CreativeDirector(),
			s.Feedback(p.cfg.Feedback),
			s.Happiness(p.cfg.Approve),
		),
		KeyUserHappy, true,
		workflow.WithMaxIterations(p.cfg.MaxRevisions),
	)

	return workflow.New("frameagent", workflow.NewChain("frameagent",
		s.Research(),
		strategyLoop,
		conceptLoop,
		s.Scripts(),
		s.GlobalThemes(),
		s.FramePrompts(),
	))
}

// Run executes the full graph from an empty seed state.
func (p *Pipeline) Run(ctx context.Context, opts ...workflow.Option) (*workflow.Result, error) {
	return p.RunFrom(ctx, workflow.NewState(), opts...)
}

// RunFrom executes the full graph from an existing state.
func (p *Pipeline) RunFrom(ctx context.Context, state *workflow.State, opts ...workflow.Option) (*workflow.Result, error) {
	if p.cfg.Events != nil {
		opts = append([]workflow.Option{workflow.WithEvents(p.cfg.Events)}, opts...)
	}
	return p.Graph().Run(ctx, state, opts...)
}
