package pipeline

import (
	"context"
	"strings"
	"sync"

	ai "github.com/moritzschallercs50/FrameAgent-Studio"
	"github.com/moritzschallercs50/FrameAgent-Studio/brand"
	"github.com/moritzschallercs50/FrameAgent-Studio/event"
	"github.com/moritzschallercs50/FrameAgent-Studio/parse"
	"github.com/moritzschallercs50/FrameAgent-Studio/workflow"
)

// conceptSeparator delimits concepts in the creative director's reply.
const conceptSeparator = parse.SectionDelimiter

// Stages builds the individual workflow steps of the pipeline graph.
// Each constructor returns a self-contained step, so interactive
// deployments can run stages one at a time against a stored state.
type Stages struct {
	// Chat is the text backend every generative stage calls.
	Chat ai.ChatProvider

	// Source provides the brand record for the research stage.
	// Nil degrades to an empty record.
	Source brand.Source

	// Events receives degradation diagnostics (StageDegraded,
	// ParseFallback). Nil disables them.
	Events chan<- event.Event

	// ChatOptions are applied to every model call.
	ChatOptions []ai.Option

	// MaxConcurrency bounds parallel frame-prompt calls. Zero means 4.
	MaxConcurrency int
}

// invoke sends a prompt to the chat backend. Backend failures degrade
// to an empty reply with a StageDegraded event; only context
// cancellation propagates as an error.
func (s *Stages) invoke(ctx context.Context, stage, prompt string, opts ...ai.Option) (string, error) {
	chatOpts := make([]ai.Option, 0, len(s.ChatOptions)+len(opts))
	chatOpts = append(chatOpts, s.ChatOptions...)
	chatOpts = append(chatOpts, opts...)

	resp, err := s.Chat.Chat(ctx, ai.UserPrompt(prompt, ""), chatOpts...)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		event.Emit(s.Events, event.Event{
			Type:     event.StageDegraded,
			StepName: stage,
			Error:    err,
			Message:  "backend call failed, proceeding with empty output",
		})
		return "", nil
	}
	return resp.Content, nil
}

// Research loads the brand record and stores it under company_info.
// The record is always a mapping, never absent: a failed or missing
// source yields an empty record.
func (s *Stages) Research() workflow.Step {
	return workflow.NewFuncStep(StageResearch, func(ctx context.Context, state *workflow.State) error {
		rec := brand.Record{}
		if s.Source != nil {
			got, err := s.Source.Research(ctx)
			if err != nil {
				return err
			}
			if got != nil {
				rec = got
			}
		}
		workflow.Set(state, KeyCompanyInfo, rec)
		return nil
	})
}

// BrandStrategist generates the three-point brand strategy and stores
// the reply verbatim; downstream consumers treat it as opaque prose.
func (s *Stages) BrandStrategist() workflow.Step {
	return workflow.NewFuncStep(StageBrandStrategist, func(ctx context.Context, state *workflow.State) error {
		info := workflow.GetOr(state, KeyCompanyInfo, brand.Record{})

		reply, err := s.invoke(ctx, StageBrandStrategist, brandStrategistPrompt(info))
		if err != nil {
			return err
		}
		workflow.Set(state, KeyStrategy, reply)
		return nil
	})
}

// Decision records the strategy approval answer under user_decision.
func (s *Stages) Decision(decide DecisionFunc) workflow.Step {
	if decide == nil {
		decide = AutoApprove
	}
	return workflow.NewFuncStep(StageUserDecision, func(ctx context.Context, state *workflow.State) error {
		decision, err := decide(ctx, state)
		if err != nil {
			return err
		}
		workflow.Set(state, KeyUserDecision, decision)
		return nil
	})
}

// CreativeDirector generates four delimited concepts and parses them
// into structured form. The raw reply is kept alongside the parsed
// concepts; revision feedback from previous iterations is folded into
// the prompt.
func (s *Stages) CreativeDirector() workflow.Step {
	return workflow.NewFuncStep(StageCreativeDirector, func(ctx context.Context, state *workflow.State) error {
		strategy := workflow.GetOr(state, KeyStrategy, "")
		info := workflow.GetOr(state, KeyCompanyInfo, brand.Record{})
		feedback := workflow.GetOr(state, KeyFeedback, "")

		reply, err := s.invoke(ctx, StageCreativeDirector, creativeDirectorPrompt(strategy, info, feedback))
		if err != nil {
			return err
		}

		workflow.Set(state, KeyConceptsRaw, reply)
		workflow.Set(state, KeyConcepts, ParseConcepts(reply))
		return nil
	})
}

// ParseConcepts splits a delimited creative director reply into
// concepts with 1-based sequential IDs. Empty input yields an empty
// slice, never nil holes.
func ParseConcepts(raw string) []Concept {
	sections := parse.Sections(raw)
	concepts := make([]Concept, 0, len(sections))
	for i, content := range sections {
		concepts = append(concepts, Concept{ID: i + 1, Content: content})
	}
	return concepts
}

// Feedback records revision feedback for the next creative director
// iteration.
func (s *Stages) Feedback(supply FeedbackFunc) workflow.Step {
	if supply == nil {
		supply = NoFeedback
	}
	return workflow.NewFuncStep(StageFeedback, func(ctx context.Context, state *workflow.State) error {
		fb, err := supply(ctx, state)
		if err != nil {
			return err
		}
		workflow.Set(state, KeyFeedback, fb)
		return nil
	})
}

// Happiness records the concept approval signal under user_happy.
func (s *Stages) Happiness(approve ApprovalFunc) workflow.Step {
	if approve == nil {
		approve = AutoHappy
	}
	return workflow.NewFuncStep(StageUserHappiness, func(ctx context.Context, state *workflow.State) error {
		happy, err := approve(ctx, state)
		if err != nil {
			return err
		}
		workflow.Set(state, KeyUserHappy, happy)
		return nil
	})
}

// SelectConcept records the user's chosen concept as the narrative
// input for script generation and marks the user as satisfied. An
// unknown ID falls back to the first concept.
func (s *Stages) SelectConcept(conceptID int) workflow.Step {
	return workflow.NewFuncStep(StageSelectConcept, func(ctx context.Context, state *workflow.State) error {
		concepts := workflow.GetOr(state, KeyConcepts, nil)
		for _, c := range concepts {
			if c.ID == conceptID {
				workflow.Set(state, KeySelectedConcept, c.Content)
				workflow.Set(state, KeyUserHappy, true)
				return nil
			}
		}
		if len(concepts) > 0 {
			workflow.Set(state, KeySelectedConcept, concepts[0].Content)
		}
		workflow.Set(state, KeyUserHappy, true)
		return nil
	})
}

// Scripts generates the structured 30-second script. An unparseable
// reply substitutes the empty-script fallback and emits ParseFallback;
// the run continues either way.
func (s *Stages) Scripts() workflow.Step {
	return workflow.NewFuncStep(StageScripts, func(ctx context.Context, state *workflow.State) error {
		concept := SelectedConcept(state)
		strategy := workflow.GetOr(state, KeyStrategy, "")
		info := workflow.GetOr(state, KeyCompanyInfo, brand.Record{})

		reply, err := s.invoke(ctx, StageScripts, scriptWriterPrompt(concept, strategy, info), ai.WithResponseFormat(ai.ResponseFormatJSON))
		if err != nil {
			return err
		}

		script, degraded := parse.ObjectOr(reply, FallbackScript())
		if script.Scenes == nil {
			// A parseable object without the script key still yields a
			// well-shaped value.
			script.Scenes = []Scene{}
		}
		if degraded {
			event.Emit(s.Events, event.Event{
				Type:     event.ParseFallback,
				StepName: StageScripts,
				Raw:      reply,
				Message:  `substituted {"script": []}`,
			})
		}
		workflow.Set(state, KeyScript, script)
		return nil
	})
}

// GlobalThemes makes one batched call over all scenes and stores the
// shared theme and figures. Batching is deliberate: later per-scene
// prompts stay visually consistent without re-deriving global context.
func (s *Stages) GlobalThemes() workflow.Step {
	return workflow.NewFuncStep(StageGlobalThemes, func(ctx context.Context, state *workflow.State) error {
		script := workflow.GetOr(state, KeyScript, FallbackScript())

		reply, err := s.invoke(ctx, StageGlobalThemes, globalThemesPrompt(script.Scenes), ai.WithResponseFormat(ai.ResponseFormatJSON))
		if err != nil {
			return err
		}

		themes, degraded := parse.ObjectOr(reply, FallbackThemes())
		if degraded {
			event.Emit(s.Events, event.Event{
				Type:     event.ParseFallback,
				StepName: StageGlobalThemes,
				Raw:      reply,
				Message:  `substituted {"global_theme": "generic theme", "global_figures": "generic figure"}`,
			})
		}
		workflow.Set(state, KeyThemes, themes)
		return nil
	})
}

// FramePrompts generates one image prompt per scene. Scenes are
// independent once the global themes exist, so calls run as an ordered
// concurrent map; the output is index-aligned 1:1 with the scenes and
// never has holes.
func (s *Stages) FramePrompts() workflow.Step {
	return workflow.NewFuncStep(StageFramePrompts, func(ctx context.Context, state *workflow.State) error {
		script := workflow.GetOr(state, KeyScript, FallbackScript())
		themes := workflow.GetOr(state, KeyThemes, FallbackThemes())

		prompts := make([]string, len(script.Scenes))
		limit := s.MaxConcurrency
		if limit <= 0 {
			limit = 4
		}

		var (
			wg     sync.WaitGroup
			sem    = make(chan struct{}, limit)
			mu     sync.Mutex
			runErr error
		)

		for i, scene := range script.Scenes {
			wg.Add(1)
			go func(i int, scene Scene) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()

				reply, err := s.invoke(ctx, StageFramePrompts, framePromptFor(scene, themes))
				if err != nil {
					mu.Lock()
					if runErr == nil {
						runErr = err
					}
					mu.Unlock()
					return
				}

				cleaned := CleanFramePrompt(reply)
				if cleaned == "" {
					cleaned = degradedFramePrompt(scene, themes)
					event.Emit(s.Events, event.Event{
						Type:     event.ParseFallback,
						StepName: StageFramePrompts,
						Raw:      reply,
						Message:  "substituted composed frame prompt for scene",
					})
				}
				prompts[i] = cleaned
			}(i, scene)
		}
		wg.Wait()

		if runErr != nil {
			return runErr
		}
		workflow.Set(state, KeyFramePrompts, prompts)
		return nil
	})
}

// CleanFramePrompt normalizes a frame-prompt reply: fences stripped,
// whitespace trimmed, surrounding quotes removed.
func CleanFramePrompt(raw string) string {
	s := strings.TrimSpace(parse.StripFences(raw))
	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}

// degradedFramePrompt composes a usable prompt from the scene fields
// when the backend produced nothing. Low quality beats a hole.
func degradedFramePrompt(scene Scene, themes Themes) string {
	parts := make([]string, 0, 4)
	if scene.VisualDescription != "" {
		parts = append(parts, scene.VisualDescription)
	}
	if scene.Setting != "" {
		parts = append(parts, "set in "+scene.Setting)
	}
	if len(parts) == 0 {
		parts = append(parts, "a storyboard frame")
	}
	if themes.GlobalTheme != "" {
		parts = append(parts, "visual style: "+themes.GlobalTheme)
	}
	if themes.GlobalFigures != "" {
		parts = append(parts, "featuring "+themes.GlobalFigures)
	}
	return strings.Join(parts, ", ")
}
