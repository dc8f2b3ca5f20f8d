package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/moritzschallercs50/FrameAgent-Studio"
	"github.com/moritzschallercs50/FrameAgent-Studio/brand"
	"github.com/moritzschallercs50/FrameAgent-Studio/event"
	"github.com/moritzschallercs50/FrameAgent-Studio/workflow"
)

// fakeChat routes prompts to canned replies. The respond function must
// be safe for concurrent calls; frame prompts fan out.
type fakeChat struct {
	respond func(prompt string) (string, error)
}

func (f *fakeChat) Chat(_ context.Context, messages []ai.Message, _ ...ai.Option) (*ai.Response, error) {
	prompt := messages[len(messages)-1].Content
	content, err := f.respond(prompt)
	if err != nil {
		return nil, err
	}
	return &ai.Response{Content: content, Usage: ai.Usage{InputTokens: 1, OutputTokens: 1}}, nil
}

// staticSource returns a fixed brand record.
type staticSource struct{ rec brand.Record }

func (s staticSource) Research(context.Context) (brand.Record, error) { return s.rec, nil }

func TestParseConcepts(t *testing.T) {
	t.Run("four delimited concepts get sequential ids", func(t *testing.T) {
		raw := "First idea § Second idea § Third idea § Fourth idea"
		concepts := ParseConcepts(raw)
		require.Len(t, concepts, 4)
		for i, c := range concepts {
			assert.Equal(t, i+1, c.ID)
			assert.NotEmpty(t, c.Content)
		}
		assert.Equal(t, "Second idea", concepts[1].Content)
	})

	t.Run("empty input yields empty slice", func(t *testing.T) {
		concepts := ParseConcepts("")
		assert.NotNil(t, concepts)
		assert.Empty(t, concepts)
	})

	t.Run("undelimited reply is a single concept", func(t *testing.T) {
		concepts := ParseConcepts("just one idea")
		require.Len(t, concepts, 1)
		assert.Equal(t, 1, concepts[0].ID)
	})
}

func TestRoutingPredicates(t *testing.T) {
	t.Run("user decision", func(t *testing.T) {
		s := workflow.NewState()
		workflow.Set(s, KeyUserDecision, "Yes")
		assert.Equal(t, StageCreativeDirector, CheckUserDecision(s))

		workflow.Set(s, KeyUserDecision, "No")
		assert.Equal(t, StageBrandStrategist, CheckUserDecision(s))
	})

	t.Run("user happiness", func(t *testing.T) {
		s := workflow.NewState()
		workflow.Set(s, KeyUserHappy, true)
		assert.Equal(t, StageScripts, CheckUserHappiness(s))

		workflow.Set(s, KeyUserHappy, false)
		assert.Equal(t, StageCreativeDirector, CheckUserHappiness(s))
	})
}

func TestScriptsStageFallback(t *testing.T) {
	t.Run("malformed reply yields exactly the empty script", func(t *testing.T) {
		events := event.NewChannel()
		stages := &Stages{
			Chat:   &fakeChat{respond: func(string) (string, error) { return "not json at all", nil }},
			Events: events,
		}

		state := workflow.NewState()
		_, err := stages.Scripts().Run(context.Background(), state)
		require.NoError(t, err)

		script := workflow.MustGet(state, KeyScript)
		assert.Equal(t, FallbackScript(), script)
		assert.NotNil(t, script.Scenes)

		ev := drainFor(t, events, event.ParseFallback)
		assert.Equal(t, StageScripts, ev.StepName)
		assert.Equal(t, "not json at all", ev.Raw)
	})

	t.Run("object without script key still gets empty scenes", func(t *testing.T) {
		stages := &Stages{
			Chat: &fakeChat{respond: func(string) (string, error) { return `{"other": 1}`, nil }},
		}

		state := workflow.NewState()
		_, err := stages.Scripts().Run(context.Background(), state)
		require.NoError(t, err)

		script := workflow.MustGet(state, KeyScript)
		assert.NotNil(t, script.Scenes)
		assert.Empty(t, script.Scenes)
	})

	t.Run("valid reply parses scenes", func(t *testing.T) {
		reply := `{"script": [{"scene_number": 1, "timestamp_start": "0:00", "timestamp_end": "0:05",
			"setting": "kitchen", "visual_description": "steam rises", "text_on_screen": "", "audio_cue": "soft piano"}]}`
		stages := &Stages{
			Chat: &fakeChat{respond: func(string) (string, error) { return reply, nil }},
		}

		state := workflow.NewState()
		_, err := stages.Scripts().Run(context.Background(), state)
		require.NoError(t, err)

		script := workflow.MustGet(state, KeyScript)
		require.Len(t, script.Scenes, 1)
		assert.Equal(t, 1, script.Scenes[0].SceneNumber)
		assert.Equal(t, "kitchen", script.Scenes[0].Setting)
	})
}

func TestGlobalThemesFallback(t *testing.T) {
	t.Run("malformed reply yields exactly the generic themes", func(t *testing.T) {
		events := event.NewChannel()
		stages := &Stages{
			Chat:   &fakeChat{respond: func(string) (string, error) { return "no json here", nil }},
			Events: events,
		}

		state := workflow.NewState()
		_, err := stages.GlobalThemes().Run(context.Background(), state)
		require.NoError(t, err)

		themes := workflow.MustGet(state, KeyThemes)
		assert.Equal(t, Themes{GlobalTheme: "generic theme", GlobalFigures: "generic figure"}, themes)

		ev := drainFor(t, events, event.ParseFallback)
		assert.Equal(t, StageGlobalThemes, ev.StepName)
	})

	t.Run("fallback round trips through the parser unchanged", func(t *testing.T) {
		reply := `{"global_theme": "generic theme", "global_figures": "generic figure"}`
		stages := &Stages{
			Chat: &fakeChat{respond: func(string) (string, error) { return reply, nil }},
		}

		state := workflow.NewState()
		_, err := stages.GlobalThemes().Run(context.Background(), state)
		require.NoError(t, err)
		assert.Equal(t, FallbackThemes(), workflow.MustGet(state, KeyThemes))
	})
}

func TestFramePromptsIndexAlignment(t *testing.T) {
	scenes := []Scene{
		{SceneNumber: 1, Setting: "rooftop", VisualDescription: "sunrise over the city"},
		{SceneNumber: 2, Setting: "street"},
		{SceneNumber: 3}, // empty scene must still yield a prompt
	}

	t.Run("one prompt per scene in order", func(t *testing.T) {
		stages := &Stages{
			Chat: &fakeChat{respond: func(prompt string) (string, error) {
				if strings.Contains(prompt, "rooftop") {
					return `"A sunrise over a city skyline"`, nil
				}
				if strings.Contains(prompt, "street") {
					return "```\nA busy street scene\n```", nil
				}
				return "", nil
			}},
		}

		state := workflow.NewState()
		workflow.Set(state, KeyScript, Script{Scenes: scenes})
		workflow.Set(state, KeyThemes, Themes{GlobalTheme: "warm film grain", GlobalFigures: "a courier"})

		_, err := stages.FramePrompts().Run(context.Background(), state)
		require.NoError(t, err)

		prompts := workflow.MustGet(state, KeyFramePrompts)
		require.Len(t, prompts, len(scenes))

		// Quotes and fences are stripped
		assert.Equal(t, "A sunrise over a city skyline", prompts[0])
		assert.Equal(t, "A busy street scene", prompts[1])

		// Empty scene degrades to a composed prompt, never a hole
		assert.NotEmpty(t, prompts[2])
		assert.Contains(t, prompts[2], "warm film grain")
	})

	t.Run("backend failure degrades without a hole", func(t *testing.T) {
		events := event.NewChannel()
		stages := &Stages{
			Chat:   &fakeChat{respond: func(string) (string, error) { return "", errors.New("boom") }},
			Events: events,
		}

		state := workflow.NewState()
		workflow.Set(state, KeyScript, Script{Scenes: scenes})

		_, err := stages.FramePrompts().Run(context.Background(), state)
		require.NoError(t, err)

		prompts := workflow.MustGet(state, KeyFramePrompts)
		require.Len(t, prompts, len(scenes))
		for _, p := range prompts {
			assert.NotEmpty(t, p)
		}
	})

	t.Run("empty script yields empty prompt list", func(t *testing.T) {
		stages := &Stages{
			Chat: &fakeChat{respond: func(string) (string, error) { return "x", nil }},
		}

		state := workflow.NewState()
		workflow.Set(state, KeyScript, FallbackScript())

		_, err := stages.FramePrompts().Run(context.Background(), state)
		require.NoError(t, err)
		assert.Empty(t, workflow.MustGet(state, KeyFramePrompts))
	})
}

func TestSelectConcept(t *testing.T) {
	seed := func() *workflow.State {
		state := workflow.NewState()
		workflow.Set(state, KeyConcepts, []Concept{
			{ID: 1, Content: "first"},
			{ID: 2, Content: "second"},
		})
		return state
	}

	t.Run("selects by id and marks happy", func(t *testing.T) {
		stages := &Stages{}
		state := seed()

		_, err := stages.SelectConcept(2).Run(context.Background(), state)
		require.NoError(t, err)
		assert.Equal(t, "second", workflow.MustGet(state, KeySelectedConcept))
		assert.True(t, workflow.MustGet(state, KeyUserHappy))
	})

	t.Run("unknown id falls back to first concept", func(t *testing.T) {
		stages := &Stages{}
		state := seed()

		_, err := stages.SelectConcept(99).Run(context.Background(), state)
		require.NoError(t, err)
		assert.Equal(t, "first", workflow.MustGet(state, KeySelectedConcept))
	})

	t.Run("no concepts leaves selection empty but proceeds", func(t *testing.T) {
		stages := &Stages{}
		state := workflow.NewState()

		_, err := stages.SelectConcept(1).Run(context.Background(), state)
		require.NoError(t, err)
		assert.Equal(t, "", SelectedConcept(state))
		assert.True(t, workflow.MustGet(state, KeyUserHappy))
	})
}

func TestSelectedConceptResolution(t *testing.T) {
	state := workflow.NewState()
	assert.Equal(t, "", SelectedConcept(state))

	workflow.Set(state, KeyConcepts, []Concept{{ID: 1, Content: "first"}})
	assert.Equal(t, "first", SelectedConcept(state))

	workflow.Set(state, KeySelectedConcept, "chosen")
	assert.Equal(t, "chosen", SelectedConcept(state))
}

func TestBrandStrategistDegradesOnBackendFailure(t *testing.T) {
	events := event.NewChannel()
	stages := &Stages{
		Chat:   &fakeChat{respond: func(string) (string, error) { return "", errors.New("backend down") }},
		Events: events,
	}

	state := workflow.NewState()
	workflow.Set(state, KeyCompanyInfo, brand.Record{"name": "Acme"})

	_, err := stages.BrandStrategist().Run(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, "", workflow.MustGet(state, KeyStrategy))

	ev := drainFor(t, events, event.StageDegraded)
	assert.Equal(t, StageBrandStrategist, ev.StepName)
}

func TestBrandStrategistCancellationPropagates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stages := &Stages{
		Chat: &fakeChat{respond: func(string) (string, error) {
			cancel()
			return "", errors.New("canceled mid-call")
		}},
	}

	state := workflow.NewState()
	_, err := stages.BrandStrategist().Run(ctx, state)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCleanFramePrompt(t *testing.T) {
	assert.Equal(t, "a prompt", CleanFramePrompt(`  "a prompt"  `))
	assert.Equal(t, "a prompt", CleanFramePrompt("```\na prompt\n```"))
	assert.Equal(t, "a prompt", CleanFramePrompt("'a prompt'"))
	assert.Equal(t, "", CleanFramePrompt("  \n "))
}

// drainFor pops events until one of the wanted type appears.
func drainFor(t *testing.T, ch chan event.Event, want event.Type) event.Event {
	t.Helper()
	for {
		select {
		case ev := <-ch:
			if ev.Type == want {
				return ev
			}
		default:
			t.Fatalf("no %s event emitted", want)
			return event.Event{}
		}
	}
}
