package pipeline

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moritzschallercs50/FrameAgent-Studio/brand"
	"github.com/moritzschallercs50/FrameAgent-Studio/workflow"
)

const testScriptReply = `{"script": [
	{"scene_number": 1, "timestamp_start": "0:00", "timestamp_end": "0:10",
	 "setting": "rooftop", "visual_description": "sunrise over the city",
	 "text_on_screen": "", "audio_cue": "swelling strings"},
	{"scene_number": 2, "timestamp_start": "0:10", "timestamp_end": "0:30",
	 "setting": "office", "visual_description": "the product in use",
	 "text_on_screen": "Acme. Done right.", "audio_cue": "logo sting"}
]}`

// scriptedBackend answers each stage by recognizing its prompt.
func scriptedBackend() *fakeChat {
	return &fakeChat{respond: func(prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "Brand Strategist"):
			return "1. Core.\n2. Plan.\n3. Audience.", nil
		case strings.Contains(prompt, "Creative Director"):
			return "Concept A § Concept B § Concept C § Concept D", nil
		case strings.Contains(prompt, "Script Writer"):
			return testScriptReply, nil
		case strings.Contains(prompt, "visual development lead"):
			return `{"global_theme": "golden hour warmth", "global_figures": "Maya, 30s, red coat"}`, nil
		case strings.Contains(prompt, "image generation model"):
			return "A cinematic frame", nil
		default:
			return "", nil
		}
	}}
}

func TestPipelineEndToEnd(t *testing.T) {
	p, err := New(Config{
		Chat:   scriptedBackend(),
		Source: staticSource{rec: brand.Record{"name": "Acme", "industry": "tools"}},
	})
	require.NoError(t, err)

	result, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, workflow.TerminationComplete, result.Termination)
	state := result.State

	info := workflow.MustGet(state, KeyCompanyInfo)
	assert.Equal(t, "Acme", info["name"])

	assert.NotEmpty(t, workflow.MustGet(state, KeyStrategy))
	assert.Equal(t, "Yes", workflow.MustGet(state, KeyUserDecision))

	concepts := workflow.MustGet(state, KeyConcepts)
	require.Len(t, concepts, 4)
	assert.Equal(t, []int{1, 2, 3, 4}, []int{concepts[0].ID, concepts[1].ID, concepts[2].ID, concepts[3].ID})

	script := workflow.MustGet(state, KeyScript)
	require.Len(t, script.Scenes, 2)
	assert.Equal(t, "rooftop", script.Scenes[0].Setting)

	themes := workflow.MustGet(state, KeyThemes)
	assert.Equal(t, "golden hour warmth", themes.GlobalTheme)
	assert.Equal(t, "Maya, 30s, red coat", themes.GlobalFigures)

	prompts := workflow.MustGet(state, KeyFramePrompts)
	require.Len(t, prompts, len(script.Scenes))
	assert.Equal(t, "A cinematic frame", prompts[0])
}

func TestPipelineDegradedRunStaysWellShaped(t *testing.T) {
	// A backend that only ever returns garbage still yields a complete
	// final state: empty strategy, empty concepts, fallback script and
	// themes, no frame prompts.
	p, err := New(Config{
		Chat: &fakeChat{respond: func(string) (string, error) { return "garbage", nil }},
	})
	require.NoError(t, err)

	result, err := p.Run(context.Background())
	require.NoError(t, err)
	state := result.State

	assert.True(t, workflow.MustGet(state, KeyCompanyInfo).Empty())
	assert.Equal(t, "garbage", workflow.MustGet(state, KeyStrategy))
	assert.Equal(t, FallbackScript(), workflow.MustGet(state, KeyScript))
	assert.Equal(t, FallbackThemes(), workflow.MustGet(state, KeyThemes))
	assert.Empty(t, workflow.MustGet(state, KeyFramePrompts))
}

func TestPipelineBoundedRevisionLoops(t *testing.T) {
	t.Run("strategy loop hits the revision cap", func(t *testing.T) {
		p, err := New(Config{
			Chat:         scriptedBackend(),
			MaxRevisions: 2,
			Decide: func(context.Context, *workflow.State) (string, error) {
				return "No", nil
			},
		})
		require.NoError(t, err)

		result, err := p.Run(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, workflow.ErrMaxIterationsExceeded)
		assert.Equal(t, workflow.TerminationError, result.Termination)
	})

	t.Run("concept loop reruns the director with feedback", func(t *testing.T) {
		var prompts []string
		var mu sync.Mutex
		backend := scriptedBackend()
		inner := backend.respond
		backend.respond = func(prompt string) (string, error) {
			if strings.Contains(prompt, "Creative Director") {
				mu.Lock()
				prompts = append(prompts, prompt)
				mu.Unlock()
			}
			return inner(prompt)
		}

		round := 0
		p, err := New(Config{
			Chat: backend,
			Feedback: func(context.Context, *workflow.State) (string, error) {
				return "less humour, more warmth", nil
			},
			Approve: func(context.Context, *workflow.State) (bool, error) {
				round++
				return round >= 2, nil
			},
		})
		require.NoError(t, err)

		_, err = p.Run(context.Background())
		require.NoError(t, err)

		require.Len(t, prompts, 2)
		assert.NotContains(t, prompts[0], "less humour")
		assert.Contains(t, prompts[1], "less humour, more warmth")
	})
}

func TestPipelineRequiresChatProvider(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrNoChatProvider)
}

func TestStoryboardAssembly(t *testing.T) {
	state := workflow.NewState()
	workflow.Set(state, KeyScript, Script{Scenes: []Scene{
		{SceneNumber: 1, TimestampStart: "0:00", TimestampEnd: "0:10", Setting: "rooftop",
			VisualDescription: "sunrise", TextOnScreen: "", AudioCue: "strings"},
		{SceneNumber: 2, TimestampStart: "0:10", TimestampEnd: "0:30", Setting: "office",
			VisualDescription: "product", TextOnScreen: "Acme", AudioCue: "sting"},
	}})
	workflow.Set(state, KeyFramePrompts, []string{"frame one"})

	frames := Storyboard(state)
	require.Len(t, frames, 2)

	assert.Equal(t, 1, frames[0].SceneNumber)
	assert.Equal(t, "0:00 - 0:10", frames[0].Timestamp)
	assert.Equal(t, "frame one", frames[0].ImagePrompt)

	// Scene beyond the prompt list still appears, with an empty prompt.
	assert.Equal(t, 2, frames[1].SceneNumber)
	assert.Equal(t, "", frames[1].ImagePrompt)
}

func TestStoryboardEmptyState(t *testing.T) {
	assert.Empty(t, Storyboard(workflow.NewState()))
}
