package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/moritzschallercs50/FrameAgent-Studio"
	"github.com/moritzschallercs50/FrameAgent-Studio/pipeline"
	"github.com/moritzschallercs50/FrameAgent-Studio/store"
)

// fakeChat answers each stage by recognizing its prompt, and records
// every prompt it sees.
type fakeChat struct {
	mu      sync.Mutex
	prompts []string
}

func (f *fakeChat) Chat(_ context.Context, messages []ai.Message, _ ...ai.Option) (*ai.Response, error) {
	prompt := messages[len(messages)-1].Content
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	var content string
	switch {
	case strings.Contains(prompt, "Brand Strategist"):
		content = "1. Core.\n2. Plan.\n3. Audience."
	case strings.Contains(prompt, "Creative Director"):
		content = "Concept A § Concept B § Concept C § Concept D"
	case strings.Contains(prompt, "Script Writer"):
		content = `{"script": [{"scene_number": 1, "timestamp_start": "0:00", "timestamp_end": "0:30",
			"setting": "workshop", "visual_description": "hands at work", "text_on_screen": "", "audio_cue": "hum"}]}`
	case strings.Contains(prompt, "visual development lead"):
		content = `{"global_theme": "workshop warmth", "global_figures": "a maker"}`
	case strings.Contains(prompt, "image generation model"):
		content = "A warm workshop frame"
	}
	return &ai.Response{Content: content}, nil
}

func (f *fakeChat) sawPromptContaining(sub string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.prompts {
		if strings.Contains(p, sub) {
			return true
		}
	}
	return false
}

// newTestClient starts an in-process MCP client against a fresh server.
func newTestClient(t *testing.T, chat *fakeChat) *client.Client {
	t.Helper()

	srv := NewServer(&pipeline.Stages{Chat: chat}, store.NewMemoryAdapter(),
		WithName("frameagent-test"),
		WithVersion("0.0.1"),
	)

	c, err := client.NewInProcessClient(srv)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	t.Cleanup(func() { c.Close() })

	_, err = c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    "test-client",
				Version: "1.0.0",
			},
		},
	})
	require.NoError(t, err)

	return c
}

// callTool invokes a tool and decodes its JSON text result.
func callTool(t *testing.T, c *client.Client, name string, args map[string]any) map[string]any {
	t.Helper()

	result, err := c.CallTool(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err)
	require.False(t, result.IsError, "tool %s returned error: %+v", name, result.Content)
	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &decoded))
	return decoded
}

func TestServerExposesStageTools(t *testing.T) {
	c := newTestClient(t, &fakeChat{})

	result, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
	require.NoError(t, err)

	names := make([]string, len(result.Tools))
	for i, tool := range result.Tools {
		names[i] = tool.Name
	}
	for _, want := range []string{
		"analyze_url", "brand_strategy", "creative_concepts", "regenerate_concepts",
		"select_concept", "generate_script", "update_script", "generate_storyboard",
	} {
		assert.Contains(t, names, want)
	}
}

func TestInteractiveRun(t *testing.T) {
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Acme</title></head><body>We make tools.</body></html>`))
	}))
	defer site.Close()

	chat := &fakeChat{}
	c := newTestClient(t, chat)

	// Open a session from the brand URL
	opened := callTool(t, c, "analyze_url", map[string]any{"url": site.URL})
	sessionID, _ := opened["session_id"].(string)
	require.NotEmpty(t, sessionID)
	require.NotNil(t, opened["company_info"])

	// Strategy
	strategy := callTool(t, c, "brand_strategy", map[string]any{"session_id": sessionID})
	assert.Contains(t, strategy["strategy"], "1. Core.")

	// Concepts
	concepts := callTool(t, c, "creative_concepts", map[string]any{"session_id": sessionID})
	require.Len(t, concepts["concepts"], 4)

	// Regenerate with feedback; the next prompt must carry it
	regenerated := callTool(t, c, "regenerate_concepts", map[string]any{
		"session_id": sessionID,
		"feedback":   "make it funnier",
	})
	require.Len(t, regenerated["concepts"], 4)
	assert.True(t, chat.sawPromptContaining("make it funnier"))

	// Select concept 2
	selected := callTool(t, c, "select_concept", map[string]any{
		"session_id": sessionID,
		"concept_id": 2,
	})
	assert.Equal(t, "Concept B", selected["selected_concept"])

	// Script
	scripted := callTool(t, c, "generate_script", map[string]any{"session_id": sessionID})
	script, ok := scripted["script"].(map[string]any)
	require.True(t, ok)
	require.Len(t, script["script"], 1)

	// User edit overwrites the script
	updated := callTool(t, c, "update_script", map[string]any{
		"session_id": sessionID,
		"script": `{"script": [{"scene_number": 1, "timestamp_start": "0:00", "timestamp_end": "0:30",
			"setting": "garage", "visual_description": "edited", "text_on_screen": "", "audio_cue": "quiet"}]}`,
	})
	edited, ok := updated["script"].(map[string]any)
	require.True(t, ok)
	scenes, ok := edited["script"].([]any)
	require.True(t, ok)
	require.Len(t, scenes, 1)
	assert.Equal(t, "garage", scenes[0].(map[string]any)["setting"])

	// Storyboard is built from the edited script
	board := callTool(t, c, "generate_storyboard", map[string]any{"session_id": sessionID})
	frames, ok := board["storyboard"].([]any)
	require.True(t, ok)
	require.Len(t, frames, 1)
	frame := frames[0].(map[string]any)
	assert.Equal(t, "garage", frame["setting"])
	assert.Equal(t, "0:00 - 0:30", frame["timestamp"])
	assert.Equal(t, "A warm workshop frame", frame["image_prompt"])
}

func TestUnknownSession(t *testing.T) {
	c := newTestClient(t, &fakeChat{})

	result, err := c.CallTool(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "brand_strategy",
			Arguments: map[string]any{"session_id": "nope"},
		},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestUpdateScriptRejectsBadJSON(t *testing.T) {
	chat := &fakeChat{}
	c := newTestClient(t, chat)

	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Acme</title></head></html>`))
	}))
	defer site.Close()

	opened := callTool(t, c, "analyze_url", map[string]any{"url": site.URL})
	sessionID := opened["session_id"].(string)

	result, err := c.CallTool(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "update_script",
			Arguments: map[string]any{
				"session_id": sessionID,
				"script":     "{not json",
			},
		},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
