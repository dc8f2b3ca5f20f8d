package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/moritzschallercs50/FrameAgent-Studio"
	"github.com/moritzschallercs50/FrameAgent-Studio/model"
)

func TestChatRequiresModel(t *testing.T) {
	c := New(Config{APIKeys: APIKeys{Anthropic: "key"}})

	_, err := c.Chat(context.Background(), ai.UserPrompt("hi", ""))
	require.Error(t, err)

	var noModel *ErrNoModel
	require.ErrorAs(t, err, &noModel)
	assert.Contains(t, err.Error(), "Defaults.Chat")
}

func TestChatRequiresAPIKeyForModelProvider(t *testing.T) {
	// Only an OpenAI key configured, but the default model is Anthropic's.
	c := New(Config{
		APIKeys:  APIKeys{OpenAI: "key"},
		Defaults: Defaults{Chat: model.DefaultClaudeModel},
	})

	_, err := c.Chat(context.Background(), ai.UserPrompt("hi", ""))
	require.Error(t, err)

	var missing *ErrMissingAPIKey
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "anthropic", missing.Provider)
}

func TestGenerateImageRequiresModel(t *testing.T) {
	c := New(Config{APIKeys: APIKeys{OpenAI: "key"}})

	_, err := c.GenerateImage(context.Background(), "a lighthouse")
	require.Error(t, err)

	var noModel *ErrNoModel
	require.ErrorAs(t, err, &noModel)
}

func TestGenerateImageRejectsChatOnlyProvider(t *testing.T) {
	c := New(Config{
		APIKeys:  APIKeys{Anthropic: "key"},
		Defaults: Defaults{Image: model.DefaultClaudeModel},
	})

	_, err := c.GenerateImage(context.Background(), "a lighthouse")
	require.Error(t, err)

	var unsupported *ErrFeatureNotSupported
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "image", unsupported.Feature)
}

func TestSupportsFeature(t *testing.T) {
	anthropicOnly := New(Config{APIKeys: APIKeys{Anthropic: "key"}})
	assert.True(t, anthropicOnly.SupportsFeature(FeatureChat))
	assert.False(t, anthropicOnly.SupportsFeature(FeatureImage))

	withOpenAI := New(Config{APIKeys: APIKeys{OpenAI: "key"}})
	assert.True(t, withOpenAI.SupportsFeature(FeatureChat))
	assert.True(t, withOpenAI.SupportsFeature(FeatureImage))

	none := New(Config{})
	assert.False(t, none.SupportsFeature(FeatureChat))
}
