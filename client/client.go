package client

import (
	"context"
	"fmt"
	"sync"

	ai "github.com/moritzschallercs50/FrameAgent-Studio"
	"github.com/moritzschallercs50/FrameAgent-Studio/event"
	"github.com/moritzschallercs50/FrameAgent-Studio/internal/provider/anthropic"
	"github.com/moritzschallercs50/FrameAgent-Studio/internal/provider/google"
	"github.com/moritzschallercs50/FrameAgent-Studio/internal/provider/openai"
	"github.com/moritzschallercs50/FrameAgent-Studio/retry"
)

// Feature represents a capability that a provider may support.
type Feature string

const (
	FeatureChat  Feature = "chat"
	FeatureImage Feature = "image"
)

// providerCapabilities defines which features each provider supports.
var providerCapabilities = map[ai.Provider]map[Feature]bool{
	ai.ProviderAnthropic: {
		FeatureChat:  true,
		FeatureImage: false,
	},
	ai.ProviderOpenAI: {
		FeatureChat:  true,
		FeatureImage: true,
	},
	ai.ProviderGoogle: {
		FeatureChat:  true,
		FeatureImage: true,
	},
}

// APIKeys holds API keys for different providers.
// Only configure keys for providers you intend to use.
type APIKeys struct {
	Anthropic string
	OpenAI    string
	Google    string
}

// Defaults holds default models for each capability.
// The model's provider determines which backend is used.
type Defaults struct {
	Chat  ai.Model
	Image ai.Model
}

// Config holds configuration for creating a unified client.
type Config struct {
	// APIKeys contains authentication keys for each provider.
	// Only configure keys for providers you intend to use.
	APIKeys APIKeys

	// Defaults contains default models for each capability.
	// The model's provider determines which backend is used.
	Defaults Defaults

	// RetryConfig configures retry behavior for transient errors.
	// If nil, retries are disabled: each request is attempted exactly once
	// and the caller decides how to recover.
	RetryConfig *retry.Config

	// Events is an optional channel for receiving request events.
	// Events are sent non-blocking; if the channel is full, events are dropped.
	Events chan<- event.Event
}

// ErrFeatureNotSupported is returned when a feature is unavailable for the provider.
type ErrFeatureNotSupported struct {
	Provider string
	Feature  string
}

func (e *ErrFeatureNotSupported) Error() string {
	return fmt.Sprintf("%s provider does not support %s", e.Provider, e.Feature)
}

// ErrMissingAPIKey is returned when a model is used but no API key
// is configured for that model's provider.
type ErrMissingAPIKey struct {
	Provider string
	Model    string
}

func (e *ErrMissingAPIKey) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("no API key configured for %s (required by model %q)", e.Provider, e.Model)
	}
	return fmt.Sprintf("no API key configured for %s", e.Provider)
}

// ErrNoModel is returned when no model is specified and no default is configured.
type ErrNoModel struct {
	Operation string
}

// operationHints maps operation names to their config field and option function.
var operationHints = map[string]struct {
	configField string
	optionFunc  string
}{
	"chat":  {"Defaults.Chat", "frameagent.WithModel()"},
	"image": {"Defaults.Image", "frameagent.WithImageModel()"},
}

func (e *ErrNoModel) Error() string {
	if hint, ok := operationHints[e.Operation]; ok {
		return fmt.Sprintf("no model specified for %s: set client.Config %s or use %s",
			e.Operation, hint.configField, hint.optionFunc)
	}
	return fmt.Sprintf("no model specified for %s and no default configured", e.Operation)
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithDefaultTemperature sets the default temperature for chat requests.
// Per-request options override this default.
func WithDefaultTemperature(t float64) ClientOption {
	return func(c *Client) {
		c.defaultChatOpts = append(c.defaultChatOpts, ai.WithTemperature(t))
	}
}

// WithDefaultMaxTokens sets the default max tokens for chat requests.
// Per-request options override this default.
func WithDefaultMaxTokens(n int) ClientOption {
	return func(c *Client) {
		c.defaultChatOpts = append(c.defaultChatOpts, ai.WithMaxTokens(n))
	}
}

// WithDefaultChatOptions sets default options for all chat requests.
// Per-request options override these defaults.
func WithDefaultChatOptions(opts ...ai.Option) ClientOption {
	return func(c *Client) {
		c.defaultChatOpts = append(c.defaultChatOpts, opts...)
	}
}

// Client is a unified interface to all provider capabilities.
// Provider clients are lazily initialized when first needed.
type Client struct {
	apiKeys         APIKeys
	defaults        Defaults
	retryConfig     retry.Config
	events          chan<- event.Event
	defaultChatOpts []ai.Option

	// Lazy-initialized providers (protected by mutex)
	mu              sync.RWMutex
	anthropicClient *anthropic.Client
	openaiClient    *openai.Client
	googleClient    *google.Client
	googleInitErr   error
}

// New creates a unified client with the given configuration.
// Provider clients are lazily initialized when first needed based on the model used.
// Optional ClientOption arguments configure default behaviors like temperature.
func New(cfg Config, opts ...ClientOption) *Client {
	retryConfig := retry.Disabled()
	if cfg.RetryConfig != nil {
		retryConfig = *cfg.RetryConfig
	}

	c := &Client{
		apiKeys:     cfg.APIKeys,
		defaults:    cfg.Defaults,
		retryConfig: retryConfig,
		events:      cfg.Events,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// getAnthropicClient returns the Anthropic client, initializing it if needed.
func (c *Client) getAnthropicClient() (*anthropic.Client, error) {
	c.mu.RLock()
	if c.anthropicClient != nil {
		defer c.mu.RUnlock()
		return c.anthropicClient, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if c.anthropicClient != nil {
		return c.anthropicClient, nil
	}

	if c.apiKeys.Anthropic == "" {
		return nil, &ErrMissingAPIKey{Provider: "anthropic"}
	}

	c.anthropicClient = anthropic.New(c.apiKeys.Anthropic)
	return c.anthropicClient, nil
}

// getOpenAIClient returns the OpenAI client, initializing it if needed.
func (c *Client) getOpenAIClient() (*openai.Client, error) {
	c.mu.RLock()
	if c.openaiClient != nil {
		defer c.mu.RUnlock()
		return c.openaiClient, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if c.openaiClient != nil {
		return c.openaiClient, nil
	}

	if c.apiKeys.OpenAI == "" {
		return nil, &ErrMissingAPIKey{Provider: "openai"}
	}

	c.openaiClient = openai.New(c.apiKeys.OpenAI)
	return c.openaiClient, nil
}

// getGoogleClient returns the Google client, initializing it if needed.
func (c *Client) getGoogleClient(ctx context.Context) (*google.Client, error) {
	c.mu.RLock()
	if c.googleClient != nil {
		defer c.mu.RUnlock()
		return c.googleClient, nil
	}
	if c.googleInitErr != nil {
		defer c.mu.RUnlock()
		return nil, c.googleInitErr
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if c.googleClient != nil {
		return c.googleClient, nil
	}
	if c.googleInitErr != nil {
		return nil, c.googleInitErr
	}

	if c.apiKeys.Google == "" {
		return nil, &ErrMissingAPIKey{Provider: "google"}
	}

	client, err := google.New(ctx, c.apiKeys.Google)
	if err != nil {
		c.googleInitErr = fmt.Errorf("failed to initialize Google client: %w", err)
		return nil, c.googleInitErr
	}

	c.googleClient = client
	return c.googleClient, nil
}

// getChatProvider returns the chat provider for the given model.
func (c *Client) getChatProvider(ctx context.Context, model ai.Model) (ai.ChatProvider, ai.Provider, error) {
	provider := model.Provider()

	switch provider {
	case ai.ProviderAnthropic:
		client, err := c.getAnthropicClient()
		if err != nil {
			return nil, "", err
		}
		return client, provider, nil
	case ai.ProviderOpenAI:
		client, err := c.getOpenAIClient()
		if err != nil {
			return nil, "", err
		}
		return client, provider, nil
	case ai.ProviderGoogle:
		client, err := c.getGoogleClient(ctx)
		if err != nil {
			return nil, "", err
		}
		return client, provider, nil
	default:
		return nil, "", fmt.Errorf("unsupported provider: %s", provider)
	}
}

// Chat sends a conversation and returns a complete response.
// The model can be specified via WithModel option, or the default chat model is used.
// Retries transient errors only when the client was configured with a RetryConfig.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	// Prepend default options so per-request options override them
	opts = append(c.defaultChatOpts, opts...)
	options := ai.ApplyOptions(opts...)

	// Determine which model to use
	model := options.Model
	if model == nil {
		model = c.defaults.Chat
	}
	if model == nil {
		return nil, &ErrNoModel{Operation: "chat"}
	}

	// Get the appropriate provider
	chatProvider, _, err := c.getChatProvider(ctx, model)
	if err != nil {
		return nil, err
	}

	event.Emit(c.events, event.Event{
		Type:    event.RequestStart,
		Message: "chat " + model.String(),
	})

	// Ensure model is passed to the underlying provider
	if options.Model == nil {
		opts = append([]ai.Option{ai.WithModel(model)}, opts...)
	}

	resp, err := retry.Do(ctx, c.retryConfig, func() (*ai.Response, error) {
		return chatProvider.Chat(ctx, messages, opts...)
	})
	if err != nil {
		event.Emit(c.events, event.Event{
			Type:    event.RunError,
			Message: "chat " + model.String(),
			Error:   err,
		})
		return nil, err
	}

	event.Emit(c.events, event.Event{
		Type:     event.RequestEnd,
		Message:  "chat " + model.String(),
		Response: resp,
	})
	return resp, nil
}

// GenerateImage creates images from a text prompt.
// The model can be specified via WithImageModel option, or the default image model is used.
// Returns ErrFeatureNotSupported if the provider doesn't support image generation.
func (c *Client) GenerateImage(ctx context.Context, prompt string, opts ...ai.ImageOption) (*ai.ImageResponse, error) {
	options := ai.ApplyImageOptions(opts...)

	// Determine which model to use
	model := options.Model
	if model == nil {
		model = c.defaults.Image
	}
	if model == nil {
		return nil, &ErrNoModel{Operation: "image"}
	}

	// Resolve provider and check capability
	provider := model.Provider()

	if !providerCapabilities[provider][FeatureImage] {
		return nil, &ErrFeatureNotSupported{Provider: provider.String(), Feature: "image"}
	}

	// Get the image provider
	var imageProvider ai.ImageProvider
	switch provider {
	case ai.ProviderOpenAI:
		client, err := c.getOpenAIClient()
		if err != nil {
			return nil, err
		}
		imageProvider = client
	case ai.ProviderGoogle:
		client, err := c.getGoogleClient(ctx)
		if err != nil {
			return nil, err
		}
		imageProvider = client
	default:
		return nil, &ErrFeatureNotSupported{Provider: provider.String(), Feature: "image"}
	}

	event.Emit(c.events, event.Event{
		Type:    event.RequestStart,
		Message: "image " + model.String(),
	})

	// Ensure model is passed to the underlying provider
	if options.Model == nil {
		opts = append([]ai.ImageOption{ai.WithImageModel(model)}, opts...)
	}

	resp, err := retry.Do(ctx, c.retryConfig, func() (*ai.ImageResponse, error) {
		return imageProvider.GenerateImage(ctx, prompt, opts...)
	})
	if err != nil {
		event.Emit(c.events, event.Event{
			Type:    event.RunError,
			Message: "image " + model.String(),
			Error:   err,
		})
		return nil, err
	}

	event.Emit(c.events, event.Event{
		Type:    event.RequestEnd,
		Message: "image " + model.String(),
	})
	return resp, nil
}

// SupportsFeature returns true if the given feature is supported by any configured provider.
func (c *Client) SupportsFeature(f Feature) bool {
	switch f {
	case FeatureChat:
		return c.apiKeys.Anthropic != "" || c.apiKeys.OpenAI != "" || c.apiKeys.Google != ""
	case FeatureImage:
		return c.apiKeys.OpenAI != "" || c.apiKeys.Google != ""
	default:
		return false
	}
}
