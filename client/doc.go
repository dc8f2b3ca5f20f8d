// Package client provides a unified multi-provider client for chat and
// image generation.
//
// The Client wraps provider-specific implementations and provides:
//
//   - Model-centric routing: Models know their provider; switching is automatic
//   - Multi-provider support: Configure all providers at once, use any model
//   - Optional retries: Exponential backoff for transient errors, off by default
//   - Event emission: Observable operations via channel
//
// # Basic Usage
//
// Create a client with API keys and default models:
//
//	c := client.New(client.Config{
//	    APIKeys: client.APIKeys{
//	        Anthropic: os.Getenv("ANTHROPIC_API_KEY"),
//	        OpenAI:    os.Getenv("OPENAI_API_KEY"),
//	    },
//	    Defaults: client.Defaults{
//	        Chat: model.ClaudeSonnet45,
//	    },
//	})
//
//	resp, err := c.Chat(ctx, []ai.Message{
//	    {Role: ai.RoleUser, Content: "Hello!"},
//	})
//
// # Model-Centric Routing
//
// Models determine their provider. The client routes automatically:
//
//	// Uses default model (routes to Anthropic)
//	resp, _ := c.Chat(ctx, messages)
//
//	// Override with GPT-5.2 (routes to OpenAI)
//	resp, _ := c.Chat(ctx, messages, ai.WithModel(model.GPT52))
//
//	// Override with Gemini (routes to Google)
//	resp, _ := c.Chat(ctx, messages, ai.WithModel(model.Gemini25Flash))
//
// # Provider Capabilities
//
// Feature support by provider:
//
//	| Provider  | Chat | Images |
//	|-----------|------|--------|
//	| Anthropic | Yes  | No     |
//	| OpenAI    | Yes  | Yes    |
//	| Google    | Yes  | Yes    |
//
// # Retry Configuration
//
// By default each request is attempted exactly once and failures surface
// to the caller, which decides whether to degrade or abort. Opt in to
// automatic retries for transient errors (rate limits, timeouts, 5xx):
//
//	cfg := retry.DefaultConfig()
//	c := client.New(client.Config{
//	    APIKeys:     client.APIKeys{OpenAI: os.Getenv("OPENAI_API_KEY")},
//	    RetryConfig: &cfg,
//	})
//
// # Events
//
// Observe operations via an event channel:
//
//	events := event.NewChannel()
//	c := client.New(client.Config{
//	    APIKeys: client.APIKeys{OpenAI: os.Getenv("OPENAI_API_KEY")},
//	    Events:  events,
//	})
package client
