package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	ai "github.com/moritzschallercs50/FrameAgent-Studio"
	"github.com/moritzschallercs50/FrameAgent-Studio/model"
)

// Config holds the batch runner configuration loaded from environment
// variables.
type Config struct {
	// Provider selection
	Provider   string
	Model      string
	ImageModel string

	// API keys
	AnthropicKey string
	OpenAIKey    string
	GoogleKey    string

	// Brand input: a scraped JSON file or a URL to research live.
	BrandFile string
	BrandURL  string

	// Pipeline knobs
	Style        string
	MaxRevisions int
	Timeout      time.Duration
	OutputDir    string
	RetryEnabled bool
	RenderImages bool
}

// LoadConfig loads configuration from environment variables.
// It loads a .env file if present (silent fail if not found).
func LoadConfig() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Provider:     os.Getenv("FRAMEAGENT_PROVIDER"),
		Model:        os.Getenv("FRAMEAGENT_MODEL"),
		ImageModel:   os.Getenv("FRAMEAGENT_IMAGE_MODEL"),
		AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		GoogleKey:    os.Getenv("GOOGLE_API_KEY"),
		BrandFile:    os.Getenv("FRAMEAGENT_BRAND_FILE"),
		BrandURL:     os.Getenv("FRAMEAGENT_BRAND_URL"),
		Style:        os.Getenv("FRAMEAGENT_STYLE"),
		MaxRevisions: getEnvIntOrDefault("FRAMEAGENT_MAX_REVISIONS", 3),
		Timeout:      getEnvDurationOrDefault("FRAMEAGENT_TIMEOUT", 10*time.Minute),
		OutputDir:    getEnvOrDefault("FRAMEAGENT_OUTPUT_DIR", "."),
		RetryEnabled: getEnvBoolOrDefault("FRAMEAGENT_RETRY", false),
		RenderImages: getEnvBoolOrDefault("FRAMEAGENT_RENDER_IMAGES", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required configuration is present. Missing
// credentials fail here, before any pipeline work starts.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("FRAMEAGENT_PROVIDER is required (anthropic, openai, or google)")
	}

	switch c.Provider {
	case "anthropic":
		if c.AnthropicKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for anthropic provider")
		}
	case "openai":
		if c.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for openai provider")
		}
	case "google":
		if c.GoogleKey == "" {
			return fmt.Errorf("GOOGLE_API_KEY is required for google provider")
		}
	default:
		return fmt.Errorf("unknown provider: %s (must be anthropic, openai, or google)", c.Provider)
	}

	if c.BrandFile == "" && c.BrandURL == "" {
		return fmt.Errorf("FRAMEAGENT_BRAND_FILE or FRAMEAGENT_BRAND_URL is required")
	}
	if c.MaxRevisions < 1 {
		return fmt.Errorf("FRAMEAGENT_MAX_REVISIONS must be at least 1")
	}
	return nil
}

// ChatModel resolves the configured chat model, or the provider's
// recommended default.
func (c *Config) ChatModel() (ai.Model, error) {
	if c.Model != "" {
		m, ok := model.ChatModelByID(c.Model)
		if !ok {
			return nil, fmt.Errorf("unknown model: %s", c.Model)
		}
		return m, nil
	}
	switch c.Provider {
	case "anthropic":
		return model.DefaultClaudeModel, nil
	case "openai":
		return model.DefaultGPTModel, nil
	case "google":
		return model.DefaultGeminiModel, nil
	}
	return nil, fmt.Errorf("unknown provider: %s", c.Provider)
}

// ImageChatModel resolves the configured image model, if any image
// backend is available. Anthropic has none; OpenAI and Google do.
func (c *Config) ImageChatModel() (ai.Model, bool, error) {
	if c.ImageModel != "" {
		m, ok := model.ImageModelByID(c.ImageModel)
		if !ok {
			return nil, false, fmt.Errorf("unknown image model: %s", c.ImageModel)
		}
		return m, true, nil
	}
	switch {
	case c.OpenAIKey != "":
		return model.DefaultGPTImageModel, true, nil
	case c.GoogleKey != "":
		return model.DefaultImagenModel, true, nil
	}
	return nil, false, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
