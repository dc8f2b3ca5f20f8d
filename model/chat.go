package model

import ai "github.com/moritzschallercs50/FrameAgent-Studio"

// ChatModel represents a chat/completion model from any provider.
type ChatModel struct {
	id       string
	provider ai.Provider
}

// String returns the API identifier for this model.
func (m ChatModel) String() string { return m.id }

// Provider returns which provider this model belongs to.
func (m ChatModel) Provider() ai.Provider { return m.provider }

// Anthropic Claude models
var (
	ClaudeOpus45   = ChatModel{id: "claude-opus-4-5", provider: ai.ProviderAnthropic}
	ClaudeSonnet45 = ChatModel{id: "claude-sonnet-4-5", provider: ai.ProviderAnthropic}
	ClaudeHaiku45  = ChatModel{id: "claude-haiku-4-5", provider: ai.ProviderAnthropic}

	// DefaultClaudeModel is the recommended default Anthropic model.
	DefaultClaudeModel = ClaudeSonnet45
)

// OpenAI GPT models
var (
	GPT52    = ChatModel{id: "gpt-5.2", provider: ai.ProviderOpenAI}
	GPT51    = ChatModel{id: "gpt-5.1", provider: ai.ProviderOpenAI}
	GPT5Mini = ChatModel{id: "gpt-5-mini", provider: ai.ProviderOpenAI}
	GPT5Nano = ChatModel{id: "gpt-5-nano", provider: ai.ProviderOpenAI}

	// DefaultGPTModel is the recommended default OpenAI model.
	DefaultGPTModel = GPT52
)

// Google Gemini models
var (
	Gemini3Pro        = ChatModel{id: "gemini-3.0-pro", provider: ai.ProviderGoogle}
	Gemini25Pro       = ChatModel{id: "gemini-2.5-pro", provider: ai.ProviderGoogle}
	Gemini25Flash     = ChatModel{id: "gemini-2.5-flash", provider: ai.ProviderGoogle}
	Gemini25FlashLite = ChatModel{id: "gemini-2.5-flash-lite", provider: ai.ProviderGoogle}

	// DefaultGeminiModel is the recommended default Google model.
	DefaultGeminiModel = Gemini25Flash
)

// ChatModelByID resolves a model identifier from configuration to a catalog
// entry. Unknown identifiers return false; callers should fail fast at
// startup rather than mid-pipeline.
func ChatModelByID(id string) (ChatModel, bool) {
	for _, m := range []ChatModel{
		ClaudeOpus45, ClaudeSonnet45, ClaudeHaiku45,
		GPT52, GPT51, GPT5Mini, GPT5Nano,
		Gemini3Pro, Gemini25Pro, Gemini25Flash, Gemini25FlashLite,
	} {
		if m.id == id {
			return m, true
		}
	}
	return ChatModel{}, false
}
