// Command frameagent-mcp serves the content generation stages as MCP
// tools over stdio, for use from MCP-capable clients. Each analyze_url
// call opens a session; the remaining tools advance that session one
// stage at a time, with the client supplying the approval decisions the
// offline runner auto-approves.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	ai "github.com/moritzschallercs50/FrameAgent-Studio"
	"github.com/moritzschallercs50/FrameAgent-Studio/client"
	"github.com/moritzschallercs50/FrameAgent-Studio/mcp"
	"github.com/moritzschallercs50/FrameAgent-Studio/model"
	"github.com/moritzschallercs50/FrameAgent-Studio/pipeline"
	"github.com/moritzschallercs50/FrameAgent-Studio/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "frameagent-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	godotenv.Load()

	keys := client.APIKeys{
		Anthropic: os.Getenv("ANTHROPIC_API_KEY"),
		OpenAI:    os.Getenv("OPENAI_API_KEY"),
		Google:    os.Getenv("GOOGLE_API_KEY"),
	}
	if keys.Anthropic == "" && keys.OpenAI == "" && keys.Google == "" {
		return fmt.Errorf("no API key configured (set ANTHROPIC_API_KEY, OPENAI_API_KEY, or GOOGLE_API_KEY)")
	}

	chatModel, err := defaultChatModel(keys)
	if err != nil {
		return err
	}

	c := client.New(client.Config{
		APIKeys:  keys,
		Defaults: client.Defaults{Chat: chatModel},
	})

	stages := &pipeline.Stages{Chat: c}

	// Stdout carries the protocol; progress goes to stderr.
	log.SetOutput(os.Stderr)
	log.Printf("serving MCP over stdio (model=%s)", chatModel.String())

	return mcp.ServeStdio(stages, store.NewMemoryAdapter())
}

// defaultChatModel picks a model from FRAMEAGENT_MODEL, or the default
// for the first provider with a configured key.
func defaultChatModel(keys client.APIKeys) (ai.Model, error) {
	if id := os.Getenv("FRAMEAGENT_MODEL"); id != "" {
		m, ok := model.ChatModelByID(id)
		if !ok {
			return nil, fmt.Errorf("unknown model: %s", id)
		}
		return m, nil
	}
	switch {
	case keys.Anthropic != "":
		return model.DefaultClaudeModel, nil
	case keys.OpenAI != "":
		return model.DefaultGPTModel, nil
	default:
		return model.DefaultGeminiModel, nil
	}
}
