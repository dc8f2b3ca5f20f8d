// Command frameagent runs the full content generation pipeline once,
// offline: research, strategy, concepts, script, themes, and frame
// prompts, with both approval stages auto-approving. Outputs land in
// the configured directory as markdown and JSON files.
//
// Usage:
//
//	FRAMEAGENT_PROVIDER=anthropic \
//	FRAMEAGENT_BRAND_FILE=company.json \
//	go run ./cmd/frameagent
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	ai "github.com/moritzschallercs50/FrameAgent-Studio"
	"github.com/moritzschallercs50/FrameAgent-Studio/brand"
	"github.com/moritzschallercs50/FrameAgent-Studio/client"
	"github.com/moritzschallercs50/FrameAgent-Studio/event"
	"github.com/moritzschallercs50/FrameAgent-Studio/pipeline"
	"github.com/moritzschallercs50/FrameAgent-Studio/retry"
	"github.com/moritzschallercs50/FrameAgent-Studio/workflow"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "frameagent: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	chatModel, err := cfg.ChatModel()
	if err != nil {
		return err
	}
	imageModel, hasImages, err := cfg.ImageChatModel()
	if err != nil {
		return err
	}

	var retryConfig *retry.Config
	if cfg.RetryEnabled {
		rc := retry.DefaultConfig()
		retryConfig = &rc
	}

	events := event.NewChannel()
	done := make(chan struct{})
	go logEvents(events, done)

	clientCfg := client.Config{
		APIKeys: client.APIKeys{
			Anthropic: cfg.AnthropicKey,
			OpenAI:    cfg.OpenAIKey,
			Google:    cfg.GoogleKey,
		},
		Defaults:    client.Defaults{Chat: chatModel},
		RetryConfig: retryConfig,
		Events:      events,
	}
	if hasImages {
		clientCfg.Defaults.Image = imageModel
	}
	c := client.New(clientCfg)

	var source brand.Source
	if cfg.BrandFile != "" {
		source = brand.FileSource{Path: cfg.BrandFile}
	} else {
		source = brand.URLSource{URL: cfg.BrandURL}
	}

	pipelineCfg := pipeline.Config{
		Chat:         c,
		Source:       source,
		Style:        cfg.Style,
		MaxRevisions: cfg.MaxRevisions,
		Events:       events,
	}
	if hasImages {
		pipelineCfg.Images = c
	}
	p, err := pipeline.New(pipelineCfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	log.Printf("running pipeline (provider=%s model=%s)", cfg.Provider, chatModel.String())
	result, err := p.Run(ctx)
	if err != nil {
		// Partial state is still worth persisting for inspection.
		if result != nil {
			if werr := writeOutputs(cfg.OutputDir, result.State); werr != nil {
				log.Printf("writing partial outputs: %v", werr)
			}
		}
		return err
	}

	if err := writeOutputs(cfg.OutputDir, result.State); err != nil {
		return err
	}

	if cfg.RenderImages && hasImages {
		if err := renderStoryboard(ctx, p, cfg.OutputDir, result.State); err != nil {
			return err
		}
	}

	close(events)
	<-done
	log.Printf("done (tokens: %d in, %d out)", result.Usage.InputTokens, result.Usage.OutputTokens)
	return nil
}

// writeOutputs persists the final state the way the offline run always
// has: three markdown files plus the complete state as JSON.
func writeOutputs(dir string, state *workflow.State) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	strategy := workflow.GetOr(state, pipeline.KeyStrategy, "No content generated.")
	if err := os.WriteFile(filepath.Join(dir, "brand_strategy.md"), []byte(strategy), 0o644); err != nil {
		return err
	}

	concepts := workflow.GetOr(state, pipeline.KeyConceptsRaw, "No content generated.")
	if err := os.WriteFile(filepath.Join(dir, "creative_concept.md"), []byte(concepts), 0o644); err != nil {
		return err
	}

	script := workflow.GetOr(state, pipeline.KeyScript, pipeline.FallbackScript())
	scriptJSON, err := json.MarshalIndent(script, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "final_script.md"), scriptJSON, 0o644); err != nil {
		return err
	}

	stateJSON, err := json.MarshalIndent(state.Snapshot(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "final_state.json"), stateJSON, 0o644)
}

// renderStoryboard generates one illustration per frame and writes
// them as numbered PNG files next to a storyboard index.
func renderStoryboard(ctx context.Context, p *pipeline.Pipeline, dir string, state *workflow.State) error {
	frames := pipeline.Storyboard(state)
	if len(frames) == 0 {
		return nil
	}

	boardJSON, err := json.MarshalIndent(frames, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "storyboard.json"), boardJSON, 0o644); err != nil {
		return err
	}

	return p.RenderStoryboard(ctx, frames, func(i int, frame pipeline.Frame, img *ai.GeneratedImage) error {
		if img == nil || img.Base64 == "" {
			return nil
		}
		data, err := base64.StdEncoding.DecodeString(img.Base64)
		if err != nil {
			log.Printf("frame %d: decoding image: %v", i+1, err)
			return nil
		}
		name := filepath.Join(dir, fmt.Sprintf("frame_%02d.png", i+1))
		return os.WriteFile(name, data, 0o644)
	})
}

// logEvents reports pipeline progress and degradations to stderr.
func logEvents(events <-chan event.Event, done chan<- struct{}) {
	defer close(done)
	for ev := range events {
		switch ev.Type {
		case event.StepStart:
			log.Printf("stage %s", ev.StepName)
		case event.LoopIteration:
			log.Printf("%s iteration %d", ev.StepName, ev.Iteration)
		case event.ParseFallback:
			log.Printf("%s: parse fallback: %s", ev.StepName, ev.Message)
		case event.StageDegraded:
			log.Printf("%s: degraded: %v", ev.StepName, ev.Error)
		case event.RunError:
			log.Printf("error: %v (%s)", ev.Error, ev.Message)
		}
	}
}
