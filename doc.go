// Package frameagent provides the core types for a marketing-content
// generation pipeline: a brand's web presence goes in, and a brand strategy,
// creative advertising concepts, a structured 30-second video script, and
// per-scene storyboard prompts/images come out.
//
// The root package defines the provider-neutral vocabulary shared by the rest
// of the module:
//
//   - [ChatProvider]: send a prompt (optionally multimodal) and receive text
//   - [ImageProvider]: generate illustration images from a text prompt
//   - [Message], [Response], [ContentPart]: the request/response shapes
//   - categorized errors ([Error], [IsTransient], [IsPermanent]) so callers can
//     tell a retryable backend hiccup from a misconfiguration
//
// Use [github.com/moritzschallercs50/FrameAgent-Studio/client] for provider
// access, [github.com/moritzschallercs50/FrameAgent-Studio/pipeline] for the
// campaign workflow itself, and
// [github.com/moritzschallercs50/FrameAgent-Studio/model] for model selection.
//
// # Basic Usage
//
//	c := client.New(client.Config{
//	    APIKeys: client.APIKeys{OpenAI: os.Getenv("OPENAI_API_KEY")},
//	    Defaults: client.Defaults{
//	        Chat:  model.DefaultGPTModel,
//	        Image: model.DefaultGPTImageModel,
//	    },
//	})
//
//	resp, err := c.Chat(ctx, []frameagent.Message{
//	    {Role: frameagent.RoleUser, Content: "Summarize this brand in one line."},
//	})
//
// # The Pipeline
//
// The campaign workflow is a directed graph of stages with two bounded
// feedback loops (strategy approval and concept approval). Each stage reads
// from and writes to a shared state, calls a generative backend through
// [ChatProvider] or [ImageProvider], and repairs the semi-structured reply via
// the parse package before anything downstream consumes it. See the pipeline
// and workflow packages.
package frameagent
