package pipeline

import (
	"context"
	"fmt"
	"sync"

	ai "github.com/moritzschallercs50/FrameAgent-Studio"
	"github.com/moritzschallercs50/FrameAgent-Studio/event"
	"github.com/moritzschallercs50/FrameAgent-Studio/workflow"
)

// Storyboard joins the script's scenes with their frame prompts into
// ordered frames. Prompts are index-aligned with scenes; a scene past
// the end of the prompt list gets an empty prompt rather than being
// dropped.
func Storyboard(state *workflow.State) []Frame {
	script := workflow.GetOr(state, KeyScript, FallbackScript())
	prompts := workflow.GetOr(state, KeyFramePrompts, nil)

	frames := make([]Frame, 0, len(script.Scenes))
	for i, scene := range script.Scenes {
		prompt := ""
		if i < len(prompts) {
			prompt = prompts[i]
		}
		frames = append(frames, Frame{
			SceneNumber:       scene.SceneNumber,
			Timestamp:         fmt.Sprintf("%s - %s", scene.TimestampStart, scene.TimestampEnd),
			Setting:           scene.Setting,
			VisualDescription: scene.VisualDescription,
			TextOnScreen:      scene.TextOnScreen,
			AudioCue:          scene.AudioCue,
			ImagePrompt:       prompt,
		})
	}
	return frames
}

// FrameSink receives one rendered frame image. Persistence is the
// caller's concern; the pipeline only hands the bytes over. A nil
// image means the frame degraded (backend failure or empty prompt).
type FrameSink func(index int, frame Frame, img *ai.GeneratedImage) error

// RenderStoryboard generates one illustration per frame through the
// image backend and delivers them to the sink in frame order. Frames
// render concurrently; backend failures degrade that frame (nil image
// plus a StageDegraded event) instead of failing the storyboard.
func (p *Pipeline) RenderStoryboard(ctx context.Context, frames []Frame, sink FrameSink) error {
	if p.cfg.Images == nil {
		return &ErrNoImageProvider{}
	}

	limit := p.cfg.MaxConcurrency
	if limit <= 0 {
		limit = 4
	}

	images := make([]*ai.GeneratedImage, len(frames))
	var (
		wg     sync.WaitGroup
		sem    = make(chan struct{}, limit)
		mu     sync.Mutex
		runErr error
	)

	for i, frame := range frames {
		if frame.ImagePrompt == "" {
			continue
		}
		wg.Add(1)
		go func(i int, frame Frame) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			opts := []ai.ImageOption{
				ai.WithImageSize(ai.ImageSize1792x1024),
				ai.WithImageFormat(ai.ImageFormatBase64),
			}
			if p.cfg.Style != "" {
				opts = append(opts, ai.WithImageStyle(p.cfg.Style))
			}

			resp, err := p.cfg.Images.GenerateImage(ctx, frame.ImagePrompt, opts...)
			if err != nil {
				if ctx.Err() != nil {
					mu.Lock()
					if runErr == nil {
						runErr = ctx.Err()
					}
					mu.Unlock()
					return
				}
				event.Emit(p.cfg.Events, event.Event{
					Type:     event.StageDegraded,
					StepName: "storyboard_images",
					Error:    err,
					Message:  fmt.Sprintf("frame %d image generation failed", i+1),
				})
				return
			}
			if len(resp.Images) > 0 {
				images[i] = &resp.Images[0]
			}
		}(i, frame)
	}
	wg.Wait()

	if runErr != nil {
		return runErr
	}

	// Deliver in order regardless of completion order.
	for i, frame := range frames {
		if err := sink(i, frame, images[i]); err != nil {
			return err
		}
	}
	return nil
}

// ErrNoImageProvider is returned when storyboard rendering is requested
// without an image backend configured.
type ErrNoImageProvider struct{}

func (e *ErrNoImageProvider) Error() string {
	return "pipeline: no image provider configured for storyboard rendering"
}
