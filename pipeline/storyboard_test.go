package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/moritzschallercs50/FrameAgent-Studio"
)

type fakeImages struct {
	generate func(prompt string) (*ai.ImageResponse, error)
}

func (f *fakeImages) GenerateImage(_ context.Context, prompt string, _ ...ai.ImageOption) (*ai.ImageResponse, error) {
	return f.generate(prompt)
}

func TestRenderStoryboard(t *testing.T) {
	frames := []Frame{
		{SceneNumber: 1, ImagePrompt: "sunrise frame"},
		{SceneNumber: 2, ImagePrompt: ""}, // no prompt, no render
		{SceneNumber: 3, ImagePrompt: "office frame"},
	}

	t.Run("delivers frames in order with images", func(t *testing.T) {
		p, err := New(Config{
			Chat: &fakeChat{respond: func(string) (string, error) { return "", nil }},
			Images: &fakeImages{generate: func(prompt string) (*ai.ImageResponse, error) {
				return &ai.ImageResponse{Images: []ai.GeneratedImage{{Base64: "img:" + prompt}}}, nil
			}},
		})
		require.NoError(t, err)

		var order []int
		var got []*ai.GeneratedImage
		err = p.RenderStoryboard(context.Background(), frames, func(i int, f Frame, img *ai.GeneratedImage) error {
			order = append(order, f.SceneNumber)
			got = append(got, img)
			return nil
		})
		require.NoError(t, err)

		assert.Equal(t, []int{1, 2, 3}, order)
		require.Len(t, got, 3)
		assert.Equal(t, "img:sunrise frame", got[0].Base64)
		assert.Nil(t, got[1]) // empty prompt degrades to no image
		assert.Equal(t, "img:office frame", got[2].Base64)
	})

	t.Run("backend failure degrades the frame", func(t *testing.T) {
		p, err := New(Config{
			Chat: &fakeChat{respond: func(string) (string, error) { return "", nil }},
			Images: &fakeImages{generate: func(prompt string) (*ai.ImageResponse, error) {
				if strings.Contains(prompt, "office") {
					return nil, errors.New("quota exceeded")
				}
				return &ai.ImageResponse{Images: []ai.GeneratedImage{{Base64: "ok"}}}, nil
			}},
		})
		require.NoError(t, err)

		var got []*ai.GeneratedImage
		err = p.RenderStoryboard(context.Background(), frames, func(i int, f Frame, img *ai.GeneratedImage) error {
			got = append(got, img)
			return nil
		})
		require.NoError(t, err)

		require.Len(t, got, 3)
		assert.NotNil(t, got[0])
		assert.Nil(t, got[2])
	})

	t.Run("no image provider is a configuration error", func(t *testing.T) {
		p, err := New(Config{
			Chat: &fakeChat{respond: func(string) (string, error) { return "", nil }},
		})
		require.NoError(t, err)

		err = p.RenderStoryboard(context.Background(), frames, func(int, Frame, *ai.GeneratedImage) error { return nil })
		var noImages *ErrNoImageProvider
		assert.ErrorAs(t, err, &noImages)
	})

	t.Run("sink error aborts delivery", func(t *testing.T) {
		p, err := New(Config{
			Chat: &fakeChat{respond: func(string) (string, error) { return "", nil }},
			Images: &fakeImages{generate: func(string) (*ai.ImageResponse, error) {
				return &ai.ImageResponse{Images: []ai.GeneratedImage{{Base64: "ok"}}}, nil
			}},
		})
		require.NoError(t, err)

		sinkErr := errors.New("disk full")
		err = p.RenderStoryboard(context.Background(), frames, func(int, Frame, *ai.GeneratedImage) error {
			return sinkErr
		})
		assert.ErrorIs(t, err, sinkErr)
	})
}
