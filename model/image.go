package model

import ai "github.com/moritzschallercs50/FrameAgent-Studio"

// ImageModel represents an image generation model from any provider.
type ImageModel struct {
	id       string
	provider ai.Provider
}

// String returns the API identifier for this model.
func (m ImageModel) String() string { return m.id }

// Provider returns which provider this model belongs to.
func (m ImageModel) Provider() ai.Provider { return m.provider }

// OpenAI image models
var (
	GPTImage1     = ImageModel{id: "gpt-image-1", provider: ai.ProviderOpenAI}
	GPTImage1Mini = ImageModel{id: "gpt-image-1-mini", provider: ai.ProviderOpenAI}

	// DefaultGPTImageModel is the recommended default OpenAI image model.
	DefaultGPTImageModel = GPTImage1
)

// Google Imagen models
var (
	Imagen4     = ImageModel{id: "imagen-4.0-generate-001", provider: ai.ProviderGoogle}
	Imagen4Fast = ImageModel{id: "imagen-4.0-fast-generate-001", provider: ai.ProviderGoogle}

	// DefaultImagenModel is the recommended default Google image model.
	DefaultImagenModel = Imagen4
)

// ImageModelByID resolves an image model identifier from configuration.
func ImageModelByID(id string) (ImageModel, bool) {
	for _, m := range []ImageModel{GPTImage1, GPTImage1Mini, Imagen4, Imagen4Fast} {
		if m.id == id {
			return m, true
		}
	}
	return ImageModel{}, false
}
