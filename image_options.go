package frameagent

// ImageOptions contains configuration for an image generation request.
type ImageOptions struct {
	Model   Model
	Size    ImageSize
	Count   int
	Quality ImageQuality
	Style   string
	Format  ImageFormat
}

// ImageOption is a functional option for configuring image generation requests.
type ImageOption func(*ImageOptions)

// WithImageModel sets the model to use for image generation.
func WithImageModel(model Model) ImageOption {
	return func(o *ImageOptions) {
		o.Model = model
	}
}

// WithImageSize sets the dimensions for generated images.
func WithImageSize(size ImageSize) ImageOption {
	return func(o *ImageOptions) {
		o.Size = size
	}
}

// WithImageCount sets the number of images to generate.
// Note: OpenAI image models only support n=1; Google Imagen supports up to 4.
func WithImageCount(n int) ImageOption {
	return func(o *ImageOptions) {
		o.Count = n
	}
}

// WithImageQuality sets the quality level for generated images.
func WithImageQuality(q ImageQuality) ImageOption {
	return func(o *ImageOptions) {
		o.Quality = q
	}
}

// WithImageStyle folds a named visual style into the request. The style text
// is appended to the prompt as "<prompt> in the style of <style>"; backends
// have no first-class style parameter for arbitrary styles.
func WithImageStyle(style string) ImageOption {
	return func(o *ImageOptions) {
		o.Style = style
	}
}

// WithImageFormat sets the output format for generated images.
// Supported values: "url", "b64_json"
func WithImageFormat(f ImageFormat) ImageOption {
	return func(o *ImageOptions) {
		o.Format = f
	}
}

// ApplyImageOptions applies functional options to an ImageOptions struct.
func ApplyImageOptions(opts ...ImageOption) *ImageOptions {
	o := &ImageOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// StyledPrompt returns the prompt with the configured style folded in.
func (o *ImageOptions) StyledPrompt(prompt string) string {
	if o.Style == "" {
		return prompt
	}
	return prompt + " in the style of " + o.Style
}
