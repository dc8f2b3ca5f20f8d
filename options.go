package frameagent

// ResponseFormat requests a particular response encoding from the provider.
type ResponseFormat string

const (
	// ResponseFormatText is the default free-text response.
	ResponseFormatText ResponseFormat = "text"
	// ResponseFormatJSON asks the provider for a single JSON object.
	// Providers without a native JSON mode emulate it via prompting; the
	// parse package still treats the reply as untrusted.
	ResponseFormatJSON ResponseFormat = "json"
)

// Options contains configuration for a chat request.
type Options struct {
	Model          Model
	MaxTokens      int
	Temperature    *float64
	ResponseFormat ResponseFormat
}

// Option is a functional option for configuring chat requests.
type Option func(*Options)

// WithModel sets the model to use for the request.
func WithModel(model Model) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// WithMaxTokens sets the maximum number of tokens to generate.
func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// WithTemperature sets the sampling temperature (0.0 to 2.0).
func WithTemperature(t float64) Option {
	return func(o *Options) {
		o.Temperature = &t
	}
}

// WithResponseFormat sets the requested response encoding.
func WithResponseFormat(f ResponseFormat) Option {
	return func(o *Options) {
		o.ResponseFormat = f
	}
}

// ApplyOptions applies functional options to an Options struct.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
