// Package anthropic adapts the official Anthropic SDK to the provider
// interfaces. Anthropic has no native JSON mode, so JSON responses are
// forced through a synthetic tool whose input becomes the response body.
package anthropic
