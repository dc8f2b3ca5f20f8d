// Package parse extracts structured values from model responses.
//
// Model output is untrusted: JSON arrives wrapped in markdown fences,
// preceded by prose, or malformed outright. Every function here either
// returns a usable value or an error the caller can trade for a
// documented fallback; nothing in this package panics or retries.
package parse

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SectionDelimiter separates list items in delimiter-formatted responses.
// A single unusual rune survives model paraphrasing far better than
// numbering or blank-line conventions.
const SectionDelimiter = "§"

// Sections splits a delimiter-formatted response into trimmed, non-empty
// items. A response with no delimiter yields a single item; an empty or
// whitespace-only response yields nil.
func Sections(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, SectionDelimiter) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// StripFences removes a wrapping markdown code fence from a response.
// Handles ```json ... ``` and bare ``` ... ``` wrappers; content without
// fences passes through unchanged.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop the language tag on the opening fence line
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		first := strings.TrimSpace(s[:idx])
		if first == "" || !strings.ContainsAny(first, "{[") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ExtractObject returns the first balanced JSON object in the input, or
// the empty string if none exists. Text before and after the object is
// ignored, which tolerates models that narrate around their JSON.
func ExtractObject(raw string) string {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1]
			}
		}
	}
	return ""
}

// Object unmarshals a model response into T. It strips markdown fences
// and locates the first balanced JSON object before decoding, so the
// response may contain surrounding prose. Returns an error if no object
// is found or decoding fails; callers substitute their documented
// fallback value and report the raw response.
func Object[T any](raw string) (T, error) {
	var result T

	cleaned := StripFences(raw)
	obj := ExtractObject(cleaned)
	if obj == "" {
		return result, fmt.Errorf("parse: no JSON object in response")
	}

	if err := json.Unmarshal([]byte(obj), &result); err != nil {
		return result, fmt.Errorf("parse: decode into %T: %w", result, err)
	}
	return result, nil
}

// ObjectOr unmarshals a model response into T, returning fallback when
// the response cannot be parsed. The second return reports whether the
// fallback was used so callers can surface the degradation.
func ObjectOr[T any](raw string, fallback T) (T, bool) {
	v, err := Object[T](raw)
	if err != nil {
		return fallback, true
	}
	return v, false
}
