// Package llmjson extracts JSON objects from free-text language-model replies.
// Models regularly wrap their output in markdown code fences despite being
// told not to; this package strips the fences and decodes what remains.
package llmjson

import (
	"encoding/json"
	"strings"

	"augur/pkg/errors"
)

// Validator is implemented by schemas that can check their own required
// fields after decoding.
type Validator interface {
	Validate() error
}

// StripFences removes a surrounding markdown code fence (triple backtick,
// optionally followed by a language tag) and trims whitespace. Input without
// fences is returned trimmed, so the function is idempotent on clean JSON.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	// Drop the language tag, if any ("json", "JSON", ...)
	if idx := strings.IndexAny(s, "\n{["); idx >= 0 {
		tag := strings.TrimSpace(s[:idx])
		if tag != "" && !strings.ContainsAny(tag, "{}[]") {
			s = s[idx:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// Decode strips fences from raw and unmarshals the remainder into v.
// When v implements Validator the decoded object is also validated, so a
// syntactically valid reply missing required fields is rejected the same way
// as malformed JSON. The caller decides the fallback policy.
func Decode(raw string, v interface{}) error {
	cleaned := StripFences(raw)
	if cleaned == "" {
		return errors.Wrap(errors.ErrInvalidInput, "empty completion text")
	}

	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return errors.Wrap(err, "unmarshal completion text")
	}

	if validator, ok := v.(Validator); ok {
		if err := validator.Validate(); err != nil {
			return errors.Wrap(err, "validate completion object")
		}
	}

	return nil
}
