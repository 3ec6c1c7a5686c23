package ai

import "context"

// ProviderName identifies a completion provider implementation
type ProviderName string

const (
	// ProviderGateway targets an OpenAI-compatible chat/completions endpoint
	ProviderGateway ProviderName = "gateway"

	// ProviderGemini targets the Google generateContent API
	ProviderGemini ProviderName = "gemini"
)

// String returns the string representation of the provider name
func (p ProviderName) String() string {
	return string(p)
}

// CompletionRequest carries one prompt to a completion provider.
// Model and sampling temperature are fixed at provider construction; the
// request only varies the instruction text.
type CompletionRequest struct {
	System string // optional system instruction
	Prompt string
}

// Provider is the contract for generative-language completion backends.
// Complete blocks for a single synchronous response and returns the raw text
// of the first candidate/choice in the response envelope.
//
// Implementations map upstream failures onto the pkg/errors taxonomy:
// ErrRateLimited (429), ErrQuotaExhausted (402), ErrUnavailable (any other
// non-success status), ErrTransport (network-level), and ErrMissingCredential
// when the API key is absent, detected before any network call.
type Provider interface {
	Name() ProviderName
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
