package ai

import (
	"context"
	"net/http"
	"time"

	"google.golang.org/genai"

	"augur/pkg/errors"
	"augur/pkg/logger"
)

// Ensure GeminiProvider implements Provider
var _ Provider = (*GeminiProvider)(nil)

// GeminiProvider talks to the Google generateContent API through the official
// genai SDK. This is the variant that calls Gemini directly instead of going
// through an OpenAI-compatible gateway.
type GeminiProvider struct {
	client      *genai.Client
	model       string
	temperature float64
	timeout     time.Duration
	log         *logger.Logger
}

// NewGeminiProvider creates a Gemini-backed completion provider
func NewGeminiProvider(ctx context.Context, apiKey, model string, temperature float64, timeout time.Duration) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, errors.Wrap(errors.ErrMissingCredential, "gemini API key is required")
	}
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create genai client")
	}

	return &GeminiProvider{
		client:      client,
		model:       model,
		temperature: temperature,
		timeout:     timeout,
		log:         logger.Get().With("component", "ai_gemini", "model", model),
	}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() ProviderName { return ProviderGemini }

// Complete sends a generateContent request and returns the first candidate text
func (p *GeminiProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(p.temperature)),
	}
	if req.System != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}

	start := time.Now()
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return "", p.mapError(err)
	}

	if len(resp.Candidates) == 0 {
		return "", errors.Wrap(errors.ErrUnavailable, "gemini returned no candidates")
	}

	p.log.Debug("Completion received", "latency", time.Since(start))

	return resp.Text(), nil
}

// mapError translates SDK failures into the pkg/errors taxonomy
func (p *GeminiProvider) mapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests:
			return errors.Wrapf(errors.ErrRateLimited, "gemini returned %d", apiErr.Code)
		case http.StatusPaymentRequired:
			return errors.Wrapf(errors.ErrQuotaExhausted, "gemini returned %d", apiErr.Code)
		default:
			return errors.Wrapf(errors.ErrUnavailable, "gemini returned %d: %s", apiErr.Code, apiErr.Message)
		}
	}
	return errors.Wrap(errors.ErrTransport, err.Error())
}
