package ai

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"augur/pkg/errors"
	"augur/pkg/logger"
)

// Ensure GatewayProvider implements Provider
var _ Provider = (*GatewayProvider)(nil)

// GatewayProvider talks to an OpenAI-compatible chat/completions endpoint
// through the official OpenAI Go SDK with a configurable base URL, which
// covers both api.openai.com and OpenAI-compatible AI gateways.
type GatewayProvider struct {
	client      openai.Client // NewClient returns Client (not *Client)
	model       string
	temperature float64
	timeout     time.Duration
	log         *logger.Logger
}

// NewGatewayProvider creates a gateway-backed completion provider.
// Fails fast when the API key is absent so no request ever reaches the
// network with a missing credential.
func NewGatewayProvider(apiKey, baseURL, model string, temperature float64, timeout time.Duration) (*GatewayProvider, error) {
	if apiKey == "" {
		return nil, errors.Wrap(errors.ErrMissingCredential, "gateway API key is required")
	}
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		// The SDK retries on its own by default; retry policy is owned by
		// WithRetry, so the SDK-level retries are disabled here.
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		// The SDK resolves paths relative to the base URL, so a missing
		// trailing slash would swallow the last path segment
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &GatewayProvider{
		client:      openai.NewClient(opts...),
		model:       model,
		temperature: temperature,
		timeout:     timeout,
		log:         logger.Get().With("component", "ai_gateway", "model", model),
	}, nil
}

// Name returns the provider name
func (p *GatewayProvider) Name() ProviderName { return ProviderGateway }

// Complete sends a chat completion request and returns the first choice text
func (p *GatewayProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(p.model),
		Messages:    messages,
		Temperature: openai.Float(p.temperature),
	})
	if err != nil {
		return "", p.mapError(err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.Wrap(errors.ErrUnavailable, "gateway returned no choices")
	}

	p.log.Debug("Completion received",
		"latency", time.Since(start),
		"tokens_used", resp.Usage.TotalTokens)

	return resp.Choices[0].Message.Content, nil
}

// mapError translates SDK failures into the pkg/errors taxonomy
func (p *GatewayProvider) mapError(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		switch apierr.StatusCode {
		case http.StatusTooManyRequests:
			return errors.Wrapf(errors.ErrRateLimited, "gateway returned %d", apierr.StatusCode)
		case http.StatusPaymentRequired:
			return errors.Wrapf(errors.ErrQuotaExhausted, "gateway returned %d", apierr.StatusCode)
		default:
			return errors.Wrapf(errors.ErrUnavailable, "gateway returned %d: %s", apierr.StatusCode, apierr.Message)
		}
	}
	// No HTTP response at all: timeout, DNS failure, connection reset
	return errors.Wrap(errors.ErrTransport, err.Error())
}
