package ai

import (
	"context"

	"augur/internal/adapters/config"
	"augur/pkg/errors"
)

// NewProvider builds the configured completion provider and wraps it with the
// retry policy. With the default policy (max attempts = 1) the wrapper is a
// no-op and every upstream failure is terminal for the request.
func NewProvider(ctx context.Context, cfg config.AIConfig, retry config.RetryConfig) (Provider, error) {
	var (
		provider Provider
		err      error
	)

	switch ProviderName(cfg.Provider) {
	case ProviderGateway:
		provider, err = NewGatewayProvider(cfg.APIKey, cfg.GatewayBaseURL, cfg.Model, cfg.Temperature, cfg.Timeout)
	case ProviderGemini:
		provider, err = NewGeminiProvider(ctx, cfg.APIKey, cfg.Model, cfg.Temperature, cfg.Timeout)
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unknown AI provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	provider = WithRetry(provider, RetryPolicy{
		MaxAttempts:     retry.MaxAttempts,
		InitialInterval: retry.InitialInterval,
		MaxElapsedTime:  retry.MaxElapsedTime,
	})

	return WithMetrics(provider), nil
}
