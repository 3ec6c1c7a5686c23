package ai

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"augur/pkg/errors"
	"augur/pkg/logger"
)

// RetryPolicy controls automatic retries of completion calls.
// The default of one attempt performs zero automatic retries. Only transient
// failures (ErrUnavailable, ErrTransport) are ever retried; rate-limit and
// quota failures are terminal regardless of the policy, since retrying them
// can only make the upstream situation worse.
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxElapsedTime  time.Duration
}

// retryingProvider decorates a Provider with exponential-backoff retries
type retryingProvider struct {
	inner  Provider
	policy RetryPolicy
	log    *logger.Logger
}

// WithRetry wraps provider with the given policy. A policy of at most one
// attempt returns the provider unchanged.
func WithRetry(provider Provider, policy RetryPolicy) Provider {
	if policy.MaxAttempts <= 1 {
		return provider
	}
	return &retryingProvider{
		inner:  provider,
		policy: policy,
		log:    logger.Get().With("component", "ai_retry", "provider", provider.Name().String()),
	}
}

// Name returns the wrapped provider's name
func (r *retryingProvider) Name() ProviderName { return r.inner.Name() }

// Complete calls the wrapped provider, retrying transient failures
func (r *retryingProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	var result string
	attempt := 0

	operation := func() error {
		attempt++
		text, err := r.inner.Complete(ctx, req)
		if err != nil {
			if !retryable(err) {
				return backoff.Permanent(err)
			}
			r.log.Warnf("Completion attempt %d failed: %v", attempt, err)
			return err
		}
		result = text
		return nil
	}

	strategy := backoff.NewExponentialBackOff()
	strategy.InitialInterval = r.policy.InitialInterval
	strategy.MaxElapsedTime = r.policy.MaxElapsedTime

	wrapped := backoff.WithContext(
		backoff.WithMaxRetries(strategy, uint64(r.policy.MaxAttempts-1)),
		ctx,
	)

	if err := backoff.Retry(operation, wrapped); err != nil {
		return "", err
	}
	return result, nil
}

// retryable reports whether the failure may resolve on its own
func retryable(err error) bool {
	return errors.Is(err, errors.ErrUnavailable) || errors.Is(err, errors.ErrTransport)
}
