package ai

import (
	"context"
	"time"

	"augur/internal/metrics"
	"augur/pkg/errors"
)

// instrumentedProvider records call counts and latency for the wrapped provider
type instrumentedProvider struct {
	inner Provider
}

// WithMetrics wraps provider with Prometheus instrumentation
func WithMetrics(provider Provider) Provider {
	return &instrumentedProvider{inner: provider}
}

// Name returns the wrapped provider's name
func (m *instrumentedProvider) Name() ProviderName { return m.inner.Name() }

// Complete delegates to the wrapped provider and records the outcome
func (m *instrumentedProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	start := time.Now()
	text, err := m.inner.Complete(ctx, req)
	latency := time.Since(start)

	status := "success"
	switch {
	case errors.Is(err, errors.ErrRateLimited):
		status = "rate_limited"
	case err != nil:
		status = "error"
	}
	metrics.CompletionCalls.WithLabelValues(m.inner.Name().String(), status).Inc()
	metrics.CompletionLatency.WithLabelValues(m.inner.Name().String()).Observe(latency.Seconds())

	return text, err
}
