package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"augur/internal/adapters/config"
	"augur/pkg/errors"
)

func TestNewProvider(t *testing.T) {
	ctx := context.Background()
	retry := config.RetryConfig{MaxAttempts: 1}

	t.Run("builds gateway provider", func(t *testing.T) {
		provider, err := NewProvider(ctx, config.AIConfig{
			Provider: "gateway",
			APIKey:   "test-key",
			Model:    "google/gemini-2.5-flash",
		}, retry)

		require.NoError(t, err)
		assert.Equal(t, ProviderGateway, provider.Name())
	})

	t.Run("builds gemini provider", func(t *testing.T) {
		provider, err := NewProvider(ctx, config.AIConfig{
			Provider: "gemini",
			APIKey:   "test-key",
			Model:    "gemini-2.5-flash",
		}, retry)

		require.NoError(t, err)
		assert.Equal(t, ProviderGemini, provider.Name())
	})

	t.Run("rejects unknown provider", func(t *testing.T) {
		provider, err := NewProvider(ctx, config.AIConfig{
			Provider: "anthropic",
			APIKey:   "test-key",
		}, retry)

		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrInvalidInput))
		assert.Nil(t, provider)
	})

	t.Run("rejects missing API key before any network call", func(t *testing.T) {
		provider, err := NewProvider(ctx, config.AIConfig{Provider: "gateway"}, retry)

		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrMissingCredential))
		assert.Nil(t, provider)
	})
}
