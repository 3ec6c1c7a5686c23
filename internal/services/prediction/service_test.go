package prediction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"augur/internal/adapters/ai"
	"augur/internal/domain/forecast"
	"augur/pkg/errors"
	"augur/pkg/logger"
)

// mockCompleter implements Completer for testing
type mockCompleter struct {
	completeFunc func(context.Context, ai.CompletionRequest) (string, error)
	calls        int
}

func (m *mockCompleter) Complete(ctx context.Context, req ai.CompletionRequest) (string, error) {
	m.calls++
	if m.completeFunc != nil {
		return m.completeFunc(ctx, req)
	}
	return "{}", nil
}

// mockHistory implements HistoryProvider for testing
type mockHistory struct {
	closesFunc func(context.Context, string) ([]forecast.DailyClose, error)
	calls      int
}

func (m *mockHistory) DailyCloses(ctx context.Context, ticker string) ([]forecast.DailyClose, error) {
	m.calls++
	if m.closesFunc != nil {
		return m.closesFunc(ctx, ticker)
	}
	return nil, nil
}

func TestService_Predict(t *testing.T) {
	ctx := context.Background()
	log := logger.Get()

	t.Run("returns parsed prediction", func(t *testing.T) {
		completer := &mockCompleter{
			completeFunc: func(ctx context.Context, req ai.CompletionRequest) (string, error) {
				assert.Equal(t, SystemPrompt, req.System)
				assert.Contains(t, req.Prompt, "Analyze the stock AAPL")
				return `{"predictedPrice": 187.5, "confidence": 72, "trend": "bullish", "reasoning": "Momentum", "targetPrice30d": 195, "targetPrice90d": 210}`, nil
			},
		}

		svc := NewService(completer, nil, log)
		pred, err := svc.Predict(ctx, "AAPL", nil)

		require.NoError(t, err)
		assert.Equal(t, 187.5, pred.PredictedPrice)
		assert.Equal(t, forecast.TrendBullish, pred.Trend)
		assert.Equal(t, float64(72), pred.Confidence)
	})

	t.Run("strips markdown fences from reply", func(t *testing.T) {
		completer := &mockCompleter{
			completeFunc: func(ctx context.Context, req ai.CompletionRequest) (string, error) {
				return "```json\n{\"predictedPrice\": 50, \"confidence\": 60, \"trend\": \"neutral\", \"reasoning\": \"Flat\", \"targetPrice30d\": 51, \"targetPrice90d\": 52}\n```", nil
			},
		}

		svc := NewService(completer, nil, log)
		pred, err := svc.Predict(ctx, "AAPL", nil)

		require.NoError(t, err)
		assert.Equal(t, float64(50), pred.PredictedPrice)
		assert.Equal(t, "Flat", pred.Reasoning)
	})

	t.Run("normalizes ticker before prompting", func(t *testing.T) {
		completer := &mockCompleter{
			completeFunc: func(ctx context.Context, req ai.CompletionRequest) (string, error) {
				assert.Contains(t, req.Prompt, "Analyze the stock AAPL")
				assert.NotContains(t, req.Prompt, "aapl")
				return `{"predictedPrice": 1, "confidence": 50, "trend": "neutral", "reasoning": "r", "targetPrice30d": 1, "targetPrice90d": 1}`, nil
			},
		}

		svc := NewService(completer, nil, log)
		_, err := svc.Predict(ctx, "  aapl  ", nil)
		require.NoError(t, err)
	})

	t.Run("rejects empty ticker without calling provider", func(t *testing.T) {
		completer := &mockCompleter{}
		svc := NewService(completer, nil, log)

		pred, err := svc.Predict(ctx, "   ", nil)

		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrInvalidInput))
		assert.Nil(t, pred)
		assert.Equal(t, 0, completer.calls)
	})

	t.Run("rejects missing completer as credential error", func(t *testing.T) {
		svc := NewService(nil, nil, log)

		pred, err := svc.Predict(ctx, "AAPL", nil)

		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrMissingCredential))
		assert.Nil(t, pred)
	})

	t.Run("falls back on unparsable reply", func(t *testing.T) {
		completer := &mockCompleter{
			completeFunc: func(ctx context.Context, req ai.CompletionRequest) (string, error) {
				return "The stock looks great, buy buy buy!", nil
			},
		}

		svc := NewService(completer, nil, log)
		pred, err := svc.Predict(ctx, "AAPL", nil)

		require.NoError(t, err)
		assert.Equal(t, forecast.FallbackPrediction("Unable to generate prediction"), pred)
	})

	t.Run("falls back on reply failing validation", func(t *testing.T) {
		completer := &mockCompleter{
			completeFunc: func(ctx context.Context, req ai.CompletionRequest) (string, error) {
				// Valid JSON but confidence is out of range
				return `{"predictedPrice": 10, "confidence": 400, "trend": "bullish", "reasoning": "r", "targetPrice30d": 1, "targetPrice90d": 1}`, nil
			},
		}

		svc := NewService(completer, nil, log)
		pred, err := svc.Predict(ctx, "AAPL", nil)

		require.NoError(t, err)
		assert.Equal(t, forecast.TrendNeutral, pred.Trend)
		assert.Equal(t, float64(50), pred.Confidence)
		assert.Equal(t, "Unable to generate prediction", pred.Reasoning)
	})

	t.Run("propagates provider errors untouched", func(t *testing.T) {
		completer := &mockCompleter{
			completeFunc: func(ctx context.Context, req ai.CompletionRequest) (string, error) {
				return "", errors.Wrap(errors.ErrRateLimited, "upstream returned 429")
			},
		}

		svc := NewService(completer, nil, log)
		pred, err := svc.Predict(ctx, "AAPL", nil)

		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrRateLimited))
		assert.Nil(t, pred)
	})
}

func TestService_Predict_History(t *testing.T) {
	ctx := context.Background()
	log := logger.Get()

	fetched := []forecast.DailyClose{
		{Date: "2025-01-03", Close: 243.36},
		{Date: "2025-01-02", Close: 245.00},
	}

	validReply := `{"predictedPrice": 250, "confidence": 70, "trend": "bullish", "reasoning": "r", "targetPrice30d": 260, "targetPrice90d": 270, "currentPrice": 243.36}`

	t.Run("fetches history when none supplied", func(t *testing.T) {
		history := &mockHistory{
			closesFunc: func(ctx context.Context, ticker string) ([]forecast.DailyClose, error) {
				assert.Equal(t, "AAPL", ticker)
				return fetched, nil
			},
		}
		completer := &mockCompleter{
			completeFunc: func(ctx context.Context, req ai.CompletionRequest) (string, error) {
				assert.Contains(t, req.Prompt, "historical closing prices")
				assert.Contains(t, req.Prompt, "7. currentPrice")
				return validReply, nil
			},
		}

		svc := NewService(completer, history, log)
		pred, err := svc.Predict(ctx, "AAPL", nil)

		require.NoError(t, err)
		assert.Equal(t, 1, history.calls)
		assert.Equal(t, fetched, pred.ChartData)
		assert.Equal(t, 243.36, pred.CurrentPrice)
	})

	t.Run("client-supplied history skips fetching", func(t *testing.T) {
		history := &mockHistory{}
		supplied := []forecast.DailyClose{{Date: "2025-01-02", Close: 99}}

		completer := &mockCompleter{
			completeFunc: func(ctx context.Context, req ai.CompletionRequest) (string, error) {
				assert.Contains(t, req.Prompt, "99")
				return validReply, nil
			},
		}

		svc := NewService(completer, history, log)
		pred, err := svc.Predict(ctx, "AAPL", supplied)

		require.NoError(t, err)
		assert.Equal(t, 0, history.calls)
		// Client-supplied history is not echoed back as chart data
		assert.Empty(t, pred.ChartData)
	})

	t.Run("fetch failure propagates as upstream error", func(t *testing.T) {
		history := &mockHistory{
			closesFunc: func(ctx context.Context, ticker string) ([]forecast.DailyClose, error) {
				return nil, errors.Wrap(errors.ErrUpstreamData, "alpha vantage down")
			},
		}
		completer := &mockCompleter{}

		svc := NewService(completer, history, log)
		pred, err := svc.Predict(ctx, "AAPL", nil)

		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrUpstreamData))
		assert.Nil(t, pred)
		assert.Equal(t, 0, completer.calls)
	})

	t.Run("fallback keeps fetched chart data", func(t *testing.T) {
		history := &mockHistory{
			closesFunc: func(ctx context.Context, ticker string) ([]forecast.DailyClose, error) {
				return fetched, nil
			},
		}
		completer := &mockCompleter{
			completeFunc: func(ctx context.Context, req ai.CompletionRequest) (string, error) {
				return "not json at all", nil
			},
		}

		svc := NewService(completer, history, log)
		pred, err := svc.Predict(ctx, "AAPL", nil)

		require.NoError(t, err)
		assert.Equal(t, "Unable to generate prediction", pred.Reasoning)
		assert.Equal(t, fetched, pred.ChartData)
	})
}
