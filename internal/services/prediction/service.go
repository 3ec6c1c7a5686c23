// Package prediction orchestrates one price-prediction request: validate the
// ticker, optionally fetch price history, build the prompt, call the
// completion provider and parse the reply.
package prediction

import (
	"context"
	"strings"

	"augur/internal/adapters/ai"
	"augur/internal/domain/forecast"
	"augur/internal/metrics"
	"augur/pkg/errors"
	"augur/pkg/llmjson"
	"augur/pkg/logger"
)

// fallbackReason is the reasoning text carried by the fixed fallback record
const fallbackReason = "Unable to generate prediction"

// Completer produces one text completion per prompt
type Completer interface {
	Complete(ctx context.Context, req ai.CompletionRequest) (string, error)
}

// HistoryProvider fetches recent daily closes for a ticker
type HistoryProvider interface {
	DailyCloses(ctx context.Context, ticker string) ([]forecast.DailyClose, error)
}

// Service handles prediction requests end to end
type Service struct {
	completer Completer
	history   HistoryProvider // optional; nil disables server-side fetching
	log       *logger.Logger
}

// NewService creates a prediction service. history may be nil, in which case
// only caller-supplied historical data is embedded in the prompt.
func NewService(completer Completer, history HistoryProvider, log *logger.Logger) *Service {
	return &Service{
		completer: completer,
		history:   history,
		log:       log,
	}
}

// Predict runs the pipeline for one ticker. clientHistory, when non-empty,
// takes precedence over server-side fetching. Upstream failures propagate as
// typed errors; an unparsable or invalid model reply is absorbed into the
// fixed fallback record instead, with any fetched chart data attached so it
// is never lost.
func (s *Service) Predict(ctx context.Context, ticker string, clientHistory []forecast.DailyClose) (*forecast.Prediction, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "ticker symbol is required")
	}
	if s.completer == nil {
		return nil, errors.Wrap(errors.ErrMissingCredential, "AI service not configured")
	}

	history := clientHistory
	fetched := false
	if len(history) == 0 && s.history != nil {
		closes, err := s.history.DailyCloses(ctx, ticker)
		if err != nil {
			return nil, errors.Wrapf(err, "fetch market data for %s", ticker)
		}
		history = closes
		fetched = true
	}

	s.log.Info("Requesting prediction", "ticker", ticker, "history_sessions", len(history))

	text, err := s.completer.Complete(ctx, ai.CompletionRequest{
		System: SystemPrompt,
		Prompt: BuildPrompt(ticker, history),
	})
	if err != nil {
		return nil, err
	}

	var pred forecast.Prediction
	if err := llmjson.Decode(text, &pred); err != nil {
		s.log.Warn("Falling back: model reply not usable", "ticker", ticker, "error", err)
		metrics.ParseFallbacks.WithLabelValues("prediction").Inc()

		fallback := forecast.FallbackPrediction(fallbackReason)
		if fetched {
			fallback.ChartData = history
		}
		return fallback, nil
	}

	if fetched {
		pred.ChartData = history
	}
	return &pred, nil
}
