// Package sentiment orchestrates one sentiment-analysis request against the
// completion provider, mirroring the prediction pipeline.
package sentiment

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

// Completer produces one text completion per prompt
type Completer interface {
	Complete(ctx context.Context, req ai.CompletionRequest) (string, error)
}

// HistoryProvider fetches recent daily closes for a ticker
type HistoryProvider interface {
	DailyCloses(ctx context.Context, ticker string) ([]forecast.DailyClose, error)
}

// Service handles sentiment requests end to end
type Service struct {
	completer Completer
	history   HistoryProvider // optional price context for the prompt
	log       *logger.Logger
}

// NewService creates a sentiment service. history may be nil; whether price
// history feeds the sentiment prompt is a wiring decision, not part of the
// pipeline contract.
func NewService(completer Completer, history HistoryProvider, log *logger.Logger) *Service {
	return &Service{
		completer: completer,
		history:   history,
		log:       log,
	}
}

// Analyze runs the pipeline for one ticker. An unparsable or invalid model
// reply is absorbed into the fixed fallback record; every other failure
// propagates as a typed error.
func (s *Service) Analyze(ctx context.Context, ticker string) (*forecast.Sentiment, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "ticker symbol is required")
	}
	if s.completer == nil {
		return nil, errors.Wrap(errors.ErrMissingCredential, "AI service not configured")
	}

	var history []forecast.DailyClose
	if s.history != nil {
		closes, err := s.history.DailyCloses(ctx, ticker)
		if err != nil {
			return nil, errors.Wrapf(err, "fetch market data for %s", ticker)
		}
		history = closes
	}

	s.log.Info("Requesting sentiment analysis", "ticker", ticker)

	text, err := s.completer.Complete(ctx, ai.CompletionRequest{
		System: SystemPrompt,
		Prompt: BuildPrompt(ticker, history),
	})
	if err != nil {
		return nil, err
	}

	var result forecast.Sentiment
	if err := llmjson.Decode(text, &result); err != nil {
		s.log.Warn("Falling back: model reply not usable", "ticker", ticker, "error", err)
		metrics.ParseFallbacks.WithLabelValues("sentiment").Inc()
		return forecast.FallbackSentiment(), nil
	}

	return &result, nil
}
