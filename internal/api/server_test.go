package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"augur/internal/adapters/ai"
	"augur/internal/adapters/config"
	"augur/internal/api/health"
	predictapi "augur/internal/api/predict"
	sentimentapi "augur/internal/api/sentiment"
	"augur/internal/domain/forecast"
	"augur/internal/services/prediction"
	"augur/pkg/logger"
)

type stubPredictService struct{}

func (stubPredictService) Predict(ctx context.Context, ticker string, history []forecast.DailyClose) (*forecast.Prediction, error) {
	return forecast.FallbackPrediction("Unable to generate prediction"), nil
}

type stubSentimentService struct{}

func (stubSentimentService) Analyze(ctx context.Context, ticker string) (*forecast.Sentiment, error) {
	return forecast.FallbackSentiment(), nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	log := logger.Get()

	return NewServer(ServerConfig{
		HTTP:        config.ServerConfig{Port: 0},
		ServiceName: "augur",
		Version:     "test",
	},
		predictapi.NewHandler(stubPredictService{}, log),
		sentimentapi.NewHandler(stubSentimentService{}, log),
		health.New(log, "augur", "test", map[string]bool{"ai_provider": true}),
		log,
	)
}

func TestServer_Routes(t *testing.T) {
	server := newTestServer(t)
	mux := server.httpServer.Handler

	t.Run("predict endpoint serves POST", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/predict-stock", strings.NewReader(`{"ticker":"AAPL"}`))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"trend":"neutral"`)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("sentiment endpoint serves POST", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/analyze-sentiment", strings.NewReader(`{"ticker":"TSLA"}`))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"sentiment":"neutral"`)
	})

	t.Run("preflight succeeds on API endpoints", func(t *testing.T) {
		for _, path := range []string{"/api/predict-stock", "/api/analyze-sentiment"} {
			req := httptest.NewRequest(http.MethodOptions, path, nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Empty(t, rec.Body.String())
		}
	})

	t.Run("health probes respond", func(t *testing.T) {
		for _, path := range []string{"/health", "/ready", "/live"} {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code, path)
		}
	})

	t.Run("root reports service info", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"service":"augur"`)
		assert.Contains(t, rec.Body.String(), `"status":"running"`)
	})

	t.Run("unknown path is 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/nope", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("metrics endpoint is wired", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

// fencedCompleter returns a markdown-fenced prediction, the way models reply
// despite being told not to
type fencedCompleter struct{}

func (fencedCompleter) Complete(ctx context.Context, req ai.CompletionRequest) (string, error) {
	return "```json\n{\"predictedPrice\": 187.5, \"confidence\": 72, \"trend\": \"bullish\", \"reasoning\": \"Momentum\", \"targetPrice30d\": 195, \"targetPrice90d\": 210}\n```", nil
}

func TestServer_EndToEndPrediction(t *testing.T) {
	log := logger.Get()

	server := NewServer(ServerConfig{
		HTTP:        config.ServerConfig{Port: 0},
		ServiceName: "augur",
		Version:     "test",
	},
		predictapi.NewHandler(prediction.NewService(fencedCompleter{}, nil, log), log),
		sentimentapi.NewHandler(stubSentimentService{}, log),
		health.New(log, "augur", "test", map[string]bool{"ai_provider": true}),
		log,
	)

	req := httptest.NewRequest(http.MethodPost, "/api/predict-stock", strings.NewReader(`{"ticker":"aapl"}`))
	rec := httptest.NewRecorder()
	server.httpServer.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var pred forecast.Prediction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pred))
	assert.Equal(t, 187.5, pred.PredictedPrice)
	assert.Equal(t, forecast.TrendBullish, pred.Trend)
	assert.Equal(t, float64(72), pred.Confidence)
	assert.Equal(t, "Momentum", pred.Reasoning)
}
