// Package client is a thin typed caller for the augur HTTP API.
// On any transport or service failure the result is nil so the consumer can
// render a fallback state instead of crashing.
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"augur/pkg/errors"
	"augur/pkg/logger"
)

// DailyClose mirrors the chartData entries of the prediction response
type DailyClose struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

// Prediction mirrors the prediction response schema. Every field may be
// absent or zero; consumers must read defensively since the server performs
// whole-object fallback, not per-field defaulting.
type Prediction struct {
	PredictedPrice float64      `json:"predictedPrice"`
	Confidence     float64      `json:"confidence"`
	Trend          string       `json:"trend"`
	Reasoning      string       `json:"reasoning"`
	TargetPrice30d float64      `json:"targetPrice30d"`
	TargetPrice90d float64      `json:"targetPrice90d"`
	CurrentPrice   float64      `json:"currentPrice,omitempty"`
	ChartData      []DailyClose `json:"chartData,omitempty"`
}

// Sentiment mirrors the sentiment response schema
type Sentiment struct {
	Sentiment     string   `json:"sentiment"`
	Score         float64  `json:"score"`
	Summary       string   `json:"summary"`
	Factors       []string `json:"factors"`
	NewsHeadlines []string `json:"newsHeadlines"`
}

// ServiceError carries the status and message of an API error response
type ServiceError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	return fmt.Sprintf("service error (%d): %s", e.StatusCode, e.Message)
}

type errorBody struct {
	Error string `json:"error"`
}

// Client calls the augur API
type Client struct {
	http *resty.Client
	log  *logger.Logger
}

// New creates a client for the API at baseURL
func New(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 90 * time.Second
	}

	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json"),
		log: logger.Get().With("component", "augur_client"),
	}
}

// PredictStock requests a prediction for ticker. history is optional; when
// provided the server embeds it in the prompt instead of fetching its own.
func (c *Client) PredictStock(ctx context.Context, ticker string, history []DailyClose) (*Prediction, error) {
	body := map[string]interface{}{"ticker": ticker}
	if len(history) > 0 {
		body["historicalData"] = history
	}

	var (
		result Prediction
		apiErr errorBody
	)
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		SetError(&apiErr).
		Post("/api/predict-stock")
	if err != nil {
		c.log.Warn("Prediction call failed", "ticker", ticker, "error", err)
		return nil, errors.Wrap(errors.ErrTransport, err.Error())
	}

	if resp.IsError() {
		c.log.Warn("Prediction rejected", "ticker", ticker, "status", resp.StatusCode(), "message", apiErr.Error)
		return nil, &ServiceError{StatusCode: resp.StatusCode(), Message: apiErr.Error}
	}

	return &result, nil
}

// AnalyzeSentiment requests a sentiment reading for ticker
func (c *Client) AnalyzeSentiment(ctx context.Context, ticker string) (*Sentiment, error) {
	var (
		result Sentiment
		apiErr errorBody
	)
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{"ticker": ticker}).
		SetResult(&result).
		SetError(&apiErr).
		Post("/api/analyze-sentiment")
	if err != nil {
		c.log.Warn("Sentiment call failed", "ticker", ticker, "error", err)
		return nil, errors.Wrap(errors.ErrTransport, err.Error())
	}

	if resp.IsError() {
		c.log.Warn("Sentiment rejected", "ticker", ticker, "status", resp.StatusCode(), "message", apiErr.Error)
		return nil, &ServiceError{StatusCode: resp.StatusCode(), Message: apiErr.Error}
	}

	return &result, nil
}
