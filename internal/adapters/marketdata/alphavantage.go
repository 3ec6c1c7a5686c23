// Package marketdata fetches daily price history from Alpha Vantage.
package marketdata

import (
	"context"
	"sort"
	"strconv"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"augur/internal/adapters/config"
	"augur/internal/domain/forecast"
	"augur/internal/metrics"
	"augur/pkg/errors"
	"augur/pkg/logger"
)

const closeField = "4. close"

// Client is the Alpha Vantage TIME_SERIES_DAILY client.
// A token-bucket limiter keeps request bursts under the provider's free-tier
// allowance; limit violations reported by the provider itself still surface
// as ErrUpstreamData.
type Client struct {
	http     *resty.Client
	limiter  *rate.Limiter
	apiKey   string
	sessions int
	log      *logger.Logger
}

// timeSeriesResponse mirrors the provider envelope. An "Error Message" or
// "Note" key appears instead of the series when the request failed or the
// rate limit was hit.
type timeSeriesResponse struct {
	ErrorMessage string                       `json:"Error Message"`
	Note         string                       `json:"Note"`
	TimeSeries   map[string]map[string]string `json:"Time Series (Daily)"`
}

// NewClient creates an Alpha Vantage client from configuration
func NewClient(cfg config.MarketDataConfig) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout)

	rps := cfg.RequestsPerSec
	if rps <= 0 {
		rps = 5
	}

	sessions := cfg.Sessions
	if sessions <= 0 {
		sessions = 30
	}

	return &Client{
		http:     httpClient,
		limiter:  rate.NewLimiter(rate.Limit(rps), rps),
		apiKey:   cfg.APIKey,
		sessions: sessions,
		log:      logger.Get().With("component", "alphavantage"),
	}
}

// DailyCloses fetches the daily time series for ticker and returns the most
// recent closes, newest first, truncated to the configured session count.
func (c *Client) DailyCloses(ctx context.Context, ticker string) (closes []forecast.DailyClose, err error) {
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
		}
		metrics.MarketDataCalls.WithLabelValues(status).Inc()
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "market data rate limiter")
	}

	var payload timeSeriesResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"function":   "TIME_SERIES_DAILY",
			"symbol":     ticker,
			"outputsize": "compact",
			"apikey":     c.apiKey,
		}).
		SetResult(&payload).
		Get("/query")
	if err != nil {
		return nil, errors.Wrap(errors.ErrTransport, err.Error())
	}

	if !resp.IsSuccess() {
		return nil, errors.Wrapf(errors.ErrUpstreamData, "provider returned status %d", resp.StatusCode())
	}

	// The provider reports failures inside a 200 body
	if payload.ErrorMessage != "" {
		c.log.Error("Alpha Vantage error", "ticker", ticker, "message", payload.ErrorMessage)
		return nil, errors.Wrap(errors.ErrUpstreamData, payload.ErrorMessage)
	}
	if payload.Note != "" {
		c.log.Warn("Alpha Vantage rate limit note", "ticker", ticker, "note", payload.Note)
		return nil, errors.Wrap(errors.ErrUpstreamData, "API limit reached")
	}
	if len(payload.TimeSeries) == 0 {
		return nil, errors.Wrapf(errors.ErrUpstreamData, "no time series for %s", ticker)
	}

	dates := make([]string, 0, len(payload.TimeSeries))
	for date := range payload.TimeSeries {
		dates = append(dates, date)
	}
	// Most recent session first; ISO dates sort lexicographically
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if len(dates) > c.sessions {
		dates = dates[:c.sessions]
	}

	closes = make([]forecast.DailyClose, 0, len(dates))
	for _, date := range dates {
		raw := payload.TimeSeries[date][closeField]
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrUpstreamData, "bad close %q on %s", raw, date)
		}
		closes = append(closes, forecast.DailyClose{Date: date, Close: value})
	}

	c.log.Debug("Fetched daily closes", "ticker", ticker, "sessions", len(closes))
	return closes, nil
}
