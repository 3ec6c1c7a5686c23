// Package respond writes the JSON bodies shared by all API handlers and maps
// the error taxonomy onto HTTP statuses. Handlers never let an error escape
// past the boundary; every outcome becomes a single JSON body.
package respond

import (
	"encoding/json"
	"net/http"

	"augur/pkg/errors"
	"augur/pkg/logger"
)

// ErrorBody is the uniform error envelope
type ErrorBody struct {
	Error string `json:"error"`
}

// Messages returned for validation failures at the handler boundary
const (
	MsgTickerRequired = "Ticker symbol is required"
	MsgInvalidBody    = "Invalid request body"
)

// JSON writes v with the given status
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Err maps a service error onto its HTTP status and message and writes the
// error envelope. None of these outcomes trigger a retry anywhere; they are
// terminal for the request.
func Err(w http.ResponseWriter, err error, log *logger.Logger) {
	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", "status", status, "error", err)
	} else {
		log.Warn("Request rejected", "status", status, "error", err)
	}
	JSON(w, status, ErrorBody{Error: message})
}

// statusFor translates the error taxonomy into status and user-facing message
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, errors.ErrInvalidInput):
		return http.StatusBadRequest, MsgTickerRequired
	case errors.Is(err, errors.ErrMissingCredential):
		return http.StatusInternalServerError, "AI service not configured"
	case errors.Is(err, errors.ErrUpstreamData):
		return http.StatusInternalServerError, "Failed to fetch stock data"
	case errors.Is(err, errors.ErrRateLimited):
		return http.StatusTooManyRequests, "Rate limit exceeded. Please try again later."
	case errors.Is(err, errors.ErrQuotaExhausted):
		return http.StatusPaymentRequired, "AI credits exhausted. Please add credits to your workspace."
	case errors.Is(err, errors.ErrUnavailable), errors.Is(err, errors.ErrTransport), errors.Is(err, errors.ErrTimeout):
		return http.StatusInternalServerError, "AI service error"
	default:
		if msg := err.Error(); msg != "" {
			return http.StatusInternalServerError, msg
		}
		return http.StatusInternalServerError, "Unknown error"
	}
}
