// Package sentiment exposes the sentiment-analysis endpoint.
package sentiment

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"augur/internal/api/respond"
	"augur/internal/domain/forecast"
	"augur/pkg/logger"
)

// Service runs the sentiment pipeline for one ticker
type Service interface {
	Analyze(ctx context.Context, ticker string) (*forecast.Sentiment, error)
}

// Handler serves POST /api/analyze-sentiment
type Handler struct {
	svc Service
	log *logger.Logger
}

// NewHandler creates the sentiment handler
func NewHandler(svc Service, log *logger.Logger) *Handler {
	return &Handler{
		svc: svc,
		log: log.With("handler", "sentiment"),
	}
}

type request struct {
	Ticker string `json:"ticker"`
}

// ServeHTTP handles one sentiment request
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respond.JSON(w, http.StatusMethodNotAllowed, respond.ErrorBody{Error: "Method not allowed"})
		return
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.JSON(w, http.StatusBadRequest, respond.ErrorBody{Error: respond.MsgInvalidBody})
		return
	}

	if strings.TrimSpace(req.Ticker) == "" {
		respond.JSON(w, http.StatusBadRequest, respond.ErrorBody{Error: respond.MsgTickerRequired})
		return
	}

	result, err := h.svc.Analyze(r.Context(), req.Ticker)
	if err != nil {
		respond.Err(w, err, h.log)
		return
	}

	respond.JSON(w, http.StatusOK, result)
}
