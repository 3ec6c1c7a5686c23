// Package predict exposes the stock-prediction endpoint.
package predict

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"augur/internal/api/respond"
	"augur/internal/domain/forecast"
	"augur/pkg/logger"
)

// Service runs the prediction pipeline for one ticker
type Service interface {
	Predict(ctx context.Context, ticker string, clientHistory []forecast.DailyClose) (*forecast.Prediction, error)
}

// Handler serves POST /api/predict-stock
type Handler struct {
	svc Service
	log *logger.Logger
}

// NewHandler creates the prediction handler
func NewHandler(svc Service, log *logger.Logger) *Handler {
	return &Handler{
		svc: svc,
		log: log.With("handler", "predict"),
	}
}

// request is the inbound body. HistoricalData is optional; when present the
// server skips its own market-data fetch.
type request struct {
	Ticker         string                `json:"ticker"`
	HistoricalData []forecast.DailyClose `json:"historicalData,omitempty"`
}

// ServeHTTP handles one prediction request
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

	// Validated here so a bad request never reaches the pipeline
	if strings.TrimSpace(req.Ticker) == "" {
		respond.JSON(w, http.StatusBadRequest, respond.ErrorBody{Error: respond.MsgTickerRequired})
		return
	}

	prediction, err := h.svc.Predict(r.Context(), req.Ticker, req.HistoricalData)
	if err != nil {
		respond.Err(w, err, h.log)
		return
	}

	respond.JSON(w, http.StatusOK, prediction)
}
