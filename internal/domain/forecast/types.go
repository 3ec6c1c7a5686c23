package forecast

import (
	"augur/pkg/errors"
)

// Trend labels the direction of a prediction or sentiment reading
type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
	TrendNeutral Trend = "neutral"
)

// Valid reports whether the trend is one of the three known labels
func (t Trend) Valid() bool {
	switch t {
	case TrendBullish, TrendBearish, TrendNeutral:
		return true
	default:
		return false
	}
}

// DailyClose is one session's closing price
type DailyClose struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

// Prediction is the model-produced price forecast for a ticker.
// CurrentPrice and ChartData are present only in the data-augmented variant,
// where historical closes were fetched server-side.
type Prediction struct {
	PredictedPrice float64      `json:"predictedPrice"`
	Confidence     float64      `json:"confidence"` // 0-100
	Trend          Trend        `json:"trend"`
	Reasoning      string       `json:"reasoning"`
	TargetPrice30d float64      `json:"targetPrice30d"`
	TargetPrice90d float64      `json:"targetPrice90d"`
	CurrentPrice   float64      `json:"currentPrice,omitempty"`
	ChartData      []DailyClose `json:"chartData,omitempty"`
}

// Validate rejects records missing required fields or carrying out-of-range
// values. Failure means the whole object is replaced by the fallback; fields
// are never defaulted individually.
func (p *Prediction) Validate() error {
	if !p.Trend.Valid() {
		return errors.NewValidationError("trend", "must be bullish, bearish or neutral", p.Trend)
	}
	if p.Confidence < 0 || p.Confidence > 100 {
		return errors.NewValidationError("confidence", "must be between 0 and 100", p.Confidence)
	}
	if p.Reasoning == "" {
		return errors.NewValidationError("reasoning", "is required", p.Reasoning)
	}
	return nil
}

// Sentiment is the model-produced sentiment reading for a ticker.
// Score follows the documented -100..100 contract: negative is bearish,
// positive is bullish. Consumers assuming a 0..100 scale must rescale on
// their side.
type Sentiment struct {
	Sentiment     Trend    `json:"sentiment"`
	Score         float64  `json:"score"` // -100..100
	Summary       string   `json:"summary"`
	Factors       []string `json:"factors"`       // 3-5 expected, not enforced
	NewsHeadlines []string `json:"newsHeadlines"` // 3 expected, not enforced
}

// Validate rejects records missing required fields or carrying out-of-range
// values, mirroring Prediction.Validate.
func (s *Sentiment) Validate() error {
	if !s.Sentiment.Valid() {
		return errors.NewValidationError("sentiment", "must be bullish, bearish or neutral", s.Sentiment)
	}
	if s.Score < -100 || s.Score > 100 {
		return errors.NewValidationError("score", "must be between -100 and 100", s.Score)
	}
	if s.Summary == "" {
		return errors.NewValidationError("summary", "is required", s.Summary)
	}
	return nil
}

// FallbackPrediction is the fixed record returned when the model reply cannot
// be parsed or fails validation. A degraded-but-valid response is preferred
// over a hard failure since callers always expect a record shape.
func FallbackPrediction(reason string) *Prediction {
	return &Prediction{
		PredictedPrice: 0,
		Confidence:     50,
		Trend:          TrendNeutral,
		Reasoning:      reason,
		TargetPrice30d: 0,
		TargetPrice90d: 0,
	}
}

// FallbackSentiment is the fixed sentiment counterpart of FallbackPrediction
func FallbackSentiment() *Sentiment {
	return &Sentiment{
		Sentiment:     TrendNeutral,
		Score:         0,
		Summary:       "Unable to analyze sentiment",
		Factors:       []string{},
		NewsHeadlines: []string{},
	}
}
