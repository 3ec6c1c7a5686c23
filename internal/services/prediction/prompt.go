package prediction

import (
	"encoding/json"
	"fmt"
	"strings"

	"augur/internal/domain/forecast"
)

// SystemPrompt steers the model toward machine-readable analyst output
const SystemPrompt = "You are a financial analyst AI that provides stock predictions based on data analysis. Always respond with valid JSON only."

// BuildPrompt renders the prediction instruction for ticker. When history is
// provided the serialized closes are embedded and the model is additionally
// asked for currentPrice (the data-augmented variant); otherwise the six-field
// form is used. Pure function, no side effects.
func BuildPrompt(ticker string, history []forecast.DailyClose) string {
	var sb strings.Builder

	if len(history) > 0 {
		serialized, _ := json.Marshal(history)
		fmt.Fprintf(&sb, "Analyze the stock %s using the following historical closing prices (Date: Close Price): %s. Provide a price prediction for the next 7 days.\n\n", ticker, serialized)
	} else {
		fmt.Fprintf(&sb, "Analyze the stock %s and provide a price prediction.\n\n", ticker)
	}

	sb.WriteString("Provide a JSON response with:\n")
	sb.WriteString("1. predictedPrice: estimated price for next trading day\n")
	sb.WriteString("2. confidence: confidence level (0-100)\n")
	sb.WriteString("3. trend: \"bullish\", \"bearish\", or \"neutral\"\n")
	sb.WriteString("4. reasoning: brief explanation of the prediction\n")
	sb.WriteString("5. targetPrice30d: 30-day target price\n")
	sb.WriteString("6. targetPrice90d: 90-day target price\n")
	if len(history) > 0 {
		sb.WriteString("7. currentPrice: The most recent closing price from the historical data provided.\n")
	}

	sb.WriteString("\nRespond ONLY with valid JSON, no markdown or additional text.")

	return sb.String()
}
