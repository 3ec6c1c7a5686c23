package sentiment

import (
	"encoding/json"
	"fmt"
	"strings"

	"augur/internal/domain/forecast"
)

// SystemPrompt steers the model toward machine-readable analyst output
const SystemPrompt = "You are a financial analyst AI that analyzes market sentiment from news and price action. Always respond with valid JSON only."

// BuildPrompt renders the sentiment-analysis instruction for ticker.
// Recent closes, when available, are embedded for context. Pure function.
func BuildPrompt(ticker string, history []forecast.DailyClose) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Analyze the current market sentiment for the stock %s.\n", ticker)
	if len(history) > 0 {
		serialized, _ := json.Marshal(history)
		fmt.Fprintf(&sb, "Recent closing prices for context: %s\n", serialized)
	}

	sb.WriteString("\nProvide a JSON response with:\n")
	sb.WriteString("1. sentiment: \"bullish\", \"bearish\", or \"neutral\"\n")
	sb.WriteString("2. score: sentiment score from -100 (extremely bearish) to 100 (extremely bullish)\n")
	sb.WriteString("3. summary: brief summary of the overall sentiment\n")
	sb.WriteString("4. factors: array of 3-5 key factors driving the sentiment\n")
	sb.WriteString("5. newsHeadlines: array of 3 representative recent news headlines\n")

	sb.WriteString("\nRespond ONLY with valid JSON, no markdown or additional text.")

	return sb.String()
}
