package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "augur_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"endpoint", "status"},
	)

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "augur_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"endpoint"},
	)

	// Completion provider metrics
	CompletionCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "augur_completion_calls_total",
			Help: "Total number of completion provider calls",
		},
		[]string{"provider", "status"}, // status: success|error|rate_limited
	)

	CompletionLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "augur_completion_latency_seconds",
			Help:    "Completion call latency in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"provider"},
	)

	// Market data metrics
	MarketDataCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "augur_market_data_calls_total",
			Help: "Total number of market data provider calls",
		},
		[]string{"status"}, // status: success|error
	)

	// Parser metrics
	ParseFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "augur_parse_fallbacks_total",
			Help: "Total number of model replies replaced by the fixed fallback record",
		},
		[]string{"schema"}, // schema: prediction|sentiment
	)
)

// Init registers all metrics with the default Prometheus registry
func Init() {
	prometheus.MustRegister(HTTPRequests)
	prometheus.MustRegister(HTTPDuration)
	prometheus.MustRegister(CompletionCalls)
	prometheus.MustRegister(CompletionLatency)
	prometheus.MustRegister(MarketDataCalls)
	prometheus.MustRegister(ParseFallbacks)
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records one handled request
func RecordHTTPRequest(endpoint string, status int, duration time.Duration) {
	HTTPRequests.WithLabelValues(endpoint, httpStatusLabel(status)).Inc()
	HTTPDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func httpStatusLabel(status int) string {
	switch {
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
