package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"augur/pkg/errors"
)

type Config struct {
	App           AppConfig
	Server        ServerConfig
	AI            AIConfig
	MarketData    MarketDataConfig
	Retry         RetryConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"augur"`
	Version  string `envconfig:"APP_VERSION" default:"1.0.0"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

type ServerConfig struct {
	Port         int           `envconfig:"HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"90s"`
	IdleTimeout  time.Duration `envconfig:"HTTP_IDLE_TIMEOUT" default:"60s"`
}

// AIConfig selects and configures the completion provider.
// Provider "gateway" targets an OpenAI-compatible chat/completions endpoint;
// "gemini" targets the Google generateContent API.
type AIConfig struct {
	Provider       string        `envconfig:"AI_PROVIDER" default:"gateway"`
	APIKey         string        `envconfig:"AI_API_KEY"`
	GatewayBaseURL string        `envconfig:"AI_GATEWAY_BASE_URL" default:"https://ai.gateway.lovable.dev/v1"`
	Model          string        `envconfig:"AI_MODEL" default:"google/gemini-2.5-flash"`
	Temperature    float64       `envconfig:"AI_TEMPERATURE" default:"0.7"`
	Timeout        time.Duration `envconfig:"AI_TIMEOUT" default:"60s"`
}

// MarketDataConfig configures the optional historical-price fetch backing the
// data-augmented prediction variant. When disabled the prediction endpoint
// relies solely on caller-supplied history.
type MarketDataConfig struct {
	Enabled        bool          `envconfig:"MARKET_DATA_ENABLED" default:"false"`
	APIKey         string        `envconfig:"STOCK_API_KEY"`
	BaseURL        string        `envconfig:"MARKET_DATA_BASE_URL" default:"https://www.alphavantage.co"`
	Sessions       int           `envconfig:"MARKET_DATA_SESSIONS" default:"30"`
	RequestsPerSec int           `envconfig:"MARKET_DATA_REQUESTS_PER_SEC" default:"5"`
	Timeout        time.Duration `envconfig:"MARKET_DATA_TIMEOUT" default:"30s"`
}

// RetryConfig is the policy point for outbound completion retries.
// MaxAttempts=1 preserves the zero-automatic-retry contract; higher values
// opt into exponential backoff for transient upstream failures only.
type RetryConfig struct {
	MaxAttempts     int           `envconfig:"RETRY_MAX_ATTEMPTS" default:"1"`
	InitialInterval time.Duration `envconfig:"RETRY_INITIAL_INTERVAL" default:"500ms"`
	MaxElapsedTime  time.Duration `envconfig:"RETRY_MAX_ELAPSED_TIME" default:"15s"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"true"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}

// Validate checks that every secret the enabled components need is present.
// Called once at startup so a misconfigured instance fails before accepting
// traffic instead of on its first request.
func (c *Config) Validate() error {
	if c.AI.APIKey == "" {
		return errors.Wrap(errors.ErrMissingCredential, "AI_API_KEY is required")
	}
	if c.AI.Provider != "gateway" && c.AI.Provider != "gemini" {
		return errors.Wrapf(errors.ErrInvalidInput, "unknown AI provider %q", c.AI.Provider)
	}
	if c.MarketData.Enabled && c.MarketData.APIKey == "" {
		return errors.Wrap(errors.ErrMissingCredential, "STOCK_API_KEY is required when market data is enabled")
	}
	if c.Retry.MaxAttempts < 1 {
		return errors.Wrap(errors.ErrInvalidInput, "RETRY_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}
