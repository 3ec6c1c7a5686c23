package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"augur/internal/adapters/ai"
	"augur/internal/adapters/config"
	"augur/internal/adapters/errors/noop"
	"augur/internal/adapters/errors/sentry"
	"augur/internal/adapters/marketdata"
	"augur/internal/api"
	"augur/internal/api/health"
	predictapi "augur/internal/api/predict"
	sentimentapi "augur/internal/api/sentiment"
	"augur/internal/metrics"
	"augur/internal/services/prediction"
	"augur/internal/services/sentiment"
	"augur/pkg/errors"
	"augur/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Fail fast on invalid configuration instead of failing per-request
	if err := cfg.Validate(); err != nil {
		panic("invalid config: " + err.Error())
	}

	// Initialize logger
	if err := initLogger(cfg); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	// Initialize error tracker
	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	// Initialize Prometheus metrics
	metrics.Init()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize AI completion provider
	provider, err := ai.NewProvider(ctx, cfg.AI, cfg.Retry)
	if err != nil {
		log.Fatalf("Failed to initialize AI provider: %v", err)
	}
	log.Infof("AI provider initialized (%s, model %s)", provider.Name(), cfg.AI.Model)

	// Initialize market data client (optional)
	var (
		predictHistory   prediction.HistoryProvider
		sentimentHistory sentiment.HistoryProvider
	)
	if cfg.MarketData.Enabled {
		md := marketdata.NewClient(cfg.MarketData)
		predictHistory = md
		sentimentHistory = md
		log.Info("Market data client initialized (Alpha Vantage)")
	} else {
		log.Info("Market data fetching disabled, using client-supplied history only")
	}

	// Initialize services
	predictionService := prediction.NewService(provider, predictHistory, log)
	sentimentService := sentiment.NewService(provider, sentimentHistory, log)

	// Initialize HTTP handlers
	predictHandler := predictapi.NewHandler(predictionService, log)
	sentimentHandler := sentimentapi.NewHandler(sentimentService, log)

	checks := map[string]bool{"ai_provider": true}
	if cfg.MarketData.Enabled {
		checks["market_data"] = true
	}
	healthHandler := health.New(log, cfg.App.Name, cfg.App.Version, checks)

	server := api.NewServer(api.ServerConfig{
		HTTP:        cfg.Server,
		ServiceName: cfg.App.Name,
		Version:     cfg.App.Version,
	}, predictHandler, sentimentHandler, healthHandler, log)

	// Start HTTP server
	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	log.Info("System initialized successfully")

	// Wait for shutdown signal
	waitForShutdown(ctx, cancel, server, errorTracker, log)
}

// loadConfig loads application configuration from environment
func loadConfig() (*config.Config, error) {
	return config.Load()
}

// initLogger initializes structured logging
func initLogger(cfg *config.Config) error {
	return logger.Init(cfg.App.LogLevel, cfg.App.Env)
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// waitForShutdown waits for shutdown signal and performs graceful shutdown
func waitForShutdown(ctx context.Context, cancel context.CancelFunc, server *api.Server, errorTracker errors.Tracker, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Shutting down...")

	// Stop accepting new work
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server shutdown error: %v", err)
	}

	// Flush pending error reports
	if err := errorTracker.Flush(shutdownCtx); err != nil {
		fmt.Println("Failed to flush error tracker:", err)
	}

	log.Info("✓ Shutdown complete")
}
