// Package main provides the entry point for the novelty analysis service.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/helixir/novelty-analysis-service/internal/agent"
	"github.com/helixir/novelty-analysis-service/internal/config"
	"github.com/helixir/novelty-analysis-service/internal/llm"
	"github.com/helixir/novelty-analysis-service/internal/observability"
	"github.com/helixir/novelty-analysis-service/internal/pipeline"
	"github.com/helixir/novelty-analysis-service/internal/registry"
	"github.com/helixir/novelty-analysis-service/internal/registry/epo"
	"github.com/helixir/novelty-analysis-service/internal/registry/openalex"
	"github.com/helixir/novelty-analysis-service/internal/search"
	httpserver "github.com/helixir/novelty-analysis-service/internal/server/http"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Set up structured logging.
	logger := observability.NewLogger(observability.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	logger = logger.With().Str("component", "server").Logger()
	logger.Info().Msg("novelty-analysis-service starting")

	// Set up context with graceful shutdown via OS signals.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics("novelty")

	// Similarity search client.
	searcher := search.New(search.Config{
		Endpoint:  cfg.Search.Endpoint,
		APIKey:    cfg.Search.APIKey,
		Model:     cfg.Search.Model,
		Amount:    cfg.Search.Amount,
		Indices:   cfg.Search.Indices,
		Timeout:   cfg.Search.Timeout,
		RateLimit: cfg.Search.RateLimit,
	})

	// Registry clients, one per document type.
	publications := openalex.New(openalex.Config{
		BaseURL:   cfg.OpenAlex.BaseURL,
		Email:     cfg.OpenAlex.Email,
		Timeout:   cfg.OpenAlex.Timeout,
		RateLimit: cfg.OpenAlex.RateLimit,
	})
	patents := epo.New(epo.Config{
		BaseURL:        cfg.Epo.BaseURL,
		ConsumerKey:    cfg.Epo.ConsumerKey,
		ConsumerSecret: cfg.Epo.ConsumerSecret,
		Timeout:        cfg.Epo.Timeout,
		RateLimit:      cfg.Epo.RateLimit,
	})

	aggregator := pipeline.NewAggregator(
		[]registry.Hydrator{publications, patents},
		cfg.Hydration.Workers,
		logger,
		metrics,
	)

	// Pairwise comparison is opt-in; without it documents are returned with
	// no similarity/difference commentary.
	var comparison *pipeline.ComparisonRunner
	if cfg.LLM.Enabled {
		provider := llm.NewOpenAIProvider(llm.OpenAIConfig{
			APIKey:  cfg.LLM.OpenAI.APIKey,
			Model:   cfg.LLM.OpenAI.Model,
			BaseURL: cfg.LLM.OpenAI.BaseURL,
		}, cfg.LLM.Temperature, cfg.LLM.Timeout, cfg.LLM.MaxRetries)

		comparison = pipeline.NewComparisonRunner(provider, pipeline.ComparisonConfig{
			Workers:         cfg.Comparison.Workers,
			Sequential:      cfg.Comparison.Sequential,
			SequentialDelay: cfg.Comparison.SequentialDelay,
		}, logger, metrics)

		logger.Info().
			Str("model", cfg.LLM.OpenAI.Model).
			Bool("sequential", cfg.Comparison.Sequential).
			Msg("pairwise comparison enabled")
	}

	analyzer := pipeline.New(searcher, aggregator, comparison, logger, metrics)

	// Voice agent proxy. Credentials are validated per request so a missing
	// agent configuration does not block the analysis endpoints.
	voiceAgent := agent.New(agent.Config{
		BaseURL: cfg.Agent.BaseURL,
		AgentID: cfg.Agent.AgentID,
		APIKey:  cfg.Agent.APIKey,
		Timeout: cfg.Agent.Timeout,
	})

	httpSrv := httpserver.NewServer(httpserver.Config{
		Address:         cfg.Server.HTTPAddress(),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
	}, analyzer, voiceAgent, logger)

	// Set up Prometheus metrics handler on a separate port if configured.
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle(cfg.Metrics.Path, promhttp.Handler())
		metricsServer = &http.Server{
			Addr:         cfg.Server.MetricsAddress(),
			Handler:      metricsMux,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		}
	}

	// Channel to collect server errors.
	errCh := make(chan error, 2)

	go func() {
		if err := httpSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	if metricsServer != nil {
		go func() {
			logger.Info().
				Str("address", metricsServer.Addr).
				Msg("metrics server starting")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server error: %w", err)
			}
		}()
	}

	readyLog := logger.Info().Str("http_address", cfg.Server.HTTPAddress())
	if metricsServer != nil {
		readyLog = readyLog.Str("metrics_address", metricsServer.Addr)
	}
	readyLog.Msg("novelty-analysis-service is ready")

	// Wait for shutdown signal or server error.
	select {
	case <-ctx.Done():
		logger.Info().Msg("received shutdown signal")
	case err := <-errCh:
		logger.Error().Err(err).Msg("server error")
		return err
	}

	// Graceful shutdown.
	logger.Info().Msg("shutting down novelty-analysis-service")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	}

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("metrics server shutdown error")
		}
	}

	logger.Info().Msg("novelty-analysis-service shutdown complete")
	return nil
}
