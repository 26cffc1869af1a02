package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"ruler-hq/ruler/pkg/config"
	"ruler-hq/ruler/pkg/rules"
	"ruler-hq/ruler/pkg/server/handlers"
	"ruler-hq/ruler/pkg/server/middleware"
	"ruler-hq/ruler/pkg/telemetry/metrics"
)

// Server is the ruler HTTP server.
type Server struct {
	config       *config.ServerConfig
	metricsCfg   *config.MetricsConfig
	validator    *rules.Validator
	rulebook     handlers.RulebookInfo
	collector    *metrics.Collector
	logger       *slog.Logger
	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// Options bundles the server's collaborators.
type Options struct {
	Config    *config.ServerConfig
	Metrics   *config.MetricsConfig
	Validator *rules.Validator
	Rulebook  handlers.RulebookInfo

	// Collector serves /metrics and records request metrics. Nil
	// disables both.
	Collector *metrics.Collector

	// Logger is the structured logger. Nil selects slog.Default.
	Logger *slog.Logger
}

// NewServer creates a new ruler server.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		config:       opts.Config,
		metricsCfg:   opts.Metrics,
		validator:    opts.Validator,
		rulebook:     opts.Rulebook,
		collector:    opts.Collector,
		logger:       logger,
		shutdownChan: make(chan struct{}),
	}
}

// Start starts the HTTP server and blocks until shutdown. Shutdown is
// triggered by context cancellation, SIGINT, SIGTERM, or Shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:           s.config.ListenAddress,
		Handler:        s.setupRoutes(),
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "address", s.config.ListenAddress)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		s.logger.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server, waiting up to the configured
// shutdown timeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("server stopped")
	})

	return shutdownErr
}

// setupRoutes configures HTTP routes and the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(s.rulebook)
	rulesHandler := handlers.NewRulesHandler(s.validator, s.rulebook)
	evaluateHandler := handlers.NewEvaluateHandler(s.validator, s.logger)

	mux.Handle("GET /health", healthHandler)
	mux.HandleFunc("GET /rules", rulesHandler.List)
	mux.HandleFunc("GET /rules/{clause_id}", rulesHandler.Get)
	mux.HandleFunc("GET /rules/{clause_id}/demo_options", rulesHandler.DemoOptions)
	mux.Handle("POST /rules/evaluate", evaluateHandler)

	var requestMetrics *metrics.RequestMetrics
	if s.collector != nil {
		requestMetrics = s.collector.Request()
		path := "/metrics"
		if s.metricsCfg != nil && s.metricsCfg.Path != "" {
			path = s.metricsCfg.Path
		}
		if s.metricsCfg == nil || s.metricsCfg.Enabled {
			mux.Handle("GET "+path, s.collector.Handler())
		}
	}

	var handler http.Handler = mux
	handler = middleware.Metrics(requestMetrics)(handler)
	handler = middleware.Logging(s.logger)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(s.logger)(handler)

	return handler
}

// Handler returns the configured HTTP handler. Tests drive it directly
// with httptest.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// IsRunning reports whether the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}
