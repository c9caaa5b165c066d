// Package api serves the takeoff calculators over HTTP.
//
// Calculator endpoints accept a configuration as a JSON object or as form
// values and answer with the bill of materials. A configuration that is
// still missing its dimensions is not an error: it is answered with the
// status "awaiting_input" and a null result.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/piwi3910/SiteTakeoff/internal/engine"
	"github.com/piwi3910/SiteTakeoff/internal/model"
)

const (
	// DefaultRateLimit is the sustained request rate allowed per client.
	DefaultRateLimit = 5
	// DefaultBurst is the number of requests a client may make at once.
	DefaultBurst = 10

	shutdownTimeout = 5 * time.Second
	maxBodyBytes    = 1 << 20
)

// Options configures a Server.
type Options struct {
	// Defaults fill the waste allowance and tier of requests that leave them blank.
	Defaults model.AppConfig
	// RateLimit is the requests per second allowed per client IP on /api.
	// Zero or less disables limiting.
	RateLimit float64
	Burst     int
}

// Server routes HTTP requests to a calculation engine.
type Server struct {
	engine   *engine.Engine
	logger   *log.Logger
	defaults model.AppConfig
	metrics  *metrics
	router   *mux.Router
}

// New creates a server calculating with e.
func New(e *engine.Engine, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		engine:   e,
		logger:   logger,
		defaults: opts.Defaults,
		metrics:  newMetrics(),
		router:   mux.NewRouter(),
	}
	s.routes(opts)
	return s
}

func (s *Server) routes(opts Options) {
	s.router.Use(requestIDMiddleware)
	s.router.Use(s.observeMiddleware)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = DefaultBurst
		}
		limiter := NewIPRateLimiter(rate.Limit(opts.RateLimit), burst)
		api.Use(limiter.LimitMiddleware)
	}

	routes := []struct {
		path    string
		method  string
		handler http.HandlerFunc
	}{
		{"/tier", http.MethodGet, s.handleTier},
		{"/catalog", http.MethodGet, s.handleCatalog},
		{"/{calculator:deck|paving|wall}", http.MethodPost, s.handleCalculate},
		{"/{calculator:deck|paving|wall}/export/{format:pdf|xlsx|dxf|labels}", http.MethodPost, s.handleExport},
	}
	for _, rt := range routes {
		api.HandleFunc(rt.path, rt.handler).Methods(rt.method)
	}
	// Registered after every method-bound route so a known path with the
	// wrong method answers 405 instead of falling through to 404.
	for _, rt := range routes {
		api.HandleFunc(rt.path, methodNotAllowed(rt.method))
	}
}

// Handler returns the server's HTTP handler with CORS applied.
func (s *Server) Handler() http.Handler {
	return corsMiddleware(s.router)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	s.logger.Info("Listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
