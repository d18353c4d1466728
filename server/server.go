// Package server exposes the plan computation over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/etnz/dca"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Config holds server configuration
type Config struct {
	Log         zerolog.Logger
	Addr        string            // listen address, ":8080" by default
	Prices      dca.PriceProvider // upstream prices, manual prices of a request take precedence
	Concurrency int               // concurrent price fetches per plan
	PriceTTL    time.Duration     // prices are kept that long, forever when 0
}

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
	prices *dca.CachedPrices
	limit  int
	ttl    time.Duration

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	addr := cfg.Addr
	if addr == "" {
		addr = ":8080"
	}
	s := &Server{
		router: chi.NewRouter(),
		log:    cfg.Log.With().Str("component", "server").Logger(),
		prices: dca.NewCachedPrices(instrument(cfg.Prices)),
		limit:  cfg.Concurrency,
		ttl:    cfg.PriceTTL,
		stop:   make(chan struct{}),
	}
	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the root handler, mostly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/v1", func(r chi.Router) {
		r.Post("/plan", s.handlePlan)
		r.Get("/prices/{ticker}", s.handlePrice)
	})
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	if s.ttl > 0 {
		go s.resetLoop()
	}
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	s.stopOnce.Do(func() { close(s.stop) })
	return s.server.Shutdown(ctx)
}

// resetLoop forgets cached prices every ttl.
func (s *Server) resetLoop() {
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.prices.Reset()
			PriceCacheResets.Inc()
			s.log.Debug().Msg("price cache reset")
		}
	}
}

// loggingMiddleware logs HTTP requests and records their metrics.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unknown"
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}

// instrument records upstream price fetches, cache hits never reach it.
func instrument(p dca.PriceProvider) dca.PriceProvider {
	if p == nil {
		p = dca.StaticPrices{}
	}
	return dca.PriceFunc(func(ctx context.Context, ticker string) (decimal.Decimal, error) {
		start := time.Now()
		price, err := p.Price(ctx, ticker)
		PriceDuration.Observe(time.Since(start).Seconds())
		status := "ok"
		switch {
		case errors.Is(err, dca.ErrUnknownTicker):
			status = "unknown"
		case err != nil:
			status = "error"
		}
		PriceFetches.WithLabelValues(status).Inc()
		return price, err
	})
}
