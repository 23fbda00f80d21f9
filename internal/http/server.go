// Package http exposes the ledger over a JSON API.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"splitsmart/internal/assist"
	"splitsmart/internal/cache"
	"splitsmart/internal/core"
	"splitsmart/internal/service"
	"splitsmart/internal/snapshot"
)

const insightsCacheKey = "insights"

// Server wires the JSON API on top of the ledger service.
type Server struct {
	httpServer *http.Server
	service    *service.LedgerService
	store      snapshot.Store
	parser     assist.Parser
	insighter  assist.Insighter
	insights   *cache.LRUCache[[]core.Insight]
	logger     *slog.Logger
}

// NewServer builds the server. parser and insighter may be nil; the
// corresponding endpoints then report the assist service as unavailable.
func NewServer(port string, svc *service.LedgerService, store snapshot.Store, parser assist.Parser, insighter assist.Insighter, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		service:   svc,
		store:     store,
		parser:    parser,
		insighter: insighter,
		insights:  cache.NewLRUCache[[]core.Insight](4, 5*time.Minute),
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/summary", s.handleSummary)
		r.Post("/expenses", s.handleAddExpense)
		r.Route("/friends/{friendID}", func(r chi.Router) {
			r.Post("/settle", s.handleSettleUp)
			r.Get("/history", s.handleHistory)
		})
		r.Post("/assist/parse", s.handleParseExpense)
		r.Get("/insights", s.handleInsights)
	})

	s.httpServer = &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe blocks until the listener fails or Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.logger.Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
