// Package http exposes the ledger over a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"grana/internal/balance"
	"grana/internal/cache"
	applog "grana/internal/log"
	"grana/internal/services"
)

type Server struct {
	http.Server
	svc         *services.LedgerService
	rateLimiter *rateLimiter

	// Summary is recomputed from the full ledger on every call, so the
	// dashboard poll goes through a short-lived cache instead.
	summaryCache *cache.LRU[balance.Summary]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, svc *services.LedgerService, logger *applog.Logger) *Server {
	s := &Server{
		svc:              svc,
		rateLimiter:      newRateLimiter(),
		summaryCache:     cache.NewLRU[balance.Summary](8, 30*time.Second),
		stopCacheCleanup: make(chan struct{}),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	if logger != nil {
		r.Use(applog.Middleware(logger))
		r.Use(applog.RequestLogger(logger.WithComponent(applog.ComponentHTTP)))
	}
	r.Use(s.rateLimitPosts)

	r.Get("/health", handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/summary", s.handleSummary)
		r.Get("/health-analysis", s.handleHealthAnalysis)

		r.Post("/entries", s.handleCreateEntry)
		r.Post("/cards", s.handleCreateCard)
		r.Post("/debts", s.handleCreateDebt)

		r.Get("/cards/{id}/statement", s.handleStatement)
		r.Post("/cards/{id}/liquidate", s.handleLiquidate)

		r.Get("/debts/{id}/payoff", s.handlePayoff)
		r.Get("/payoff-plan", s.handlePayoffPlan)

		r.Put("/goal", s.handleSetGoal)
		r.Get("/goal", s.handleGetGoal)
		r.Get("/goal/feasibility", s.handleGoalFeasibility)

		r.Get("/advisor/weekly", s.handleWeeklyReport)
	})

	s.Server = http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.startCacheCleanup()

	return s
}

// Handler returns the configured router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.Server.Handler
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.summaryCache.CleanExpired()
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown stops the server and the background cleanup goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		close(s.stopCacheCleanup)
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
