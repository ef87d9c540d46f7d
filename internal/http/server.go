package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"duitku/internal/cache"
	"duitku/internal/log"
	"duitku/internal/middleware/ratelimit"
	"duitku/internal/middleware/trace"
	"duitku/internal/services"
)

// Server wires the ledger facade to its HTTP surface: routing, rate
// limiting, request tracing, and read-side response caching.
type Server struct {
	httpServer *http.Server
	service    *services.LedgerService
	logger     *log.Logger

	limiter *ratelimit.Limiter
	tracer  *trace.Middleware

	dashboardCache *cache.LRUCache[dashboardJSON]
	historyCache   *cache.LRUCache[historyJSON]
	reportCache    *cache.LRUCache[reportJSON]
	cacheManager   *cache.Manager

	// version invalidates cached projections; every mutation bumps it.
	version atomic.Int64

	stopOnce sync.Once
}

// NewServer builds a server listening on the given port. The service must
// already be loaded.
func NewServer(port string, service *services.LedgerService, logger *log.Logger) *Server {
	httpLogger := logger.WithComponent(log.ComponentHTTP)
	s := &Server{
		service:        service,
		logger:         httpLogger,
		limiter:        ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		tracer:         trace.NewMiddleware(extractClientIP, log.NewStructuredLogger(httpLogger)),
		dashboardCache: cache.NewLRUCache[dashboardJSON](64, 30*time.Second),
		historyCache:   cache.NewLRUCache[historyJSON](256, 30*time.Second),
		reportCache:    cache.NewLRUCache[reportJSON](64, 30*time.Second),
		cacheManager:   cache.NewManager(),
	}
	s.cacheManager.Register(s.dashboardCache)
	s.cacheManager.Register(s.historyCache)
	s.cacheManager.Register(s.reportCache)
	s.cacheManager.StartCleanup(time.Minute)

	s.httpServer = &http.Server{
		Addr:         ":" + port,
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /api/report", s.handleReport)
	mux.HandleFunc("POST /api/transactions", s.handleCreate)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdate)
	mux.HandleFunc("POST /api/transactions/{id}/delete-request", s.handleDeleteRequest)
	mux.HandleFunc("POST /api/transactions/delete-confirm", s.handleDeleteConfirm)
	mux.HandleFunc("POST /api/reset-request", s.handleResetRequest)
	mux.HandleFunc("POST /api/reset-confirm", s.handleResetConfirm)
	mux.HandleFunc("GET /api/export", s.handleExport)
	mux.HandleFunc("POST /api/import", s.handleImport)

	var handler http.Handler = mux
	handler = s.rateLimitMutations(handler)
	handler = log.Middleware(s.logger)(handler)
	handler = s.tracer.Middleware(handler)
	handler = withSecurityHeaders(handler)
	return handler
}

// rateLimitMutations throttles only state-changing methods; the read side
// is cached and cheap.
func (s *Server) rateLimitMutations(next http.Handler) http.Handler {
	limited := s.limiter.Middleware(extractClientIP, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusTooManyRequests, apiResponse{
			Success: false,
			Error:   "too many requests, slow down",
			Notification: &Notification{
				Type:    string(NotificationError),
				Message: "Terlalu banyak permintaan. Coba lagi nanti.",
			},
		})
	})(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			limited.ServeHTTP(w, r)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// invalidate drops all cached projections after a mutation.
func (s *Server) invalidate() {
	s.version.Add(1)
	s.dashboardCache.Purge()
	s.historyCache.Purge()
	s.reportCache.Purge()
}

// Start blocks serving requests until the listener fails or Shutdown runs.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops background helpers. Safe to
// call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.stopOnce.Do(func() {
		s.limiter.Stop()
		s.cacheManager.Stop()
		err = s.httpServer.Shutdown(ctx)
	})
	return err
}

// Handler exposes the composed handler chain, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
