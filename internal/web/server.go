// Package web exposes the session's command surface as JSON over
// HTTP. It is a thin adapter: handlers unmarshal arguments, call the
// session under one exclusive lock, and marshal tables back to rows.
// No engine logic lives here.
package web

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vegasq/databoard/internal/logging"
	"github.com/vegasq/databoard/internal/session"
)

// PageSize is the fixed number of rows returned per result page.
const PageSize = 100

// Server is the HTTP command surface over a single session.
type Server struct {
	// mu serializes all session calls: the engine's contract is at
	// most one in-flight operation at a time.
	mu      sync.Mutex
	session *session.Session
	router  *chi.Mux
	server  *http.Server
}

// NewServer creates a server around the given session.
func NewServer(s *session.Session) *Server {
	srv := &Server{
		session: s,
		router:  chi.NewRouter(),
	}
	srv.setupMiddleware()
	srv.setupRoutes()
	return srv
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)
}

// setupRoutes configures the command endpoints.
func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Post("/load", s.handleLoad)
		r.Get("/count", s.handleCount)
		r.Get("/columns", s.handleColumns)
		r.Get("/unique/{column}", s.handleUnique)
		r.Get("/preview", s.handlePreview)
		r.Post("/mapping", s.handleMapping)
		r.Post("/query", s.handleQuery)
		r.Get("/page", s.handlePage)
		r.Post("/export", s.handleExport)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string, readTimeout, writeTimeout, idleTimeout time.Duration) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// requestLogger logs one structured line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logging.FromContext(r.Context()).Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}
