// Package web provides the HTTP server and handlers for browsing the course
// catalog.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/advisor/internal/advisor"
	"github.com/JonMunkholm/advisor/internal/config"
	"github.com/JonMunkholm/advisor/internal/source"
	webmw "github.com/JonMunkholm/advisor/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// MaxLoadBodySize caps the JSON body accepted by the load endpoint.
const MaxLoadBodySize = 64 * 1024

// Options wires a Server to its catalog sources.
type Options struct {
	// DefaultSource is read when a load request names no path.
	DefaultSource source.Source

	// SourceFor builds the source for an explicit path (source.ForPath if nil).
	SourceFor func(path string) source.Source
}

// Server is the HTTP server for the course catalog.
type Server struct {
	service       *advisor.Service
	cfg           *config.Config
	defaultSource source.Source
	sourceFor     func(path string) source.Source
	limiter       *rateLimiter
	router        *chi.Mux
	server        *http.Server
}

// NewServer creates a new Server instance.
func NewServer(service *advisor.Service, cfg *config.Config, opts Options) *Server {
	s := &Server{
		service:       service,
		cfg:           cfg,
		defaultSource: opts.DefaultSource,
		sourceFor:     opts.SourceFor,
		router:        chi.NewRouter(),
	}
	if s.sourceFor == nil {
		s.sourceFor = source.ForPath
	}
	if cfg.Rate.Enabled {
		s.limiter = newRateLimiter(cfg.Rate.LoadsPerMinute, rateWindow)
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	if len(s.cfg.Security.TrustedProxies) > 0 {
		s.router.Use(webmw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	}
	s.router.Use(webmw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

	// Security hardening
	s.router.Use(securityHeaders)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Pages
	s.router.Get("/", s.handleCatalogPage)
	s.router.Get("/courses/{courseID}", s.handleCoursePage)

	s.router.Get("/healthz", s.handleHealth)

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/courses", s.handleListCourses)
		r.Get("/courses/{courseID}", s.handleGetCourse)
		r.Get("/validate", s.handleValidate)

		// Loads read files or the database, so they sit behind auth and
		// the per-IP limiter.
		r.Group(func(r chi.Router) {
			r.Use(webmw.APIKeyAuth(&s.cfg.Security))
			if s.limiter != nil {
				r.Use(s.limiter.middleware)
			}
			r.Post("/load", s.handleLoad)
		})
	})
}

// Start begins listening for HTTP requests on the configured address.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("server listening", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.limiter != nil {
		s.limiter.stop()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")

		// Pages are server-rendered with inline styles only
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
