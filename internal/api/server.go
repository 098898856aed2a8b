// Copyright (c) 2026 Folioworks. All rights reserved.

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.

Routes split into two planes. The public plane under /api/v1 is read-only
and unauthenticated. The admin plane under /api/v1/admin carries every
write and sits behind the shared-secret token guard.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/folioworks/folio/internal/core/catalog"
	"github.com/folioworks/folio/internal/core/demo"
	"github.com/folioworks/folio/internal/core/project"
	"github.com/folioworks/folio/internal/core/resume"
	"github.com/folioworks/folio/internal/platform/config"
	"github.com/folioworks/folio/internal/platform/constants"
	"github.com/folioworks/folio/internal/platform/middleware"
	"github.com/folioworks/folio/internal/platform/sec"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here and two register calls below.
type Handlers struct {
	// Liveness is the /health handler. Always returns 200 if the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. Returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Catalog serves the per-kind relation listings and admin entry creation.
	Catalog *catalog.Handler

	// Project handles the portfolio project listings and admin writes.
	Project *project.Handler

	// Demo handles the playable demo listings and admin writes.
	Demo *demo.Handler

	// Resume handles the grouped resume view and admin item writes.
	Resume *resume.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers the public and admin route planes.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, guard *sec.TokenGuard, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		// Public read-only plane.
		h.Catalog.RegisterPublicRoutes(api)
		h.Project.RegisterPublicRoutes(api)
		h.Demo.RegisterPublicRoutes(api)
		h.Resume.RegisterPublicRoutes(api)

		// Admin write plane behind the shared-secret guard.
		api.Route("/admin", func(admin chi.Router) {
			admin.Use(middleware.RequireAdmin(guard))

			h.Catalog.RegisterAdminRoutes(admin)
			h.Project.RegisterAdminRoutes(admin)
			h.Demo.RegisterAdminRoutes(admin)
			h.Resume.RegisterAdminRoutes(admin)
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
