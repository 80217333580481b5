// Copyright (c) 2026 Kryspinoff. All rights reserved.

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Kryspinoff/bookstore/internal/catalog/author"
	"github.com/Kryspinoff/bookstore/internal/catalog/book"
	"github.com/Kryspinoff/bookstore/internal/catalog/genre"
	"github.com/Kryspinoff/bookstore/internal/catalog/order"
	"github.com/Kryspinoff/bookstore/internal/catalog/review"
	"github.com/Kryspinoff/bookstore/internal/platform/config"
	"github.com/Kryspinoff/bookstore/internal/platform/constants"
	"github.com/Kryspinoff/bookstore/internal/platform/middleware"
	"github.com/Kryspinoff/bookstore/internal/platform/request"
	"github.com/Kryspinoff/bookstore/internal/platform/respond"
	"github.com/Kryspinoff/bookstore/internal/users/account"
	"github.com/Kryspinoff/bookstore/internal/users/auth"
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
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles authentication routes (login, register).
	Auth *auth.Handler

	// Account handles member profiles, wishlists, and account administration.
	Account *account.Handler

	// Book handles the catalog and per-book file assets.
	Book *book.Handler

	// Author and Genre manage the catalog descriptors.
	Author *author.Handler
	Genre  *genre.Handler

	// Review handles book reviews.
	Review *review.Handler

	// Order handles checkout and order history.
	Order *order.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, decoder middleware.TokenDecoder, resolver middleware.IdentityResolver, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(decoder, resolver))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/auth", h.Auth.RegisterRoutes)
		api.Route("/profile", h.Account.RegisterProfileRoutes)
		api.Route("/users", h.Account.RegisterAdminRoutes)

		api.Route("/books", func(books chi.Router) {
			h.Book.RegisterRoutes(books)
			books.Route("/{bookID}/reviews", h.Review.RegisterBookRoutes)
		})
		api.Route("/reviews", h.Review.RegisterRoutes)

		api.Route("/authors", func(authors chi.Router) {
			h.Author.RegisterRoutes(authors)
			authors.Get("/{id}/books", h.Book.BooksByAuthor)
		})
		api.Route("/genres", func(genres chi.Router) {
			h.Genre.RegisterRoutes(genres)
			genres.Get("/{id}/books", h.Book.BooksByGenre)
		})
		api.Route("/orders", h.Order.RegisterRoutes)

		if cfg.IsDevelopment() {
			registerGuardProbes(api)
		}
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

// registerGuardProbes mounts tiny endpoints that exercise each authorization
// tier. Development only; handy for smoke-testing tokens against the guard
// chain without touching real data.
func registerGuardProbes(router chi.Router) {
	echoIdentity := func(writer http.ResponseWriter, req *http.Request) {
		identity := request.Identity(req)
		if identity == nil {
			respond.OK(writer, map[string]any{"authenticated": false})
			return
		}
		respond.OK(writer, map[string]any{
			"authenticated": true,
			"username":      identity.Username,
			"role":          identity.Role,
		})
	}

	router.Route("/dev", func(dev chi.Router) {
		dev.Get("/auth_optional", echoIdentity)
		dev.With(middleware.RequireAuth).Get("/auth_required", echoIdentity)
		dev.With(middleware.RequireAdmin).Get("/admin_required", echoIdentity)
		dev.With(middleware.RequireSuperAdmin).Get("/super_admin_required", echoIdentity)
	})
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
