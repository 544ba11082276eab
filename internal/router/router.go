// Package router sets up all HTTP routes and middleware chains for the
// API. Routes live under /api/v1, except the health check at the root.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"blogd/internal/handlers"
	"blogd/internal/middleware"
	"blogd/internal/token"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(tokens *token.Service, auth *handlers.Auth, blog *handlers.Blog, category *handlers.Category, career *handlers.Career) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	// Health check.
	r.Get("/health", healthHandler)

	r.Route("/api/v1", func(r chi.Router) {
		// Accounts.
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", auth.Register)
			r.Post("/login", auth.Login)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth(tokens))
				r.Get("/profile", auth.GetProfile)
				r.Put("/profile", auth.UpdateProfile)
				r.Put("/password", auth.UpdatePassword)
			})
		})

		// Posts.
		r.Route("/blogs", func(r chi.Router) {
			r.Get("/", blog.List)
			r.Get("/stats", blog.Stats)

			// Reads and likes resolve an identity from the bearer token
			// when one is present, and fall back to an anonymous
			// fingerprint otherwise.
			r.Group(func(r chi.Router) {
				r.Use(middleware.OptionalAuth(tokens))
				r.Get("/{slug}", blog.GetBySlug)
				r.Post("/{id}/like", blog.ToggleLike)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth(tokens))
				r.Post("/", blog.Create)
				r.Put("/{id}", blog.Update)
				r.Delete("/{id}", blog.Delete)
			})
		})

		// Categories.
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", category.List)
			r.Get("/{id}", category.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth(tokens))
				r.Post("/", category.Create)
				r.Put("/reorder", category.Reorder)
				r.Put("/{id}", category.Update)
				r.Delete("/{id}", category.Delete)
				r.Patch("/{id}/toggle", category.ToggleActive)
			})
		})

		// Careers.
		r.Route("/careers", func(r chi.Router) {
			r.Post("/apply", career.Apply)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth(tokens))
				r.Get("/", career.List)
			})
		})
	})

	// Unmatched routes get the JSON envelope, not chi's plain-text 404.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"error":"Route not found"}`))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		w.Write([]byte(`{"success":false,"error":"Method not allowed"}`))
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
