// Package router sets up all HTTP routes and middleware chains for the
// recipe catalog API. Read endpoints are public; everything that mutates
// state sits behind the admin token check.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"recettes/internal/auth"
	"recettes/internal/handlers"
	"recettes/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(tokens auth.TokenStore, authH *handlers.Auth, recipes *handlers.Recipes, categories *handlers.Categories, upload *handlers.Upload) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check — no auth.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authH.Login)
			r.Post("/logout", authH.Logout)
			r.Get("/status", authH.Status)
		})

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", recipes.List)
			r.Get("/search", recipes.Search)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(tokens))
				r.Post("/", recipes.Create)
				r.Put("/{id}", recipes.Update)
				r.Delete("/{id}", recipes.Delete)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categories.List)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(tokens))
				r.Post("/", categories.Create)
				r.Delete("/{id}", categories.Delete)
				r.Post("/{id}/subcategories", categories.AddSubcategory)
				r.Delete("/{id}/subcategories/{name}", categories.RemoveSubcategory)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(tokens))
			r.Post("/upload/image", upload.Image)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
