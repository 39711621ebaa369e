package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures the full route tree. adminToken guards the
// /api/admin subtree; an empty token disables it entirely.
func SetupRoutes(h *Handlers, allowedOrigins []string, adminToken string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Admin-Token"},
		MaxAge:         300,
	}))

	r.Get("/health", h.HealthCheck)

	// Public image serving; keys may contain a thumbs/ prefix.
	r.Get("/images/*", h.ServeImage)

	r.Route("/api", func(r chi.Router) {
		// Newsletter archive
		r.Get("/newsletters", h.ListNewsletters)
		r.Get("/newsletters/{id}", h.GetNewsletter)
		r.Get("/newsletters/{id}/preview", h.GetNewsletterPreview)
		r.Post("/newsletter/subscribe", h.Subscribe)

		// Catalog reads
		r.Get("/books", h.ListBooks)
		r.Get("/books/{id}", h.GetBook)
		r.Get("/testimonials", h.ListTestimonials)
		r.Get("/content", h.GetContent)

		// Admin surface
		r.Route("/admin", func(r chi.Router) {
			r.Use(adminOnly(adminToken))

			r.Post("/newsletters/refresh", h.RefreshNewsletters)
			r.Post("/newsletters/{id}/refresh", h.RefreshNewsletterContent)

			r.Post("/books", h.CreateBook)
			r.Put("/books/{id}", h.UpdateBook)
			r.Delete("/books/{id}", h.DeleteBook)
			r.Post("/books/{id}/links", h.CreatePurchaseLink)
			r.Put("/links/{id}", h.UpdatePurchaseLink)
			r.Delete("/links/{id}", h.DeletePurchaseLink)

			r.Post("/testimonials", h.CreateTestimonial)
			r.Put("/testimonials/{id}", h.UpdateTestimonial)
			r.Delete("/testimonials/{id}", h.DeleteTestimonial)

			r.Get("/content", h.ListAllContent)
			r.Post("/content", h.CreateContent)
			r.Put("/content/{id}", h.UpdateContent)
			r.Delete("/content/{id}", h.DeleteContent)

			r.Post("/images", h.UploadImage)
			r.Get("/images", h.ListImages)
			r.Delete("/images/{key}", h.DeleteImage)
		})
	})

	return r
}

// adminOnly checks the X-Admin-Token shared secret. The compare is
// constant time so the token cannot be probed byte by byte.
func adminOnly(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if token == "" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"error":"admin API is disabled"}`))
				return
			}
			got := req.Header.Get("X-Admin-Token")
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}
