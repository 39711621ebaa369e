package api

import (
	"context"
	"net/http"
	"time"

	"github.com/harlowpress/author-site/internal/config"
	"github.com/harlowpress/author-site/internal/mailchimp"
	"github.com/harlowpress/author-site/internal/site"
)

// Server wraps the HTTP server and its route tree
type Server struct {
	handler http.Handler
	server  *http.Server
}

// NewServer wires the handlers into the route tree
func NewServer(cfg *config.Config, mc *mailchimp.Client, store *site.Store, images *site.ImageStore) *Server {
	handlers := NewHandlers(cfg, mc, store, images)
	router := SetupRoutes(handlers, cfg.Server.AllowedOrigins, cfg.Admin.Token)
	return &Server{handler: router}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.handler,
		// Write timeout covers image uploads up to the configured cap.
		ReadTimeout:       60 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing
func (s *Server) Handler() http.Handler {
	return s.handler
}
