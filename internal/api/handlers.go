// Package api exposes the site's HTTP surface: public newsletter and
// catalog reads, a subscription endpoint, image serving, and a
// token-guarded admin surface for content management.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/harlowpress/author-site/internal/config"
	"github.com/harlowpress/author-site/internal/mailchimp"
	"github.com/harlowpress/author-site/internal/pkg/httputil"
	"github.com/harlowpress/author-site/internal/site"
)

// Handlers holds the dependencies shared by all route handlers
type Handlers struct {
	cfg       *config.Config
	mailchimp *mailchimp.Client
	store     *site.Store
	images    *site.ImageStore
	startTime time.Time
}

// NewHandlers creates the handler set. images may be nil when object
// storage is not configured; the image routes then answer 503.
func NewHandlers(cfg *config.Config, mc *mailchimp.Client, store *site.Store, images *site.ImageStore) *Handlers {
	return &Handlers{
		cfg:       cfg,
		mailchimp: mc,
		store:     store,
		images:    images,
		startTime: time.Now(),
	}
}

// HealthCheck reports service status and configured capabilities
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int(time.Since(h.startTime).Seconds()),
		"newsletter":     h.mailchimp.Configured(),
		"images":         h.images != nil,
	})
}

// pathID parses the {id} route parameter; writes a 400 and returns
// false on garbage input
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httputil.BadRequest(w, "invalid id")
		return 0, false
	}
	return id, true
}
