package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/harlowpress/author-site/internal/emailcontent"
	"github.com/harlowpress/author-site/internal/mailchimp"
	"github.com/harlowpress/author-site/internal/pkg/httputil"
)

// Campaign list requests default to 10 entries. The limit query
// parameter is clamped to 50: each listed campaign also fetches its
// content for the preview, so an unbounded limit would fan out into
// that many upstream calls on a cold cache. The clamp applies to the
// admin refresh as well.
const (
	defaultCampaignLimit = 10
	maxCampaignLimit     = 50
)

// NewsletterSummary is one archive entry with its extracted preview
type NewsletterSummary struct {
	ID          string `json:"id"`
	SubjectLine string `json:"subject_line"`
	SendTime    string `json:"send_time"`
	ArchiveURL  string `json:"archive_url"`
	Title       string `json:"title"`
	Excerpt     string `json:"excerpt"`
}

func campaignLimit(r *http.Request) int {
	limit := defaultCampaignLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxCampaignLimit {
		limit = maxCampaignLimit
	}
	return limit
}

func summarize(c mailchimp.Campaign, html string) NewsletterSummary {
	s := NewsletterSummary{
		ID:          c.ID,
		SubjectLine: c.SubjectLine,
		SendTime:    c.SendTime,
		ArchiveURL:  c.ArchiveURL,
		Title:       c.Title,
	}
	if html != "" {
		extracted := emailcontent.ExtractSummary(html)
		if extracted.Title != "" {
			s.Title = extracted.Title
		}
		s.Excerpt = extracted.Excerpt
	}
	return s
}

// ListNewsletters returns recent sent campaigns with extracted
// previews. Content fetches ride the client's TTL cache, so repeat
// page loads cost no upstream calls within the window. A missing API
// key still answers 200 with an empty list, but carries an error
// field so the archive page can explain itself.
func (h *Handlers) ListNewsletters(w http.ResponseWriter, r *http.Request) {
	limit := campaignLimit(r)
	if !h.mailchimp.Configured() {
		httputil.OK(w, map[string]interface{}{
			"newsletters": []NewsletterSummary{},
			"error":       "Mailchimp API key not configured",
		})
		return
	}
	campaigns := h.mailchimp.GetCampaigns(r.Context(), limit)

	summaries := make([]NewsletterSummary, 0, len(campaigns))
	for _, c := range campaigns {
		html, _ := h.mailchimp.GetCampaignContent(r.Context(), c.ID)
		summaries = append(summaries, summarize(c, html))
	}
	httputil.OK(w, map[string]interface{}{"newsletters": summaries})
}

// GetNewsletter returns one campaign's full HTML, sanitized for
// embedding in the site
func (h *Handlers) GetNewsletter(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	html, ok := h.mailchimp.GetCampaignContent(r.Context(), id)
	if !ok || html == "" {
		httputil.NotFound(w, "newsletter not found")
		return
	}
	httputil.OK(w, map[string]string{
		"id":   id,
		"html": emailcontent.Sanitize(html),
	})
}

// GetNewsletterPreview returns the extracted title, excerpt and media
// for one campaign
func (h *Handlers) GetNewsletterPreview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	html, ok := h.mailchimp.GetCampaignContent(r.Context(), id)
	if !ok || html == "" {
		httputil.NotFound(w, "newsletter not found")
		return
	}
	httputil.OK(w, emailcontent.ExtractSummary(html))
}

type subscribeRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Subscribe adds an address to the newsletter list. Upstream
// rejections come back as 200 with success=false so the frontend can
// show the message inline.
func (h *Handlers) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if req.Email == "" {
		httputil.BadRequest(w, "email is required")
		return
	}
	if !h.mailchimp.Configured() || h.cfg.Mailchimp.ListID == "" {
		httputil.Error(w, http.StatusInternalServerError, "newsletter signup is not configured")
		return
	}

	result := h.mailchimp.Subscribe(r.Context(), h.cfg.Mailchimp.ListID, req.Email, req.FirstName, req.LastName)
	httputil.OK(w, result)
}

// RefreshNewsletters drops the campaign list cache and refetches
func (h *Handlers) RefreshNewsletters(w http.ResponseWriter, r *http.Request) {
	limit := campaignLimit(r)
	campaigns := h.mailchimp.RefreshCampaigns(r.Context(), limit)
	httputil.OK(w, map[string]interface{}{"refreshed": len(campaigns)})
}

// RefreshNewsletterContent drops one campaign's cached HTML and refetches
func (h *Handlers) RefreshNewsletterContent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	html, ok := h.mailchimp.RefreshCampaignContent(r.Context(), id)
	if !ok || html == "" {
		httputil.NotFound(w, "newsletter not found")
		return
	}
	httputil.OK(w, map[string]interface{}{"id": id, "refreshed": true})
}
