package api

import (
	"net/http"
	"strings"

	"github.com/harlowpress/author-site/internal/pkg/httputil"
	"github.com/harlowpress/author-site/internal/site"
)

// --- Books ---

// ListBooks returns every book with its purchase links, newest first
func (h *Handlers) ListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.store.ListBooksWithLinks(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]interface{}{"books": books})
}

// GetBook returns one book with its purchase links
func (h *Handlers) GetBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	book, err := h.store.GetBookWithLinks(r.Context(), id)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if book == nil {
		httputil.NotFound(w, "book not found")
		return
	}
	httputil.OK(w, book)
}

type bookRequest struct {
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	SeriesTitle  *string `json:"series_title"`
	SeriesNumber *int    `json:"series_number"`
	ImageURL     string  `json:"image_url"`
}

func (br *bookRequest) validate(w http.ResponseWriter) bool {
	if strings.TrimSpace(br.Name) == "" {
		httputil.BadRequest(w, "name is required")
		return false
	}
	if strings.TrimSpace(br.ImageURL) == "" {
		httputil.BadRequest(w, "image_url is required")
		return false
	}
	return true
}

// CreateBook adds a book to the catalog
func (h *Handlers) CreateBook(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if !httputil.Decode(w, r, &req) || !req.validate(w) {
		return
	}
	book := &site.Book{
		Name:         req.Name,
		Description:  req.Description,
		SeriesTitle:  req.SeriesTitle,
		SeriesNumber: req.SeriesNumber,
		ImageURL:     req.ImageURL,
	}
	if err := h.store.CreateBook(r.Context(), book); err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.Created(w, book)
}

// UpdateBook replaces a book's fields
func (h *Handlers) UpdateBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req bookRequest
	if !httputil.Decode(w, r, &req) || !req.validate(w) {
		return
	}
	book, err := h.store.UpdateBook(r.Context(), &site.Book{
		ID:           id,
		Name:         req.Name,
		Description:  req.Description,
		SeriesTitle:  req.SeriesTitle,
		SeriesNumber: req.SeriesNumber,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if book == nil {
		httputil.NotFound(w, "book not found")
		return
	}
	httputil.OK(w, book)
}

// DeleteBook removes a book and its purchase links
func (h *Handlers) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	removed, err := h.store.DeleteBook(r.Context(), id)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if !removed {
		httputil.NotFound(w, "book not found")
		return
	}
	httputil.NoContent(w)
}

// --- Purchase links ---

type purchaseLinkRequest struct {
	StoreName string  `json:"store_name"`
	URL       string  `json:"url"`
	IconURL   *string `json:"icon_url"`
	MediaType *string `json:"media_type"`
}

func (lr *purchaseLinkRequest) validate(w http.ResponseWriter) bool {
	if strings.TrimSpace(lr.StoreName) == "" {
		httputil.BadRequest(w, "store_name is required")
		return false
	}
	if strings.TrimSpace(lr.URL) == "" {
		httputil.BadRequest(w, "url is required")
		return false
	}
	return true
}

// CreatePurchaseLink attaches a store link to a book
func (h *Handlers) CreatePurchaseLink(w http.ResponseWriter, r *http.Request) {
	bookID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req purchaseLinkRequest
	if !httputil.Decode(w, r, &req) || !req.validate(w) {
		return
	}
	book, err := h.store.GetBook(r.Context(), bookID)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if book == nil {
		httputil.NotFound(w, "book not found")
		return
	}
	link := &site.PurchaseLink{
		BookID:    bookID,
		StoreName: req.StoreName,
		URL:       req.URL,
		IconURL:   req.IconURL,
		MediaType: req.MediaType,
	}
	if err := h.store.CreatePurchaseLink(r.Context(), link); err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.Created(w, link)
}

// UpdatePurchaseLink replaces a purchase link's fields
func (h *Handlers) UpdatePurchaseLink(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req purchaseLinkRequest
	if !httputil.Decode(w, r, &req) || !req.validate(w) {
		return
	}
	link, err := h.store.UpdatePurchaseLink(r.Context(), &site.PurchaseLink{
		ID:        id,
		StoreName: req.StoreName,
		URL:       req.URL,
		IconURL:   req.IconURL,
		MediaType: req.MediaType,
	})
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if link == nil {
		httputil.NotFound(w, "purchase link not found")
		return
	}
	httputil.OK(w, link)
}

// DeletePurchaseLink removes a purchase link
func (h *Handlers) DeletePurchaseLink(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	removed, err := h.store.DeletePurchaseLink(r.Context(), id)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if !removed {
		httputil.NotFound(w, "purchase link not found")
		return
	}
	httputil.NoContent(w)
}

// --- Testimonials ---

// ListTestimonials returns all reader testimonials, newest first
func (h *Handlers) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListTestimonials(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if items == nil {
		items = []*site.Testimonial{}
	}
	httputil.OK(w, map[string]interface{}{"testimonials": items})
}

type testimonialRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Store       string  `json:"store"`
}

// CreateTestimonial adds a testimonial
func (h *Handlers) CreateTestimonial(w http.ResponseWriter, r *http.Request) {
	var req testimonialRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		httputil.BadRequest(w, "name is required")
		return
	}
	item := &site.Testimonial{Name: req.Name, Description: req.Description, Store: req.Store}
	if err := h.store.CreateTestimonial(r.Context(), item); err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.Created(w, item)
}

// UpdateTestimonial replaces a testimonial's fields
func (h *Handlers) UpdateTestimonial(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req testimonialRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		httputil.BadRequest(w, "name is required")
		return
	}
	item, err := h.store.UpdateTestimonial(r.Context(), &site.Testimonial{
		ID: id, Name: req.Name, Description: req.Description, Store: req.Store,
	})
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if item == nil {
		httputil.NotFound(w, "testimonial not found")
		return
	}
	httputil.OK(w, item)
}

// DeleteTestimonial removes a testimonial
func (h *Handlers) DeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	removed, err := h.store.DeleteTestimonial(r.Context(), id)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if !removed {
		httputil.NotFound(w, "testimonial not found")
		return
	}
	httputil.NoContent(w)
}

// --- Page content ---

// GetContent returns copy blocks for a page (?page=home) or several
// pages at once (?pages=home,books) grouped by page
func (h *Handlers) GetContent(w http.ResponseWriter, r *http.Request) {
	if pages := r.URL.Query().Get("pages"); pages != "" {
		names := []string{}
		for _, p := range strings.Split(pages, ",") {
			if p = strings.TrimSpace(p); p != "" {
				names = append(names, p)
			}
		}
		grouped, err := h.store.GetContentByPages(r.Context(), names)
		if err != nil {
			httputil.InternalError(w, err)
			return
		}
		httputil.OK(w, map[string]interface{}{"content": grouped})
		return
	}

	page := r.URL.Query().Get("page")
	if page == "" {
		httputil.BadRequest(w, "page or pages query parameter is required")
		return
	}
	items, err := h.store.GetContentByPage(r.Context(), page)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]interface{}{"content": items})
}

// ListAllContent returns every copy block for the admin editor
func (h *Handlers) ListAllContent(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListContent(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if items == nil {
		items = []*site.PageContent{}
	}
	httputil.OK(w, map[string]interface{}{"content": items})
}

type contentRequest struct {
	Page        string  `json:"page"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

func (cr *contentRequest) validate(w http.ResponseWriter) bool {
	if strings.TrimSpace(cr.Page) == "" {
		httputil.BadRequest(w, "page is required")
		return false
	}
	if strings.TrimSpace(cr.Title) == "" {
		httputil.BadRequest(w, "title is required")
		return false
	}
	return true
}

// CreateContent adds a copy block
func (h *Handlers) CreateContent(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if !httputil.Decode(w, r, &req) || !req.validate(w) {
		return
	}
	item := &site.PageContent{Page: req.Page, Title: req.Title, Description: req.Description}
	if err := h.store.CreateContent(r.Context(), item); err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.Created(w, item)
}

// UpdateContent replaces a copy block's fields
func (h *Handlers) UpdateContent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req contentRequest
	if !httputil.Decode(w, r, &req) || !req.validate(w) {
		return
	}
	item, err := h.store.UpdateContent(r.Context(), &site.PageContent{
		ID: id, Page: req.Page, Title: req.Title, Description: req.Description,
	})
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if item == nil {
		httputil.NotFound(w, "content not found")
		return
	}
	httputil.OK(w, item)
}

// DeleteContent removes a copy block
func (h *Handlers) DeleteContent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	removed, err := h.store.DeleteContent(r.Context(), id)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if !removed {
		httputil.NotFound(w, "content not found")
		return
	}
	httputil.NoContent(w)
}
