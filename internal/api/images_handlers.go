package api

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/harlowpress/author-site/internal/pkg/httputil"
	"github.com/harlowpress/author-site/internal/pkg/logger"
)

// maxMultipartMemory caps the in-memory portion of upload parsing;
// larger bodies spill to temp files
const maxMultipartMemory = 8 << 20

func (h *Handlers) requireImages(w http.ResponseWriter) bool {
	if h.images == nil {
		httputil.Error(w, http.StatusServiceUnavailable, "image storage is not configured")
		return false
	}
	return true
}

// ServeImage streams an object from the bucket. Keys are immutable
// UUIDs, so responses carry a long-lived cache header.
func (h *Handlers) ServeImage(w http.ResponseWriter, r *http.Request) {
	if !h.requireImages(w) {
		return
	}
	key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if key == "" || strings.Contains(key, "..") {
		httputil.BadRequest(w, "invalid image key")
		return
	}

	body, contentType, err := h.images.Fetch(r.Context(), key)
	if err != nil {
		httputil.NotFound(w, "image not found")
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	if _, err := io.Copy(w, body); err != nil {
		logger.Warn("Image stream interrupted", "key", key, "error", err.Error())
	}
}

// UploadImage accepts a multipart form with an "image" file field and
// stores it under a generated key
func (h *Handlers) UploadImage(w http.ResponseWriter, r *http.Request) {
	if !h.requireImages(w) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.images.MaxBytes()+maxMultipartMemory)
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		httputil.BadRequest(w, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		httputil.BadRequest(w, "image file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.images.MaxBytes()+1))
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if int64(len(data)) > h.images.MaxBytes() {
		httputil.Error(w, http.StatusRequestEntityTooLarge, "image exceeds upload size limit")
		return
	}

	obj, err := h.images.Upload(r.Context(), data, header.Filename)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	httputil.Created(w, obj)
}

// ListImages returns the stored image objects for the admin gallery
func (h *Handlers) ListImages(w http.ResponseWriter, r *http.Request) {
	if !h.requireImages(w) {
		return
	}
	objects, err := h.images.List(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]interface{}{"images": objects})
}

// DeleteImage removes a stored image and its thumbnail
func (h *Handlers) DeleteImage(w http.ResponseWriter, r *http.Request) {
	if !h.requireImages(w) {
		return
	}
	key := chi.URLParam(r, "key")
	if key == "" || strings.ContainsAny(key, "/\\") {
		httputil.BadRequest(w, "invalid image key")
		return
	}
	if err := h.images.Remove(r.Context(), key); err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.NoContent(w)
}
