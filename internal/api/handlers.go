package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/wikiblocks/internal/wikiservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *wikiservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *wikiservice.Service) *Handler {
	return &Handler{svc: svc}
}

// pagePath extracts the page path from the URL (everything after /toc/).
// Encoded slashes (sub%2Fpage.md) are accepted.
func pagePath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ListPages handles GET /api/pages.
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.svc.Pages(r.Context())
	if err != nil {
		writeError(w, r, "list pages", http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, PageListResponse{Pages: pages, Total: len(pages)})
}

// Backlinks handles GET /api/pages/{name}/backlinks.
func (h *Handler) Backlinks(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil || strings.TrimSpace(name) == "" {
		writeMessage(w, http.StatusBadRequest, "page name is required")
		return
	}
	detail, err := h.svc.Backlinks(r.Context(), name)
	if err != nil {
		writeError(w, r, "backlinks", http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// Graph handles GET /api/graph.
func (h *Handler) Graph(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.Graph(r.Context())
	if err != nil {
		writeError(w, r, "graph", http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// PreviewTOC handles GET /api/toc/*.
func (h *Handler) PreviewTOC(w http.ResponseWriter, r *http.Request) {
	path := pagePath(r)
	if path == "" {
		writeMessage(w, http.StatusBadRequest, "path is required")
		return
	}
	content, managed, err := h.svc.PreviewTOC(r.Context(), path)
	if err != nil {
		writeError(w, r, "preview toc", http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, TOCPreviewResponse{Path: path, Managed: managed, Content: string(content)})
}

// Regenerate handles POST /api/regenerate.
func (h *Handler) Regenerate(w http.ResponseWriter, r *http.Request) {
	reports, err := h.svc.Regenerate(r.Context())
	if err != nil {
		writeError(w, r, "regenerate", http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, RegenerateResponse{Reports: toRunReports(reports)})
}
