package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/wikiblocks/internal/wikiservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *wikiservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/pages", h.ListPages)
	r.Get("/pages/{name}/backlinks", h.Backlinks)
	r.Get("/graph", h.Graph)
	r.Get("/toc/*", h.PreviewTOC)
	r.Post("/regenerate", h.Regenerate)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
