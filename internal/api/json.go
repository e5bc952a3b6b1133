package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/starford/wikiblocks/internal/apperr"
)

type errResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errResponse{Error: msg})
}

// writeError maps err onto a status code. Not-found errors become 404;
// anything else is logged with the request id and answered with fallback.
func writeError(w http.ResponseWriter, r *http.Request, op string, fallback int, err error) {
	if errors.Is(err, apperr.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, "not found")
		return
	}
	slog.Error("api: "+op+" failed",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("error", err.Error()))
	msg := "internal error"
	if fallback == http.StatusBadRequest {
		msg = "invalid request"
	}
	writeMessage(w, fallback, msg)
}
