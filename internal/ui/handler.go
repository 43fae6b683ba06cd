// Package ui renders the browser editor: a SQL textarea plus results,
// schema, and settings panels driven by the same keyboard chords the panel
// controller implements, all talking to the /v1 API.
package ui

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	logger *slog.Logger
}

func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger.With("component", "ui")}
}

// Routes returns the UI router: the editor page at / and the stylesheet.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Editor)
	r.Get("/static/app.css", h.Stylesheet)
	return r
}

// Editor serves the single-page query editor.
func (h *Handler) Editor(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := editorPage().Render(w); err != nil {
		h.logger.Error("render editor page", "error", err)
	}
}

// Stylesheet serves the app stylesheet.
func (h *Handler) Stylesheet(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	_, _ = w.Write([]byte(appStylesheet))
}
