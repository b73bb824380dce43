package grid

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Ro-Data/compgrid/pkg/config"
	"github.com/Ro-Data/compgrid/pkg/render"
	gridservice "github.com/Ro-Data/compgrid/pkg/services/grid"
)

// Handler serves on-demand previews of configured reports, rendered as the
// HTML email body would be.
type Handler struct {
	composer  *gridservice.Composer
	documents map[string]*config.Document
}

func NewHandler(composer *gridservice.Composer, documents map[string]*config.Document) *Handler {
	return &Handler{
		composer:  composer,
		documents: documents,
	}
}

func (h *Handler) ListGrids(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for name := range h.documents {
		if _, err := w.Write([]byte(name + "\n")); err != nil {
			logger.Error().Err(err).Msg("failed to write grid list")
			return
		}
	}
}

func (h *Handler) GetGrid(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	name := chi.URLParam(r, "grid")

	doc, ok := h.documents[name]
	if !ok {
		http.NotFound(w, r)
		return
	}

	g, err := h.composer.BuildGrid(ctx, doc, gridservice.Anchor(time.Now()))
	if err != nil {
		logger.Error().Err(err).Str("grid", name).Msg("failed to build grid")
		http.Error(w, "failed to build grid", http.StatusInternalServerError)
		return
	}

	body, err := render.HTML(g)
	if err != nil {
		logger.Error().Err(err).Str("grid", name).Msg("failed to render grid")
		http.Error(w, "failed to render grid", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(body)); err != nil {
		logger.Error().Err(err).Str("grid", name).Msg("failed to write grid response")
	}
}
