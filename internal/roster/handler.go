package roster

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aurora-agency/aurora-backoffice/internal/platform/httpx"
)

// Handler serves the model roster read endpoints.
type Handler struct {
	logger *slog.Logger
	repo   Repository
}

// NewHandler constructs the handler.
func NewHandler(logger *slog.Logger, repo Repository) *Handler {
	return &Handler{logger: logger, repo: repo}
}

// MountRoutes registers the roster routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
}

// List returns every model.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	models, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("list models failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, models)
}

// Get returns one model.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	model, err := h.repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, model)
}
