package team

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aurora-agency/aurora-backoffice/internal/platform/httpx"
)

// Handler serves the team member read endpoints.
type Handler struct {
	logger *slog.Logger
	repo   Repository
}

// NewHandler constructs the handler.
func NewHandler(logger *slog.Logger, repo Repository) *Handler {
	return &Handler{logger: logger, repo: repo}
}

// MountRoutes registers the team routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
}

// List returns every team member.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	people, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("list team members failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, people)
}

// Get returns one team member.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	person, err := h.repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, person)
}
