package forecast

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/aurora-agency/aurora-backoffice/internal/platform/httpx"
)

// Handler serves forecast endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers the forecast routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/recompute", h.Recompute)
	r.Get("/{monthKey}/{modelID}/{scenario}", h.Get)
	r.Patch("/{monthKey}/{modelID}/{scenario}/notes", h.UpdateNotes)
}

type recomputeRequest struct {
	ModelID  string `json:"model_id" validate:"required"`
	MonthKey string `json:"month_key" validate:"required"`
	Scenario string `json:"scenario" validate:"required"`
}

// Recompute recalculates one model+month+scenario projection.
func (h *Handler) Recompute(w http.ResponseWriter, r *http.Request) {
	var req recomputeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}

	row, err := h.service.Recompute(r.Context(), req.ModelID, req.MonthKey, Scenario(req.Scenario))
	if err != nil {
		h.logger.Warn("forecast recompute rejected", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, row)
}

// Get returns one stored forecast.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	row, err := h.service.Get(r.Context(),
		chi.URLParam(r, "modelID"), chi.URLParam(r, "monthKey"), Scenario(chi.URLParam(r, "scenario")))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, row)
}

type notesRequest struct {
	Notes string `json:"notes"`
}

// UpdateNotes edits a forecast's notes, the only write allowed on a locked
// row.
func (h *Handler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	var req notesRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	err := h.service.UpdateNotes(r.Context(),
		chi.URLParam(r, "modelID"), chi.URLParam(r, "monthKey"), Scenario(chi.URLParam(r, "scenario")), req.Notes)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
