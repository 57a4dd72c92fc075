package pnl

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/aurora-agency/aurora-backoffice/internal/platform/httpx"
	"github.com/aurora-agency/aurora-backoffice/internal/shared"
)

// Handler serves P&L derivation and read endpoints.
type Handler struct {
	logger   *slog.Logger
	repo     Repository
	settings Settings
	validate *validator.Validate
}

// NewHandler constructs the handler.
func NewHandler(logger *slog.Logger, repo Repository, settings Settings) *Handler {
	return &Handler{
		logger:   logger,
		repo:     repo,
		settings: settings,
		validate: validator.New(),
	}
}

// MountRoutes registers the P&L routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/derive", h.Derive)
	r.Get("/{monthKey}", h.ListByMonth)
	r.Get("/{monthKey}/{modelID}", h.Get)
}

// Derive computes a P&L row from a raw revenue/expense input and persists
// it by natural key.
func (h *Handler) Derive(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	if err := h.validate.Struct(in); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	if _, err := shared.ParseMonthKey(in.MonthKey); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}

	row := Derive(in, h.settings)
	if err := h.repo.Upsert(r.Context(), row); err != nil {
		h.logger.Error("pnl upsert failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, row)
}

// ListByMonth returns the derived rows for one month.
func (h *Handler) ListByMonth(w http.ResponseWriter, r *http.Request) {
	monthKey := chi.URLParam(r, "monthKey")
	rows, err := h.repo.ListByMonth(r.Context(), monthKey)
	if err != nil {
		h.logger.Error("pnl list failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

// Get returns the derived row for one model and month.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	row, err := h.repo.Get(r.Context(), chi.URLParam(r, "modelID"), chi.URLParam(r, "monthKey"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, row)
}
