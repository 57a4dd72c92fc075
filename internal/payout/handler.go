package payout

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/aurora-agency/aurora-backoffice/internal/platform/httpx"
)

// Handler serves payout run endpoints.
type Handler struct {
	logger   *slog.Logger
	svc      *Service
	validate *validator.Validate
}

// NewHandler constructs the handler.
func NewHandler(logger *slog.Logger, svc *Service) *Handler {
	return &Handler{logger: logger, svc: svc, validate: validator.New()}
}

// MountRoutes registers the payout routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/compute", h.Compute)
	r.Get("/{monthKey}", h.Get)
	r.Get("/{monthKey}/export", h.Export)
	r.Post("/{monthKey}/status", h.AdvanceStatus)
}

type computeRequest struct {
	MonthKey string `json:"month_key" validate:"required"`
}

// Compute runs the month's aggregation and returns the saved run.
func (h *Handler) Compute(w http.ResponseWriter, r *http.Request) {
	var req computeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}

	rw, err := h.svc.Compute(r.Context(), req.MonthKey)
	if err != nil {
		h.logger.Error("payout compute failed", slog.String("month", req.MonthKey), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, rw)
}

// List returns every run, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	runs, err := h.svc.List(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, runs)
}

// Get returns one month's run with lines.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	rw, err := h.svc.Get(r.Context(), chi.URLParam(r, "monthKey"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rw)
}

// Export streams the month's lines as CSV.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	monthKey := chi.URLParam(r, "monthKey")
	rw, err := h.svc.Get(r.Context(), monthKey)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="payouts-%s.csv"`, monthKey))
	if err := WriteCSV(w, rw); err != nil {
		h.logger.Error("payout export failed", slog.String("month", monthKey), slog.Any("error", err))
	}
}

type statusRequest struct {
	Status Status `json:"status" validate:"required"`
}

// AdvanceStatus moves a run forward in the payment workflow.
func (h *Handler) AdvanceStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}

	run, err := h.svc.AdvanceStatus(r.Context(), chi.URLParam(r, "monthKey"), req.Status)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, run)
}
