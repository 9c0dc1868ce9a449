package analytichttp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/gerentes/analytics-service/internal/analytics"
	"github.com/gerentes/analytics-service/internal/platform/httpx"
)

const requestTimeout = 10 * time.Second

// AnalyticsService defines the report contract used by the handler.
type AnalyticsService interface {
	Report(ctx context.Context, tenant string) (*analytics.Report, error)
}

// AnalyticsRequest identifies the tenant's isolated data store.
type AnalyticsRequest struct {
	BusinessDB string `json:"business_db" validate:"required,max=63,business_db"`
}

// Handler coordinates HTTP requests for the profitability analytics report.
type Handler struct {
	logger   *slog.Logger
	service  AnalyticsService
	validate *validator.Validate
}

// NewHandler constructs the analytics HTTP handler.
func NewHandler(logger *slog.Logger, service AnalyticsService) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	v := validator.New()
	// Tenant databases are lowercase identifiers created by the platform.
	_ = v.RegisterValidation("business_db", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return false
		}
		for i, r := range value {
			switch {
			case r >= 'a' && r <= 'z':
			case r == '_' && i > 0:
			case r >= '0' && r <= '9' && i > 0:
			default:
				return false
			}
		}
		return true
	})
	return &Handler{logger: logger, service: service, validate: v}
}

func (h *Handler) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	var req AnalyticsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Detail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Detail(w, http.StatusBadRequest, "business_db must be a valid database name")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.Report(ctx, req.BusinessDB)
	if err != nil {
		h.respondError(w, req.BusinessDB, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) respondError(w http.ResponseWriter, tenant string, err error) {
	switch {
	case errors.Is(err, analytics.ErrTenantUnknown):
		httpx.Detail(w, http.StatusNotFound, "business database not found")
	case errors.Is(err, analytics.ErrInputUnavailable):
		h.logger.Error("analytics input unavailable", slog.String("tenant", tenant), slog.Any("error", err))
		httpx.Detail(w, http.StatusBadGateway, "data source unavailable")
	default:
		h.logger.Error("analytics report failed", slog.String("tenant", tenant), slog.Any("error", err))
		httpx.Detail(w, http.StatusInternalServerError, "internal error")
	}
}
