package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	analytichttp "github.com/gerentes/analytics-service/internal/analytics/http"
	"github.com/gerentes/analytics-service/internal/catalog"
	"github.com/gerentes/analytics-service/internal/observability"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	AnalyticsHandler *analytichttp.Handler
	CatalogHandler   *catalog.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with service defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	if params.AnalyticsHandler != nil {
		params.AnalyticsHandler.MountRoutes(r)
	}
	if params.CatalogHandler != nil {
		params.CatalogHandler.MountRoutes(r)
	}

	return r
}
