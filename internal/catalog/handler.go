package catalog

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gerentes/analytics-service/internal/platform/httpx"
)

// Handler serves the cached catalog to the assistant.
type Handler struct {
	logger *slog.Logger
	cache  *Cache
}

// NewHandler constructs the catalog HTTP handler.
func NewHandler(logger *slog.Logger, cache *Cache) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, cache: cache}
}

// MountRoutes registers the catalog endpoint onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	r.Get("/products/ai/catalog", h.handleCatalog)
}

func (h *Handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	items, err := h.cache.Get(r.Context())
	if err != nil {
		h.logger.Error("catalog unavailable", slog.Any("error", err))
		httpx.Detail(w, http.StatusBadGateway, "catalog upstream unavailable")
		return
	}
	if items == nil {
		items = []Item{}
	}
	httpx.JSON(w, http.StatusOK, items)
}
