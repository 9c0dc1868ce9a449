package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func serveCatalog(t *testing.T, fetcher Fetcher) *httptest.ResponseRecorder {
	t.Helper()
	cache := NewCache(fetcher, time.Minute, nil)
	handler := NewHandler(nil, cache)
	router := chi.NewRouter()
	handler.MountRoutes(router)

	req := httptest.NewRequest(http.MethodGet, "/products/ai/catalog", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestHandleCatalogReturnsItems(t *testing.T) {
	fetcher := &stubFetcher{items: []Item{
		{Business: "tienda_centro", Product: "Camisa", Price: 25, Stock: 7},
	}}
	rr := serveCatalog(t, fetcher)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var items []Item
	if err := json.Unmarshal(rr.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(items) != 1 || items[0].Product != "Camisa" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestHandleCatalogEmptyIsArray(t *testing.T) {
	rr := serveCatalog(t, &stubFetcher{})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if got := rr.Body.String(); got != "[]\n" && got != "[]" {
		t.Fatalf("expected empty JSON array, got %q", got)
	}
}

func TestHandleCatalogUpstreamFailure(t *testing.T) {
	rr := serveCatalog(t, &stubFetcher{err: errors.New("backend down")})
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", rr.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["detail"] == "" {
		t.Fatalf("expected a detail message, got %s", rr.Body.String())
	}
}
