package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientFetchCatalog(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/ai/catalog" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]Item{
			{Business: "tienda_centro", Product: "Camisa", Price: 25, Stock: 7, Contact: "ventas@tienda.example"},
		})
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL)
	items, err := client.FetchCatalog(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Business != "tienda_centro" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestClientFetchCatalogUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL)
	if _, err := client.FetchCatalog(context.Background()); err == nil {
		t.Fatalf("expected error for upstream failure")
	}
}
