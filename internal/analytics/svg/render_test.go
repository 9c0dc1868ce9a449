package svg

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/gerentes/analytics-service/internal/analytics"
)

func TestRendererDailySalesEncodes(t *testing.T) {
	r := NewRenderer()
	payload, err := r.DailySales(context.Background(), []analytics.DailyPoint{
		{Day: "2025-05-01", Quantity: 10},
		{Day: "2025-05-02", Quantity: 12},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		t.Fatalf("expected base64 payload: %v", err)
	}
	doc := string(raw)
	if !strings.HasPrefix(doc, "<svg") {
		t.Fatalf("expected svg document, got %s", doc)
	}
	if !strings.Contains(doc, "Tendencia de Ventas Diarias") {
		t.Fatalf("expected chart title")
	}
}

func TestRendererProductProfitEncodes(t *testing.T) {
	r := NewRenderer()
	payload, err := r.ProductProfit(context.Background(), []analytics.ProductProfit{
		{Name: "Camisa", Profit: 45},
		{Name: "Pantalón", Profit: 10},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		t.Fatalf("expected base64 payload: %v", err)
	}
	doc := string(raw)
	if !strings.Contains(doc, "Top 5 Productos por Ganancia") {
		t.Fatalf("expected chart title")
	}
	if !strings.Contains(doc, "Camisa") {
		t.Fatalf("expected product label")
	}
}

func TestRendererEmptySeriesFails(t *testing.T) {
	r := NewRenderer()
	if _, err := r.DailySales(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty series")
	}
}
