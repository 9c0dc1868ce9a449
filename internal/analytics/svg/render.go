package svg

import (
	"context"
	"encoding/base64"

	"github.com/gerentes/analytics-service/internal/analytics"
)

// Renderer implements the analytics chart collaborator. Payloads are
// base64-encoded SVG documents; consumers treat them as opaque.
type Renderer struct {
	Width  int
	Height int
}

// NewRenderer builds a Renderer with default dimensions.
func NewRenderer() *Renderer {
	return &Renderer{Width: DefaultWidth, Height: DefaultHeight}
}

// DailySales renders the daily sales trend line chart.
func (r *Renderer) DailySales(_ context.Context, series []analytics.DailyPoint) (string, error) {
	values := make([]float64, len(series))
	labels := make([]string, len(series))
	for i, point := range series {
		values[i] = float64(point.Quantity)
		labels[i] = point.Day
	}
	doc, err := Line(r.Width, r.Height, values, labels, LineOpts{
		Title:    "Tendencia de Ventas Diarias",
		ShowDots: true,
	})
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString([]byte(doc)), nil
}

// ProductProfit renders the top-products profit bar chart.
func (r *Renderer) ProductProfit(_ context.Context, top []analytics.ProductProfit) (string, error) {
	values := make([]float64, len(top))
	labels := make([]string, len(top))
	for i, entry := range top {
		values[i] = entry.Profit
		labels[i] = entry.Name
	}
	doc, err := Bars(r.Width, r.Height, values, labels, BarOpts{
		Title: "Top 5 Productos por Ganancia",
	})
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString([]byte(doc)), nil
}
