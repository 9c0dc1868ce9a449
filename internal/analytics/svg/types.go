// Package svg renders the analytics charts as standalone SVG documents.
// The documents are handed to callers as opaque encoded payloads.
package svg

// LineOpts customises the line chart renderer.
type LineOpts struct {
	Title       string
	StrokeColor string
	FillColor   string
	AxisColor   string
	GridColor   string
	Padding     float64
	ShowDots    bool
	TickCount   int
}

// BarOpts customises the bar chart renderer.
type BarOpts struct {
	Title     string
	Colors    []string
	AxisColor string
	GridColor string
	Padding   float64
	TickCount int
}

// Defaults for the analytics charts.
const (
	DefaultWidth   = 720
	DefaultHeight  = 280
	DefaultPadding = 28.0
	DefaultTicks   = 6
)

var defaultBarColors = []string{"#28a745", "#007bff", "#6f42c1", "#dc3545", "#fd7e14"}
