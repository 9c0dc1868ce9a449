package analytics

import (
	"context"

	"github.com/gerentes/analytics-service/internal/ledger"
)

// EmptySalesMessage is returned when the tenant has no recorded sales.
const EmptySalesMessage = "Aún no tienes ventas registradas"

// ChartRenderer turns series data into opaque encoded image payloads. The
// assembler never interprets the payloads.
type ChartRenderer interface {
	DailySales(ctx context.Context, series []DailyPoint) (string, error)
	ProductProfit(ctx context.Context, top []ProductProfit) (string, error)
}

// Resumen is the summary block of the analytics response.
type Resumen struct {
	TotalUnidadesVendidas int64   `json:"total_unidades_vendidas"`
	GananciaReal          float64 `json:"ganancia_real"`
	MargenPromedio        float64 `json:"margen_promedio"`
	ROI                   float64 `json:"roi"`
	Prediccion            string  `json:"prediccion"`
	InversionTotal        float64 `json:"inversion_total"`
	InversionRecuperada   float64 `json:"inversion_recuperada"`
	InversionActual       float64 `json:"inversion_actual"`
	TotalIngresosReales   float64 `json:"total_ingresos_reales"`
	ValorMarketTotal      float64 `json:"valor_market_total"`
	ValorMarketActual     float64 `json:"valor_market_actual"`
}

// TopProducto is one entry of the top-profit ranking.
type TopProducto struct {
	Ventas                    int64   `json:"ventas"`
	Ganancia                  float64 `json:"ganancia"`
	GananciaUnitariaReal      float64 `json:"ganancia_unitaria_real"`
	GananciaUnitariaPotencial float64 `json:"ganancia_unitaria_potencial"`
	PrecioPromedioVenta       float64 `json:"precio_promedio_venta"`
}

// Graficos carries the opaque encoded chart payloads.
type Graficos struct {
	VentasDiarias     string `json:"ventas_diarias"`
	GananciaProductos string `json:"ganancia_productos"`
}

// Report is the full analytics response. Message is only set on the
// empty-sales short circuit, in which case every other field is omitted.
type Report struct {
	Resumen     *Resumen               `json:"resumen,omitempty"`
	TopGanancia map[string]TopProducto `json:"top_ganancia,omitempty"`
	StockBajo   []LowStockItem         `json:"stock_bajo,omitempty"`
	Graficos    *Graficos              `json:"graficos,omitempty"`
	Message     string                 `json:"message,omitempty"`
}

// Snapshot is the point-in-time tenant data the report is computed from.
type Snapshot struct {
	Products []ledger.Product
	Lots     []ledger.Lot
	Sales    []ledger.Sale
}

// Diagnostics carries data-quality observations from one report
// computation.
type Diagnostics struct {
	OversoldUnits int64
}

// Assemble runs the full pipeline over a snapshot. The ledger replay, the
// aggregation and the forecast are all allocated fresh per call, so
// concurrent invocations never share state.
func Assemble(ctx context.Context, snap Snapshot, charts ChartRenderer) (*Report, Diagnostics, error) {
	if len(snap.Sales) == 0 {
		return &Report{Message: EmptySalesMessage}, Diagnostics{}, nil
	}

	replay := ledger.Consume(snap.Lots, snap.Sales)
	summary, top, low := Aggregate(replay.Records, snap.Lots, snap.Products, replay)
	series := DailySeries(snap.Sales)

	dailyChart, err := charts.DailySales(ctx, series)
	if err != nil {
		return nil, Diagnostics{}, err
	}
	profitChart, err := charts.ProductProfit(ctx, top)
	if err != nil {
		return nil, Diagnostics{}, err
	}

	topGanancia := make(map[string]TopProducto, len(top))
	for _, entry := range top {
		topGanancia[entry.Name] = TopProducto{
			Ventas:                    entry.UnitsSold,
			Ganancia:                  entry.Profit,
			GananciaUnitariaReal:      entry.RealUnitProfit,
			GananciaUnitariaPotencial: entry.PotentialUnitProfit,
			PrecioPromedioVenta:       entry.AvgSalePrice,
		}
	}

	stockBajo := low
	if stockBajo == nil {
		stockBajo = []LowStockItem{}
	}

	report := &Report{
		Resumen: &Resumen{
			TotalUnidadesVendidas: summary.TotalUnitsSold,
			GananciaReal:          summary.RealizedProfit,
			MargenPromedio:        summary.MarginPct,
			ROI:                   summary.ROIPct,
			Prediccion:            ForecastMessage(series),
			InversionTotal:        summary.TotalInvestment,
			InversionRecuperada:   summary.CostRecovered,
			InversionActual:       summary.CurrentInvestment,
			TotalIngresosReales:   summary.TotalIncome,
			ValorMarketTotal:      summary.MarketValueTotal,
			ValorMarketActual:     summary.MarketValueCurrent,
		},
		TopGanancia: topGanancia,
		StockBajo:   stockBajo,
		Graficos: &Graficos{
			VentasDiarias:     dailyChart,
			GananciaProductos: profitChart,
		},
	}
	return report, Diagnostics{OversoldUnits: replay.OversoldUnits()}, nil
}
