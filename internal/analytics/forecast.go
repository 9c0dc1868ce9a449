package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/gerentes/analytics-service/internal/ledger"
)

// InsufficientDataMessage is the forecast sentinel when fewer than two
// distinct sale days exist. Not an error.
const InsufficientDataMessage = "Datos insuficientes (mínimo 2 días)"

// DailyPoint is one day of summed sale quantities.
type DailyPoint struct {
	Day      string
	Quantity int64
}

// DailySeries groups sale quantities by UTC calendar date, ascending.
func DailySeries(sales []ledger.Sale) []DailyPoint {
	totals := make(map[string]int64)
	for _, sale := range sales {
		day := sale.CreatedAt.UTC().Format("2006-01-02")
		totals[day] += sale.Quantity
	}
	days := make([]string, 0, len(totals))
	for day := range totals {
		days = append(days, day)
	}
	sort.Strings(days)
	series := make([]DailyPoint, 0, len(days))
	for _, day := range days {
		series = append(series, DailyPoint{Day: day, Quantity: totals[day]})
	}
	return series
}

// Forecast fits an ordinary-least-squares line over (0..n-1, quantity) and
// evaluates it at day index n. ok is false with fewer than 2 points. A plain
// trend extrapolation, not a seasonal model.
func Forecast(series []DailyPoint) (float64, bool) {
	n := len(series)
	if n < 2 {
		return 0, false
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, point := range series {
		x := float64(i)
		y := float64(point.Quantity)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return 0, false
	}
	slope := (fn*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / fn
	predicted := slope*fn + intercept
	return math.Round(predicted*10) / 10, true
}

// ForecastMessage renders the user-facing prediction line.
func ForecastMessage(series []DailyPoint) string {
	predicted, ok := Forecast(series)
	if !ok {
		return InsufficientDataMessage
	}
	return fmt.Sprintf("Pronóstico para mañana: %.1f unidades", predicted)
}
