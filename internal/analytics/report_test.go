package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gerentes/analytics-service/internal/ledger"
)

type stubRenderer struct {
	dailyCalls  int
	profitCalls int
	err         error
}

func (s *stubRenderer) DailySales(_ context.Context, _ []DailyPoint) (string, error) {
	s.dailyCalls++
	if s.err != nil {
		return "", s.err
	}
	return "daily-chart", nil
}

func (s *stubRenderer) ProductProfit(_ context.Context, _ []ProductProfit) (string, error) {
	s.profitCalls++
	if s.err != nil {
		return "", s.err
	}
	return "profit-chart", nil
}

func reportSnapshot() Snapshot {
	base := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	return Snapshot{
		Products: []ledger.Product{
			{ID: 1, Name: "Camisa", MarketPrice: 40, HasMarket: true},
			{ID: 2, Name: "Pantalón"},
		},
		Lots: []ledger.Lot{
			{ID: 1, ProductID: 1, EntryPrice: 10, Quantity: 10, CreatedAt: base},
			{ID: 2, ProductID: 2, EntryPrice: 20, Quantity: 5, CreatedAt: base.Add(time.Hour)},
		},
		Sales: []ledger.Sale{
			{ID: 1, ProductID: 1, Quantity: 3, ExitPrice: 25, CreatedAt: base.AddDate(0, 0, 1)},
			{ID: 2, ProductID: 2, Quantity: 1, ExitPrice: 30, CreatedAt: base.AddDate(0, 0, 2)},
		},
	}
}

func TestAssembleEmptySales(t *testing.T) {
	report, diag, err := Assemble(context.Background(), Snapshot{}, &stubRenderer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Message != EmptySalesMessage {
		t.Fatalf("expected empty-sales message, got %q", report.Message)
	}
	if report.Resumen != nil || report.Graficos != nil || report.TopGanancia != nil {
		t.Fatalf("expected only the message field to be set: %+v", report)
	}
	if diag.OversoldUnits != 0 {
		t.Fatalf("expected no oversold units, got %d", diag.OversoldUnits)
	}

	raw, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"message":"Aún no tienes ventas registradas"}`
	if string(raw) != want {
		t.Fatalf("expected %s, got %s", want, raw)
	}
}

func TestAssembleFullReport(t *testing.T) {
	charts := &stubRenderer{}
	report, diag, err := Assemble(context.Background(), reportSnapshot(), charts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Message != "" {
		t.Fatalf("unexpected message: %q", report.Message)
	}
	if report.Resumen == nil {
		t.Fatalf("expected a populated summary")
	}
	if report.Resumen.TotalUnidadesVendidas != 4 {
		t.Fatalf("expected 4 units sold, got %d", report.Resumen.TotalUnidadesVendidas)
	}
	// 3*(25-10) + 1*(30-20)
	if report.Resumen.GananciaReal != 55 {
		t.Fatalf("expected realized profit 55, got %.2f", report.Resumen.GananciaReal)
	}
	if report.Resumen.InversionTotal != 200 {
		t.Fatalf("expected total investment 200, got %.2f", report.Resumen.InversionTotal)
	}
	if !strings.HasPrefix(report.Resumen.Prediccion, "Pronóstico para mañana:") {
		t.Fatalf("unexpected prediction: %q", report.Resumen.Prediccion)
	}
	if len(report.TopGanancia) != 2 {
		t.Fatalf("expected 2 top entries, got %d", len(report.TopGanancia))
	}
	camisa, ok := report.TopGanancia["Camisa"]
	if !ok {
		t.Fatalf("expected a Camisa entry: %+v", report.TopGanancia)
	}
	if camisa.Ventas != 3 || camisa.Ganancia != 45 {
		t.Fatalf("unexpected Camisa entry: %+v", camisa)
	}
	if report.Graficos.VentasDiarias != "daily-chart" || report.Graficos.GananciaProductos != "profit-chart" {
		t.Fatalf("unexpected chart payloads: %+v", report.Graficos)
	}
	if report.StockBajo == nil {
		t.Fatalf("expected stock_bajo to be non-nil")
	}
	if charts.dailyCalls != 1 || charts.profitCalls != 1 {
		t.Fatalf("expected each chart rendered once, got %d/%d", charts.dailyCalls, charts.profitCalls)
	}
	if diag.OversoldUnits != 0 {
		t.Fatalf("expected no oversold units, got %d", diag.OversoldUnits)
	}
}

func TestAssembleDeterministic(t *testing.T) {
	snap := reportSnapshot()
	first, _, err := Assemble(context.Background(), snap, &stubRenderer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _, err := Assemble(context.Background(), snap, &stubRenderer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Fatalf("expected identical reports:\n%s\n%s", a, b)
	}
}

func TestAssembleReportsOversold(t *testing.T) {
	snap := reportSnapshot()
	snap.Sales = append(snap.Sales, ledger.Sale{
		ID: 3, ProductID: 1, Quantity: 20, ExitPrice: 25,
		CreatedAt: time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC),
	})
	_, diag, err := Assemble(context.Background(), snap, &stubRenderer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Lot 1 has 10 units, sales demand 23.
	if diag.OversoldUnits != 13 {
		t.Fatalf("expected 13 oversold units, got %d", diag.OversoldUnits)
	}
}

func TestAssembleChartFailure(t *testing.T) {
	boom := errors.New("render failed")
	_, _, err := Assemble(context.Background(), reportSnapshot(), &stubRenderer{err: boom})
	if !errors.Is(err, boom) {
		t.Fatalf("expected renderer error, got %v", err)
	}
}
