package analytics

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/gerentes/analytics-service/internal/ledger"
)

type mockSource struct {
	snap  Snapshot
	err   error
	calls int
}

func (m *mockSource) Snapshot(ctx context.Context, tenant string) (Snapshot, error) {
	m.calls++
	return m.snap, m.err
}

type mockOversold struct {
	tenant string
	units  int64
	calls  int
}

func (m *mockOversold) RecordOversold(tenant string, units int64) {
	m.calls++
	m.tenant = tenant
	m.units = units
}

func newTestService(t *testing.T, source SnapshotSource, recorder OversoldRecorder) (*Service, func()) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewCache(client, time.Minute)
	svc := NewService(source, &stubRenderer{}, cache, nil, recorder)
	return svc, func() {
		_ = client.Close()
		mr.Close()
	}
}

func TestReportCaches(t *testing.T) {
	source := &mockSource{snap: reportSnapshot()}
	svc, cleanup := newTestService(t, source, nil)
	defer cleanup()

	ctx := context.Background()
	report, err := svc.Report(ctx, "tienda_centro")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Resumen == nil || report.Resumen.TotalUnidadesVendidas != 4 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if source.calls != 1 {
		t.Fatalf("expected 1 source call, got %d", source.calls)
	}

	// Second call should hit cache.
	if _, err := svc.Report(ctx, "tienda_centro"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("expected cached result, source called %d times", source.calls)
	}

	// Bumping the cache should trigger recompute.
	if err := svc.cache.Bump(ctx); err != nil {
		t.Fatalf("bump failed: %v", err)
	}
	if _, err := svc.Report(ctx, "tienda_centro"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.calls != 2 {
		t.Fatalf("expected source to refresh, calls %d", source.calls)
	}
}

func TestReportTenantsCachedSeparately(t *testing.T) {
	source := &mockSource{snap: reportSnapshot()}
	svc, cleanup := newTestService(t, source, nil)
	defer cleanup()

	ctx := context.Background()
	if _, err := svc.Report(ctx, "tienda_centro"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Report(ctx, "tienda_norte"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.calls != 2 {
		t.Fatalf("expected one load per tenant, got %d", source.calls)
	}
}

func TestReportRecordsOversold(t *testing.T) {
	snap := reportSnapshot()
	snap.Sales = append(snap.Sales, ledger.Sale{
		ID: 3, ProductID: 1, Quantity: 20, ExitPrice: 25,
		CreatedAt: time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC),
	})
	recorder := &mockOversold{}
	svc, cleanup := newTestService(t, &mockSource{snap: snap}, recorder)
	defer cleanup()

	if _, err := svc.Report(context.Background(), "tienda_centro"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recorder.calls != 1 {
		t.Fatalf("expected one oversold record, got %d", recorder.calls)
	}
	if recorder.tenant != "tienda_centro" || recorder.units != 13 {
		t.Fatalf("unexpected oversold record: %s %d", recorder.tenant, recorder.units)
	}
}

func TestReportPropagatesSourceError(t *testing.T) {
	source := &mockSource{err: ErrTenantUnknown}
	svc, cleanup := newTestService(t, source, nil)
	defer cleanup()

	if _, err := svc.Report(context.Background(), "no_such"); err == nil {
		t.Fatalf("expected an error")
	}
}

func TestReportWithoutCache(t *testing.T) {
	source := &mockSource{snap: reportSnapshot()}
	svc := NewService(source, &stubRenderer{}, nil, nil, nil)

	ctx := context.Background()
	if _, err := svc.Report(ctx, "tienda_centro"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Report(ctx, "tienda_centro"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.calls != 2 {
		t.Fatalf("expected pass-through loading, got %d calls", source.calls)
	}
}
