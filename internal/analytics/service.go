package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	platformdb "github.com/gerentes/analytics-service/internal/platform/db"
)

// SnapshotSource fetches the point-in-time input data for one tenant.
type SnapshotSource interface {
	Snapshot(ctx context.Context, tenant string) (Snapshot, error)
}

// OversoldRecorder receives the oversold data-quality signal.
type OversoldRecorder interface {
	RecordOversold(tenant string, units int64)
}

// Service coordinates snapshot fetching, the costing pipeline and the
// report cache. All working state is allocated per request; concurrent
// calls never share mutable data.
type Service struct {
	source  SnapshotSource
	charts  ChartRenderer
	cache   *Cache
	logger  *slog.Logger
	metrics OversoldRecorder
}

// NewService wires the analytics service.
func NewService(source SnapshotSource, charts ChartRenderer, cache *Cache, logger *slog.Logger, metrics OversoldRecorder) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{source: source, charts: charts, cache: cache, logger: logger, metrics: metrics}
}

// Report computes (or serves from cache) the full analytics report for the
// named tenant database.
func (s *Service) Report(ctx context.Context, tenant string) (*Report, error) {
	loader := func(ctx context.Context) (*Report, error) {
		snap, err := s.source.Snapshot(ctx, tenant)
		if err != nil {
			return nil, err
		}
		report, diag, err := Assemble(ctx, snap, s.charts)
		if err != nil {
			return nil, err
		}
		if diag.OversoldUnits > 0 {
			s.logger.Warn("sales exceed recorded lot quantities",
				slog.String("tenant", tenant),
				slog.Int64("oversold_units", diag.OversoldUnits))
			if s.metrics != nil {
				s.metrics.RecordOversold(tenant, diag.OversoldUnits)
			}
		}
		return report, nil
	}

	if s.cache == nil {
		return loader(ctx)
	}
	key, err := s.cache.ReportKey(ctx, tenant)
	if err != nil {
		return nil, err
	}
	return s.cache.FetchReport(ctx, key, loader)
}

// PoolSource resolves tenant pools and reads snapshots through Repository.
type PoolSource struct {
	manager *platformdb.Manager
}

// NewPoolSource builds a SnapshotSource over the tenant pool manager.
func NewPoolSource(manager *platformdb.Manager) *PoolSource {
	return &PoolSource{manager: manager}
}

// Snapshot implements SnapshotSource, mapping infrastructure failures onto
// the closed error kinds.
func (p *PoolSource) Snapshot(ctx context.Context, tenant string) (Snapshot, error) {
	pool, err := p.manager.Pool(ctx, tenant)
	if err != nil {
		if errors.Is(err, platformdb.ErrUnknownDatabase) || errors.Is(err, platformdb.ErrInvalidDatabaseName) {
			return Snapshot{}, fmt.Errorf("%w: %s", ErrTenantUnknown, tenant)
		}
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInputUnavailable, err)
	}
	snap, err := NewRepository(pool).Snapshot(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInputUnavailable, err)
	}
	return snap, nil
}
