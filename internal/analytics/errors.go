package analytics

import "errors"

// Closed error kinds surfaced by the analytics service. Everything else is
// recovered locally: missing reference data falls back to synthetic labels
// and zero valuation, degenerate divisions resolve to 0, and oversold sales
// follow the zero-cost policy while being counted as a data-quality signal.
var (
	// ErrInputUnavailable indicates the tenant data source is unreachable or
	// a query failed. The core does not retry.
	ErrInputUnavailable = errors.New("analytics: input unavailable")
	// ErrTenantUnknown indicates the requested business database does not
	// exist or its name is not acceptable.
	ErrTenantUnknown = errors.New("analytics: unknown tenant database")
)
