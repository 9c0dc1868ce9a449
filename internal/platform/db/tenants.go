package db

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrUnknownDatabase indicates the tenant database does not exist.
var ErrUnknownDatabase = errors.New("platform/db: unknown database")

// ErrInvalidDatabaseName indicates the requested name is not a valid tenant
// database identifier.
var ErrInvalidDatabaseName = errors.New("platform/db: invalid database name")

// Tenant database names are created by the platform and always match this
// shape; anything else is rejected before it reaches a DSN.
var databaseNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,62}$`)

// invalid_catalog_name, raised when connecting to a missing database.
const sqlstateUnknownDatabase = "3D000"

// Manager hands out one connection pool per tenant database, opened lazily
// and reused across requests.
type Manager struct {
	dsnTemplate string

	mu    sync.Mutex
	pools map[string]*pgxpool.Pool
}

// NewManager builds a Manager. dsnTemplate must contain a single %s
// placeholder for the database name.
func NewManager(dsnTemplate string) *Manager {
	return &Manager{
		dsnTemplate: dsnTemplate,
		pools:       make(map[string]*pgxpool.Pool),
	}
}

// Pool returns the pool for the named tenant database, opening it on first
// use. A missing database maps to ErrUnknownDatabase.
func (m *Manager) Pool(ctx context.Context, database string) (*pgxpool.Pool, error) {
	if !databaseNamePattern.MatchString(database) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDatabaseName, database)
	}

	m.mu.Lock()
	pool, ok := m.pools[database]
	m.mu.Unlock()
	if ok {
		return pool, nil
	}

	pool, err := New(ctx, fmt.Sprintf(m.dsnTemplate, database))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == sqlstateUnknownDatabase {
			return nil, fmt.Errorf("%w: %s", ErrUnknownDatabase, database)
		}
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.pools[database]; ok {
		// Lost the race with a concurrent opener.
		pool.Close()
		return existing, nil
	}
	m.pools[database] = pool
	return pool, nil
}

// Close releases every tenant pool.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, pool := range m.pools {
		pool.Close()
		delete(m.pools, name)
	}
}
