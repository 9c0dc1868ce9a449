package analytics

import (
	"context"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gerentes/analytics-service/internal/ledger"
	platformdb "github.com/gerentes/analytics-service/internal/platform/db"
)

// Repository reads the three analytics input tables from a tenant database.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository over an open tenant pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const (
	productsQuery = `SELECT id, name, market_price FROM product ORDER BY id`
	lotsQuery     = `SELECT id, product_id, entry_price, quantity, remaining, created_at FROM lot ORDER BY created_at, id`
	salesQuery    = `SELECT id, product_id, quantity, exit_price, created_at FROM sale ORDER BY created_at, id`
)

// Snapshot fetches products, lots and sales inside one repeatable-read
// transaction, so the three tables describe a single point in time. The rows
// are read-only input; the engine never writes back.
func (r *Repository) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := platformdb.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		products, err := r.products(ctx, tx)
		if err != nil {
			return err
		}
		lots, err := r.lots(ctx, tx)
		if err != nil {
			return err
		}
		sales, err := r.sales(ctx, tx)
		if err != nil {
			return err
		}
		snap = Snapshot{Products: products, Lots: lots, Sales: sales}
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func (r *Repository) products(ctx context.Context, tx pgx.Tx) ([]ledger.Product, error) {
	rows, err := tx.Query(ctx, productsQuery)
	if err != nil {
		return nil, fmt.Errorf("analytics: query products: %w", err)
	}
	defer rows.Close()

	var products []ledger.Product
	for rows.Next() {
		var (
			id          int64
			name        pgtype.Text
			marketPrice pgtype.Float8
		)
		if err := rows.Scan(&id, &name, &marketPrice); err != nil {
			return nil, fmt.Errorf("analytics: scan product: %w", err)
		}
		product := ledger.Product{ID: id}
		if name.Valid {
			product.Name = name.String
		}
		if marketPrice.Valid && !math.IsNaN(marketPrice.Float64) {
			product.MarketPrice = marketPrice.Float64
			product.HasMarket = true
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *Repository) lots(ctx context.Context, tx pgx.Tx) ([]ledger.Lot, error) {
	rows, err := tx.Query(ctx, lotsQuery)
	if err != nil {
		return nil, fmt.Errorf("analytics: query lots: %w", err)
	}
	defer rows.Close()

	var lots []ledger.Lot
	for rows.Next() {
		var (
			lot       ledger.Lot
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&lot.ID, &lot.ProductID, &lot.EntryPrice, &lot.Quantity, &lot.Remaining, &createdAt); err != nil {
			return nil, fmt.Errorf("analytics: scan lot: %w", err)
		}
		lot.CreatedAt = createdAt.Time
		lots = append(lots, lot)
	}
	return lots, rows.Err()
}

func (r *Repository) sales(ctx context.Context, tx pgx.Tx) ([]ledger.Sale, error) {
	rows, err := tx.Query(ctx, salesQuery)
	if err != nil {
		return nil, fmt.Errorf("analytics: query sales: %w", err)
	}
	defer rows.Close()

	var sales []ledger.Sale
	for rows.Next() {
		var (
			sale      ledger.Sale
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&sale.ID, &sale.ProductID, &sale.Quantity, &sale.ExitPrice, &createdAt); err != nil {
			return nil, fmt.Errorf("analytics: scan sale: %w", err)
		}
		sale.CreatedAt = createdAt.Time
		sales = append(sales, sale)
	}
	return sales, rows.Err()
}
