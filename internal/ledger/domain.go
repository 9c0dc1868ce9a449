// Package ledger implements FIFO lot consumption and per-sale costing.
//
// Everything in this package is a pure function of its inputs: the caller
// fetches a point-in-time snapshot of products, lots and sales, and the
// ledger replays the sale history against the lots without touching storage.
package ledger

import "time"

// Product is a sellable item. Name may be blank and MarketPrice may be
// absent; consumers fall back to synthetic labels and zero valuation.
type Product struct {
	ID          int64
	Name        string
	MarketPrice float64
	HasMarket   bool
}

// Lot is a purchase batch entering inventory. Quantity is the original
// purchased amount; the ledger never mutates the stored row.
type Lot struct {
	ID         int64
	ProductID  int64
	EntryPrice float64
	Quantity   int64
	Remaining  int64
	CreatedAt  time.Time
}

// Sale is an immutable historical unit-sale event.
type Sale struct {
	ID        int64
	ProductID int64
	Quantity  int64
	ExitPrice float64
	CreatedAt time.Time
}

// SaleCostRecord attributes cost and profit to a single sale.
type SaleCostRecord struct {
	SaleID       int64
	ProductID    int64
	Quantity     int64
	ExitPrice    float64
	CostConsumed float64
	AvgUnitCost  float64
	UnitProfit   float64
	TotalProfit  float64
	// UnmetQuantity is the portion of the sale that could not be matched to
	// any lot. It carries zero cost and signals oversold data upstream.
	UnmetQuantity int64
}
