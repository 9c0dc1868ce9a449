package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/gerentes/analytics-service/internal/ledger"
)

const (
	lowStockThreshold = 3
	topProductLimit   = 5
)

// Summary carries the tenant-wide profitability aggregates. All monetary
// values are rounded to 2 decimals at this boundary.
type Summary struct {
	TotalUnitsSold     int64
	RealizedProfit     float64
	MarginPct          float64
	ROIPct             float64
	TotalInvestment    float64
	CostRecovered      float64
	CurrentInvestment  float64
	TotalIncome        float64
	MarketValueTotal   float64
	MarketValueCurrent float64
}

// ProductProfit ranks one product inside the top-profit listing.
type ProductProfit struct {
	Name                string
	UnitsSold           int64
	Profit              float64
	RealUnitProfit      float64
	PotentialUnitProfit float64
	AvgSalePrice        float64
}

// LowStockItem flags a product whose simulated stock dropped below the
// threshold.
type LowStockItem struct {
	Name  string `json:"name"`
	Stock int64  `json:"stock"`
}

// Aggregate rolls the per-sale cost records plus the lot and product sets
// into summary metrics, the top-5 profit ranking and the low-stock list.
func Aggregate(records []ledger.SaleCostRecord, lots []ledger.Lot, products []ledger.Product, replay *ledger.Replay) (Summary, []ProductProfit, []LowStockItem) {
	byID := make(map[int64]ledger.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	remainingByLot := replay.RemainingByLot()
	remainingByProduct := replay.RemainingByProduct()

	var units int64
	var income, costRecovered float64
	for _, rec := range records {
		units += rec.Quantity
		income += rec.ExitPrice * float64(rec.Quantity)
		costRecovered += rec.CostConsumed
	}
	investment := ledger.TotalInvestment(lots)
	profit := income - costRecovered

	var marketTotal, marketCurrent float64
	for _, lot := range lots {
		product, ok := byID[lot.ProductID]
		if !ok || !usableMarketPrice(product) {
			continue
		}
		marketTotal += product.MarketPrice * float64(lot.Quantity)
		marketCurrent += product.MarketPrice * float64(remainingByLot[lot.ID])
	}

	summary := Summary{
		TotalUnitsSold:     units,
		RealizedProfit:     round2(profit),
		MarginPct:          round2(safePct(profit, income)),
		ROIPct:             round2(safePct(profit, investment)),
		TotalInvestment:    round2(investment),
		CostRecovered:      round2(costRecovered),
		CurrentInvestment:  round2(investment - costRecovered),
		TotalIncome:        round2(income),
		MarketValueTotal:   round2(marketTotal),
		MarketValueCurrent: round2(marketCurrent),
	}

	top := topProducts(records, lots, byID, remainingByLot)
	low := lowStock(products, lots, remainingByProduct)
	return summary, top, low
}

// productGroup accumulates sale records per product in first-seen order, so
// grouping never depends on map iteration.
type productGroup struct {
	productID   int64
	unitsSold   int64
	profit      float64
	unitProfits float64
	exitPrices  float64
	recordCount int64
	productLots []ledger.Lot
}

func topProducts(records []ledger.SaleCostRecord, lots []ledger.Lot, byID map[int64]ledger.Product, remainingByLot map[int64]int64) []ProductProfit {
	index := make(map[int64]*productGroup)
	var groups []*productGroup
	for _, rec := range records {
		group, ok := index[rec.ProductID]
		if !ok {
			group = &productGroup{productID: rec.ProductID}
			index[rec.ProductID] = group
			groups = append(groups, group)
		}
		group.unitsSold += rec.Quantity
		group.profit += rec.TotalProfit
		group.unitProfits += rec.UnitProfit
		group.exitPrices += rec.ExitPrice
		group.recordCount++
	}
	for _, lot := range lots {
		if group, ok := index[lot.ProductID]; ok {
			group.productLots = append(group.productLots, lot)
		}
	}

	// Stable sort keeps construction order on equal profit.
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].profit > groups[j].profit
	})
	if len(groups) > topProductLimit {
		groups = groups[:topProductLimit]
	}

	top := make([]ProductProfit, 0, len(groups))
	for _, group := range groups {
		product := byID[group.productID]
		potential := 0.0
		if usableMarketPrice(product) {
			avgEntry := ledger.WeightedAvgEntryPrice(group.productLots, remainingByLot)
			if avgEntry > 0 {
				potential = product.MarketPrice - avgEntry
			}
		}
		top = append(top, ProductProfit{
			Name:                productLabel(product, group.productID),
			UnitsSold:           group.unitsSold,
			Profit:              round2(group.profit),
			RealUnitProfit:      round2(group.unitProfits / float64(group.recordCount)),
			PotentialUnitProfit: round2(potential),
			AvgSalePrice:        round2(group.exitPrices / float64(group.recordCount)),
		})
	}
	return top
}

func lowStock(products []ledger.Product, lots []ledger.Lot, remainingByProduct map[int64]int64) []LowStockItem {
	stocked := make(map[int64]bool)
	for _, lot := range lots {
		stocked[lot.ProductID] = true
	}
	var items []LowStockItem
	for _, product := range products {
		if !stocked[product.ID] {
			continue
		}
		stock := remainingByProduct[product.ID]
		if stock < lowStockThreshold {
			items = append(items, LowStockItem{
				Name:  productLabel(product, product.ID),
				Stock: stock,
			})
		}
	}
	return items
}

func productLabel(product ledger.Product, id int64) string {
	if name := strings.TrimSpace(product.Name); name != "" {
		return name
	}
	return fmt.Sprintf("Producto %d", id)
}

func usableMarketPrice(p ledger.Product) bool {
	return p.HasMarket && !math.IsNaN(p.MarketPrice) && p.MarketPrice > 0
}

// safePct resolves degenerate divisions to 0 so margins and ROI stay finite.
func safePct(numerator, denominator float64) float64 {
	if denominator <= 0 {
		return 0
	}
	return numerator / denominator * 100
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
