package ledger

// costRecord derives the per-sale cost figures from the consumed cost. All
// values keep full float64 precision; rounding happens only at the
// presentation boundary.
func costRecord(sale Sale, costConsumed float64, unmet int64) SaleCostRecord {
	avgUnitCost := 0.0
	if sale.Quantity > 0 {
		avgUnitCost = costConsumed / float64(sale.Quantity)
	}
	return SaleCostRecord{
		SaleID:        sale.ID,
		ProductID:     sale.ProductID,
		Quantity:      sale.Quantity,
		ExitPrice:     sale.ExitPrice,
		CostConsumed:  costConsumed,
		AvgUnitCost:   avgUnitCost,
		UnitProfit:    sale.ExitPrice - avgUnitCost,
		TotalProfit:   sale.ExitPrice*float64(sale.Quantity) - costConsumed,
		UnmetQuantity: unmet,
	}
}

// TotalInvestment sums entry price times original quantity over all lots,
// independent of consumption.
func TotalInvestment(lots []Lot) float64 {
	total := 0.0
	for _, lot := range lots {
		total += lot.EntryPrice * float64(lot.Quantity)
	}
	return total
}

// WeightedAvgEntryPrice returns the mean entry price across a product's lots
// weighted by each lot's remaining quantity, or 0 when nothing remains.
func WeightedAvgEntryPrice(lots []Lot, remainingByLot map[int64]int64) float64 {
	var weightedSum float64
	var weight int64
	for _, lot := range lots {
		rem := remainingByLot[lot.ID]
		if rem <= 0 {
			continue
		}
		weightedSum += lot.EntryPrice * float64(rem)
		weight += rem
	}
	if weight == 0 {
		return 0
	}
	return weightedSum / float64(weight)
}
