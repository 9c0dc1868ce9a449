package ledger

import "sort"

// lotState is the ephemeral per-replay working copy of a lot. It starts at
// the lot's original quantity; the stored remaining column is input data,
// not a costing source.
type lotState struct {
	lotID      int64
	entryPrice float64
	available  int64
}

// Replay holds the outcome of one FIFO replay over a snapshot.
type Replay struct {
	Records   []SaleCostRecord
	lotStates map[int64][]*lotState
	lotOrder  []int64
}

// Consume replays all sales in chronological order against lots in
// chronological order, consuming the oldest available lot first. Sorting is
// stable, so equal timestamps keep their input order. A sale that exhausts
// every lot of its product accumulates zero cost for the unmet quantity.
func Consume(lots []Lot, sales []Sale) *Replay {
	ordered := make([]Lot, len(lots))
	copy(ordered, lots)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	states := make(map[int64][]*lotState, len(ordered))
	var productOrder []int64
	for _, lot := range ordered {
		if _, seen := states[lot.ProductID]; !seen {
			productOrder = append(productOrder, lot.ProductID)
		}
		states[lot.ProductID] = append(states[lot.ProductID], &lotState{
			lotID:      lot.ID,
			entryPrice: lot.EntryPrice,
			available:  lot.Quantity,
		})
	}

	chronological := make([]Sale, len(sales))
	copy(chronological, sales)
	sort.SliceStable(chronological, func(i, j int) bool {
		return chronological[i].CreatedAt.Before(chronological[j].CreatedAt)
	})

	records := make([]SaleCostRecord, 0, len(chronological))
	for _, sale := range chronological {
		need := sale.Quantity
		cost := 0.0
		for _, state := range states[sale.ProductID] {
			if need == 0 {
				break
			}
			if state.available <= 0 {
				continue
			}
			take := need
			if state.available < take {
				take = state.available
			}
			cost += float64(take) * state.entryPrice
			state.available -= take
			need -= take
		}
		records = append(records, costRecord(sale, cost, need))
	}

	return &Replay{Records: records, lotStates: states, lotOrder: productOrder}
}

// RemainingByProduct reports the simulated unconsumed quantity per product
// after the replay.
func (r *Replay) RemainingByProduct() map[int64]int64 {
	remaining := make(map[int64]int64, len(r.lotStates))
	for productID, states := range r.lotStates {
		var total int64
		for _, state := range states {
			total += state.available
		}
		remaining[productID] = total
	}
	return remaining
}

// RemainingByLot reports the simulated unconsumed quantity per lot.
func (r *Replay) RemainingByLot() map[int64]int64 {
	remaining := make(map[int64]int64)
	for _, states := range r.lotStates {
		for _, state := range states {
			remaining[state.lotID] = state.available
		}
	}
	return remaining
}

// OversoldUnits sums unmet quantities across all sale records.
func (r *Replay) OversoldUnits() int64 {
	var total int64
	for _, rec := range r.Records {
		total += rec.UnmetQuantity
	}
	return total
}
