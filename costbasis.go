package folio

import (
	"iter"
	"sort"
)

// CostBasisState is the running state of one instrument under
// weighted-average cost: quantity held, per-unit average cost, and the
// realized gain locked in by counted sells.
type CostBasisState struct {
	Quantity Quantity
	AvgCost  Money
	Realized Money
}

// Invested returns quantity times average cost, the capital still tied up
// in the position.
func (s CostBasisState) Invested() Money {
	return s.AvgCost.Mul(s.Quantity)
}

// CostBasisTracker replays ledger entries in order and maintains a
// CostBasisState per instrument plus cumulative realized figures. The
// tracker is not safe for concurrent use; build one per replay.
type CostBasisTracker struct {
	states       map[string]*CostBasisState
	realized     Money
	realizedCost Money
}

// NewCostBasisTracker returns a tracker with no state.
func NewCostBasisTracker() *CostBasisTracker {
	return &CostBasisTracker{states: make(map[string]*CostBasisState)}
}

func (t *CostBasisTracker) state(symbol string) *CostBasisState {
	s, ok := t.states[symbol]
	if !ok {
		s = &CostBasisState{}
		t.states[symbol] = s
	}
	return s
}

// Apply advances the tracker by one entry. Entries must be fed in replay
// order. Voided entries are ignored.
//
// A sell larger than the tracked position is clamped to it, so the tracked
// quantity never goes negative. This is deliberately lossy: historical
// ledgers may carry reconciled data whose early buys are missing, and a
// clamped replay beats a rejected one. Realized gain uses only the clamped
// quantity. Adjust entries move quantity and cost like any trade but never
// touch the realized accumulators.
func (t *CostBasisTracker) Apply(tx Transaction) {
	if !tx.IsActive() {
		return
	}
	s := t.state(tx.Symbol)
	switch tx.Type {
	case TxBuy:
		newQty := s.Quantity.Add(tx.Quantity)
		cost := s.AvgCost.Mul(s.Quantity).Add(tx.Price.Mul(tx.Quantity))
		s.AvgCost = cost.Div(newQty)
		s.Quantity = newQty
	case TxSell:
		sellQty := tx.Quantity.Min(s.Quantity)
		if sellQty.IsZero() {
			return
		}
		if tx.Kind != KindAdjust {
			gain := tx.Price.Sub(s.AvgCost).Mul(sellQty)
			s.Realized = s.Realized.Add(gain)
			t.realized = t.realized.Add(gain)
			t.realizedCost = t.realizedCost.Add(s.AvgCost.Mul(sellQty))
		}
		s.Quantity = s.Quantity.Sub(sellQty)
		if s.Quantity.IsZero() {
			s.AvgCost = Money{}
		}
	}
}

// State returns the current state for symbol. An instrument the tracker
// never saw has the zero state.
func (t *CostBasisTracker) State(symbol string) CostBasisState {
	if s, ok := t.states[symbol]; ok {
		return *s
	}
	return CostBasisState{}
}

// RealizedGain returns the cumulative realized gain across instruments.
func (t *CostBasisTracker) RealizedGain() Money { return t.realized }

// RealizedCostBasis returns the cumulative cost basis consumed by counted
// sells.
func (t *CostBasisTracker) RealizedCostBasis() Money { return t.realizedCost }

// InvestedCapital returns the total capital still tied up across all
// positions, at average cost.
func (t *CostBasisTracker) InvestedCapital() Money {
	var total Money
	for _, s := range t.states {
		total = total.Add(s.Invested())
	}
	return total
}

// States iterates every instrument the tracker has seen, flat positions
// included, sorted by symbol.
func (t *CostBasisTracker) States() iter.Seq2[string, CostBasisState] {
	symbols := make([]string, 0, len(t.states))
	for symbol := range t.states {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return func(yield func(string, CostBasisState) bool) {
		for _, symbol := range symbols {
			if !yield(symbol, *t.states[symbol]) {
				return
			}
		}
	}
}

// Symbols returns the instruments with a non-zero position, sorted.
func (t *CostBasisTracker) Symbols() []string {
	symbols := make([]string, 0, len(t.states))
	for symbol, s := range t.states {
		if !s.Quantity.IsZero() {
			symbols = append(symbols, symbol)
		}
	}
	sort.Strings(symbols)
	return symbols
}

// ReplayCostBasis runs a full replay over the given entries and returns the
// resulting tracker. The entries must already be in replay order, which
// Ledger.Transactions guarantees.
func ReplayCostBasis(txs iter.Seq[Transaction]) *CostBasisTracker {
	t := NewCostBasisTracker()
	for tx := range txs {
		t.Apply(tx)
	}
	return t
}
