package folio

import "sort"

// Holding is an instrument position snapshotted at current prices. It is
// built fresh per request from ledger positions and live prices and never
// persisted.
type Holding struct {
	Symbol     string
	Name       string
	Class      AssetClass
	Quantity   Quantity
	Price      Money
	QtyStep    Quantity
	Fractional bool
}

// Value returns quantity times unit price.
func (h Holding) Value() Money {
	return h.Price.Mul(h.Quantity)
}

// Tradeable reports whether the rebalancer may suggest trades on the
// holding. A holding without a positive price cannot be sized.
func (h Holding) Tradeable() bool {
	return h.Price.IsPositive()
}

// Step returns the effective quantity increment for sizing trades.
// Fractional instruments are unconstrained.
func (h Holding) Step() Quantity {
	if h.Fractional {
		return Quantity{}
	}
	return h.QtyStep
}

// Holdings builds the holding snapshot for the current ledger positions at
// the given prices, sorted by symbol. Positions without a price entry get a
// zero price and stay in the snapshot so class totals remain complete, but
// they are not tradeable.
func (l *Ledger) Holdings(prices map[string]Money) []Holding {
	positions := l.Positions()
	holdings := make([]Holding, 0, len(positions))
	for symbol, qty := range positions {
		h := Holding{Symbol: symbol, Quantity: qty, Price: prices[symbol]}
		if sec := l.Security(symbol); sec != nil {
			h.Name = sec.Name
			h.Class = sec.Class()
			h.QtyStep = sec.QtyStep
			h.Fractional = sec.Fractional
		} else {
			h.Class = NormalizeAssetClass(symbol, "")
		}
		holdings = append(holdings, h)
	}
	sort.Slice(holdings, func(i, j int) bool { return holdings[i].Symbol < holdings[j].Symbol })
	return holdings
}

// TotalValue sums the value of the given holdings.
func TotalValue(holdings []Holding) Money {
	var total Money
	for _, h := range holdings {
		total = total.Add(h.Value())
	}
	return total
}

// ClassValues sums holding values per asset class.
func ClassValues(holdings []Holding) map[AssetClass]Money {
	values := make(map[AssetClass]Money)
	for _, h := range holdings {
		values[h.Class] = values[h.Class].Add(h.Value())
	}
	return values
}
