package folio

// GainsEntry breaks down realized and unrealized gain for one instrument.
// Sold-out positions keep their realized figure with a zero market value.
type GainsEntry struct {
	Symbol      string
	Class       AssetClass
	Quantity    Quantity
	AvgCost     Money
	Price       Money
	MarketValue Money
	Realized    Money
	Unrealized  Money
	Total       Money
}

// GainsReport aggregates realized and unrealized gains across the ledger.
type GainsReport struct {
	Entries    []GainsEntry
	Realized   Money
	Unrealized Money
	Total      Money
}

// Gains replays the ledger and values open positions at the given prices.
// Unrealized gain for a position is its market value minus its invested
// capital at average cost.
func (l *Ledger) Gains(prices map[string]Money) *GainsReport {
	tracker := ReplayCostBasis(l.Transactions())
	report := &GainsReport{}
	for symbol, state := range tracker.States() {
		entry := GainsEntry{
			Symbol:   symbol,
			Class:    NormalizeAssetClass(symbol, ""),
			Quantity: state.Quantity,
			AvgCost:  state.AvgCost,
			Realized: state.Realized,
		}
		if sec := l.Security(symbol); sec != nil {
			entry.Class = sec.Class()
		}
		if !state.Quantity.IsZero() {
			price, ok := prices[symbol]
			if !ok || !price.IsPositive() {
				price = state.AvgCost
			}
			entry.Price = price
			entry.MarketValue = price.Mul(state.Quantity)
			entry.Unrealized = entry.MarketValue.Sub(state.Invested())
		}
		entry.Total = entry.Realized.Add(entry.Unrealized)
		if entry.Total.IsZero() && entry.Quantity.IsZero() && entry.Realized.IsZero() {
			continue
		}
		report.Entries = append(report.Entries, entry)
		report.Realized = report.Realized.Add(entry.Realized)
		report.Unrealized = report.Unrealized.Add(entry.Unrealized)
	}
	report.Total = report.Realized.Add(report.Unrealized)
	return report
}
