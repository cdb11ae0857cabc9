package folio

import "time"

// SummaryItem is one open position in a portfolio summary.
type SummaryItem struct {
	Symbol     string
	Name       string
	Class      AssetClass
	Quantity   Quantity
	AvgCost    Money
	Price      Money
	Value      Money
	Invested   Money
	PnL        Money
	PnLPercent Percent
	Weight     Percent
}

// Summary is the current-state view of the whole portfolio: market value,
// invested capital and PnL at the latest known prices.
type Summary struct {
	Total      Money
	Invested   Money
	Realized   Money
	PnL        Money
	PnLPercent Percent
	Items      []SummaryItem
	PricedAt   time.Time
}

// Summarize values every open position at the given prices. A position
// without a price is valued at its average cost, so the summary stays
// complete when a quote is missing.
func (l *Ledger) Summarize(prices map[string]Money) *Summary {
	tracker := ReplayCostBasis(l.Transactions())
	s := &Summary{PricedAt: time.Now().UTC()}
	for symbol, state := range tracker.States() {
		if state.Quantity.IsZero() {
			continue
		}
		item := SummaryItem{
			Symbol:   symbol,
			Class:    NormalizeAssetClass(symbol, ""),
			Quantity: state.Quantity,
			AvgCost:  state.AvgCost,
			Invested: state.Invested(),
		}
		if sec := l.Security(symbol); sec != nil {
			item.Name = sec.Name
			item.Class = sec.Class()
		}
		price, ok := prices[symbol]
		if !ok || !price.IsPositive() {
			price = state.AvgCost
		}
		item.Price = price
		item.Value = price.Mul(state.Quantity)
		item.PnL = item.Value.Sub(item.Invested)
		if item.Invested.IsPositive() {
			item.PnLPercent = Percent(100 * item.PnL.InexactFloat64() / item.Invested.InexactFloat64())
		}
		s.Items = append(s.Items, item)
		s.Total = s.Total.Add(item.Value)
		s.Invested = s.Invested.Add(item.Invested)
	}
	s.Realized = tracker.RealizedGain()
	s.PnL = s.Total.Sub(s.Invested)
	if s.Invested.IsPositive() {
		s.PnLPercent = Percent(100 * s.PnL.InexactFloat64() / s.Invested.InexactFloat64())
	}
	total := s.Total.InexactFloat64()
	if total > 0 {
		for i := range s.Items {
			s.Items[i].Weight = Percent(100 * s.Items[i].Value.InexactFloat64() / total)
		}
	}
	return s
}
