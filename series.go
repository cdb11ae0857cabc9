package folio

import (
	"iter"
	"sort"

	"github.com/mreis/folio/date"
)

// PriceHistory stores daily closing prices per instrument. Lookups carry
// the last known close forward, never backward.
type PriceHistory struct {
	currency string
	closes   map[string]*date.History[float64]
}

// NewPriceHistory returns an empty history quoting in the given currency.
func NewPriceHistory(currency string) *PriceHistory {
	return &PriceHistory{currency: currency, closes: make(map[string]*date.History[float64])}
}

// Currency returns the quote currency of the history.
func (p *PriceHistory) Currency() string { return p.currency }

// Record stores the close for symbol on the given day, overwriting any
// previous close for that day.
func (p *PriceHistory) Record(symbol string, on date.Date, close float64) {
	h, ok := p.closes[symbol]
	if !ok {
		h = &date.History[float64]{}
		p.closes[symbol] = h
	}
	h.Append(on, close)
}

// CloseAsOf returns the most recent close for symbol dated on or before
// day, and false when no such close exists.
func (p *PriceHistory) CloseAsOf(symbol string, day date.Date) (float64, bool) {
	h, ok := p.closes[symbol]
	if !ok {
		return 0, false
	}
	return h.ValueAsOf(day)
}

// Closes iterates the recorded closes for symbol in chronological order.
func (p *PriceHistory) Closes(symbol string) iter.Seq2[date.Date, float64] {
	h, ok := p.closes[symbol]
	if !ok {
		return func(yield func(date.Date, float64) bool) {}
	}
	return h.Values()
}

// Latest returns the most recent close for symbol.
func (p *PriceHistory) Latest(symbol string) (date.Date, float64, bool) {
	h, ok := p.closes[symbol]
	if !ok || h.Len() == 0 {
		return date.Date{}, 0, false
	}
	day, close := h.Latest()
	return day, close, true
}

// Earliest returns the earliest day any symbol has a close for.
func (p *PriceHistory) Earliest() (date.Date, bool) {
	var earliest date.Date
	found := false
	for _, h := range p.closes {
		day, ok := h.Earliest()
		if !ok {
			continue
		}
		if !found || day.Before(earliest) {
			earliest = day
			found = true
		}
	}
	return earliest, found
}

// Symbols returns the instruments with at least one close, sorted.
func (p *PriceHistory) Symbols() []string {
	symbols := make([]string, 0, len(p.closes))
	for symbol, h := range p.closes {
		if h.Len() > 0 {
			symbols = append(symbols, symbol)
		}
	}
	sort.Strings(symbols)
	return symbols
}

// LatestPrices returns the most recent close per symbol as Money, the shape
// holdings snapshots are built from.
func (p *PriceHistory) LatestPrices() map[string]Money {
	prices := make(map[string]Money, len(p.closes))
	for symbol, h := range p.closes {
		if h.Len() == 0 {
			continue
		}
		_, close := h.Latest()
		prices[symbol] = M(close, p.currency)
	}
	return prices
}

// DayRecord is one point of a valuation series.
type DayRecord struct {
	Date date.Date
	// MarketValue is the sum over instruments of running quantity times
	// the last known close on or before the day.
	MarketValue Money
	// Invested is the cumulative signed capital: buys add their total,
	// sells subtract it, adjust entries included.
	Invested Money
	// TotalPnL is MarketValue minus Invested.
	TotalPnL Money
	// RealizedPnL is the tracker's cumulative realized gain as of the day.
	RealizedPnL Money
	// UnrealizedPnL is TotalPnL minus RealizedPnL.
	UnrealizedPnL Money
}

// BuildValuationSeries replays the given entries against the price history
// and emits one record per day of the window, in ascending order. Entries
// dated before the window are pre-applied so the first record starts from
// the correct running state. The caller is responsible for a gap-free price
// history, or accepts carry-forward staleness.
func BuildValuationSeries(txs iter.Seq[Transaction], prices *PriceHistory, window date.Range) []DayRecord {
	var entries []Transaction
	for tx := range txs {
		if tx.IsActive() {
			entries = append(entries, tx)
		}
	}

	currency := prices.Currency()
	tracker := NewCostBasisTracker()
	invested := M(0, currency)
	next := 0
	applyThrough := func(day date.Date) {
		for next < len(entries) && !entries[next].Day().After(day) {
			tx := entries[next]
			tracker.Apply(tx)
			invested = invested.Add(tx.Signed())
			next++
		}
	}
	if !window.From.IsZero() {
		applyThrough(window.From.Add(-1))
	}

	days := window.Days()
	records := make([]DayRecord, 0, len(days))
	for _, day := range days {
		applyThrough(day)
		market := M(0, currency)
		for _, symbol := range tracker.Symbols() {
			state := tracker.State(symbol)
			close, ok := prices.CloseAsOf(symbol, day)
			if !ok {
				// No close yet, fall back to the position's average
				// cost so early days are not valued at zero.
				market = market.Add(state.Invested())
				continue
			}
			market = market.Add(M(close, currency).Mul(state.Quantity))
		}
		total := market.Sub(invested)
		realized := tracker.RealizedGain()
		records = append(records, DayRecord{
			Date:          day,
			MarketValue:   market,
			Invested:      invested,
			TotalPnL:      total,
			RealizedPnL:   realized,
			UnrealizedPnL: total.Sub(realized),
		})
	}
	return records
}

// ValuationSeries builds the series for the ledger over the given window
// ending today. The window start is clamped to the earliest activity.
func (l *Ledger) ValuationSeries(prices *PriceHistory, window date.Window) []DayRecord {
	return l.ValuationSeriesEnding(prices, window, date.Today())
}

// ValuationSeriesEnding is ValuationSeries with an explicit end day.
func (l *Ledger) ValuationSeriesEnding(prices *PriceHistory, window date.Window, end date.Date) []DayRecord {
	earliest := l.EarliestActivity()
	if earliest.IsZero() {
		if day, ok := prices.Earliest(); ok {
			earliest = day
		} else {
			earliest = end
		}
	}
	return BuildValuationSeries(l.Transactions(), prices, window.Resolve(end, earliest))
}
