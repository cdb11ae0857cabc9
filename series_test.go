package folio

import (
	"bytes"
	"testing"
	"time"

	"github.com/mreis/folio/date"
)

func TestBuildValuationSeries_CarryForward(t *testing.T) {
	ledger := NewLedger()
	if err := ledger.Append(buy("PETR4", 10, 10, at(2025, time.January, 1))); err != nil {
		t.Fatal(err)
	}
	prices := NewPriceHistory("BRL")
	prices.Record("PETR4", date.New(2025, time.January, 1), 10)
	prices.Record("PETR4", date.New(2025, time.January, 3), 12)

	window := date.Range{From: date.New(2025, time.January, 1), To: date.New(2025, time.January, 4)}
	records := BuildValuationSeries(ledger.Transactions(), prices, window)
	if len(records) != 4 {
		t.Fatalf("records = %d, want 4", len(records))
	}

	wantMarket := []float64{100, 100, 120, 120} // Jan 2 carries Jan 1 forward, Jan 4 carries Jan 3.
	for i, rec := range records {
		near(t, "MarketValue "+rec.Date.String(), rec.MarketValue, wantMarket[i])
		near(t, "Invested "+rec.Date.String(), rec.Invested, 100)
		near(t, "TotalPnL "+rec.Date.String(), rec.TotalPnL, wantMarket[i]-100)
		if !rec.RealizedPnL.IsZero() {
			t.Errorf("RealizedPnL on %s = %s, want 0", rec.Date, rec.RealizedPnL)
		}
	}
}

func TestBuildValuationSeries_PreAppliesEarlierEntries(t *testing.T) {
	ledger := NewLedger()
	if err := ledger.Append(
		buy("PETR4", 10, 10, at(2025, time.January, 1)),
		sell("PETR4", 5, 20, at(2025, time.February, 1)),
	); err != nil {
		t.Fatal(err)
	}
	prices := NewPriceHistory("BRL")
	prices.Record("PETR4", date.New(2025, time.January, 1), 10)
	prices.Record("PETR4", date.New(2025, time.February, 1), 20)

	// Window starts after both entries: the first record must already
	// reflect the full replayed state.
	window := date.Range{From: date.New(2025, time.March, 1), To: date.New(2025, time.March, 2)}
	records := BuildValuationSeries(ledger.Transactions(), prices, window)
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	rec := records[0]
	near(t, "MarketValue", rec.MarketValue, 100) // 5 left at close 20
	near(t, "Invested", rec.Invested, 0)         // 100 in, 100 out
	near(t, "RealizedPnL", rec.RealizedPnL, 50)  // (20-10)x5
	near(t, "TotalPnL", rec.TotalPnL, 100)
	near(t, "UnrealizedPnL", rec.UnrealizedPnL, 50)
}

func TestBuildValuationSeries_AdjustMovesInvestedNotRealized(t *testing.T) {
	ledger := NewLedger()
	if err := ledger.Append(buy("BOVA11", 10, 100, at(2025, time.January, 1))); err != nil {
		t.Fatal(err)
	}
	adj := sell("BOVA11", 5, 100, at(2025, time.January, 2))
	adj.Kind = KindAdjust
	if err := ledger.Append(adj); err != nil {
		t.Fatal(err)
	}
	prices := NewPriceHistory("BRL")
	prices.Record("BOVA11", date.New(2025, time.January, 1), 100)

	window := date.Range{From: date.New(2025, time.January, 1), To: date.New(2025, time.January, 2)}
	records := BuildValuationSeries(ledger.Transactions(), prices, window)

	near(t, "Invested day 1", records[0].Invested, 1000)
	near(t, "Invested day 2", records[1].Invested, 500)
	if !records[1].RealizedPnL.IsZero() {
		t.Errorf("RealizedPnL = %s, want 0 for an adjust fill", records[1].RealizedPnL)
	}
	near(t, "MarketValue day 2", records[1].MarketValue, 500)
}

func TestBuildValuationSeries_FallsBackToCostWithoutPrices(t *testing.T) {
	ledger := NewLedger()
	if err := ledger.Append(buy("PRIV", 10, 10, at(2025, time.January, 1))); err != nil {
		t.Fatal(err)
	}
	prices := NewPriceHistory("BRL")
	window := date.Range{From: date.New(2025, time.January, 1), To: date.New(2025, time.January, 1)}
	records := BuildValuationSeries(ledger.Transactions(), prices, window)
	near(t, "MarketValue", records[0].MarketValue, 100)
	near(t, "TotalPnL", records[0].TotalPnL, 0)
}

func TestLedger_ValuationSeriesEnding_ClampsToActivity(t *testing.T) {
	ledger := NewLedger()
	if err := ledger.Append(buy("PETR4", 10, 10, at(2025, time.June, 10))); err != nil {
		t.Fatal(err)
	}
	prices := NewPriceHistory("BRL")
	prices.Record("PETR4", date.New(2025, time.June, 10), 10)

	end := date.New(2025, time.June, 20)
	records := ledger.ValuationSeriesEnding(prices, date.WindowMax, end)
	if len(records) == 0 {
		t.Fatal("no records")
	}
	if got := records[0].Date.String(); got != "2025-06-10" {
		t.Errorf("series starts %s, want clamped to first activity 2025-06-10", got)
	}
	if got := records[len(records)-1].Date.String(); got != "2025-06-20" {
		t.Errorf("series ends %s, want 2025-06-20", got)
	}
}

func TestPriceHistory_RoundTrip(t *testing.T) {
	prices := NewPriceHistory("BRL")
	prices.Record("PETR4", date.New(2025, time.January, 2), 10.5)
	prices.Record("BOVA11", date.New(2025, time.January, 2), 101)
	prices.Record("PETR4", date.New(2025, time.January, 3), 11)

	var buf bytes.Buffer
	if err := EncodePriceHistory(&buf, prices); err != nil {
		t.Fatalf("EncodePriceHistory() error = %v", err)
	}
	decoded, err := DecodePriceHistory(&buf, "BRL")
	if err != nil {
		t.Fatalf("DecodePriceHistory() error = %v", err)
	}
	if got, ok := decoded.CloseAsOf("PETR4", date.New(2025, time.January, 4)); !ok || got != 11 {
		t.Errorf("CloseAsOf = %v, %v, want 11", got, ok)
	}
	if got := len(decoded.Symbols()); got != 2 {
		t.Errorf("Symbols = %d, want 2", got)
	}
}
