package folio

import (
	"math"
	"testing"
)

// near compares a Money against a float within floating tolerance.
func near(t *testing.T, name string, got Money, want float64) {
	t.Helper()
	if math.Abs(got.InexactFloat64()-want) > 1e-6 {
		t.Errorf("%s = %s, want %v", name, got, want)
	}
}

func TestComputeRebalance_EmptyPortfolio(t *testing.T) {
	plan := ComputeRebalance(nil, LookupProfile("moderate"), DefaultRebalanceOptions())
	if len(plan.Suggestions) != 0 {
		t.Errorf("Suggestions = %d, want 0", len(plan.Suggestions))
	}
	if !plan.WithinBands {
		t.Error("WithinBands = false, want true for an empty portfolio")
	}
	if plan.Turnover != 0 {
		t.Errorf("Turnover = %v, want 0", plan.Turnover)
	}
	if len(plan.Notes) == 0 {
		t.Error("an empty portfolio should carry an explanatory note")
	}
}

func TestComputeRebalance_AlreadyWithinBands(t *testing.T) {
	holdings := []Holding{
		{Symbol: "PETR4", Class: Equity, Quantity: Q(10), Price: BRL(10)},
		{Symbol: "XPML11", Class: RealEstateFund, Quantity: Q(1), Price: BRL(100)},
	}
	opts := RebalanceOptions{AllowSells: true, MinTradeValue: 10, MaxTurnover: 1}
	plan := ComputeRebalance(holdings, twoClassProfile(0.5, 0.5, 0.01), opts)

	if len(plan.Suggestions) != 0 {
		t.Fatalf("Suggestions = %v, want none", plan.Suggestions)
	}
	if !plan.WithinBands {
		t.Error("WithinBands = false, want true")
	}
	if len(plan.Notes) != 1 || plan.Notes[0] != "already within bands" {
		t.Errorf("Notes = %v", plan.Notes)
	}
}

func TestComputeRebalance_SellSurplusBuyDeficit(t *testing.T) {
	holdings := []Holding{
		{Symbol: "PETR4", Class: Equity, Quantity: Q(12), Price: BRL(10)},
		{Symbol: "XPML11", Class: RealEstateFund, Quantity: Q(8), Price: BRL(10)},
	}
	opts := RebalanceOptions{AllowSells: true, MinTradeValue: 10, MaxTurnover: 1}
	plan := ComputeRebalance(holdings, twoClassProfile(0.5, 0.5, 0.01), opts)

	if len(plan.Suggestions) != 2 {
		t.Fatalf("Suggestions = %d, want 2: %+v", len(plan.Suggestions), plan.Suggestions)
	}
	// Equal absolute values, equity sorts first on the class tiebreak.
	s0, s1 := plan.Suggestions[0], plan.Suggestions[1]
	if s0.Symbol != "PETR4" || s0.Action != TxSell {
		t.Errorf("first suggestion = %+v, want sell PETR4", s0)
	}
	near(t, "sell value", s0.Value, -20)
	if !s0.Quantity.Equal(Q(-2)) {
		t.Errorf("sell quantity = %s, want -2", s0.Quantity)
	}
	if s1.Symbol != "XPML11" || s1.Action != TxBuy {
		t.Errorf("second suggestion = %+v, want buy XPML11", s1)
	}
	near(t, "buy value", s1.Value, 20)

	if !plan.WithinBands {
		t.Error("WithinBands = false, want true after the executed trades")
	}
	near(t, "NetCashFlow", plan.NetCashFlow, 0)
	if math.Abs(plan.Turnover-0.2) > 1e-9 {
		t.Errorf("Turnover = %v, want 0.2", plan.Turnover)
	}
	if s1.WeightAfter.Equal(s1.WeightBefore) {
		t.Error("buy should move the instrument weight")
	}
}

func TestComputeRebalance_TurnoverBound(t *testing.T) {
	holdings := []Holding{
		{Symbol: "PETR4", Class: Equity, Quantity: Q(18), Price: BRL(10)},
		{Symbol: "XPML11", Class: RealEstateFund, Quantity: Q(2), Price: BRL(10)},
	}
	opts := RebalanceOptions{AllowSells: true, MinTradeValue: 1, MaxTurnover: 0.1}
	plan := ComputeRebalance(holdings, twoClassProfile(0.5, 0.5, 0.01), opts)

	// The full rebalance would move 70+70 but the cap allows 10 per side.
	if plan.Turnover > 0.1+1e-9 {
		t.Errorf("Turnover = %v, exceeds cap 0.1", plan.Turnover)
	}
	if plan.WithinBands {
		t.Error("WithinBands = true, want false when the cap leaves deviation")
	}
	found := false
	for _, note := range plan.Notes {
		if note == "turnover cap reached, part of the deviation remains" {
			found = true
		}
	}
	if !found {
		t.Errorf("Notes = %v, want a turnover cap note", plan.Notes)
	}
}

func TestComputeRebalance_LotRounding(t *testing.T) {
	holdings := []Holding{
		{Symbol: "PETR4", Class: Equity, Quantity: Q(123), Price: BRL(1)},
		{Symbol: "KNRI11", Class: RealEstateFund, Quantity: Q(77), Price: BRL(1), QtyStep: Q(10)},
	}
	opts := RebalanceOptions{AllowSells: true, MinTradeValue: 10, MaxTurnover: 1}
	plan := ComputeRebalance(holdings, twoClassProfile(0.5, 0.5, 0.01), opts)

	var buySug *Suggestion
	for i := range plan.Suggestions {
		if plan.Suggestions[i].Action == TxBuy {
			buySug = &plan.Suggestions[i]
		}
	}
	if buySug == nil {
		t.Fatalf("no buy suggestion in %+v", plan.Suggestions)
	}
	// Ideal quantity 23 is floored to 20 on the 10-unit step, and the
	// executed value is recomputed from the rounded quantity.
	if !buySug.Quantity.Equal(Q(20)) {
		t.Errorf("buy quantity = %s, want 20", buySug.Quantity)
	}
	near(t, "buy value", buySug.Value, 20)
	if !buySug.Quantity.IsMultipleOf(Q(10)) {
		t.Error("buy quantity is not a multiple of the lot step")
	}
}

func TestComputeRebalance_NoOvershootSells(t *testing.T) {
	holdings := []Holding{
		{Symbol: "TINY", Class: Equity, Quantity: Q(1), Price: BRL(5)},
		{Symbol: "BIG", Class: Equity, Quantity: Q(95), Price: BRL(1)},
		{Symbol: "XPML11", Class: RealEstateFund, Quantity: Q(0), Price: BRL(1)},
	}
	profile := twoClassProfile(0.1, 0.9, 0)
	opts := RebalanceOptions{AllowSells: true, MinTradeValue: 1, MaxTurnover: 1}
	plan := ComputeRebalance(holdings, profile, opts)

	for _, s := range plan.Suggestions {
		if s.Action != TxSell {
			continue
		}
		var current float64
		for _, h := range holdings {
			if h.Symbol == s.Symbol {
				current = h.Value().InexactFloat64()
			}
		}
		if math.Abs(s.Value.InexactFloat64()) > current+1e-6 {
			t.Errorf("sell of %s for %s exceeds current value %v", s.Symbol, s.Value, current)
		}
	}
}

func TestComputeRebalance_ZeroValueClassSplitsEqually(t *testing.T) {
	holdings := []Holding{
		{Symbol: "PETR4", Class: Equity, Quantity: Q(100), Price: BRL(1)},
		{Symbol: "HGLG11", Class: RealEstateFund, Quantity: Q(0), Price: BRL(1)},
		{Symbol: "XPML11", Class: RealEstateFund, Quantity: Q(0), Price: BRL(1)},
	}
	opts := RebalanceOptions{AllowSells: true, MinTradeValue: 1, MaxTurnover: 1}
	plan := ComputeRebalance(holdings, twoClassProfile(0.5, 0.5, 0.01), opts)

	// The 50-value deficit splits equally between the two empty holdings.
	buys := map[string]float64{}
	for _, s := range plan.Suggestions {
		if s.Action == TxBuy {
			buys[s.Symbol] = s.Value.InexactFloat64()
		}
	}
	if len(buys) != 2 {
		t.Fatalf("buys = %v, want 2", buys)
	}
	if math.Abs(buys["HGLG11"]-25) > 1e-6 || math.Abs(buys["XPML11"]-25) > 1e-6 {
		t.Errorf("buys = %v, want 25 each", buys)
	}
}

func TestComputeRebalance_MissingBuyClass(t *testing.T) {
	holdings := []Holding{
		{Symbol: "PETR4", Class: Equity, Quantity: Q(100), Price: BRL(1)},
	}
	profile, err := NewProfile("t", "",
		map[AssetClass]float64{Equity: 0.5, Crypto: 0.5},
		map[AssetClass]float64{},
	)
	if err != nil {
		t.Fatal(err)
	}
	opts := RebalanceOptions{AllowSells: true, MinTradeValue: 1, MaxTurnover: 1}
	plan := ComputeRebalance(holdings, profile, opts)

	if len(plan.MissingBuyClasses) != 1 || plan.MissingBuyClasses[0] != Crypto {
		t.Errorf("MissingBuyClasses = %v, want [crypto]", plan.MissingBuyClasses)
	}
	if plan.WithinBands {
		t.Error("WithinBands = true, want false when a funded class has no instrument")
	}
}

func TestComputeRebalance_PreferIndexFunds(t *testing.T) {
	holdings := []Holding{
		{Symbol: "OUT1", Class: Other, Quantity: Q(100), Price: BRL(1)},
		{Symbol: "ETF1", Class: IndexFund, Quantity: Q(50), Price: BRL(1)},
		{Symbol: "FII1", Class: RealEstateFund, Quantity: Q(50), Price: BRL(1)},
	}
	profile, err := NewProfile("t", "",
		map[AssetClass]float64{Other: 0.35, IndexFund: 0.325, RealEstateFund: 0.325},
		map[AssetClass]float64{},
	)
	if err != nil {
		t.Fatal(err)
	}
	opts := RebalanceOptions{AllowSells: true, MinTradeValue: 1, MaxTurnover: 0.3}

	buyValues := func(plan *RebalancePlan) map[string]float64 {
		vals := map[string]float64{}
		for _, s := range plan.Suggestions {
			if s.Action == TxBuy {
				vals[s.Symbol] = s.Value.InexactFloat64()
			}
		}
		return vals
	}

	neutral := buyValues(ComputeRebalance(holdings, profile, opts))
	if math.Abs(neutral["ETF1"]-15) > 1e-6 || math.Abs(neutral["FII1"]-15) > 1e-6 {
		t.Errorf("neutral buys = %v, want 15 each", neutral)
	}

	opts.PreferIndexFunds = true
	tilted := buyValues(ComputeRebalance(holdings, profile, opts))
	if math.Abs(tilted["ETF1"]-18) > 1e-6 || math.Abs(tilted["FII1"]-12) > 1e-6 {
		t.Errorf("tilted buys = %v, want 18 and 12", tilted)
	}
}

func TestComputeRebalance_SellsDisabledNeedsCash(t *testing.T) {
	holdings := []Holding{
		{Symbol: "PETR4", Class: Equity, Quantity: Q(12), Price: BRL(10)},
		{Symbol: "XPML11", Class: RealEstateFund, Quantity: Q(8), Price: BRL(10)},
	}
	opts := RebalanceOptions{AllowSells: false, MinTradeValue: 10, MaxTurnover: 0.25}
	plan := ComputeRebalance(holdings, twoClassProfile(0.5, 0.5, 0.01), opts)

	if len(plan.Suggestions) != 1 || plan.Suggestions[0].Action != TxBuy {
		t.Fatalf("Suggestions = %+v, want a single buy", plan.Suggestions)
	}
	near(t, "NetCashFlow", plan.NetCashFlow, 20)
	if math.Abs(plan.Turnover-0.1) > 1e-9 {
		t.Errorf("Turnover = %v, want 0.1 (buys only)", plan.Turnover)
	}
	found := false
	for _, note := range plan.Notes {
		if note == "sells disabled, external cash required" {
			found = true
		}
	}
	if !found {
		t.Errorf("Notes = %v, want an external cash note", plan.Notes)
	}
}

func TestComputeRebalance_MinTradeValueSkips(t *testing.T) {
	holdings := []Holding{
		{Symbol: "PETR4", Class: Equity, Quantity: Q(12), Price: BRL(10)},
		{Symbol: "XPML11", Class: RealEstateFund, Quantity: Q(8), Price: BRL(10)},
	}
	opts := RebalanceOptions{AllowSells: true, MinTradeValue: 25, MaxTurnover: 1}
	plan := ComputeRebalance(holdings, twoClassProfile(0.5, 0.5, 0.01), opts)

	// Both 20-value trades fall below the 25 minimum and are dropped
	// without redistribution.
	if len(plan.Suggestions) != 0 {
		t.Errorf("Suggestions = %+v, want none", plan.Suggestions)
	}
	if plan.SkippedBelowMinimum != 2 {
		t.Errorf("SkippedBelowMinimum = %d, want 2", plan.SkippedBelowMinimum)
	}
	if plan.WithinBands {
		t.Error("WithinBands = true, want false when trades were skipped")
	}
	if plan.Turnover != 0 {
		t.Errorf("Turnover = %v, want 0", plan.Turnover)
	}
}

func TestComputeRebalance_Conservation(t *testing.T) {
	holdings := []Holding{
		{Symbol: "A", Class: Equity, Quantity: Q(300), Price: BRL(1)},
		{Symbol: "B", Class: Equity, Quantity: Q(200), Price: BRL(1)},
		{Symbol: "C", Class: RealEstateFund, Quantity: Q(100), Price: BRL(1)},
		{Symbol: "D", Class: Crypto, Quantity: Q(100), Price: BRL(1)},
	}
	profile, err := NewProfile("t", "",
		map[AssetClass]float64{Equity: 0.4, RealEstateFund: 0.4, Crypto: 0.2},
		map[AssetClass]float64{Equity: 0.01, RealEstateFund: 0.01, Crypto: 0.01},
	)
	if err != nil {
		t.Fatal(err)
	}
	opts := RebalanceOptions{AllowSells: true, MinTradeValue: 0, MaxTurnover: 1}
	plan := ComputeRebalance(holdings, profile, opts)

	buys, sells := 0.0, 0.0
	for _, s := range plan.Suggestions {
		v := s.Value.InexactFloat64()
		if v > 0 {
			buys += v
		} else {
			sells += -v
		}
	}
	if math.Abs(buys-sells) > 1e-6 {
		t.Errorf("buys %v != sells %v, conservation violated", buys, sells)
	}
	near(t, "NetCashFlow", plan.NetCashFlow, 0)
}
