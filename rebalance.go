package folio

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// bandEpsilon absorbs floating noise in band and weight comparisons.
const bandEpsilon = 1e-6

// preferMultiplier weights up the index-fund share of the buy budget when
// the preference option is set.
const preferMultiplier = 1.5

// RebalanceOptions tunes a rebalance computation. Values outside their
// valid range are clamped, not rejected.
type RebalanceOptions struct {
	// AllowSells permits sell suggestions. When false the plan funds
	// deficits with external cash only.
	AllowSells bool
	// MinTradeValue discards any suggestion whose executed value
	// magnitude falls below it.
	MinTradeValue float64
	// MaxTurnover caps the fraction of total portfolio value the plan
	// may move, in [0,1].
	MaxTurnover float64
	// PreferIndexFunds tilts the buy budget toward the index-fund class.
	PreferIndexFunds bool
}

// DefaultRebalanceOptions returns the options used when the caller has no
// opinion.
func DefaultRebalanceOptions() RebalanceOptions {
	return RebalanceOptions{AllowSells: true, MinTradeValue: 100, MaxTurnover: 0.25}
}

func (o RebalanceOptions) sanitized() RebalanceOptions {
	o.MaxTurnover = math.Max(0, math.Min(1, o.MaxTurnover))
	o.MinTradeValue = math.Max(0, o.MinTradeValue)
	return o
}

// Suggestion is one proposed trade. Quantity and Value are signed: positive
// for buys, negative for sells. Value is the executed value after lot
// rounding, so Value = Quantity x Price always holds.
type Suggestion struct {
	Symbol            string
	Class             AssetClass
	Action            TxType
	Quantity          Quantity
	Value             Money
	Price             Money
	WeightBefore      Percent
	WeightAfter       Percent
	ClassWeightBefore Percent
	ClassWeightAfter  Percent
	Rationale         string
}

// ClassSummary describes one asset class before and after the plan. Weights
// are in percent units.
type ClassSummary struct {
	Class         AssetClass
	CurrentValue  Money
	CurrentWeight Percent
	TargetWeight  Percent
	Floor         Percent
	Ceiling       Percent
	DeltaValue    Money
	PostValue     Money
	PostWeight    Percent
}

// InBand reports whether the post weight lies within [Floor, Ceiling].
func (s ClassSummary) InBand() bool {
	return float64(s.PostWeight) >= float64(s.Floor)-100*bandEpsilon &&
		float64(s.PostWeight) <= float64(s.Ceiling)+100*bandEpsilon
}

// RebalancePlan is the outcome of one rebalance computation. It is a pure
// value: the same holdings, profile and options always produce the same
// plan.
type RebalancePlan struct {
	Profile     string
	Total       Money
	Classes     []ClassSummary
	Suggestions []Suggestion
	WithinBands bool
	// Turnover is the fraction of total value actually moved by the
	// executed suggestions.
	Turnover float64
	// NetCashFlow is executed buys minus executed sells. Positive means
	// the plan needs external cash, negative that it generates cash.
	NetCashFlow Money
	// MissingBuyClasses lists classes that were allocated a buy budget
	// but have no tradeable instrument to receive it.
	MissingBuyClasses []AssetClass
	// SkippedBelowMinimum counts planned trades discarded for falling
	// below the minimum trade value. Their deltas are not redistributed.
	SkippedBelowMinimum int
	PricedAt            time.Time
	Notes               []string
}

// delta is the planned signed value change for one holding, before and
// after execution constraints.
type delta struct {
	holding  Holding
	planned  float64
	executed float64 // after lot rounding, 0 when discarded
	qty      float64 // signed executed quantity
}

// ComputeRebalance builds a trade plan moving the portfolio toward the
// profile targets. It never fails: degenerate inputs produce a well-formed
// empty plan with an explanatory note.
func ComputeRebalance(holdings []Holding, profile *Profile, opts RebalanceOptions) *RebalancePlan {
	opts = opts.sanitized()
	pricedAt := time.Now().UTC()

	currency := ""
	for _, h := range holdings {
		if c := h.Price.Currency(); c != "" {
			currency = c
			break
		}
	}
	toMoney := func(v float64) Money { return M(v, currency) }

	total := 0.0
	classTotals := make(map[AssetClass]float64)
	for _, h := range holdings {
		v := h.Value().InexactFloat64()
		total += v
		classTotals[h.Class] += v
	}
	for _, class := range profile.Classes() {
		if _, ok := classTotals[class]; !ok {
			classTotals[class] = 0
		}
	}

	plan := &RebalancePlan{Profile: profile.Name(), Total: toMoney(total), PricedAt: pricedAt}
	if total <= 0 {
		plan.WithinBands = true
		plan.NetCashFlow = toMoney(0)
		plan.Notes = []string{"portfolio is empty or has zero total value"}
		return plan
	}

	// Split out-of-band classes into deficits and surpluses.
	type classDelta struct {
		class AssetClass
		value float64
	}
	var deficits, surpluses []classDelta
	for class := range classTotals {
		target := profile.Target(class)
		band := profile.Band(class)
		current := classTotals[class] / total
		if math.Abs(current-target) <= band+bandEpsilon {
			continue
		}
		deltaValue := (target - current) * total
		if deltaValue > 0 {
			deficits = append(deficits, classDelta{class, deltaValue})
		} else if deltaValue < 0 {
			surpluses = append(surpluses, classDelta{class, -deltaValue})
		}
	}
	sort.Slice(deficits, func(i, j int) bool {
		if deficits[i].value != deficits[j].value {
			return deficits[i].value > deficits[j].value
		}
		return deficits[i].class < deficits[j].class
	})
	sort.Slice(surpluses, func(i, j int) bool {
		if surpluses[i].value != surpluses[j].value {
			return surpluses[i].value > surpluses[j].value
		}
		return surpluses[i].class < surpluses[j].class
	})

	totalBuy, totalSell := 0.0, 0.0
	for _, d := range deficits {
		totalBuy += d.value
	}
	for _, s := range surpluses {
		totalSell += s.value
	}

	var notes []string
	buyBudget, sellBudget := 0.0, 0.0
	switch {
	case opts.AllowSells && totalBuy > 0 && totalSell > 0:
		balanced := math.Min(totalBuy, totalSell)
		capped := opts.MaxTurnover * total / 2
		buyBudget = math.Min(balanced, capped)
		sellBudget = buyBudget
		if balanced > capped {
			notes = append(notes, "turnover cap reached, part of the deviation remains")
		}
	case totalBuy > 0:
		buyBudget = math.Min(totalBuy, opts.MaxTurnover*total)
		if opts.AllowSells {
			notes = append(notes, "no surplus positions to fund buys, external cash required")
		} else {
			notes = append(notes, "sells disabled, external cash required")
		}
		if buyBudget < totalBuy {
			notes = append(notes, "turnover cap limited the total adjustment")
		}
	case opts.AllowSells && totalSell > 0:
		sellBudget = math.Min(totalSell, opts.MaxTurnover*total)
		notes = append(notes, "plan generates cash by reducing exposure")
		if sellBudget < totalSell {
			notes = append(notes, "turnover cap limited the total adjustment")
		}
	default:
		plan.Classes = buildClassSummaries(profile, classTotals, classTotals, total, total, toMoney)
		plan.WithinBands = true
		plan.NetCashFlow = toMoney(0)
		if len(notes) == 0 {
			notes = []string{"already within bands"}
		}
		plan.Notes = notes
		return plan
	}

	// Distribute the buy budget across deficit classes pro rata, with an
	// optional tilt toward index funds.
	classBuyAlloc := make(map[AssetClass]float64)
	if totalBuy > 0 && buyBudget > 0 {
		weighted := 0.0
		weights := make(map[AssetClass]float64, len(deficits))
		for _, d := range deficits {
			w := d.value
			if opts.PreferIndexFunds && d.class == IndexFund {
				w *= preferMultiplier
			}
			weights[d.class] = w
			weighted += w
		}
		for _, d := range deficits {
			classBuyAlloc[d.class] = weights[d.class] / weighted * buyBudget
		}
	}
	classSellAlloc := make(map[AssetClass]float64)
	if totalSell > 0 && sellBudget > 0 {
		for _, s := range surpluses {
			classSellAlloc[s.class] = s.value / totalSell * sellBudget
		}
	}

	tradeable := make(map[AssetClass][]Holding)
	for _, h := range holdings {
		if h.Tradeable() {
			tradeable[h.Class] = append(tradeable[h.Class], h)
		}
	}

	plannedBySymbol := make(map[string]float64)
	var missing []AssetClass
	for _, d := range deficits {
		amount := classBuyAlloc[d.class]
		if amount <= 0 {
			continue
		}
		assets := tradeable[d.class]
		if len(assets) == 0 {
			missing = append(missing, d.class)
			notes = append(notes, fmt.Sprintf("no tradeable instrument in class %s to receive buys", d.class))
			continue
		}
		classTotal := 0.0
		for _, h := range assets {
			classTotal += h.Value().InexactFloat64()
		}
		if classTotal <= 0 {
			// Equal split when the class holds no value yet.
			share := amount / float64(len(assets))
			for _, h := range assets {
				plannedBySymbol[h.Symbol] += share
			}
			continue
		}
		for _, h := range assets {
			plannedBySymbol[h.Symbol] += amount * h.Value().InexactFloat64() / classTotal
		}
	}
	for _, s := range surpluses {
		amount := classSellAlloc[s.class]
		if amount <= 0 {
			continue
		}
		assets := tradeable[s.class]
		if len(assets) == 0 {
			notes = append(notes, fmt.Sprintf("no tradeable instrument in class %s to sell from", s.class))
			continue
		}
		classTotal := 0.0
		for _, h := range assets {
			classTotal += h.Value().InexactFloat64()
		}
		if classTotal <= 0 {
			continue
		}
		for _, h := range assets {
			deltaVal := -amount * h.Value().InexactFloat64() / classTotal
			// Never sell more than the position is worth.
			if floor := -h.Value().InexactFloat64(); deltaVal < floor {
				deltaVal = floor
			}
			plannedBySymbol[h.Symbol] += deltaVal
		}
	}

	// Execution pass: lot rounding and minimum trade value. Post weights
	// come from executed values only, so the reported allocation never
	// implies trades that were not emitted.
	skipped := 0
	deltas := make([]delta, 0, len(holdings))
	for _, h := range holdings {
		d := delta{holding: h, planned: plannedBySymbol[h.Symbol]}
		if d.planned != 0 && h.Tradeable() {
			price := h.Price.InexactFloat64()
			qty := d.planned / price
			if step := h.Step().InexactFloat64(); step > 0 {
				qty = math.Trunc(qty/step) * step
			}
			executed := qty * price
			if math.Abs(executed) < opts.MinTradeValue || executed == 0 {
				// Sub-minimum trades are dropped, not redistributed.
				skipped++
				qty, executed = 0, 0
			}
			d.qty = qty
			d.executed = executed
		}
		deltas = append(deltas, d)
	}

	executedBuys, executedSells := 0.0, 0.0
	postClassTotals := make(map[AssetClass]float64, len(classTotals))
	for class, v := range classTotals {
		postClassTotals[class] = v
	}
	for _, d := range deltas {
		postClassTotals[d.holding.Class] += d.executed
		if d.executed > 0 {
			executedBuys += d.executed
		} else {
			executedSells += -d.executed
		}
	}
	netCashFlow := executedBuys - executedSells
	totalAfter := total + netCashFlow
	if totalAfter <= 0 {
		totalAfter = total
	}

	for _, d := range deltas {
		if d.executed == 0 {
			continue
		}
		h := d.holding
		action, verb := TxBuy, "increase"
		if d.executed < 0 {
			action, verb = TxSell, "reduce"
		}
		value := h.Value().InexactFloat64()
		plan.Suggestions = append(plan.Suggestions, Suggestion{
			Symbol:            h.Symbol,
			Class:             h.Class,
			Action:            action,
			Quantity:          Q(d.qty),
			Value:             toMoney(d.executed),
			Price:             h.Price,
			WeightBefore:      Percent(100 * value / total),
			WeightAfter:       Percent(100 * (value + d.executed) / totalAfter),
			ClassWeightBefore: Percent(100 * classTotals[h.Class] / total),
			ClassWeightAfter:  Percent(100 * postClassTotals[h.Class] / totalAfter),
			Rationale:         fmt.Sprintf("%s exposure to %s toward its target", verb, h.Class),
		})
	}
	sort.SliceStable(plan.Suggestions, func(i, j int) bool {
		a, b := plan.Suggestions[i], plan.Suggestions[j]
		av, bv := math.Abs(a.Value.InexactFloat64()), math.Abs(b.Value.InexactFloat64())
		if av != bv {
			return av > bv
		}
		if a.Class != b.Class {
			return a.Class < b.Class
		}
		return a.Symbol < b.Symbol
	})

	plan.Classes = buildClassSummaries(profile, classTotals, postClassTotals, total, totalAfter, toMoney)
	plan.WithinBands = true
	for _, summary := range plan.Classes {
		if !summary.InBand() {
			plan.WithinBands = false
			break
		}
	}
	if opts.AllowSells {
		plan.Turnover = (executedBuys + executedSells) / total
	} else {
		plan.Turnover = executedBuys / total
	}
	plan.NetCashFlow = toMoney(netCashFlow)
	plan.MissingBuyClasses = missing
	plan.SkippedBelowMinimum = skipped
	plan.Notes = notes
	return plan
}

func buildClassSummaries(profile *Profile, before, after map[AssetClass]float64, totalBefore, totalAfter float64, toMoney func(float64) Money) []ClassSummary {
	classes := make(map[AssetClass]bool, len(before))
	for class := range before {
		classes[class] = true
	}
	for _, class := range profile.Classes() {
		classes[class] = true
	}
	summaries := make([]ClassSummary, 0, len(classes))
	for class := range classes {
		target := profile.Target(class)
		band := profile.Band(class)
		current := before[class]
		post, ok := after[class]
		if !ok {
			post = current
		}
		summaries = append(summaries, ClassSummary{
			Class:         class,
			CurrentValue:  toMoney(current),
			CurrentWeight: Percent(100 * current / totalBefore),
			TargetWeight:  Percent(100 * target),
			Floor:         Percent(100 * math.Max(0, target-band)),
			Ceiling:       Percent(100 * math.Min(1, target+band)),
			DeltaValue:    toMoney(post - current),
			PostValue:     toMoney(post),
			PostWeight:    Percent(100 * post / totalAfter),
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Class < summaries[j].Class })
	return summaries
}
