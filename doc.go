// Package folio tracks an investor's holdings and produces rebalancing
// guidance toward a target asset-class allocation.
//
// The package is built around four cooperating pieces that share the same
// definitions of value, weight and realized gain:
//
//   - Profile: target weights and tolerance bands per asset class.
//   - CostBasisTracker: replays the transaction ledger into running quantity
//     and weighted-average cost per instrument, separating realized from
//     unrealized gain.
//   - ComputeRebalance: a constrained trade planner that proposes buy/sell
//     orders to move a portfolio toward its target weights subject to budget,
//     turnover, minimum-ticket and lot-size constraints.
//   - BuildValuationSeries: replays the ledger plus daily close prices to
//     reconstruct market value, invested capital and profit decomposition
//     over an arbitrary historical window.
//
// All computations are synchronous, request-scoped and deterministic: each
// call receives a fresh snapshot of holdings, prices and ledger entries and
// returns a value. I/O (price lookups, persistence) belongs to the caller.
package folio
