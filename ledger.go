package folio

import (
	"fmt"
	"iter"
	"sort"
	"time"

	"github.com/mreis/folio/date"
)

// Ledger is the append-only record of all transactions, together with the
// catalog of declared securities. Entries are kept stably sorted by
// execution time then ID, which is the replay order every derived
// computation depends on.
type Ledger struct {
	transactions []Transaction
	securities   map[string]Security
	nextID       int64
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{securities: make(map[string]Security), nextID: 1}
}

// Declare registers a security in the ledger catalog, replacing any previous
// declaration for the same symbol.
func (l *Ledger) Declare(sec Security) error {
	if sec.Symbol == "" {
		return fmt.Errorf("security symbol is missing")
	}
	if l.securities == nil {
		l.securities = make(map[string]Security)
	}
	l.securities[sec.Symbol] = sec
	return nil
}

// Security returns the declared security for symbol, or nil when unknown.
func (l *Ledger) Security(symbol string) *Security {
	sec, ok := l.securities[symbol]
	if !ok {
		return nil
	}
	return &sec
}

// Securities returns the declared securities sorted by symbol.
func (l *Ledger) Securities() []Security {
	secs := make([]Security, 0, len(l.securities))
	for _, sec := range l.securities {
		secs = append(secs, sec)
	}
	sort.Slice(secs, func(i, j int) bool { return secs[i].Symbol < secs[j].Symbol })
	return secs
}

// sortTransactions restores the canonical replay order. The sort is stable
// so entries sharing a timestamp keep their append order, which matches
// their ID order.
func (l *Ledger) sortTransactions() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		a, b := l.transactions[i], l.transactions[j]
		if !a.ExecutedAt.Equal(b.ExecutedAt) {
			return a.ExecutedAt.Before(b.ExecutedAt)
		}
		return a.ID < b.ID
	})
}

// Append validates the given entries, assigns them IDs and inserts them in
// replay order. A sell that would drive the position below zero at its
// execution time is rejected, and a rejection leaves the ledger untouched.
func (l *Ledger) Append(txs ...Transaction) error {
	checkpoint, nextID := l.transactions, l.nextID
	l.transactions = append([]Transaction(nil), l.transactions...)
	for i := range txs {
		tx := txs[i]
		if err := tx.Validate(); err != nil {
			l.transactions, l.nextID = checkpoint, nextID
			return err
		}
		if tx.Type == TxSell {
			held := l.PositionAt(tx.Symbol, tx.ExecutedAt)
			if tx.Quantity.GreaterThan(held) {
				l.transactions, l.nextID = checkpoint, nextID
				return fmt.Errorf("cannot sell %s of %s, only %s held at %s",
					tx.Quantity, tx.Symbol, held, tx.ExecutedAt.Format(time.RFC3339))
			}
		}
		tx.ID = l.nextID
		l.nextID++
		l.transactions = append(l.transactions, tx)
		l.sortTransactions()
	}
	return nil
}

// Transactions iterates over active entries in replay order.
func (l *Ledger) Transactions() iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		for _, tx := range l.transactions {
			if !tx.IsActive() {
				continue
			}
			if !yield(tx) {
				return
			}
		}
	}
}

// AllTransactions iterates over every entry, voided included, in replay order.
func (l *Ledger) AllTransactions() iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		for _, tx := range l.transactions {
			if !yield(tx) {
				return
			}
		}
	}
}

// Get returns the entry with the given ID, or false when absent.
func (l *Ledger) Get(id int64) (Transaction, bool) {
	for _, tx := range l.transactions {
		if tx.ID == id {
			return tx, true
		}
	}
	return Transaction{}, false
}

// Void flips an active entry to voided. Voided entries stay in the ledger
// as an audit trail but no longer count toward positions, valuation or PnL.
// Voiding fails when removing the entry would make a later sell exceed the
// position held at its execution time.
func (l *Ledger) Void(id int64) error {
	idx := -1
	for i, tx := range l.transactions {
		if tx.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("no transaction with id %d", id)
	}
	if !l.transactions[idx].IsActive() {
		return fmt.Errorf("transaction %d is already voided", id)
	}
	l.transactions[idx].Status = StatusVoided
	if err := l.Validate(); err != nil {
		l.transactions[idx].Status = StatusActive
		return fmt.Errorf("cannot void transaction %d: %w", id, err)
	}
	return nil
}

// Validate replays the whole ledger and checks that no active sell exceeds
// the position held at its execution time.
func (l *Ledger) Validate() error {
	positions := make(map[string]Quantity)
	for tx := range l.Transactions() {
		held := positions[tx.Symbol]
		switch tx.Type {
		case TxBuy:
			positions[tx.Symbol] = held.Add(tx.Quantity)
		case TxSell:
			if tx.Quantity.GreaterThan(held) {
				return fmt.Errorf("transaction %d sells %s of %s but only %s is held",
					tx.ID, tx.Quantity, tx.Symbol, held)
			}
			positions[tx.Symbol] = held.Sub(tx.Quantity)
		}
	}
	return nil
}

// PositionAt returns the quantity of symbol held from active entries
// executed at or before the given time.
func (l *Ledger) PositionAt(symbol string, at time.Time) Quantity {
	var held Quantity
	for tx := range l.Transactions() {
		if tx.Symbol != symbol || tx.ExecutedAt.After(at) {
			continue
		}
		switch tx.Type {
		case TxBuy:
			held = held.Add(tx.Quantity)
		case TxSell:
			held = held.Sub(tx.Quantity)
		}
	}
	return held
}

// Position returns the current quantity of symbol held.
func (l *Ledger) Position(symbol string) Quantity {
	return l.PositionAt(symbol, time.Now())
}

// Positions returns the current quantity per symbol, omitting flat
// positions.
func (l *Ledger) Positions() map[string]Quantity {
	positions := make(map[string]Quantity)
	for tx := range l.Transactions() {
		held := positions[tx.Symbol]
		switch tx.Type {
		case TxBuy:
			positions[tx.Symbol] = held.Add(tx.Quantity)
		case TxSell:
			positions[tx.Symbol] = held.Sub(tx.Quantity)
		}
	}
	for symbol, held := range positions {
		if held.IsZero() {
			delete(positions, symbol)
		}
	}
	return positions
}

// EarliestActivity returns the day of the first active entry, or a zero
// date for an empty ledger.
func (l *Ledger) EarliestActivity() date.Date {
	for tx := range l.Transactions() {
		return tx.Day()
	}
	return date.Date{}
}

// HasApplyKey reports whether any entry, voided included, carries the key.
func (l *Ledger) HasApplyKey(key string) bool {
	if key == "" {
		return false
	}
	for _, tx := range l.transactions {
		if tx.ApplyKey == key {
			return true
		}
	}
	return false
}

// ApplyPlan records the executed suggestions of a rebalance plan as adjust
// entries sharing the given key. Applying the same key twice is a no-op
// error so a retried apply cannot double-book fills.
func (l *Ledger) ApplyPlan(plan *RebalancePlan, key string, at time.Time) error {
	if key == "" {
		return fmt.Errorf("apply key is missing")
	}
	if l.HasApplyKey(key) {
		return fmt.Errorf("plan %q has already been applied", key)
	}
	txs := make([]Transaction, 0, len(plan.Suggestions))
	for _, s := range plan.Suggestions {
		if s.Quantity.IsZero() {
			continue
		}
		typ := TxBuy
		qty := s.Quantity
		if qty.IsNegative() {
			typ = TxSell
			qty = qty.Neg()
		}
		tx := NewTransaction(typ, s.Symbol, qty, s.Price, at, s.Rationale)
		tx.Kind = KindAdjust
		tx.ApplyKey = key
		txs = append(txs, tx)
	}
	return l.Append(txs...)
}
