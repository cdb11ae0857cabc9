package folio

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mreis/folio/date"
)

// TxType identifies the direction of a ledger entry.
type TxType string

// TxKind distinguishes discretionary trades from mechanical rebalance fills.
type TxKind string

// TxStatus tracks the audit state of a ledger entry.
type TxStatus string

const (
	TxBuy  TxType = "buy"
	TxSell TxType = "sell"

	// KindTrade is a discretionary trade entered by the user.
	KindTrade TxKind = "trade"
	// KindAdjust is a mechanical fill recorded when a rebalance plan is
	// applied. Adjust entries move invested capital without counting
	// toward realized gain.
	KindAdjust TxKind = "adjust"

	StatusActive TxStatus = "active"
	StatusVoided TxStatus = "voided"
)

// Transaction is an append-only ledger entry. Entries are immutable once
// persisted except for the status transition from active to voided.
type Transaction struct {
	ID         int64     `json:"id"`
	Type       TxType    `json:"type"`
	Symbol     string    `json:"symbol"`
	Quantity   Quantity  `json:"quantity"`
	Price      Money     `json:"price"`
	ExecutedAt time.Time `json:"executed_at"`
	Status     TxStatus  `json:"status"`
	Kind       TxKind    `json:"kind"`
	Memo       string    `json:"memo,omitempty"`
	// ApplyKey groups the fills of a single applied rebalance plan and
	// makes plan application idempotent.
	ApplyKey string `json:"apply_key,omitempty"`
}

// NewTransaction creates an active trade entry. The ID is assigned by the
// ledger on append.
func NewTransaction(typ TxType, symbol string, quantity Quantity, price Money, executedAt time.Time, memo string) Transaction {
	return Transaction{
		Type:       typ,
		Symbol:     symbol,
		Quantity:   quantity,
		Price:      price,
		ExecutedAt: executedAt,
		Status:     StatusActive,
		Kind:       KindTrade,
		Memo:       memo,
	}
}

// Total returns quantity times unit price.
func (t Transaction) Total() Money {
	return t.Price.Mul(t.Quantity)
}

// Signed returns the total with a sign following the cash flow convention:
// buys are positive invested capital, sells negative.
func (t Transaction) Signed() Money {
	if t.Type == TxSell {
		return t.Total().Neg()
	}
	return t.Total()
}

// IsActive reports whether the entry still counts toward valuation and PnL.
func (t Transaction) IsActive() bool { return t.Status == StatusActive }

// Day returns the calendar day of execution in the local timezone.
func (t Transaction) Day() date.Date {
	return date.FromTime(t.ExecutedAt)
}

// Validate checks the invariants every entry must satisfy before it can be
// appended. It does not check position sufficiency, which depends on ledger
// state and is enforced by Ledger.Append.
func (t Transaction) Validate() error {
	if t.Type != TxBuy && t.Type != TxSell {
		return fmt.Errorf("transaction type must be %q or %q, got %q", TxBuy, TxSell, t.Type)
	}
	if t.Symbol == "" {
		return fmt.Errorf("transaction symbol is missing")
	}
	if !t.Quantity.IsPositive() {
		return fmt.Errorf("transaction quantity must be positive, got %s", t.Quantity)
	}
	if !t.Price.IsPositive() {
		return fmt.Errorf("transaction price must be positive, got %s", t.Price)
	}
	if t.ExecutedAt.IsZero() {
		return fmt.Errorf("transaction execution time is missing")
	}
	if t.Kind != KindTrade && t.Kind != KindAdjust {
		return fmt.Errorf("transaction kind must be %q or %q, got %q", KindTrade, KindAdjust, t.Kind)
	}
	if t.Status != StatusActive && t.Status != StatusVoided {
		return fmt.Errorf("transaction status must be %q or %q, got %q", StatusActive, StatusVoided, t.Status)
	}
	return nil
}

// Equal reports whether two entries carry the same content, ID included.
func (t Transaction) Equal(o Transaction) bool {
	return t.ID == o.ID &&
		t.Type == o.Type &&
		t.Symbol == o.Symbol &&
		t.Quantity.Equal(o.Quantity) &&
		t.Price.Equal(o.Price) &&
		t.ExecutedAt.Equal(o.ExecutedAt) &&
		t.Status == o.Status &&
		t.Kind == o.Kind &&
		t.Memo == o.Memo &&
		t.ApplyKey == o.ApplyKey
}

// MarshalJSON writes fields in a stable order so ledger files diff cleanly.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Append("type", t.Type)
	w.Append("symbol", t.Symbol)
	w.Append("quantity", t.Quantity)
	w.Append("price", t.Price)
	w.Append("executed_at", t.ExecutedAt.Format(time.RFC3339))
	w.Append("status", t.Status)
	w.Append("kind", t.Kind)
	w.Optional("memo", t.Memo)
	w.Optional("apply_key", t.ApplyKey)
	return w.MarshalJSON()
}

// UnmarshalJSON reads the stable wire shape produced by MarshalJSON.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID         int64    `json:"id"`
		Type       TxType   `json:"type"`
		Symbol     string   `json:"symbol"`
		Quantity   Quantity `json:"quantity"`
		Price      Money    `json:"price"`
		ExecutedAt string   `json:"executed_at"`
		Status     TxStatus `json:"status"`
		Kind       TxKind   `json:"kind"`
		Memo       string   `json:"memo"`
		ApplyKey   string   `json:"apply_key"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	executedAt, err := time.Parse(time.RFC3339, raw.ExecutedAt)
	if err != nil {
		return fmt.Errorf("invalid executed_at %q: %w", raw.ExecutedAt, err)
	}
	t.ID = raw.ID
	t.Type = raw.Type
	t.Symbol = raw.Symbol
	t.Quantity = raw.Quantity
	t.Price = raw.Price
	t.ExecutedAt = executedAt
	t.Status = raw.Status
	t.Kind = raw.Kind
	t.Memo = raw.Memo
	t.ApplyKey = raw.ApplyKey
	return nil
}
