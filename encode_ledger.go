package folio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// The ledger is persisted as a JSONL file, human-readable and git-friendly:
// one security declaration or transaction per line. Declarations carry a
// "security" attribute, transactions a "type" attribute. Decoding accepts
// the two kinds interleaved; encoding writes declarations first, then
// transactions in replay order.

// DecodeLedger reads a ledger from a JSONL stream. Entries are trusted as
// recorded: historical data is not re-validated against position
// sufficiency, the cost basis replay clamps any oversell it contains.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	ledger := NewLedger()
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		txt := scanner.Bytes()
		if len(strings.TrimSpace(string(txt))) == 0 {
			continue
		}

		var identifier struct {
			Security string `json:"security"`
			Type     TxType `json:"type"`
		}
		if err := json.Unmarshal(txt, &identifier); err != nil {
			return nil, fmt.Errorf("line %d: not a correct json object: %w", line, err)
		}

		switch {
		case identifier.Security != "":
			var sec Security
			if err := json.Unmarshal(txt, &sec); err != nil {
				return nil, fmt.Errorf("line %d: invalid security declaration: %w", line, err)
			}
			if err := ledger.Declare(sec); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
		case identifier.Type == TxBuy || identifier.Type == TxSell:
			var tx Transaction
			if err := json.Unmarshal(txt, &tx); err != nil {
				return nil, fmt.Errorf("line %d: invalid transaction: %w", line, err)
			}
			if tx.ID == 0 {
				tx.ID = ledger.nextID
			}
			if tx.ID >= ledger.nextID {
				ledger.nextID = tx.ID + 1
			}
			ledger.transactions = append(ledger.transactions, tx)
		default:
			return nil, fmt.Errorf("line %d: unknown record %q", line, string(txt))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ledger: %w", err)
	}
	ledger.sortTransactions()
	return ledger, nil
}

// EncodeTransaction writes a single transaction as one JSONL line.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write transaction: %w", err)
	}
	return nil
}

// EncodeLedger persists the ledger as JSONL: declared securities sorted by
// symbol, then every transaction, voided included, in replay order. Field
// order within each line is stable so the output diffs cleanly.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	for _, sec := range ledger.Securities() {
		data, err := json.Marshal(sec)
		if err != nil {
			return fmt.Errorf("failed to marshal security %q: %w", sec.Symbol, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write security %q: %w", sec.Symbol, err)
		}
	}
	ledger.sortTransactions()
	for _, tx := range ledger.transactions {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}
	return nil
}
