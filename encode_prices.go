package folio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mreis/folio/date"
)

// Price history is persisted as JSONL, one close per line:
//
//	{"on":"2025-01-02","symbol":"BOVA11","close":101.5}
//
// Lines may appear in any order, the history re-sorts on load.

type jclose struct {
	On     date.Date `json:"on"`
	Symbol string    `json:"symbol"`
	Close  float64   `json:"close"`
}

// DecodePriceHistory reads a price history quoting in the given currency
// from a JSONL stream.
func DecodePriceHistory(r io.Reader, currency string) (*PriceHistory, error) {
	prices := NewPriceHistory(currency)
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		txt := scanner.Bytes()
		if len(strings.TrimSpace(string(txt))) == 0 {
			continue
		}
		var jc jclose
		if err := json.Unmarshal(txt, &jc); err != nil {
			return nil, fmt.Errorf("line %d: invalid price record: %w", line, err)
		}
		if jc.Symbol == "" {
			return nil, fmt.Errorf("line %d: price record is missing its symbol", line)
		}
		if jc.On.IsZero() {
			return nil, fmt.Errorf("line %d: price record is missing its date", line)
		}
		prices.Record(jc.Symbol, jc.On, jc.Close)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading price history: %w", err)
	}
	return prices, nil
}

// EncodePriceHistory persists the history as JSONL, symbols in alphabetical
// order and days ascending within each symbol.
func EncodePriceHistory(w io.Writer, prices *PriceHistory) error {
	for _, symbol := range prices.Symbols() {
		for day, close := range prices.Closes(symbol) {
			var jw jsonObjectWriter
			jw.Append("on", day)
			jw.Append("symbol", symbol)
			jw.Append("close", close)
			data, err := jw.MarshalJSON()
			if err != nil {
				return fmt.Errorf("failed to marshal close for %q: %w", symbol, err)
			}
			if _, err := w.Write(append(data, '\n')); err != nil {
				return fmt.Errorf("failed to write close for %q: %w", symbol, err)
			}
		}
	}
	return nil
}
