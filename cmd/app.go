// Package cmd implements the CLI application to manage a portfolio.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/mreis/folio"
)

// Register the subcommands.
// A main package calls Register() to install subcommands, and Execute() on the
// user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&declareCmd{}, "catalog")
	c.Register(&priceCmd{}, "catalog")

	c.Register(&buyCmd{}, "transactions")
	c.Register(&sellCmd{}, "transactions")
	c.Register(&voidCmd{}, "transactions")
	c.Register(&txCmd{}, "transactions")
	c.Register(&fmtCmd{}, "transactions")

	c.Register(&summaryCmd{}, "reports")
	c.Register(&gainsCmd{}, "reports")
	c.Register(&historyCmd{}, "reports")

	c.Register(&profilesCmd{}, "allocation")
	c.Register(&rebalanceCmd{}, "allocation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ledgerFile = flag.String("ledger-file", "ledger.jsonl", "Path to the ledger file containing securities and transactions (JSONL format)")
var pricesFile = flag.String("prices-file", "prices.jsonl", "Path to the price history file (JSONL format)")
var currency = flag.String("currency", "BRL", "Reporting currency code")

// DecodeLedger loads the app ledger file.
func DecodeLedger() (l *folio.Ledger, err error) {
	f, err := os.Open(*ledgerFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("warning, ledger file does not exist, starting from an empty ledger instead")
		return folio.NewLedger(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return folio.DecodeLedger(f)
}

// EncodeLedger rewrites the whole app ledger file in canonical form.
func EncodeLedger(l *folio.Ledger) error {
	f, err := os.Create(*ledgerFile)
	if err != nil {
		return err
	}
	defer f.Close()
	return folio.EncodeLedger(f, l)
}

// DecodePrices loads the app price history file.
func DecodePrices() (p *folio.PriceHistory, err error) {
	f, err := os.Open(*pricesFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("warning, price file does not exist, starting from an empty history instead")
		return folio.NewPriceHistory(*currency), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return folio.DecodePriceHistory(f, *currency)
}

// EncodePrices rewrites the whole app price history file.
func EncodePrices(p *folio.PriceHistory) error {
	f, err := os.Create(*pricesFile)
	if err != nil {
		return err
	}
	defer f.Close()
	return folio.EncodePriceHistory(f, p)
}

// EncodeTransaction appends a single transaction into the app ledger file.
func EncodeTransaction(tx folio.Transaction) subcommands.ExitStatus {
	filename := *ledgerFile
	// Open the file in append mode, creating it if it doesn't exist.
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}
	defer f.Close()

	if err := folio.EncodeTransaction(f, tx); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to ledger file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Successfully appended transaction to %s\n", filename)
	return subcommands.ExitSuccess
}

// printMarkdown renders markdown for the terminal, falling back to the raw
// source when the renderer cannot be built.
func printMarkdown(src string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Print(src)
		return
	}
	out, err := r.Render(src)
	if err != nil {
		fmt.Print(src)
		return
	}
	fmt.Print(out)
}
