package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"
	"github.com/mreis/folio"
	"github.com/mreis/folio/date"
)

// parseTradeTime accepts a plain day or a full timestamp. Plain days are
// stamped at midnight UTC so intra-day ordering falls back to ledger ids.
func parseTradeTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	d, err := date.Parse(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("want YYYY-MM-DD or RFC3339, got %q", s)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
}

// recordTrade validates a trade against the loaded ledger before appending it
// to the ledger file, so an oversell is refused up front rather than at the
// next full decode.
func recordTrade(typ folio.TxType, symbol string, quantity, price float64, day, memo string) subcommands.ExitStatus {
	if symbol == "" || quantity <= 0 || price <= 0 {
		return subcommands.ExitUsageError
	}
	at, err := parseTradeTime(day)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}

	tx := folio.NewTransaction(typ, strings.ToUpper(strings.TrimSpace(symbol)),
		folio.Q(quantity), folio.M(price, *currency), at, memo)
	if err := ledger.Append(tx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return EncodeTransaction(tx)
}

// --- Buy Command ---

type buyCmd struct {
	date     string
	security string
	quantity float64
	price    float64
	memo     string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "purchase shares to open or add to a position" }
func (*buyCmd) Usage() string {
	return `folio buy -s <security> -q <quantity> -p <price> [-d <date>] [-m <memo>]

  Purchases shares of a security at the given unit price.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Transaction date (YYYY-MM-DD or RFC3339)")
	f.StringVar(&c.security, "s", "", "Security ticker")
	f.Float64Var(&c.quantity, "q", 0, "Number of shares")
	f.Float64Var(&c.price, "p", 0, "Price per share")
	f.StringVar(&c.memo, "m", "", "An optional rationale or note for the transaction")
}

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	status := recordTrade(folio.TxBuy, c.security, c.quantity, c.price, c.date, c.memo)
	if status == subcommands.ExitUsageError {
		f.Usage()
	}
	return status
}

// --- Sell Command ---

type sellCmd struct {
	date     string
	security string
	quantity float64
	price    float64
	memo     string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell shares to reduce or close a position" }
func (*sellCmd) Usage() string {
	return `folio sell -s <security> -q <quantity> -p <price> [-d <date>] [-m <memo>]

  Sells shares of a security. Selling more than the position holds at that
  date is refused.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Transaction date (YYYY-MM-DD or RFC3339)")
	f.StringVar(&c.security, "s", "", "Security ticker")
	f.Float64Var(&c.quantity, "q", 0, "Number of shares")
	f.Float64Var(&c.price, "p", 0, "Price per share")
	f.StringVar(&c.memo, "m", "", "An optional rationale or note for the transaction")
}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	status := recordTrade(folio.TxSell, c.security, c.quantity, c.price, c.date, c.memo)
	if status == subcommands.ExitUsageError {
		f.Usage()
	}
	return status
}

// --- Void Command ---

type voidCmd struct {
	id int64
}

func (*voidCmd) Name() string     { return "void" }
func (*voidCmd) Synopsis() string { return "void a transaction without deleting it" }
func (*voidCmd) Usage() string {
	return `folio void -id <transaction id>

  Marks a transaction as voided. Voided transactions stay in the ledger file
  but no longer count toward positions, cost basis or reports. Voiding is
  refused when it would leave a later sell oversold.
`
}

func (c *voidCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "Id of the transaction to void, as shown by 'folio tx'")
}

func (c *voidCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	if err := ledger.Void(c.id); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := EncodeLedger(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing ledger %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Voided transaction %d\n", c.id)
	return subcommands.ExitSuccess
}
