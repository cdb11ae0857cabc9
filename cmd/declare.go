package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/mreis/folio"
)

type declareCmd struct {
	symbol     string
	name       string
	class      string
	step       float64
	fractional bool
}

func (*declareCmd) Name() string     { return "declare" }
func (*declareCmd) Synopsis() string { return "declare a security in the ledger catalog" }
func (*declareCmd) Usage() string {
	return `folio declare -s <symbol> [-n <name>] [-c <class>] [-step <qty>] [-fractional]

  Declares a security so reports and the rebalancer know its display name,
  asset class and lot constraints. Undeclared symbols fall back to class
  heuristics and unconstrained quantities.
`
}

func (c *declareCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Security ticker")
	f.StringVar(&c.name, "n", "", "Display name")
	f.StringVar(&c.class, "c", "", "Asset class label (equity, index-fund, real-estate-fund, crypto, other, or a broker label)")
	f.Float64Var(&c.step, "step", 0, "Quantity increment trades must use, 0 for unconstrained")
	f.BoolVar(&c.fractional, "fractional", false, "Security trades in fractional units")
}

func (c *declareCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.step < 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	sec := folio.Security{
		Symbol:     strings.ToUpper(strings.TrimSpace(c.symbol)),
		Name:       c.name,
		RawClass:   c.class,
		QtyStep:    folio.Q(c.step),
		Fractional: c.fractional,
	}

	// Catalog lines live in the same JSONL file as transactions, so a
	// declaration is a plain append too.
	fh, err := os.OpenFile(*ledgerFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger file %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	defer fh.Close()

	b, err := json.Marshal(sec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding security: %v\n", err)
		return subcommands.ExitFailure
	}
	if _, err := fmt.Fprintf(fh, "%s\n", b); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to ledger file %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Declared %s as %s\n", sec.Symbol, sec.Class())
	return subcommands.ExitSuccess
}
