package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/mreis/folio/renderer"
)

type gainsCmd struct{}

func (*gainsCmd) Name() string     { return "gains" }
func (*gainsCmd) Synopsis() string { return "realized and unrealized gain per security" }
func (*gainsCmd) Usage() string {
	return `folio gains

  Calculates realized and unrealized gains for each security using average
  cost basis. Sold-out positions keep their realized gain on the report.
`
}

func (*gainsCmd) SetFlags(f *flag.FlagSet) {}

func (*gainsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	prices, err := DecodePrices()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading prices %q: %v\n", *pricesFile, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.GainsMarkdown(ledger.Gains(prices.LatestPrices())))
	return subcommands.ExitSuccess
}
