package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/mreis/folio/date"
	"github.com/mreis/folio/renderer"
)

type historyCmd struct {
	window string
	end    string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "daily valuation series over a trailing window" }
func (*historyCmd) Usage() string {
	return `folio history [-w <window>] [-d <end_date>]

  Shows the daily market value, invested capital and profit over a trailing
  window. Windows: 1m, 3m, 6m, 12m, 60m, ytd, max. Windows never start
  before the first recorded activity.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.window, "w", date.Window12M.String(), "Trailing window (1m, 3m, 6m, 12m, 60m, ytd, max)")
	f.StringVar(&c.end, "d", date.Today().String(), "End date of the window (YYYY-MM-DD)")
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	window, err := date.ParseWindow(c.window)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	end, err := date.Parse(c.end)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
		return subcommands.ExitUsageError
	}

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

	records := ledger.ValuationSeriesEnding(prices, window, end)
	printMarkdown(renderer.HistoryMarkdown(window.String(), records))
	return subcommands.ExitSuccess
}
