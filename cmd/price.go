package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/mreis/folio/date"
)

type priceCmd struct {
	symbol string
	day    string
	close  float64
}

func (*priceCmd) Name() string     { return "price" }
func (*priceCmd) Synopsis() string { return "record a closing price for a security" }
func (*priceCmd) Usage() string {
	return `folio price -s <symbol> -p <close> [-d <date>]

  Records a daily closing price. Reports carry the last known close forward,
  so sparse histories are fine.
`
}

func (c *priceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Security ticker")
	f.StringVar(&c.day, "d", date.Today().String(), "Closing date (YYYY-MM-DD)")
	f.Float64Var(&c.close, "p", 0, "Closing price")
}

func (c *priceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.close <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	on, err := date.Parse(c.day)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	prices, err := DecodePrices()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading prices %q: %v\n", *pricesFile, err)
		return subcommands.ExitFailure
	}

	symbol := strings.ToUpper(strings.TrimSpace(c.symbol))
	prices.Record(symbol, on, c.close)

	if err := EncodePrices(prices); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing prices %q: %v\n", *pricesFile, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Recorded %s close %.4f on %s\n", symbol, c.close, on)
	return subcommands.ExitSuccess
}
