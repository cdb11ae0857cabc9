package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type fmtCmd struct {
	check bool
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and rewrites the ledger file into canonical form"
}
func (*fmtCmd) Usage() string {
	return `folio fmt [-check]

  Reads the whole ledger, replays it to verify every sell was covered at its
  execution time, and rewrites the file in canonical form: security
  declarations first, then transactions in replay order with their assigned
  ids. With -check, validates without rewriting.
`
}

func (c *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.check, "check", false, "Validate only, leave the file untouched.")
}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	if err := ledger.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Ledger %q is invalid: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	if c.check {
		fmt.Printf("Ledger %s is valid.\n", *ledgerFile)
		return subcommands.ExitSuccess
	}
	if err := EncodeLedger(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing ledger %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Formatted ledger %s\n", *ledgerFile)
	return subcommands.ExitSuccess
}
