package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/mreis/folio"
	"github.com/mreis/folio/renderer"
)

type txCmd struct {
	all  bool
	head int
	tail int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list transactions in the ledger" }
func (*txCmd) Usage() string {
	return `folio tx [-a] [-head <n> | -tail <n>]

  Lists transactions in replay order. Voided entries are hidden unless -a is
  given.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.all, "a", false, "Include voided transactions.")
	f.IntVar(&c.head, "head", 0, "Show only the first N transactions.")
	f.IntVar(&c.tail, "tail", 0, "Show only the last N transactions.")
}

func (c *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.head > 0 && c.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}

	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}

	var txs []folio.Transaction
	seq := ledger.Transactions()
	if c.all {
		seq = ledger.AllTransactions()
	}
	for tx := range seq {
		txs = append(txs, tx)
	}

	if c.head > 0 && c.head < len(txs) {
		txs = txs[:c.head]
	}
	if c.tail > 0 && c.tail < len(txs) {
		txs = txs[len(txs)-c.tail:]
	}

	printMarkdown(renderer.TransactionsMarkdown(txs))
	return subcommands.ExitSuccess
}
