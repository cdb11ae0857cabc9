package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/mreis/folio"
	"github.com/mreis/folio/renderer"
)

type rebalanceCmd struct {
	profile     string
	profileFile string
	noSells     bool
	minTrade    float64
	maxTurnover float64
	preferIndex bool
	apply       bool
	key         string
}

func (*rebalanceCmd) Name() string     { return "rebalance" }
func (*rebalanceCmd) Synopsis() string { return "propose trades that bring the portfolio back on target" }
func (*rebalanceCmd) Usage() string {
	return `folio rebalance [-profile <name> | -f <profile.yaml>] [options] [-apply -key <id>]

  Compares the current allocation to the profile targets and proposes buys
  and sells that bring each asset class back inside its tolerance band. With
  -apply, records the proposed trades in the ledger under the given key so a
  retried apply cannot double-book them.
`
}

func (c *rebalanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.profile, "profile", folio.DefaultProfileName, "Built-in profile name (conservative, moderate, aggressive)")
	f.StringVar(&c.profileFile, "f", "", "Custom profile YAML file. Overrides -profile.")
	f.BoolVar(&c.noSells, "no-sells", false, "Fund buys with external cash instead of selling overweight positions.")
	f.Float64Var(&c.minTrade, "min-trade", folio.DefaultRebalanceOptions().MinTradeValue, "Discard suggestions worth less than this value.")
	f.Float64Var(&c.maxTurnover, "max-turnover", folio.DefaultRebalanceOptions().MaxTurnover, "Cap on the fraction of portfolio value the plan may move, in [0,1].")
	f.BoolVar(&c.preferIndex, "prefer-index-funds", false, "Tilt buy budgets toward the index-fund class.")
	f.BoolVar(&c.apply, "apply", false, "Record the plan's trades in the ledger.")
	f.StringVar(&c.key, "key", "", "Idempotency key identifying this apply. Required with -apply.")
}

func (c *rebalanceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.apply && c.key == "" {
		fmt.Fprintln(os.Stderr, "Error: -apply requires -key.")
		f.Usage()
		return subcommands.ExitUsageError
	}

	profile := folio.LookupProfile(c.profile)
	if c.profileFile != "" {
		p, err := folio.LoadProfile(c.profileFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading profile %q: %v\n", c.profileFile, err)
			return subcommands.ExitFailure
		}
		profile = p
	}
	if profile == nil {
		fmt.Fprintf(os.Stderr, "Error: unknown profile %q.\n", c.profile)
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

	opts := folio.RebalanceOptions{
		AllowSells:       !c.noSells,
		MinTradeValue:    c.minTrade,
		MaxTurnover:      c.maxTurnover,
		PreferIndexFunds: c.preferIndex,
	}
	holdings := ledger.Holdings(prices.LatestPrices())
	plan := folio.ComputeRebalance(holdings, profile, opts)
	printMarkdown(renderer.PlanMarkdown(plan))

	if !c.apply {
		return subcommands.ExitSuccess
	}
	if err := ledger.ApplyPlan(plan, c.key, time.Now().UTC()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := EncodeLedger(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing ledger %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Applied plan %q to %s\n", c.key, *ledgerFile)
	return subcommands.ExitSuccess
}
