package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/mreis/folio/cmd"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion describes the command tree for shell completion. It only covers
// the flags a user is likely to tab through.
func completion() *complete.Command {
	windows := predict.Set{"1m", "3m", "6m", "12m", "60m", "ytd", "max"}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"ledger-file": predict.Files("*.jsonl"),
			"prices-file": predict.Files("*.jsonl"),
			"currency":    predict.Set{"BRL", "USD", "EUR"},
		},
		Sub: map[string]*complete.Command{
			"declare": {Flags: map[string]complete.Predictor{
				"c": predict.Set{"equity", "index-fund", "real-estate-fund", "crypto", "other"},
			}},
			"price":   {},
			"buy":     {},
			"sell":    {},
			"void":    {},
			"tx":      {},
			"fmt":     {},
			"summary": {},
			"gains":   {},
			"history": {Flags: map[string]complete.Predictor{"w": windows}},
			"profiles": {Flags: map[string]complete.Predictor{
				"f": predict.Files("*.yaml"),
			}},
			"rebalance": {Flags: map[string]complete.Predictor{
				"profile": predict.Set{"conservative", "moderate", "aggressive"},
				"f":       predict.Files("*.yaml"),
			}},
		},
	}
}

func main() {
	completion().Complete("folio")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
