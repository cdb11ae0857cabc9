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

type profilesCmd struct {
	file string
}

func (*profilesCmd) Name() string     { return "profiles" }
func (*profilesCmd) Synopsis() string { return "list the available allocation profiles" }
func (*profilesCmd) Usage() string {
	return `folio profiles [-f <profile.yaml>]

  Lists the built-in allocation profiles with their target weights and
  tolerance bands. With -f, shows the custom profile from a YAML file
  instead.
`
}

func (c *profilesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "Show a custom profile loaded from this YAML file.")
}

func (c *profilesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	profiles := folio.Profiles()
	if c.file != "" {
		p, err := folio.LoadProfile(c.file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading profile %q: %v\n", c.file, err)
			return subcommands.ExitFailure
		}
		profiles = []*folio.Profile{p}
	}

	printMarkdown(renderer.ProfilesMarkdown(profiles))
	return subcommands.ExitSuccess
}
