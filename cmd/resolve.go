package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/etnz/fundpush"
	"github.com/google/subcommands"
)

type resolveCmd struct{}

func (*resolveCmd) Name() string     { return "resolve" }
func (*resolveCmd) Synopsis() string { return "value fund codes and show which source answered" }
func (*resolveCmd) Usage() string {
	return `fpush resolve <code>...

  Values each fund code through the sources, in fallback order, and prints the
  valuation with the rank of the source that answered (0 when none did).
`
}

func (*resolveCmd) SetFlags(f *flag.FlagSet) {}

func (*resolveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one fund code is required")
		return subcommands.ExitUsageError
	}
	config, log, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	resolver := fundpush.NewResolver(log, newSources(fundpush.NewHTTPClient(config.Delivery.GetTimeout()))...)

	status := subcommands.ExitSuccess
	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tNAME\tNAV\tDATE\tCHANGE\tSOURCE")
	for _, code := range f.Args() {
		v := resolver.Resolve(ctx, code)
		nav := "unknown"
		if v.Valid {
			nav = v.NAV.Fixed(4)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n", code, v.Name, nav, v.Date, v.Change, v.Source)
		if v.Source == 0 {
			status = subcommands.ExitFailure
		}
	}
	w.Flush()
	return status
}
