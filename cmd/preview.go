package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/etnz/fundpush"
	"github.com/etnz/fundpush/renderer"
	"github.com/etnz/fundpush/worker"
	"github.com/google/subcommands"
)

// previewCmd holds the flags for the 'preview' subcommand.
type previewCmd struct {
	raw   bool
	style string
}

func (*previewCmd) Name() string     { return "preview" }
func (*previewCmd) Synopsis() string { return "display the reports without pushing them" }
func (*previewCmd) Usage() string {
	return `fpush preview [-raw] [-style <style>]

  Values the ledger and displays every report: one per owner, one per fund and the
  performance summary. Nothing is pushed nor archived.
`
}

func (c *previewCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.raw, "raw", false, "print the markdown source instead of rendering it")
	f.StringVar(&c.style, "style", "auto", "glamour style: auto, dark, light or notty")
}

func (c *previewCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	config, log, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	ledger, err := worker.ReadLedger(config.Ledger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, skipped := range ledger.Skipped {
		log.Warn().Int("line", skipped.Line).Err(skipped.Err).Msg("ignored ledger row")
	}

	sources := newSources(fundpush.NewHTTPClient(config.Delivery.GetTimeout()))
	holdings := worker.Resolve(ctx, log, nil, sources, ledger.Holdings)
	reports := worker.Reports(holdings, fundpush.Percent(config.TargetReturn), time.Now())
	md := renderer.Markdown("Fund reports "+time.Now().Format("2006-01-02"), reports)

	if c.raw {
		io.WriteString(stdout, md)
		return subcommands.ExitSuccess
	}
	if err := printMarkdown(md, c.style); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
