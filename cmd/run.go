package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/fundpush/worker"
	"github.com/google/subcommands"
)

// runCmd holds the flags for the 'run' subcommand.
type runCmd struct {
	dry bool
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "value the ledger, push and archive the reports" }
func (*runCmd) Usage() string {
	return `fpush run [-dry]

  Values every fund of the ledger, then pushes the reports through the enabled
  notification channels and archives them, as configured.
`
}

func (c *runCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.dry, "dry", false, "check the configuration and the ledger, do not run")
}

func (c *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	config, log, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := config.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration %q:\n%v\n", *configFile, err)
		return subcommands.ExitFailure
	}
	if c.dry {
		ledger, err := worker.ReadLedger(config.Ledger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		for _, skipped := range ledger.Skipped {
			fmt.Fprintf(stdout, "ignored %v\n", &skipped)
		}
		fmt.Fprintf(stdout, "%d holdings of %d owners, channels %v\n", len(ledger.Holdings), len(ledger.Owners()), config.Channels())
		return subcommands.ExitSuccess
	}

	w := newWorker(config, log)
	run, err := w.Start(ctx, config.Ledger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting run: %v\n", err)
		return subcommands.ExitFailure
	}
	sum := run.Wait(printEvent)
	if sum.Err != nil || len(sum.Failed) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
