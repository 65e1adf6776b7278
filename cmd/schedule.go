package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/etnz/fundpush/worker"
	"github.com/google/subcommands"
)

// scheduleCmd holds the flags for the 'schedule' subcommand.
type scheduleCmd struct {
	at string
}

func (*scheduleCmd) Name() string     { return "schedule" }
func (*scheduleCmd) Synopsis() string { return "run on a cron schedule until interrupted" }
func (*scheduleCmd) Usage() string {
	return `fpush schedule [-at <cron>]

  Runs the reports on a schedule, given in the five fields cron format or as a
  descriptor like "@every 4h". A run is skipped while the previous one is active.
`
}

func (c *scheduleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.at, "at", "30 21 * * 1-5", "cron schedule, by default after the NAV publication on week days")
}

func (c *scheduleCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	config, log, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := config.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration %q:\n%v\n", *configFile, err)
		return subcommands.ExitFailure
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	s := worker.NewScheduler(newWorker(config, log), config.Ledger, log)
	s.OnRun = func(r *worker.Run) { go r.Wait(printEvent) }
	if err := s.Add(ctx, c.at); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid schedule %q: %v\n", c.at, err)
		return subcommands.ExitUsageError
	}
	s.Start()
	<-ctx.Done()
	s.Stop()
	return subcommands.ExitSuccess
}
