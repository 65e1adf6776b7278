package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/fundpush"
	"github.com/google/subcommands"
)

type initCmd struct{}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "create a sample ledger and configuration" }
func (*initCmd) Usage() string {
	return `fpush init

  Creates the ledger and the configuration file with sample content, unless they
  already exist. Edit them before the first run.
`
}

func (*initCmd) SetFlags(f *flag.FlagSet) {}

func (*initCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	config, _, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	data, err := config.Encode()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding configuration: %v\n", err)
		return subcommands.ExitFailure
	}

	files := []struct{ path, content string }{
		{config.Ledger, fundpush.SampleLedger},
		{*configFile, string(data)},
	}
	for _, file := range files {
		ok, err := exists(file.path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		if ok {
			fmt.Fprintf(stdout, "%s already exists, left unchanged\n", file.path)
			continue
		}
		if err := os.WriteFile(file.path, []byte(file.content), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", file.path, err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(stdout, "created %s\n", file.path)
	}
	return subcommands.ExitSuccess
}
