// Package cmd implements the fpush command line: value the funds of a holdings ledger,
// push and archive the reports.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/fundpush"
	"github.com/etnz/fundpush/worker"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
	"github.com/rs/zerolog"
)

// Commands are the subcommands of fpush, in help order.
var Commands = []subcommands.Command{
	&runCmd{},
	&previewCmd{},
	&resolveCmd{},
	&scheduleCmd{},
	&initCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "fundpush.toml", "Path to the TOML configuration file")
var ledgerFile = flag.String("ledger", "", "Path to the holdings ledger, overrides the configuration")

// stdout receives the output of the commands.
var stdout io.Writer = os.Stdout

// replaced in tests
var (
	newSources = worker.Sources
	newWorker  = worker.New
)

// Completion returns the shell completion of fpush.
func Completion() *complete.Command {
	sub := make(map[string]*complete.Command)
	for _, c := range Commands {
		sub[c.Name()] = &complete.Command{}
	}
	sub["run"].Flags = map[string]complete.Predictor{"dry": predict.Nothing}
	sub["preview"].Flags = map[string]complete.Predictor{"raw": predict.Nothing, "style": predict.Set{"auto", "dark", "light", "notty"}}
	sub["schedule"].Flags = map[string]complete.Predictor{"at": predict.Something}
	return &complete.Command{
		Sub: sub,
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.toml"),
			"ledger": predict.Files("*.txt"),
		},
	}
}

// loadConfig reads the configuration and returns it with a logger at its level.
func loadConfig() (*fundpush.Config, zerolog.Logger, error) {
	c, err := fundpush.LoadConfig(*configFile)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if *ledgerFile != "" {
		c.Ledger = *ledgerFile
	}
	return c, fundpush.NewLogger(os.Stderr, c.LogLevel), nil
}

// printEvent prints a run event on stdout.
func printEvent(ev fundpush.Event) { fmt.Fprintln(stdout, ev) }

// printMarkdown renders md for the terminal.
func printMarkdown(md, style string) error {
	opt := glamour.WithAutoStyle()
	if style != "" && style != "auto" {
		opt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(0))
	if err != nil {
		return fmt.Errorf("cannot create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("cannot render markdown: %w", err)
	}
	_, err = io.WriteString(stdout, out)
	return err
}

// exists reports whether a file exists at path.
func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}
