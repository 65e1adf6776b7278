package cmd

import (
	"bytes"
	"context"
	"flag"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/fundpush"
	"github.com/etnz/fundpush/date"
	"github.com/etnz/fundpush/worker"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct{}

func (fakeSource) Name() string { return "fake" }
func (fakeSource) Fetch(ctx context.Context, code string) (fundpush.Valuation, error) {
	if code != "163406" {
		return fundpush.Valuation{}, fundpush.ErrNoAnswer
	}
	nav, _ := fundpush.ParseQuantity("2.5")
	return fundpush.Valuation{Name: "兴全合润混合(LOF)", Date: date.New(2024, 1, 5), NAV: nav, Change: "0.48", Valid: true}, nil
}

// setup runs the test in an empty directory, with fake sources, and returns the
// captured output.
func setup(t *testing.T) *bytes.Buffer {
	t.Helper()
	t.Chdir(t.TempDir())

	out := new(bytes.Buffer)
	oldOut, oldSources, oldConfig, oldLedger := stdout, newSources, *configFile, *ledgerFile
	t.Cleanup(func() {
		stdout, newSources, *configFile, *ledgerFile = oldOut, oldSources, oldConfig, oldLedger
	})
	stdout = out
	newSources = func(*http.Client) []fundpush.Source { return []fundpush.Source{fakeSource{}} }
	*configFile, *ledgerFile = "fundpush.toml", ""
	return out
}

func execute(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	require.NoError(t, f.Parse(args))
	return c.Execute(context.Background(), f)
}

func TestInit(t *testing.T) {
	out := setup(t)

	assert.Equal(t, subcommands.ExitSuccess, execute(t, &initCmd{}))
	ledger, err := os.ReadFile("funds.txt")
	require.NoError(t, err)
	assert.Equal(t, fundpush.SampleLedger, string(ledger))

	config, err := fundpush.LoadConfig("fundpush.toml")
	require.NoError(t, err)
	assert.Equal(t, fundpush.DefaultConfig(), config)
	assert.Contains(t, out.String(), "created funds.txt")

	// Existing files are kept.
	require.NoError(t, os.WriteFile("funds.txt", []byte("mine"), 0o644))
	out.Reset()
	assert.Equal(t, subcommands.ExitSuccess, execute(t, &initCmd{}))
	ledger, _ = os.ReadFile("funds.txt")
	assert.Equal(t, "mine", string(ledger))
	assert.Contains(t, out.String(), "funds.txt already exists")
}

func TestResolve(t *testing.T) {
	out := setup(t)

	assert.Equal(t, subcommands.ExitUsageError, execute(t, &resolveCmd{}))
	assert.Equal(t, subcommands.ExitSuccess, execute(t, &resolveCmd{}, "163406"))
	assert.Contains(t, out.String(), "兴全合润混合(LOF)")
	assert.Contains(t, out.String(), "2.5000")
	assert.Contains(t, out.String(), "2024-01-05")

	out.Reset()
	assert.Equal(t, subcommands.ExitFailure, execute(t, &resolveCmd{}, "163406", "110022"))
	assert.Contains(t, out.String(), "lookup failed(110022)")
}

func TestPreview(t *testing.T) {
	out := setup(t)
	require.NoError(t, os.WriteFile("funds.txt", []byte(fundpush.SampleLedger), 0o644))

	assert.Equal(t, subcommands.ExitSuccess, execute(t, &previewCmd{}, "-raw"))
	md := out.String()
	for _, want := range []string{"## Owner 张三", "## Owner 李四", "## Fund 163406", "## Fund 001718", "## Performance summary", "lookup failed(110022)"} {
		assert.Contains(t, md, want)
	}

	out.Reset()
	assert.Equal(t, subcommands.ExitSuccess, execute(t, &previewCmd{}, "-style", "notty"))
	assert.Contains(t, out.String(), "Owner")
	assert.Contains(t, out.String(), "163406")
}

func TestPreview_MissingLedger(t *testing.T) {
	setup(t)
	*ledgerFile = filepath.Join("nowhere", "funds.txt")
	assert.Equal(t, subcommands.ExitFailure, execute(t, &previewCmd{}, "-raw"))
}

func TestRun_Dry(t *testing.T) {
	out := setup(t)
	config := fundpush.DefaultConfig()
	config.Archive.Enabled = true
	data, err := config.Encode()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile("fundpush.toml", data, 0o644))
	require.NoError(t, os.WriteFile("funds.txt", []byte(fundpush.SampleLedger+"bad row\n"), 0o644))

	assert.Equal(t, subcommands.ExitSuccess, execute(t, &runCmd{}, "-dry"))
	assert.Contains(t, out.String(), "3 holdings of 2 owners")
	assert.Contains(t, out.String(), "ignored line 6")
}

func TestRun_InvalidConfig(t *testing.T) {
	setup(t)
	// Nothing is enabled by default.
	assert.Equal(t, subcommands.ExitFailure, execute(t, &runCmd{}))
}

func TestRun_Archive(t *testing.T) {
	out := setup(t)
	config := fundpush.DefaultConfig()
	config.Archive.Enabled = true
	data, err := config.Encode()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile("fundpush.toml", data, 0o644))
	require.NoError(t, os.WriteFile("funds.txt", []byte(fundpush.SampleLedger), 0o644))

	oldWorker := newWorker
	t.Cleanup(func() { newWorker = oldWorker })
	newWorker = func(c *fundpush.Config, log zerolog.Logger) *worker.Worker {
		w := oldWorker(c, log)
		w.Sources = []fundpush.Source{fakeSource{}}
		return w
	}

	assert.Equal(t, subcommands.ExitSuccess, execute(t, &runCmd{}))
	assert.Contains(t, out.String(), "run completed")
	assert.FileExists(t, filepath.Join("report", fundpush.SummaryFile))
	entries, err := os.ReadDir(filepath.Join("report", "by_user"))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestCompletion(t *testing.T) {
	c := Completion()
	var names []string
	for _, cmd := range Commands {
		names = append(names, cmd.Name())
		assert.Contains(t, c.Sub, cmd.Name())
	}
	assert.Equal(t, "run preview resolve schedule init", strings.Join(names, " "))
	assert.Contains(t, c.Flags, "config")
}
