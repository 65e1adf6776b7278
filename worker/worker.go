// Package worker runs the whole report pipeline in the background: read the ledger,
// value every fund, render the reports, push and archive them.
package worker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/etnz/fundpush"
	"github.com/etnz/fundpush/esong"
	"github.com/etnz/fundpush/fundgz"
	"github.com/etnz/fundpush/notify"
	"github.com/etnz/fundpush/pingzhong"
	"github.com/etnz/fundpush/renderer"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrBusy is returned by Start while a previous run is still active.
var ErrBusy = errors.New("a run is already in progress")

// Titles of the pushed messages, completed by the chunk number.
const (
	ReportTitle  = "NAV report"
	SummaryTitle = "Performance summary"
)

// Summary is the terminal result of a run.
type Summary struct {
	RunID       string
	Holdings    int
	Skipped     int
	Pushed      []string // owners whose report was delivered
	Failed      []string // owners whose report could not be delivered
	SummarySent bool
	Archived    []string // written files
	Err         error    // set when the run stopped early
}

// Run is a pipeline execution started by Worker.Start.
type Run struct {
	ID     string
	Events *fundpush.Events
	Done   <-chan Summary // receives exactly one Summary, then is closed
}

// Wait drains the events of the run into fn, that can be nil, and returns its Summary.
func (r *Run) Wait(fn func(fundpush.Event)) Summary {
	for ev := range r.Events.C() {
		if fn != nil {
			fn(ev)
		}
	}
	return <-r.Done
}

// Worker executes runs, one at a time.
type Worker struct {
	Config   *fundpush.Config
	Sources  []fundpush.Source // tried in order
	Channels []notify.Channel
	Log      zerolog.Logger
	Now      func() time.Time

	mu      sync.Mutex
	running bool
}

// New returns a Worker valuing funds from the fundgz, esong and pingzhong sources and
// pushing to the channels enabled in c.
func New(c *fundpush.Config, log zerolog.Logger) *Worker {
	client := fundpush.NewHTTPClient(c.Delivery.GetTimeout())
	return &Worker{
		Config:   c,
		Sources:  Sources(client),
		Channels: notify.FromConfig(c, client),
		Log:      log,
		Now:      time.Now,
	}
}

// Sources returns the valuation sources in fallback order.
func Sources(client *http.Client) []fundpush.Source {
	return []fundpush.Source{fundgz.New(client), esong.New(client), pingzhong.New(client)}
}

// Start runs the pipeline over the ledger file in a new goroutine and returns immediately.
func (w *Worker) Start(ctx context.Context, ledger string) (*Run, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil, ErrBusy
	}
	w.running = true

	id := uuid.NewString()
	log := w.Log.With().Str("run", id).Logger()
	done := make(chan Summary, 1)
	run := &Run{ID: id, Events: fundpush.NewEvents(log), Done: done}

	go func() {
		sum := &Summary{RunID: id}
		defer func() {
			if p := recover(); p != nil {
				sum.Err = fmt.Errorf("run aborted: %v", p)
				log.Error().Interface("panic", p).Msg("recovered")
				run.Events.Errorf("unexpected error, run aborted: %v", p)
			}
			run.Events.Close()
			w.release()
			done <- *sum
			close(done)
		}()
		w.execute(ctx, log, run.Events, ledger, sum)
	}()
	return run, nil
}

func (w *Worker) release() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
}

func (w *Worker) now() time.Time {
	if w.Now == nil {
		return time.Now()
	}
	return w.Now()
}

func (w *Worker) execute(ctx context.Context, log zerolog.Logger, events *fundpush.Events, path string, sum *Summary) {
	c := w.Config
	now := w.now()

	ledger, err := ReadLedger(path)
	if err != nil {
		sum.Err = err
		events.Errorf("%v", err)
		return
	}
	for _, skipped := range ledger.Skipped {
		events.Warnf("ignored %v", &skipped)
	}
	sum.Holdings, sum.Skipped = len(ledger.Holdings), len(ledger.Skipped)
	if len(ledger.Holdings) == 0 {
		sum.Err = fmt.Errorf("no valid holding in %s", path)
		events.Errorf("%v", sum.Err)
		return
	}
	events.Infof("%d holdings of %d owners loaded", len(ledger.Holdings), len(ledger.Owners()))

	holdings := Resolve(ctx, log, events, w.Sources, ledger.Holdings)
	users := fundpush.NewUserReports(holdings)
	target := fundpush.Percent(c.TargetReturn)

	if c.Push.Enabled {
		d := notify.NewDispatcher(w.Channels, notify.Options{
			MaxRetries: c.Delivery.MaxRetries,
			RetryDelay: c.Delivery.GetRetryDelay(),
			Log:        log,
			Events:     events,
		}, c.Delivery.GetPacing())

		for _, u := range users {
			chunks := fundpush.Paginate(renderer.User(u), c.Delivery.MaxMessageBytes)
			out := d.Dispatch(ctx, u.Owner, ReportTitle, chunks)
			if out.OK {
				sum.Pushed = append(sum.Pushed, u.Owner)
				continue
			}
			sum.Failed = append(sum.Failed, u.Owner)
			events.Errorf("report of %s not pushed (%d/%d parts delivered)", u.Owner, out.Delivered, out.Chunks)
		}

		perf := renderer.Performance(fundpush.NewPerformanceReport(holdings, target, sum.Failed, now))
		out := d.Dispatch(ctx, fundpush.SummaryKey, SummaryTitle, fundpush.Paginate(perf, c.Delivery.MaxMessageBytes))
		sum.SummarySent = out.OK
		if !out.OK {
			events.Errorf("performance summary not pushed")
		}

		tally := fmt.Sprintf("owner reports pushed: %d ok, %d failed", len(sum.Pushed), len(sum.Failed))
		if len(sum.Failed) > 0 {
			events.Warnf("%s", tally)
		} else {
			events.Successf("%s", tally)
		}
	}

	if c.Archive.Enabled {
		a := fundpush.NewArchive(c.Archive.Dir, now)
		write := func(path string, err error) {
			if err != nil {
				events.Errorf("%v", err)
				return
			}
			sum.Archived = append(sum.Archived, path)
		}
		if c.Archive.ByFund {
			for _, f := range fundpush.NewFundReports(holdings) {
				write(a.WriteFund(f.Code, f.Valuation.Name, renderer.Fund(f)))
			}
		}
		if c.Archive.ByUser {
			for _, u := range users {
				write(a.WriteUser(u.Owner, renderer.UserArchive(u)))
			}
		}
		write(a.WriteSummary(renderer.Performance(fundpush.NewPerformanceReport(holdings, target, sum.Failed, now))))
		events.Infof("%d reports archived in %s", len(sum.Archived), c.Archive.Dir)
	}
	events.Successf("run completed")
}

// ReadLedger reads the holdings file at path.
func ReadLedger(path string) (*fundpush.Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open ledger: %w", err)
	}
	defer f.Close()
	ledger, err := fundpush.ReadLedger(f)
	if err != nil {
		return nil, fmt.Errorf("cannot read ledger %s: %w", path, err)
	}
	return ledger, nil
}

// Resolve values every holding, one fund code at a time, reporting each valuation to events.
func Resolve(ctx context.Context, log zerolog.Logger, events *fundpush.Events, sources []fundpush.Source, holdings []fundpush.Holding) []fundpush.ResolvedHolding {
	resolver := fundpush.NewResolver(log, sources...)
	for _, h := range holdings {
		if _, ok := resolver.Cache[h.Code]; ok {
			continue
		}
		v := resolver.Resolve(ctx, h.Code)
		switch {
		case v.Source == 0:
			events.Warnf("%s: %s", h.Code, v.Name)
		case !v.Valid:
			events.Warnf("%s %s: no usable net asset value (source %d)", h.Code, v.Name, v.Source)
		default:
			events.Infof("%s %s: %s on %s (source %d)", h.Code, v.Name, v.NAV.Fixed(4), v.Date, v.Source)
		}
	}
	return fundpush.ResolveHoldings(holdings, resolver.Cache)
}

// Reports renders every report of holdings, owners first, then funds, then the summary.
func Reports(holdings []fundpush.ResolvedHolding, target fundpush.Percent, now time.Time) []fundpush.Report {
	var reports []fundpush.Report
	for _, u := range fundpush.NewUserReports(holdings) {
		reports = append(reports, fundpush.Report{Kind: fundpush.UserReportKind, Key: u.Owner, Text: renderer.User(u), Holdings: u.Holdings})
	}
	for _, f := range fundpush.NewFundReports(holdings) {
		var hs []fundpush.ResolvedHolding
		for _, o := range f.Owners {
			hs = append(hs, o.Holdings...)
		}
		reports = append(reports, fundpush.Report{Kind: fundpush.FundReportKind, Key: f.Code, Text: renderer.Fund(f), Holdings: hs})
	}
	reports = append(reports, fundpush.Report{
		Kind:     fundpush.PerformanceReportKind,
		Key:      fundpush.SummaryKey,
		Text:     renderer.Performance(fundpush.NewPerformanceReport(holdings, target, nil, now)),
		Holdings: holdings,
	})
	return reports
}
