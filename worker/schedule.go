package worker

import (
	"context"
	"errors"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler starts runs of a Worker on a cron schedule.
// A trigger firing while the previous run is still active is skipped.
type Scheduler struct {
	worker *Worker
	ledger string
	cron   *cron.Cron
	log    zerolog.Logger

	// OnRun, when set, receives every started run. It must consume the run events.
	OnRun func(*Run)
}

// NewScheduler returns a Scheduler running w over the ledger file.
func NewScheduler(w *Worker, ledger string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		worker: w,
		ledger: ledger,
		cron:   cron.New(),
		log:    log.With().Str("component", "scheduler").Logger(),
	}
}

// Add registers a schedule, in the standard five fields cron format or a descriptor
// like "@every 1h".
func (s *Scheduler) Add(ctx context.Context, schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		if _, err := s.Trigger(ctx); err != nil && !errors.Is(err, ErrBusy) {
			s.log.Error().Err(err).Msg("run failed to start")
		}
	})
	if err != nil {
		return err
	}
	s.log.Info().Str("schedule", schedule).Msg("run registered")
	return nil
}

// Trigger starts a run now. It returns ErrBusy if a run is still active.
func (s *Scheduler) Trigger(ctx context.Context) (*Run, error) {
	run, err := s.worker.Start(ctx, s.ledger)
	if errors.Is(err, ErrBusy) {
		s.log.Warn().Msg("previous run still active, skipping")
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("run", run.ID).Msg("run started")
	if s.OnRun != nil {
		s.OnRun(run)
	} else {
		go run.Wait(nil)
	}
	return run, nil
}

// Start starts the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the scheduler and waits for the running trigger, if any, to return.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("scheduler stopped")
}
