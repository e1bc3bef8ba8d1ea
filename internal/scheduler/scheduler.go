// Package scheduler wires up the cron job that periodically re-runs all
// active saved searches.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled cycle.
type Job interface {
	RunAll(ctx context.Context) error
}

// Scheduler wraps robfig/cron and manages the saved-search loop.
type Scheduler struct {
	cron *cron.Cron
	job  Job
	spec string // cron spec, e.g. "@every 6h"
	wg   sync.WaitGroup
}

// New creates a Scheduler that fires every intervalHours hours. A cycle that
// is still running when the next tick fires causes that tick to be skipped.
func New(job Job, intervalHours int) (*Scheduler, error) {
	if intervalHours <= 0 {
		return nil, fmt.Errorf("scheduler: interval must be positive, got %d", intervalHours)
	}
	logger := cron.DefaultLogger
	return &Scheduler{
		cron: cron.New(cron.WithLogger(logger), cron.WithChain(cron.SkipIfStillRunning(logger))),
		job:  job,
		spec: fmt.Sprintf("@every %dh", intervalHours),
	}, nil
}

// Spec returns the cron spec in use.
func (s *Scheduler) Spec() string { return s.spec }

// Start registers the job and starts the scheduler. One cycle also runs
// immediately so saved searches do not wait for the first tick; it goes
// through the same skip-if-still-running chain as scheduled ticks.
func (s *Scheduler) Start(ctx context.Context) error {
	id, err := s.cron.AddFunc(s.spec, func() {
		s.runCycle(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	first := s.cron.Entry(id).WrappedJob

	s.cron.Start()
	slog.Info("[scheduler] cron started", "spec", s.spec)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		first.Run()
	}()
	return nil
}

// Stop halts the scheduler and waits for every running cycle, including the
// one started by Start, to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.wg.Wait()
	slog.Info("[scheduler] cron stopped")
}

func (s *Scheduler) runCycle(ctx context.Context) {
	slog.Info("[scheduler] saved-search cycle started")
	if err := s.job.RunAll(ctx); err != nil {
		slog.Error("[scheduler] saved-search cycle failed", "err", err)
		return
	}
	slog.Info("[scheduler] saved-search cycle complete")
}
