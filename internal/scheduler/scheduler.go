// Package scheduler triggers a job periodically without overlapping runs.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const DefaultInterval = time.Hour

type Job func(ctx context.Context)

type Option func(*Scheduler)

// WithRunOnStart triggers the job as soon as the scheduler starts.
func WithRunOnStart() Option {
	return func(s *Scheduler) {
		s.runOnStart = true
	}
}

type Scheduler struct {
	name       string
	job        Job
	interval   time.Duration
	runOnStart bool

	running atomic.Bool
	wg      sync.WaitGroup
}

func New(name string, job Job, interval time.Duration, opts ...Option) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s := &Scheduler{name: name, job: job, interval: interval}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start blocks until ctx is cancelled and the in-flight run has returned.
func (s *Scheduler) Start(ctx context.Context) {
	slog.Info("Scheduler started", "job", s.name, "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	if s.runOnStart {
		s.Trigger(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			slog.Info("Scheduler stopped", "job", s.name)
			return
		case <-ticker.C:
			s.Trigger(ctx)
		}
	}
}

// Trigger starts a run in the background unless one is already in flight.
// It reports whether a run was started.
func (s *Scheduler) Trigger(ctx context.Context) bool {
	if !s.running.CompareAndSwap(false, true) {
		slog.Warn("Skipping scheduled run, previous run still in progress", "job", s.name)
		return false
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.running.Store(false)
		defer func() {
			if r := recover(); r != nil {
				slog.Error("Scheduled run panicked", "job", s.name, "panic", r)
			}
		}()

		start := time.Now()
		slog.Info("Scheduled run started", "job", s.name)
		s.job(ctx)
		slog.Info("Scheduled run finished", "job", s.name, "duration", time.Since(start))
	}()

	return true
}

// Running reports whether a run is in flight.
func (s *Scheduler) Running() bool {
	return s.running.Load()
}
