// Package scheduler runs background jobs on a fixed interval.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrInvalidConfig is returned by Start for an enabled scheduler without a
// positive interval
var ErrInvalidConfig = errors.New("invalid scheduler configuration")

// Job is one unit of periodic work
type Job interface {
	Run(ctx context.Context) error
}

// JobFunc adapts a plain function to Job
type JobFunc func(ctx context.Context) error

func (f JobFunc) Run(ctx context.Context) error { return f(ctx) }

// IntervalSchedulerConfig configures one IntervalScheduler
type IntervalSchedulerConfig struct {
	Name     string // appears as the job field in logs
	Enabled  bool
	Interval time.Duration
	// RunTimeout bounds a single run. Zero leaves runs unbounded; they
	// still never overlap.
	RunTimeout time.Duration
	// RunOnStart runs the job once right after Start instead of waiting a
	// full interval.
	RunOnStart bool
}

// IntervalScheduler runs one job per tick until stopped. Runs never overlap:
// a tick that fires during a slow run is dropped by the ticker.
type IntervalScheduler struct {
	job    Job
	logger *zap.Logger
	config IntervalSchedulerConfig

	mu      sync.Mutex
	stop    context.CancelFunc
	done    chan struct{} // closed when the loop exits; nil when not started
	lastRun time.Time
	lastErr error
}

// NewIntervalScheduler creates a scheduler for job. Nothing runs until Start.
func NewIntervalScheduler(job Job, logger *zap.Logger, config IntervalSchedulerConfig) *IntervalScheduler {
	return &IntervalScheduler{
		job:    job,
		logger: logger.With(zap.String("job", config.Name)),
		config: config,
	}
}

// Start launches the loop. It is a no-op when the scheduler is disabled or
// already running.
func (s *IntervalScheduler) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.logger.Info("Scheduler is disabled")
		return nil
	}
	if s.config.Interval <= 0 {
		return fmt.Errorf("%w: %s interval must be positive", ErrInvalidConfig, s.config.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		return nil
	}
	ctx, s.stop = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go s.loop(ctx, s.done)

	s.logger.Info("Scheduler started", zap.Duration("interval", s.config.Interval))
	return nil
}

// Stop cancels the loop and waits for an in-flight run, or for ctx.
func (s *IntervalScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()
	if done == nil {
		return nil
	}

	stop()
	select {
	case <-done:
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether the loop has been started and not yet stopped
func (s *IntervalScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done != nil
}

// LastRun reports when the job last finished and what it returned
func (s *IntervalScheduler) LastRun() (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun, s.lastErr
}

func (s *IntervalScheduler) loop(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	if s.config.RunOnStart {
		s.runOnce(ctx)
	}
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *IntervalScheduler) runOnce(ctx context.Context) {
	runCtx, cancel := ctx, context.CancelFunc(func() {})
	if s.config.RunTimeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, s.config.RunTimeout)
	}
	err := s.job.Run(runCtx)
	cancel()

	s.mu.Lock()
	s.lastRun, s.lastErr = time.Now(), err
	s.mu.Unlock()

	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("Scheduled run failed", zap.Error(err))
	}
}
