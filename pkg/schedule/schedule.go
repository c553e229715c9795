// Package schedule runs named jobs on cron expressions with cancellation,
// panic recovery and an orderly shutdown that waits for running jobs.
//
//	s := schedule.New(logger)
//	_ = s.Add("0 9 * * *", func(ctx context.Context) error {
//	    return postSongOfTheDay(ctx)
//	})
//	s.Start()
//	defer s.Shutdown(ctx)
package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// ErrStopped is returned by Add after Shutdown.
var ErrStopped = errors.New("scheduler is stopped")

// Job is one unit of scheduled work. ctx is cancelled on Shutdown.
type Job func(ctx context.Context) error

// Scheduler is safe for concurrent use.
type Scheduler struct {
	cron   *cron.Cron
	log    zerolog.Logger
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	names   map[cron.EntryID]string
	running map[string]int
	stopped bool
}

type Option func(*[]cron.Option)

// WithSeconds accepts six-field expressions with a leading seconds field.
func WithSeconds() Option {
	return func(o *[]cron.Option) { *o = append(*o, cron.WithSeconds()) }
}

func New(logger zerolog.Logger, opts ...Option) *Scheduler {
	adapter := cronLogger{log: logger}
	cronOpts := []cron.Option{
		cron.WithLogger(adapter),
		cron.WithChain(cron.Recover(adapter), cron.SkipIfStillRunning(adapter)),
	}
	for _, opt := range opts {
		opt(&cronOpts)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:    cron.New(cronOpts...),
		log:     logger,
		ctx:     ctx,
		cancel:  cancel,
		names:   make(map[cron.EntryID]string),
		running: make(map[string]int),
	}
}

// Add schedules job under an automatic name.
func (s *Scheduler) Add(spec string, job func(ctx context.Context) error) error {
	return s.AddNamed(fmt.Sprintf("job-%d", s.Len()+1), spec, job)
}

// AddNamed schedules job; name shows up in logs and Status.
func (s *Scheduler) AddNamed(name, spec string, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ErrStopped
	}
	id, err := s.cron.AddFunc(spec, func() { s.run(name, job) })
	if err != nil {
		return fmt.Errorf("schedule %s %q: %w", name, spec, err)
	}
	s.names[id] = name
	return nil
}

func (s *Scheduler) run(name string, job Job) {
	s.track(name, 1)
	defer s.track(name, -1)

	log := s.log.With().Str("job", name).Logger()
	log.Debug().Msg("job running")
	if err := job(s.ctx); err != nil {
		log.Error().Err(err).Msg("job failed")
		return
	}
	log.Debug().Msg("job done")
}

func (s *Scheduler) track(name string, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running[name] += delta
	if s.running[name] <= 0 {
		delete(s.running, name)
	}
}

// Start begins firing jobs. It does not block.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Shutdown stops firing new jobs, cancels the context of running ones and
// waits for them to return or for ctx to end.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	done := s.cron.Stop()
	s.cancel()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for running jobs: %w", ctx.Err())
	}
}

// Len returns the number of scheduled jobs.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.names)
}

// Running returns the names of jobs running right now.
func (s *Scheduler) Running() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.running))
	for name := range s.running {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Status returns a human-readable summary of running jobs.
func (s *Scheduler) Status() string {
	active := s.Running()
	if len(active) == 0 {
		return "No jobs are running."
	}
	return fmt.Sprintf("Running jobs: %s", strings.Join(active, ", "))
}

// cronLogger routes cron's own logging into zerolog.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
