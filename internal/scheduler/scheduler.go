// Package scheduler triggers recurring jobs from cron expressions.
//
// It wraps github.com/robfig/cron/v3. Expressions use the standard five
// fields (minute hour day-of-month month day-of-week), an optional leading
// seconds field, and descriptors such as "@daily" or "@every 1h". A job
// still running when its next tick arrives is skipped, so two crawls never
// overlap.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrNoJobs is returned by Run when no job has been added.
var ErrNoJobs = errors.New("no jobs scheduled")

// parser accepts 5-field expressions, 6-field expressions with seconds,
// and descriptors.
var parser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Job is the work run on every tick. ctx is cancelled when Run returns.
type Job func(ctx context.Context)

type entry struct {
	name string
	spec string
	job  Job
}

// Scheduler runs jobs on cron schedules until its context is cancelled.
type Scheduler struct {
	entries []entry
	logger  *slog.Logger
}

// New creates a Scheduler. A nil logger falls back to slog.Default().
func New(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{logger: logger}
}

// Validate reports whether spec is an accepted cron expression.
func Validate(spec string) error {
	if _, err := parser.Parse(spec); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}
	return nil
}

// Next returns the first activation of spec after t.
func Next(spec string, t time.Time) (time.Time, error) {
	schedule, err := parser.Parse(spec)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}
	return schedule.Next(t), nil
}

// Add registers job under name to run on spec.
func (s *Scheduler) Add(name, spec string, job Job) error {
	if err := Validate(spec); err != nil {
		return err
	}
	s.entries = append(s.entries, entry{name: name, spec: spec, job: job})
	return nil
}

// Run starts the registered jobs and blocks until ctx is done. It waits for
// running jobs to finish before returning.
func (s *Scheduler) Run(ctx context.Context) error {
	if len(s.entries) == 0 {
		return ErrNoJobs
	}

	cl := cronLogger{logger: s.logger}
	c := cron.New(
		cron.WithParser(parser),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	for _, e := range s.entries {
		if _, err := c.AddFunc(e.spec, func() {
			s.logger.Info("scheduled job triggered", "job", e.name)
			start := time.Now()
			e.job(ctx)
			s.logger.Info("scheduled job finished", "job", e.name, "duration", time.Since(start))
		}); err != nil {
			return fmt.Errorf("failed to schedule %s: %w", e.name, err)
		}
		if next, err := Next(e.spec, time.Now()); err == nil {
			s.logger.Info("job scheduled", "job", e.name, "schedule", e.spec, "next_run", next)
		}
	}

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

// cronLogger adapts slog to the cron.Logger interface.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
