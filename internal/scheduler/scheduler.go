package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"property-card-be/internal/pkg/lock"
	"property-card-be/internal/pkg/logger"
)

// Job is one scheduled unit of work. Run must be safe to call concurrently
// with itself on another instance; the conditional writes in the repositories
// carry that guarantee, the locker only reduces duplicate work.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Schedule decides when a job fires.
type Schedule interface {
	// NextAfter returns the first fire time strictly after t.
	NextAfter(t time.Time) time.Time
	String() string
}

// Every fires on a fixed interval.
type Every struct {
	Interval time.Duration
}

func (s Every) NextAfter(t time.Time) time.Time {
	return t.Add(s.Interval)
}

func (s Every) String() string {
	return "every " + s.Interval.String()
}

// DailyAt fires once a day at a local wall-clock time.
type DailyAt struct {
	Hour   int
	Minute int
}

// ParseDailyAt parses "HH:MM" into a daily schedule.
func ParseDailyAt(value string) (DailyAt, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return DailyAt{}, fmt.Errorf("invalid daily schedule %q, expected HH:MM", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return DailyAt{}, fmt.Errorf("invalid hour in daily schedule %q", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return DailyAt{}, fmt.Errorf("invalid minute in daily schedule %q", value)
	}
	return DailyAt{Hour: hour, Minute: minute}, nil
}

func (s DailyAt) NextAfter(t time.Time) time.Time {
	next := time.Date(t.Year(), t.Month(), t.Day(), s.Hour, s.Minute, 0, 0, t.Location())
	if !next.After(t) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (s DailyAt) String() string {
	return fmt.Sprintf("daily at %02d:%02d", s.Hour, s.Minute)
}

type entry struct {
	job      Job
	schedule Schedule
	lockTTL  time.Duration
}

// Scheduler runs registered jobs on their schedules until the context is
// cancelled. One goroutine per job, panics recovered per tick.
type Scheduler struct {
	locker  lock.JobLocker
	logger  logger.ILogger
	entries []entry
	wg      sync.WaitGroup
}

func NewScheduler(locker lock.JobLocker, log logger.ILogger) *Scheduler {
	if locker == nil {
		locker = lock.NoopJobLocker{}
	}
	return &Scheduler{
		locker: locker,
		logger: log,
	}
}

// Register adds a job. lockTTL bounds how long one instance holds the
// cross-instance lock for a tick; it should exceed the job's expected
// runtime.
func (s *Scheduler) Register(job Job, schedule Schedule, lockTTL time.Duration) {
	s.entries = append(s.entries, entry{job: job, schedule: schedule, lockTTL: lockTTL})
}

// Start launches all registered jobs and returns immediately.
func (s *Scheduler) Start(ctx context.Context) {
	for _, e := range s.entries {
		e := e
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runLoop(ctx, e)
		}()
		s.logger.Info("Scheduler", "Job scheduled", map[string]interface{}{
			"job":      e.job.Name,
			"schedule": e.schedule.String(),
		})
	}
}

// Wait blocks until all job loops have exited.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) runLoop(ctx context.Context, e entry) {
	timer := time.NewTimer(time.Until(e.schedule.NextAfter(time.Now())))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			s.tick(ctx, e)
			timer.Reset(time.Until(e.schedule.NextAfter(time.Now())))
		}
	}
}

func (s *Scheduler) tick(ctx context.Context, e entry) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Scheduler", "Job panicked", map[string]interface{}{
				"job":   e.job.Name,
				"panic": fmt.Sprintf("%v", r),
			})
		}
	}()

	acquired, err := s.locker.Acquire(ctx, e.job.Name, e.lockTTL)
	if err != nil {
		// A broken locker must not silence the jobs; run anyway and let the
		// conditional writes absorb any duplication.
		s.logger.Warn("Scheduler", "Job lock unavailable, running unlocked", map[string]interface{}{
			"job":   e.job.Name,
			"error": err.Error(),
		})
	} else if !acquired {
		s.logger.Debug("Scheduler", "Job tick taken by another instance", map[string]interface{}{
			"job": e.job.Name,
		})
		return
	} else {
		defer s.locker.Release(ctx, e.job.Name)
	}

	started := time.Now()
	if err := e.job.Run(ctx); err != nil {
		s.logger.Error("Scheduler", "Job run failed", map[string]interface{}{
			"job":      e.job.Name,
			"duration": time.Since(started).String(),
			"error":    err.Error(),
		})
		return
	}
	s.logger.Info("Scheduler", "Job run completed", map[string]interface{}{
		"job":      e.job.Name,
		"duration": time.Since(started).String(),
	})
}
