// Package scheduler runs the hub's periodic jobs: the follow-up sweep
// that nudges quiet invitations and the nightly engagement check. One
// goroutine ticks once a second and fires whatever is due; each firing
// runs in its own goroutine so a slow sweep never delays the nightly
// check.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Job is one unit of periodic work.
type Job interface {
	// Name must be unique within a scheduler.
	Name() string

	// Description is shown in logs and job listings.
	Description() string

	// Run does the work. The context is cancelled on shutdown.
	Run(ctx context.Context) error
}

// Schedule decides when a job fires.
type Schedule interface {
	// Next returns the first firing strictly after t.
	Next(t time.Time) time.Time

	String() string
}

var (
	ErrNilJob         = errors.New("job cannot be nil")
	ErrNilSchedule    = errors.New("schedule cannot be nil")
	ErrDuplicateJob   = errors.New("job already registered")
	ErrAlreadyRunning = errors.New("scheduler is already running")
	ErrNotRunning     = errors.New("scheduler is not running")
)

// SchedulerConfig configures a Scheduler.
type SchedulerConfig struct {
	Logger *slog.Logger

	// Timezone drives schedule evaluation; cron hours are read in it.
	Timezone *time.Location
}

// DefaultSchedulerConfig returns UTC scheduling with the default logger.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Logger:   slog.Default(),
		Timezone: time.UTC,
	}
}

// entry is a registered job plus its firing state.
type entry struct {
	job      Job
	schedule Schedule
	nextRun  time.Time
	lastRun  time.Time
	runs     int64
	failures int64
}

// Scheduler owns the tick loop and the registered jobs.
type Scheduler struct {
	mu sync.Mutex

	log      *slog.Logger
	location *time.Location

	entries map[string]*entry
	onError func(jobName string, err error)

	running bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(cfg SchedulerConfig) *Scheduler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Timezone == nil {
		cfg.Timezone = time.UTC
	}
	return &Scheduler{
		log:      cfg.Logger,
		location: cfg.Timezone,
		entries:  make(map[string]*entry),
	}
}

// Register adds a job. Jobs can be registered before or after Start.
func (s *Scheduler) Register(job Job, schedule Schedule) error {
	if job == nil {
		return ErrNilJob
	}
	if schedule == nil {
		return ErrNilSchedule
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := job.Name()
	if _, ok := s.entries[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, name)
	}

	e := &entry{
		job:      job,
		schedule: schedule,
		nextRun:  schedule.Next(time.Now().In(s.location)),
	}
	s.entries[name] = e

	s.log.Info("job registered",
		"job", name,
		"description", job.Description(),
		"next_run", e.nextRun.Format(time.RFC3339),
	)
	return nil
}

// OnJobError installs a callback invoked after every failed run.
func (s *Scheduler) OnJobError(fn func(jobName string, err error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onError = fn
}

// Start launches the tick loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.running = true

	s.wg.Add(1)
	go s.loop()

	s.log.Info("scheduler started", "jobs", len(s.entries))
	return nil
}

// Stop cancels the loop and waits for in-flight jobs to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return ErrNotRunning
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Info("scheduler stopped")
	return nil
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.fireDue(time.Now().In(s.location))
		}
	}
}

// fireDue advances nextRun before launching, so a job that outlives its
// own interval does not pile up concurrent runs of itself faster than
// one per tick.
func (s *Scheduler) fireDue(now time.Time) {
	s.mu.Lock()
	var due []*entry
	for _, e := range s.entries {
		if !e.nextRun.IsZero() && now.After(e.nextRun) {
			e.lastRun = now
			e.nextRun = e.schedule.Next(now)
			e.runs++
			due = append(due, e)
		}
	}
	s.mu.Unlock()

	for _, e := range due {
		s.wg.Add(1)
		go s.run(e)
	}
}

func (s *Scheduler) run(e *entry) {
	defer s.wg.Done()

	name := e.job.Name()
	start := time.Now()
	s.log.Info("job started", "job", name)

	err := e.job.Run(s.ctx)
	elapsed := time.Since(start)

	if err != nil {
		s.mu.Lock()
		e.failures++
		onError := s.onError
		s.mu.Unlock()

		s.log.Error("job failed", "job", name, "duration", elapsed.String(), "error", err)
		if onError != nil {
			onError(name, err)
		}
		return
	}

	s.log.Info("job completed", "job", name, "duration", elapsed.String())
}

// JobInfo is a read-only snapshot of one registered job.
type JobInfo struct {
	Name        string
	Description string
	Schedule    string
	LastRun     time.Time
	NextRun     time.Time
	Runs        int64
	Failures    int64
}

// Jobs lists every registered job with its firing state.
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	infos := make([]JobInfo, 0, len(s.entries))
	for name, e := range s.entries {
		infos = append(infos, JobInfo{
			Name:        name,
			Description: e.job.Description(),
			Schedule:    e.schedule.String(),
			LastRun:     e.lastRun,
			NextRun:     e.nextRun,
			Runs:        e.runs,
			Failures:    e.failures,
		})
	}
	return infos
}
