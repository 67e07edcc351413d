package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	robfig "github.com/robfig/cron/v3"
)

// Job represents a scheduled job
type Job struct {
	Name    string
	Spec    string
	Timeout time.Duration
	Fn      func(ctx context.Context) error
}

// Scheduler runs jobs on standard five-field cron expressions.
// Overlapping runs of the same job are skipped.
type Scheduler struct {
	cron   *robfig.Cron
	jobs   []Job
	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewScheduler creates a new cron scheduler evaluating specs in loc
func NewScheduler(loc *time.Location) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: robfig.New(
			robfig.WithLocation(loc),
			robfig.WithChain(robfig.SkipIfStillRunning(robfig.DefaultLogger)),
		),
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddJob registers fn under spec. A zero timeout lets a run last until Stop.
func (s *Scheduler) AddJob(name string, spec string, timeout time.Duration, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job := Job{Name: name, Spec: spec, Timeout: timeout, Fn: fn}
	if _, err := s.cron.AddFunc(spec, func() { s.executeJob(s.ctx, job) }); err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", spec, name, err)
	}

	s.jobs = append(s.jobs, job)
	slog.Info("Cron job registered", "name", name, "schedule", spec)
	return nil
}

// Start begins running all scheduled jobs
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cron.Start()
	slog.Info("Cron scheduler started", "job_count", len(s.jobs))
}

// Stop cancels running jobs and waits for them to return
func (s *Scheduler) Stop() {
	slog.Info("Stopping cron scheduler...")
	s.cancel()
	<-s.cron.Stop().Done()
	slog.Info("Cron scheduler stopped")
}

// executeJob executes a job and logs results
func (s *Scheduler) executeJob(ctx context.Context, job Job) {
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}

	start := time.Now()
	slog.Info("Cron job starting", "name", job.Name)

	if err := job.Fn(ctx); err != nil {
		slog.Error("Cron job failed", "name", job.Name, "error", err, "duration", time.Since(start))
	} else {
		slog.Info("Cron job completed", "name", job.Name, "duration", time.Since(start))
	}
}

// RunOnce runs all jobs once (useful for testing)
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	jobs := append([]Job(nil), s.jobs...)
	s.mu.Unlock()

	for _, job := range jobs {
		s.executeJob(ctx, job)
	}
}

// Jobs returns the registered jobs in registration order
func (s *Scheduler) Jobs() []Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Job(nil), s.jobs...)
}
