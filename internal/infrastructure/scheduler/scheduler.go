package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// JobStatus represents the status of the last run of a job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// JobFunc is the work of a periodic job
type JobFunc func(ctx context.Context) error

// JobConfig describes a periodic job
type JobConfig struct {
	Name       string
	Interval   time.Duration
	Timeout    time.Duration // per run, defaults to Interval
	RunOnStart bool          // run once immediately on Start
}

// JobState is a snapshot of a job's last run
type JobState struct {
	Name        string
	Status      JobStatus
	Error       string
	Runs        int
	StartedAt   *time.Time
	CompletedAt *time.Time
}

type job struct {
	cfg   JobConfig
	run   JobFunc
	mu    sync.Mutex
	state JobState
}

func (j *job) start() {
	j.mu.Lock()
	defer j.mu.Unlock()
	now := time.Now()
	j.state.Status = JobStatusRunning
	j.state.StartedAt = &now
	j.state.Error = ""
}

func (j *job) finish(err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	now := time.Now()
	j.state.Runs++
	j.state.CompletedAt = &now
	if err != nil {
		j.state.Status = JobStatusFailed
		j.state.Error = err.Error()
		return
	}
	j.state.Status = JobStatusSuccess
}

func (j *job) snapshot() JobState {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// Scheduler runs registered jobs on fixed intervals. A failed run is logged
// and the job keeps its schedule; errors never leave the scheduler.
type Scheduler struct {
	logger *zap.Logger

	jobs      map[string]*job
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewScheduler creates a new scheduler instance
func NewScheduler(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		logger: logger,
		jobs:   make(map[string]*job),
	}
}

// Register adds a job. Jobs must be registered before Start.
func (s *Scheduler) Register(cfg JobConfig, run JobFunc) error {
	if cfg.Name == "" || cfg.Interval <= 0 || run == nil {
		return fmt.Errorf("%w: job %q needs a name, a positive interval and a func", ErrInvalidConfig, cfg.Name)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = cfg.Interval
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return ErrSchedulerRunning
	}
	if _, ok := s.jobs[cfg.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, cfg.Name)
	}
	s.jobs[cfg.Name] = &job{
		cfg:   cfg,
		run:   run,
		state: JobState{Name: cfg.Name, Status: JobStatusPending},
	}
	return nil
}

// Start starts one goroutine per job
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	s.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for _, j := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, j)
	}

	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.jobs)))
	return nil
}

// Stop cancels the jobs and waits for running ones until ctx is done
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

// State returns the last run state of the named job
func (s *Scheduler) State(name string) (JobState, error) {
	s.mu.Lock()
	j, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return JobState{}, ErrJobNotFound
	}
	return j.snapshot(), nil
}

func (s *Scheduler) loop(ctx context.Context, j *job) {
	defer s.wg.Done()

	if j.cfg.RunOnStart {
		s.execute(ctx, j)
	}

	ticker := time.NewTicker(j.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Job stopping", zap.String("job", j.cfg.Name))
			return
		case <-ticker.C:
			s.execute(ctx, j)
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, j *job) {
	j.start()

	runCtx, cancel := context.WithTimeout(ctx, j.cfg.Timeout)
	defer cancel()

	err := s.safeRun(runCtx, j)
	j.finish(err)
	if err != nil {
		s.logger.Error("Job failed",
			zap.String("job", j.cfg.Name),
			zap.Error(err),
		)
		return
	}
	s.logger.Debug("Job completed", zap.String("job", j.cfg.Name))
}

func (s *Scheduler) safeRun(ctx context.Context, j *job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return j.run(ctx)
}
