// Package scheduler runs periodic maintenance jobs inside the API process.
//
// Each job runs once at Start and then every Interval. A job never overlaps
// itself: a tick that finds the previous run still going is skipped. When a
// Locker is configured the same holds across processes.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yungbote/meraki-backend/internal/data/repos"
	"github.com/yungbote/meraki-backend/internal/pkg/batch"
	"github.com/yungbote/meraki-backend/internal/pkg/dbctx"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
)

type Job interface {
	Name() string
	Interval() time.Duration
	Run(ctx context.Context) (batch.Result, error)
}

// Locker takes a named lock shared by every process of the deployment.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, ok bool, err error)
}

// ErrSkipped is returned by RunNow when the job is already running here or elsewhere.
var ErrSkipped = errors.New("job already running")

// StudentTrackingJob is the daily roll-up of answered questions into student_try_content.
const StudentTrackingJob = "update_student_tracking"

type entry struct {
	job     Job
	running atomic.Bool
}

type Scheduler struct {
	log      *logger.Logger
	cronRepo repos.CronJobRepo
	locker   Locker
	lockTTL  time.Duration
	now      func() time.Time

	mu      sync.RWMutex
	jobs    map[string]*entry
	wg      sync.WaitGroup
	started bool
}

type Option func(*Scheduler)

// WithLocker guards runs with a distributed lock held for at most ttl.
func WithLocker(l Locker, ttl time.Duration) Option {
	return func(s *Scheduler) {
		s.locker = l
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

func New(baseLog *logger.Logger, cronRepo repos.CronJobRepo, opts ...Option) *Scheduler {
	s := &Scheduler{
		log:      baseLog.With("component", "Scheduler"),
		cronRepo: cronRepo,
		lockTTL:  30 * time.Minute,
		now:      time.Now,
		jobs:     make(map[string]*entry),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Scheduler) Register(job Job) error {
	if job == nil {
		return fmt.Errorf("nil job")
	}
	name := job.Name()
	if name == "" {
		return fmt.Errorf("job Name() is empty")
	}
	if job.Interval() <= 0 {
		return fmt.Errorf("job %s: interval must be positive", name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return fmt.Errorf("job %s: scheduler already started", name)
	}
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job already registered: %s", name)
	}
	s.jobs[name] = &entry{job: job}
	return nil
}

// Names lists registered jobs in name order.
func (s *Scheduler) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Start launches one loop per job. Loops stop when ctx is cancelled; Wait
// blocks until they have.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.started = true
	entries := make([]*entry, 0, len(s.jobs))
	for _, e := range s.jobs {
		entries = append(entries, e)
	}
	s.mu.Unlock()

	s.log.Info("Starting scheduler", "jobs", len(entries))
	for _, e := range entries {
		s.wg.Add(1)
		go s.loop(ctx, e)
	}
}

func (s *Scheduler) Wait() { s.wg.Wait() }

func (s *Scheduler) loop(ctx context.Context, e *entry) {
	defer s.wg.Done()
	name := e.job.Name()
	ticker := time.NewTicker(e.job.Interval())
	defer ticker.Stop()

	s.tick(ctx, e)
	for {
		select {
		case <-ctx.Done():
			s.log.Info("Scheduler loop stopped", "job", name)
			return
		case <-ticker.C:
			s.tick(ctx, e)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context, e *entry) {
	res, err := s.run(ctx, e)
	switch {
	case errors.Is(err, ErrSkipped):
		s.log.Info("Skipping scheduled run, previous run still active", "job", e.job.Name())
	case err != nil:
		s.log.Error("Scheduled job failed", "job", e.job.Name(), "error", err)
	default:
		s.log.Info("Scheduled job finished", "job", e.job.Name(), "succeeded", res.Succeeded, "failed", len(res.Failed))
	}
}

// RunNow runs the named job immediately, honoring the overlap guards.
func (s *Scheduler) RunNow(ctx context.Context, name string) (batch.Result, error) {
	s.mu.RLock()
	e, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return batch.Result{}, fmt.Errorf("unknown job: %s", name)
	}
	return s.run(ctx, e)
}

func (s *Scheduler) run(ctx context.Context, e *entry) (res batch.Result, err error) {
	if !e.running.CompareAndSwap(false, true) {
		return res, ErrSkipped
	}
	defer e.running.Store(false)

	name := e.job.Name()
	if s.locker != nil {
		release, ok, lerr := s.locker.Acquire(ctx, name, s.lockTTL)
		if lerr != nil {
			return res, fmt.Errorf("acquire lock: %w", lerr)
		}
		if !ok {
			return res, ErrSkipped
		}
		defer func() {
			if rerr := release(context.WithoutCancel(ctx)); rerr != nil {
				s.log.Warn("Failed to release job lock", "job", name, "error", rerr)
			}
		}()
	}

	dbc := dbctx.New(ctx)
	started := s.now()
	if s.cronRepo != nil {
		if merr := s.cronRepo.MarkRunning(dbc, name); merr != nil {
			s.log.Warn("Failed to mark job running", "job", name, "error", merr)
		}
	}

	res, err = s.safeRun(ctx, e.job)

	if s.cronRepo != nil {
		runErr := err
		if runErr == nil {
			runErr = res.Err()
		}
		next := started.Add(e.job.Interval())
		if merr := s.cronRepo.MarkFinished(dbctx.New(context.WithoutCancel(ctx)), name, started, next, runErr); merr != nil {
			s.log.Warn("Failed to record job run", "job", name, "error", merr)
		}
	}
	return res, err
}

func (s *Scheduler) safeRun(ctx context.Context, job Job) (res batch.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Job panic", "job", job.Name(), "panic", r)
			err = fmt.Errorf("job %s panicked: %v", job.Name(), r)
		}
	}()
	return job.Run(ctx)
}

type funcJob struct {
	name     string
	interval time.Duration
	fn       func(ctx context.Context) (batch.Result, error)
}

// Every adapts fn into a Job that runs every interval.
func Every(name string, interval time.Duration, fn func(ctx context.Context) (batch.Result, error)) Job {
	return &funcJob{name: name, interval: interval, fn: fn}
}

func (j *funcJob) Name() string            { return j.name }
func (j *funcJob) Interval() time.Duration { return j.interval }
func (j *funcJob) Run(ctx context.Context) (batch.Result, error) {
	return j.fn(ctx)
}
