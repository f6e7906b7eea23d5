package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yungbote/meraki-backend/internal/data/repos"
	"github.com/yungbote/meraki-backend/internal/data/repos/testutil"
	types "github.com/yungbote/meraki-backend/internal/domain"
	"github.com/yungbote/meraki-backend/internal/pkg/batch"
	"github.com/yungbote/meraki-backend/internal/pkg/dbctx"
)

type fakeLocker struct {
	mu       sync.Mutex
	held     map[string]bool
	refuse   bool
	acquired int
}

func (l *fakeLocker) Acquire(_ context.Context, key string, _ time.Duration) (func(context.Context) error, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.refuse || l.held[key] {
		return nil, false, nil
	}
	if l.held == nil {
		l.held = map[string]bool{}
	}
	l.held[key] = true
	l.acquired++
	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, key)
		return nil
	}, true, nil
}

func newCronRepo(t *testing.T) repos.CronJobRepo {
	t.Helper()
	_, tx := testutil.DBC(t)
	return repos.NewCronJobRepo(tx, testutil.Logger(t))
}

func TestRunNowRecordsCronJob(t *testing.T) {
	cronRepo := newCronRepo(t)
	at := time.Date(2026, 4, 14, 2, 0, 0, 0, time.UTC)
	s := New(testutil.Logger(t), cronRepo, WithClock(func() time.Time { return at }))

	job := Every(StudentTrackingJob, 24*time.Hour, func(context.Context) (batch.Result, error) {
		return batch.Result{Succeeded: 3}, nil
	})
	if err := s.Register(job); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := s.Register(job); err == nil {
		t.Fatal("duplicate registration accepted")
	}

	res, err := s.RunNow(context.Background(), StudentTrackingJob)
	if err != nil || res.Succeeded != 3 {
		t.Fatalf("RunNow: %v %+v", err, res)
	}
	row, err := cronRepo.Get(dbctx.New(context.Background()), StudentTrackingJob)
	if err != nil || row == nil {
		t.Fatalf("cron row: %v %+v", err, row)
	}
	if row.Status != types.CronStatusSucceeded || row.LastRun == nil || !row.NextRun.Equal(at.Add(24*time.Hour)) {
		t.Fatalf("unexpected cron row: %+v", row)
	}

	if _, err := s.RunNow(context.Background(), "nope"); err == nil {
		t.Fatal("unknown job should error")
	}
}

func TestRunNowRecordsFailure(t *testing.T) {
	cronRepo := newCronRepo(t)
	s := New(testutil.Logger(t), cronRepo)
	_ = s.Register(Every("boom", time.Hour, func(context.Context) (batch.Result, error) {
		panic("kaput")
	}))
	_ = s.Register(Every("partial", time.Hour, func(context.Context) (batch.Result, error) {
		var r batch.Result
		r.Ok()
		r.Fail("GV0001/C1", errors.New("constraint"))
		return r, nil
	}))

	if _, err := s.RunNow(context.Background(), "boom"); err == nil {
		t.Fatal("panic should surface as error")
	}
	row, _ := cronRepo.Get(dbctx.New(context.Background()), "boom")
	if row == nil || row.Status != types.CronStatusFailed || row.LastError == "" {
		t.Fatalf("boom row: %+v", row)
	}

	if _, err := s.RunNow(context.Background(), "partial"); err != nil {
		t.Fatalf("partial: %v", err)
	}
	row, _ = cronRepo.Get(dbctx.New(context.Background()), "partial")
	if row == nil || row.Status != types.CronStatusFailed {
		t.Fatalf("partial row: %+v", row)
	}
}

func TestOverlapIsSkipped(t *testing.T) {
	s := New(testutil.Logger(t), nil)
	release := make(chan struct{})
	started := make(chan struct{})
	var runs atomic.Int32
	_ = s.Register(Every("slow", time.Hour, func(ctx context.Context) (batch.Result, error) {
		runs.Add(1)
		close(started)
		<-release
		return batch.Result{}, nil
	}))

	done := make(chan error, 1)
	go func() {
		_, err := s.RunNow(context.Background(), "slow")
		done <- err
	}()
	<-started
	if _, err := s.RunNow(context.Background(), "slow"); !errors.Is(err, ErrSkipped) {
		t.Fatalf("overlapping run err=%v want ErrSkipped", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first run: %v", err)
	}
	if runs.Load() != 1 {
		t.Fatalf("runs=%d want=1", runs.Load())
	}
}

func TestLockerGuardsRuns(t *testing.T) {
	locker := &fakeLocker{refuse: true}
	s := New(testutil.Logger(t), nil, WithLocker(locker, time.Minute))
	var runs atomic.Int32
	_ = s.Register(Every("locked", time.Hour, func(context.Context) (batch.Result, error) {
		runs.Add(1)
		return batch.Result{}, nil
	}))

	if _, err := s.RunNow(context.Background(), "locked"); !errors.Is(err, ErrSkipped) {
		t.Fatalf("err=%v want ErrSkipped", err)
	}
	locker.refuse = false
	if _, err := s.RunNow(context.Background(), "locked"); err != nil {
		t.Fatalf("RunNow: %v", err)
	}
	if runs.Load() != 1 || locker.acquired != 1 || len(locker.held) != 0 {
		t.Fatalf("runs=%d acquired=%d held=%v", runs.Load(), locker.acquired, locker.held)
	}
}

func TestStartRunsImmediatelyAndStops(t *testing.T) {
	s := New(testutil.Logger(t), nil)
	ran := make(chan struct{}, 4)
	_ = s.Register(Every("tick", time.Hour, func(context.Context) (batch.Result, error) {
		ran <- struct{}{}
		return batch.Result{}, nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not run at start")
	}
	cancel()
	s.Wait()

	if err := s.Register(Every("late", time.Hour, func(context.Context) (batch.Result, error) { return batch.Result{}, nil })); err == nil {
		t.Fatal("register after start should fail")
	}
}
