package app

import (
	"fmt"

	"github.com/yungbote/meraki-backend/internal/clients/redis"
	"github.com/yungbote/meraki-backend/internal/jobs/scheduler"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
)

// wireScheduler registers the daily tracking job. The Redis lock is optional;
// without it only the in-process overlap guard applies.
func wireScheduler(log *logger.Logger, cfg Config, r Repos, services Services) (*scheduler.Scheduler, *redis.Locker, error) {
	log.Info("Wiring scheduler...")
	opts := []scheduler.Option{}
	var locker *redis.Locker
	if cfg.RedisAddr != "" {
		l, err := redis.NewLocker(log, cfg.RedisAddr, cfg.RedisLockPrefix)
		if err != nil {
			log.Warn("Redis job lock unavailable, continuing without it", "error", err)
		} else {
			locker = l
			opts = append(opts, scheduler.WithLocker(l, cfg.JobLockTTL))
		}
	}
	s := scheduler.New(log, r.CronJob, opts...)
	job := scheduler.Every(scheduler.StudentTrackingJob, cfg.TrackingInterval, services.Tracking.UpdateStudentTracking)
	if err := s.Register(job); err != nil {
		if locker != nil {
			_ = locker.Close()
		}
		return nil, nil, fmt.Errorf("register %s: %w", scheduler.StudentTrackingJob, err)
	}
	return s, locker, nil
}
