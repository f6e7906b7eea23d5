package progress

import "time"

const (
	CronStatusRunning   = "running"
	CronStatusSucceeded = "succeeded"
	CronStatusFailed    = "failed"
)

// CronJob records the last and next run of a scheduled maintenance job.
type CronJob struct {
	JobName   string     `gorm:"column:job_name;primaryKey" json:"job_name"`
	LastRun   *time.Time `gorm:"column:last_run" json:"last_run"`
	NextRun   *time.Time `gorm:"column:next_run" json:"next_run"`
	Status    string     `gorm:"column:status" json:"status"`
	LastError string     `gorm:"column:last_error" json:"last_error,omitempty"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (CronJob) TableName() string { return "cron_jobs" }
