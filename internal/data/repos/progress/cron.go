package progress

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/meraki-backend/internal/domain"
	"github.com/yungbote/meraki-backend/internal/pkg/dbctx"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
)

type CronJobRepo interface {
	Get(dbc dbctx.Context, jobName string) (*types.CronJob, error)
	MarkRunning(dbc dbctx.Context, jobName string) error
	MarkFinished(dbc dbctx.Context, jobName string, lastRun, nextRun time.Time, runErr error) error
}

type cronJobRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCronJobRepo(db *gorm.DB, baseLog *logger.Logger) CronJobRepo {
	return &cronJobRepo{db: db, log: baseLog.With("repo", "CronJobRepo")}
}

func (r *cronJobRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *cronJobRepo) Get(dbc dbctx.Context, jobName string) (*types.CronJob, error) {
	if jobName == "" {
		return nil, nil
	}
	var row types.CronJob
	if err := r.dbx(dbc).WithContext(dbc.Ctx).Where("job_name = ?", jobName).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *cronJobRepo) MarkRunning(dbc dbctx.Context, jobName string) error {
	row := &types.CronJob{JobName: jobName, Status: types.CronStatusRunning}
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "job_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
		}).
		Create(row).Error
}

// MarkFinished stores the run times and outcome. A nil runErr marks success
// and clears the previous error.
func (r *cronJobRepo) MarkFinished(dbc dbctx.Context, jobName string, lastRun, nextRun time.Time, runErr error) error {
	last, next := lastRun.UTC(), nextRun.UTC()
	row := &types.CronJob{
		JobName: jobName,
		LastRun: &last,
		NextRun: &next,
		Status:  types.CronStatusSucceeded,
	}
	if runErr != nil {
		row.Status = types.CronStatusFailed
		row.LastError = runErr.Error()
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "job_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_run", "next_run", "status", "last_error", "updated_at"}),
		}).
		Create(row).Error
}
