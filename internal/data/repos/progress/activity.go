package progress

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/meraki-backend/internal/domain"
	"github.com/yungbote/meraki-backend/internal/pkg/dbctx"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
)

type DailyActivityRepo interface {
	Get(dbc dbctx.Context, studentID string, day time.Time) (*types.DailyActivity, error)
	Record(dbc dbctx.Context, studentID string, day time.Time, points int) (*types.DailyActivity, error)
	TotalPoints(dbc dbctx.Context, limit int) ([]types.PointsEntry, error)
	DayCounts(dbc dbctx.Context, day time.Time, limit int) ([]types.CountEntry, error)
	WeekCounts(dbc dbctx.Context, since time.Time, limit int) ([]types.CountEntry, error)
}

type dailyActivityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDailyActivityRepo(db *gorm.DB, baseLog *logger.Logger) DailyActivityRepo {
	return &dailyActivityRepo{db: db, log: baseLog.With("repo", "DailyActivityRepo")}
}

func (r *dailyActivityRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *dailyActivityRepo) Get(dbc dbctx.Context, studentID string, day time.Time) (*types.DailyActivity, error) {
	if studentID == "" {
		return nil, nil
	}
	var row types.DailyActivity
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("student_id = ? AND activity_date = ?", studentID, types.Day(day)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// Record adds one activity worth points to the student's row for day,
// creating the row on the first activity of the day.
func (r *dailyActivityRepo) Record(dbc dbctx.Context, studentID string, day time.Time, points int) (*types.DailyActivity, error) {
	d := types.Day(day)
	row := &types.DailyActivity{
		ID:              uuid.NewString(),
		StudentID:       studentID,
		ActivityDate:    d,
		ActivitiesCount: 1,
		PointsEarned:    points,
	}
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "student_id"}, {Name: "activity_date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"activities_count": gorm.Expr("daily_activities.activities_count + 1"),
				"points_earned":    gorm.Expr("daily_activities.points_earned + ?", points),
			}),
		}).
		Create(row).Error
	if err != nil {
		return nil, err
	}
	return r.Get(dbc, studentID, d)
}

func (r *dailyActivityRepo) TotalPoints(dbc dbctx.Context, limit int) ([]types.PointsEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	out := []types.PointsEntry{}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Table("daily_activities AS d").
		Select("d.student_id AS student_id, SUM(d.points_earned) AS total_points, COALESCE(u.full_name, '') AS full_name").
		Joins("LEFT JOIN users u ON u.id = d.student_id").
		Group("d.student_id, u.full_name").
		Order("SUM(d.points_earned) DESC").Order("d.student_id ASC").
		Limit(limit).
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *dailyActivityRepo) DayCounts(dbc dbctx.Context, day time.Time, limit int) ([]types.CountEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	out := []types.CountEntry{}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Table("daily_activities AS d").
		Select("d.student_id AS student_id, d.activities_count AS count, COALESCE(u.full_name, '') AS full_name").
		Joins("LEFT JOIN users u ON u.id = d.student_id").
		Where("d.activity_date = ?", types.Day(day)).
		Order("d.activities_count DESC").Order("d.student_id ASC").
		Limit(limit).
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// WeekCounts sums activities on or after since.
func (r *dailyActivityRepo) WeekCounts(dbc dbctx.Context, since time.Time, limit int) ([]types.CountEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	out := []types.CountEntry{}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Table("daily_activities AS d").
		Select("d.student_id AS student_id, SUM(d.activities_count) AS count, COALESCE(u.full_name, '') AS full_name").
		Joins("LEFT JOIN users u ON u.id = d.student_id").
		Where("d.activity_date >= ?", types.Day(since)).
		Group("d.student_id, u.full_name").
		Order("SUM(d.activities_count) DESC").Order("d.student_id ASC").
		Limit(limit).
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
