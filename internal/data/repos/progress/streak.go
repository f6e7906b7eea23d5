package progress

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/meraki-backend/internal/domain"
	"github.com/yungbote/meraki-backend/internal/pkg/dbctx"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
)

type StudentStreakRepo interface {
	Get(dbc dbctx.Context, studentID string) (*types.StudentStreak, error)
	Save(dbc dbctx.Context, row *types.StudentStreak) error
	Leaderboard(dbc dbctx.Context, limit int) ([]types.StreakEntry, error)
}

type studentStreakRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudentStreakRepo(db *gorm.DB, baseLog *logger.Logger) StudentStreakRepo {
	return &studentStreakRepo{db: db, log: baseLog.With("repo", "StudentStreakRepo")}
}

func (r *studentStreakRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *studentStreakRepo) Get(dbc dbctx.Context, studentID string) (*types.StudentStreak, error) {
	if studentID == "" {
		return nil, nil
	}
	var row types.StudentStreak
	if err := r.dbx(dbc).WithContext(dbc.Ctx).Where("student_id = ?", studentID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// Save inserts the streak or overwrites the counters of the student's existing row.
func (r *studentStreakRepo) Save(dbc dbctx.Context, row *types.StudentStreak) error {
	if row == nil {
		return nil
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "student_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"current_streak",
				"longest_streak",
				"last_activity_date",
				"updated_at",
			}),
		}).
		Create(row).Error
}

func (r *studentStreakRepo) Leaderboard(dbc dbctx.Context, limit int) ([]types.StreakEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	out := []types.StreakEntry{}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Table("student_streaks AS s").
		Select("s.student_id AS student_id, s.longest_streak AS longest_streak, COALESCE(u.full_name, '') AS full_name").
		Joins("LEFT JOIN users u ON u.id = s.student_id").
		Order("s.longest_streak DESC").Order("s.student_id ASC").
		Limit(limit).
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
