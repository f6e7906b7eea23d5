package progress

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/meraki-backend/internal/domain"
	"github.com/yungbote/meraki-backend/internal/pkg/dbctx"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
)

type MatchingAttemptRepo interface {
	Create(dbc dbctx.Context, row *types.MatchingAttempt) error
	GetByID(dbc dbctx.Context, id string) (*types.MatchingAttempt, error)
	ListByStudent(dbc dbctx.Context, studentID, matchingID string) ([]*types.MatchingAttempt, error)
	CountByStudentMatching(dbc dbctx.Context, studentID, matchingID string) (int64, error)
	Update(dbc dbctx.Context, id string, updates map[string]interface{}) (*types.MatchingAttempt, error)
}

type matchingAttemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMatchingAttemptRepo(db *gorm.DB, baseLog *logger.Logger) MatchingAttemptRepo {
	return &matchingAttemptRepo{db: db, log: baseLog.With("repo", "MatchingAttemptRepo")}
}

func (r *matchingAttemptRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *matchingAttemptRepo) Create(dbc dbctx.Context, row *types.MatchingAttempt) error {
	if row == nil {
		return nil
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).Create(row).Error
}

func (r *matchingAttemptRepo) GetByID(dbc dbctx.Context, id string) (*types.MatchingAttempt, error) {
	if id == "" {
		return nil, nil
	}
	var row types.MatchingAttempt
	if err := r.dbx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// ListByStudent returns the student's attempts newest first, optionally
// narrowed to one matching activity.
func (r *matchingAttemptRepo) ListByStudent(dbc dbctx.Context, studentID, matchingID string) ([]*types.MatchingAttempt, error) {
	out := []*types.MatchingAttempt{}
	if studentID == "" {
		return out, nil
	}
	q := r.dbx(dbc).WithContext(dbc.Ctx).Where("student_id = ?", studentID)
	if matchingID != "" {
		q = q.Where("matching_id = ?", matchingID)
	}
	if err := q.Order("created_at DESC").Order("attempt_number DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *matchingAttemptRepo) CountByStudentMatching(dbc dbctx.Context, studentID, matchingID string) (int64, error) {
	var n int64
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.MatchingAttempt{}).
		Where("student_id = ? AND matching_id = ?", studentID, matchingID).
		Count(&n).Error
	return n, err
}

func (r *matchingAttemptRepo) Update(dbc dbctx.Context, id string, updates map[string]interface{}) (*types.MatchingAttempt, error) {
	if id == "" {
		return nil, nil
	}
	if len(updates) > 0 {
		if err := r.dbx(dbc).WithContext(dbc.Ctx).
			Model(&types.MatchingAttempt{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.GetByID(dbc, id)
}
