package progress

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/meraki-backend/internal/domain"
	"github.com/yungbote/meraki-backend/internal/pkg/dbctx"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
)

type StudentTryContentRepo interface {
	Get(dbc dbctx.Context, studentID, contentID string) (*types.StudentTryContent, error)
	Create(dbc dbctx.Context, row *types.StudentTryContent) error
	AppendQuestions(dbc dbctx.Context, studentID, contentID, questionIDs string, at time.Time) (int64, error)
	Touch(dbc dbctx.Context, studentID, contentID string, at time.Time) (int64, error)
	ListByStudent(dbc dbctx.Context, studentID string) ([]*types.StudentTryContent, error)
	ListRecent(dbc dbctx.Context, limit int) ([]*types.StudentTryContent, error)
}

type studentTryContentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudentTryContentRepo(db *gorm.DB, baseLog *logger.Logger) StudentTryContentRepo {
	return &studentTryContentRepo{db: db, log: baseLog.With("repo", "StudentTryContentRepo")}
}

func (r *studentTryContentRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

// Get returns the most recently started tracking row for (student, content).
func (r *studentTryContentRepo) Get(dbc dbctx.Context, studentID, contentID string) (*types.StudentTryContent, error) {
	if studentID == "" || contentID == "" {
		return nil, nil
	}
	var row types.StudentTryContent
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("hocsinh_id = ? AND contentid = ?", studentID, contentID).
		Order("time_start DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *studentTryContentRepo) Create(dbc dbctx.Context, row *types.StudentTryContent) error {
	if row == nil {
		return nil
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.StudentTryID == "" {
		row.StudentTryID = uuid.NewString()
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).Create(row).Error
}

// AppendQuestions appends questionIDs to the ", " separated list of every
// row for (student, content) and moves time_end to at. It returns the number
// of rows changed; zero means the pair is not tracked yet.
func (r *studentTryContentRepo) AppendQuestions(dbc dbctx.Context, studentID, contentID, questionIDs string, at time.Time) (int64, error) {
	res := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.StudentTryContent{}).
		Where("hocsinh_id = ? AND contentid = ?", studentID, contentID).
		Updates(map[string]interface{}{
			"update":   gorm.Expr(`CASE WHEN "update" IS NULL OR "update" = '' THEN ? ELSE "update" || ', ' || ? END`, questionIDs, questionIDs),
			"time_end": at.UTC(),
		})
	return res.RowsAffected, res.Error
}

// Touch moves time_end of the (student, content) rows to at.
func (r *studentTryContentRepo) Touch(dbc dbctx.Context, studentID, contentID string, at time.Time) (int64, error) {
	res := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.StudentTryContent{}).
		Where("hocsinh_id = ? AND contentid = ?", studentID, contentID).
		Update("time_end", at.UTC())
	return res.RowsAffected, res.Error
}

func (r *studentTryContentRepo) ListByStudent(dbc dbctx.Context, studentID string) ([]*types.StudentTryContent, error) {
	out := []*types.StudentTryContent{}
	if studentID == "" {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("hocsinh_id = ?", studentID).
		Order("time_start DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *studentTryContentRepo) ListRecent(dbc dbctx.Context, limit int) ([]*types.StudentTryContent, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []*types.StudentTryContent{}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Order("time_start DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
