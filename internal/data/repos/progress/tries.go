package progress

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	types "github.com/yungbote/meraki-backend/internal/domain"
	"github.com/yungbote/meraki-backend/internal/pkg/dbctx"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
)

type StudentTryRepo interface {
	Create(dbc dbctx.Context, row *types.StudentTry) error
	GetByID(dbc dbctx.Context, id string) (*types.StudentTry, error)
	List(dbc dbctx.Context) ([]*types.StudentTry, error)
	Update(dbc dbctx.Context, id string, patch types.StudentTryPatch) (*types.StudentTry, error)
	ListSince(dbc dbctx.Context, since time.Time) ([]types.AnsweredQuestion, error)
	CountByStudentContent(dbc dbctx.Context, studentID string, contentIDs []string) (map[string]int64, error)
	Leaderboard(dbc dbctx.Context, limit int) ([]types.TriesLeaderboardEntry, error)
}

type studentTryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudentTryRepo(db *gorm.DB, baseLog *logger.Logger) StudentTryRepo {
	return &studentTryRepo{db: db, log: baseLog.With("repo", "StudentTryRepo")}
}

func (r *studentTryRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *studentTryRepo) Create(dbc dbctx.Context, row *types.StudentTry) error {
	if row == nil {
		return nil
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).Create(row).Error
}

func (r *studentTryRepo) GetByID(dbc dbctx.Context, id string) (*types.StudentTry, error) {
	if id == "" {
		return nil, nil
	}
	var row types.StudentTry
	if err := r.dbx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *studentTryRepo) List(dbc dbctx.Context) ([]*types.StudentTry, error) {
	out := []*types.StudentTry{}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Order("time_start DESC").Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *studentTryRepo) Update(dbc dbctx.Context, id string, patch types.StudentTryPatch) (*types.StudentTry, error) {
	if id == "" {
		return nil, nil
	}
	if cols := patch.Columns(); len(cols) > 0 {
		if err := r.dbx(dbc).WithContext(dbc.Ctx).
			Model(&types.StudentTry{}).
			Where("id = ?", id).
			Updates(cols).Error; err != nil {
			return nil, err
		}
	}
	return r.GetByID(dbc, id)
}

// ListSince returns attempts started after since whose question belongs to a content item.
func (r *studentTryRepo) ListSince(dbc dbctx.Context, since time.Time) ([]types.AnsweredQuestion, error) {
	type row struct {
		StudentID  string
		QuestionID string
		ContentID  string
		TimeStart  time.Time
	}
	rows := []row{}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Table("student_try AS st").
		Select("st.hocsinh_id AS student_id, st.question_id AS question_id, q.contentid AS content_id, st.time_start AS time_start").
		Joins("JOIN question q ON q.id = st.question_id").
		Where("st.time_start > ?", since.UTC()).
		Where("q.contentid IS NOT NULL AND q.contentid <> ''").
		Where("st.hocsinh_id IS NOT NULL AND st.hocsinh_id <> ''").
		Order("st.hocsinh_id ASC").Order("q.contentid ASC").Order("st.question_id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]types.AnsweredQuestion, 0, len(rows))
	for _, rw := range rows {
		out = append(out, types.AnsweredQuestion{
			StudentID:  rw.StudentID,
			QuestionID: rw.QuestionID,
			ContentID:  rw.ContentID,
			TimeStart:  rw.TimeStart,
		})
	}
	return out, nil
}

// CountByStudentContent counts the student's attempts per content item,
// keyed by content id. Content without attempts is absent from the map.
func (r *studentTryRepo) CountByStudentContent(dbc dbctx.Context, studentID string, contentIDs []string) (map[string]int64, error) {
	out := map[string]int64{}
	if studentID == "" || len(contentIDs) == 0 {
		return out, nil
	}
	type row struct {
		ContentID string
		N         int64
	}
	rows := []row{}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Table("student_try AS st").
		Select("q.contentid AS content_id, COUNT(*) AS n").
		Joins("JOIN question q ON q.id = st.question_id").
		Where("st.hocsinh_id = ?", studentID).
		Where("q.contentid IN ?", contentIDs).
		Group("q.contentid").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, rw := range rows {
		out[rw.ContentID] = rw.N
	}
	return out, nil
}

// Leaderboard ranks students by number of attempts, then by accuracy.
func (r *studentTryRepo) Leaderboard(dbc dbctx.Context, limit int) ([]types.TriesLeaderboardEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	correct := "SUM(CASE WHEN quiz_result = '" + types.QuizResultCorrect + "' THEN 1 ELSE 0 END)"
	type row struct {
		StudentID      string
		TotalTries     int64
		CorrectAnswers int64
	}
	rows := []row{}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.StudentTry{}).
		Select("hocsinh_id AS student_id, COUNT(*) AS total_tries, " + correct + " AS correct_answers").
		Where("hocsinh_id IS NOT NULL AND hocsinh_id <> ''").
		Group("hocsinh_id").
		Order("COUNT(*) DESC").
		Order(correct + " * 1.0 / COUNT(*) DESC").
		Order("hocsinh_id ASC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]types.TriesLeaderboardEntry, 0, len(rows))
	for i, rw := range rows {
		out = append(out, types.TriesLeaderboardEntry{
			Rank:           i + 1,
			StudentID:      rw.StudentID,
			Name:           rw.StudentID,
			TotalTries:     rw.TotalTries,
			CorrectAnswers: rw.CorrectAnswers,
			Accuracy:       accuracy(rw.CorrectAnswers, rw.TotalTries),
		})
	}
	return out, nil
}

// accuracy is the correct share in percent, rounded to one decimal.
func accuracy(correct, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(correct)*1000/float64(total)) / 10
}
