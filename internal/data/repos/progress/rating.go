package progress

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/meraki-backend/internal/domain"
	"github.com/yungbote/meraki-backend/internal/pkg/dbctx"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
)

type ContentRatingRepo interface {
	Get(dbc dbctx.Context, studentID, contentID string) (*types.ContentRating, error)
	ListByStudent(dbc dbctx.Context, studentID string) ([]*types.ContentRating, error)
	ListByContent(dbc dbctx.Context, contentID string) ([]*types.ContentRating, error)
	Create(dbc dbctx.Context, row *types.ContentRating) error
	Upsert(dbc dbctx.Context, studentID, contentID string, rating *types.Rating, note *string) (*types.ContentRating, error)
	IncrementViewCount(dbc dbctx.Context, studentID, contentID string) (*types.ContentRating, error)
	Stats(dbc dbctx.Context, contentID string) (types.RatingStats, error)
	PersonalContent(dbc dbctx.Context, studentID string) ([]types.PersonalContent, error)
}

type contentRatingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentRatingRepo(db *gorm.DB, baseLog *logger.Logger) ContentRatingRepo {
	return &contentRatingRepo{db: db, log: baseLog.With("repo", "ContentRatingRepo")}
}

func (r *contentRatingRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

var ratingConflict = []clause.Column{{Name: "student_id"}, {Name: "content_id"}}

func (r *contentRatingRepo) Get(dbc dbctx.Context, studentID, contentID string) (*types.ContentRating, error) {
	if studentID == "" || contentID == "" {
		return nil, nil
	}
	var row types.ContentRating
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("student_id = ? AND content_id = ?", studentID, contentID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *contentRatingRepo) ListByStudent(dbc dbctx.Context, studentID string) ([]*types.ContentRating, error) {
	out := []*types.ContentRating{}
	if studentID == "" {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("student_id = ?", studentID).
		Order("updated_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *contentRatingRepo) ListByContent(dbc dbctx.Context, contentID string) ([]*types.ContentRating, error) {
	out := []*types.ContentRating{}
	if contentID == "" {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("content_id = ?", contentID).
		Order("updated_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *contentRatingRepo) Create(dbc dbctx.Context, row *types.ContentRating) error {
	if row == nil {
		return nil
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.ViewCount == 0 {
		row.ViewCount = 1
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).Create(row).Error
}

// Upsert writes rating and note for (student, content). A new row defaults to
// the normal rating; an existing row only has the provided fields changed.
func (r *contentRatingRepo) Upsert(dbc dbctx.Context, studentID, contentID string, rating *types.Rating, note *string) (*types.ContentRating, error) {
	row := &types.ContentRating{
		ID:           uuid.NewString(),
		StudentID:    studentID,
		ContentID:    contentID,
		Rating:       types.RatingNormal,
		PersonalNote: note,
		ViewCount:    1,
	}
	cols := []string{"updated_at"}
	if rating != nil {
		row.Rating = *rating
		cols = append(cols, "rating")
	}
	if note != nil {
		cols = append(cols, "personal_note")
	}
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   ratingConflict,
			DoUpdates: clause.AssignmentColumns(cols),
		}).
		Create(row).Error
	if err != nil {
		return nil, err
	}
	return r.Get(dbc, studentID, contentID)
}

// IncrementViewCount records a view: the first one creates a "viewed" row,
// later ones bump view_count.
func (r *contentRatingRepo) IncrementViewCount(dbc dbctx.Context, studentID, contentID string) (*types.ContentRating, error) {
	row := &types.ContentRating{
		ID:        uuid.NewString(),
		StudentID: studentID,
		ContentID: contentID,
		Rating:    types.RatingViewed,
		ViewCount: 1,
	}
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: ratingConflict,
			DoUpdates: clause.Assignments(map[string]interface{}{
				"view_count": gorm.Expr("content_ratings.view_count + 1"),
				"updated_at": time.Now().UTC(),
			}),
		}).
		Create(row).Error
	if err != nil {
		return nil, err
	}
	return r.Get(dbc, studentID, contentID)
}

func (r *contentRatingRepo) Stats(dbc dbctx.Context, contentID string) (types.RatingStats, error) {
	var stats types.RatingStats
	if contentID == "" {
		return stats, nil
	}
	type row struct {
		Rating string
		N      int64
	}
	rows := []row{}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.ContentRating{}).
		Select("rating AS rating, COUNT(*) AS n").
		Where("content_id = ?", contentID).
		Group("rating").
		Scan(&rows).Error; err != nil {
		return stats, err
	}
	for _, rw := range rows {
		switch types.Rating(rw.Rating) {
		case types.RatingOK:
			stats.Easy += rw.N
		case types.RatingNormal:
			stats.Normal += rw.N
		case types.RatingReallyBad:
			stats.Hard += rw.N
		}
	}
	return stats, nil
}

// PersonalContent lists the student's rated or annotated content, most
// recently touched first, with the content title and topic name.
func (r *contentRatingRepo) PersonalContent(dbc dbctx.Context, studentID string) ([]types.PersonalContent, error) {
	out := []types.PersonalContent{}
	if studentID == "" {
		return out, nil
	}
	type row struct {
		ID               string
		ContentID        string
		Title            string
		Topic            string
		PersonalNote     *string
		DifficultyRating string
		UpdatedAt        time.Time
	}
	rows := []row{}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Table("content_ratings AS cr").
		Select(`cr.id AS id, cr.content_id AS content_id, COALESCE(c.title, '') AS title,
			COALESCE(t.topic, 'Unknown Topic') AS topic, cr.personal_note AS personal_note,
			cr.rating AS difficulty_rating, cr.updated_at AS updated_at`).
		Joins("JOIN content c ON c.id = cr.content_id").
		Joins("LEFT JOIN topic t ON t.id = c.topicid").
		Where("cr.student_id = ?", studentID).
		Where("((cr.personal_note IS NOT NULL AND cr.personal_note <> '') OR cr.rating IS NOT NULL)").
		Order("cr.updated_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, rw := range rows {
		title := strings.TrimSpace(rw.Title)
		if title == "" {
			title = "Untitled Content"
		}
		out = append(out, types.PersonalContent{
			ID:               rw.ID,
			ContentID:        rw.ContentID,
			Title:            title,
			Topic:            rw.Topic,
			PersonalNote:     rw.PersonalNote,
			DifficultyRating: types.Rating(rw.DifficultyRating),
			UpdatedAt:        rw.UpdatedAt,
		})
	}
	return out, nil
}
