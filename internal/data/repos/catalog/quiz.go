package catalog

import (
	"errors"

	"gorm.io/gorm"

	types "github.com/yungbote/meraki-backend/internal/domain"
	"github.com/yungbote/meraki-backend/internal/pkg/dbctx"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
)

type QuestionRepo interface {
	List(dbc dbctx.Context, filter types.QuestionFilter) ([]*types.Question, error)
	GetByID(dbc dbctx.Context, id string) (*types.Question, error)
	ContentIDs(dbc dbctx.Context, questionIDs []string) (map[string]string, error)
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return &questionRepo{db: db, log: baseLog.With("repo", "QuestionRepo")}
}

func (r *questionRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

// List filters by content id, or by every content row of a topic, and by
// level compared trimmed and case-insensitively. A topic without content
// yields no questions.
func (r *questionRepo) List(dbc dbctx.Context, filter types.QuestionFilter) ([]*types.Question, error) {
	out := []*types.Question{}
	q := r.dbx(dbc).WithContext(dbc.Ctx)
	switch {
	case filter.ContentID != "":
		q = q.Where("contentid = ?", filter.ContentID)
	case filter.TopicID != "":
		ids := []string{}
		if err := r.dbx(dbc).WithContext(dbc.Ctx).
			Model(&types.Content{}).
			Where("topicid = ?", filter.TopicID).
			Pluck("id", &ids).Error; err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return out, nil
		}
		q = q.Where("contentid IN ?", ids)
	}
	if lvl := filter.NormalizedLevel(); lvl != "" {
		q = q.Where("LOWER(TRIM(questionlevel)) = ?", lvl)
	}
	if err := q.Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 && filter.NormalizedLevel() != "" {
		r.log.Debug("No questions for level", "level", filter.Level, "content_id", filter.ContentID, "topic_id", filter.TopicID)
	}
	return out, nil
}

func (r *questionRepo) GetByID(dbc dbctx.Context, id string) (*types.Question, error) {
	if id == "" {
		return nil, nil
	}
	var row types.Question
	if err := r.dbx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// ContentIDs maps question id to content id for the given questions.
// Questions without content are omitted.
func (r *questionRepo) ContentIDs(dbc dbctx.Context, questionIDs []string) (map[string]string, error) {
	out := map[string]string{}
	if len(questionIDs) == 0 {
		return out, nil
	}
	type row struct {
		ID        string
		ContentID string
	}
	rows := []row{}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.Question{}).
		Select("id AS id, contentid AS content_id").
		Where("id IN ?", questionIDs).
		Where("contentid IS NOT NULL AND contentid <> ''").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, rw := range rows {
		out[rw.ID] = rw.ContentID
	}
	return out, nil
}

type MatchingRepo interface {
	List(dbc dbctx.Context) ([]*types.Matching, error)
	GetByID(dbc dbctx.Context, id string) (*types.Matching, error)
	ListByTopicID(dbc dbctx.Context, topicID string) ([]*types.Matching, error)
	Create(dbc dbctx.Context, row *types.Matching) error
}

type matchingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMatchingRepo(db *gorm.DB, baseLog *logger.Logger) MatchingRepo {
	return &matchingRepo{db: db, log: baseLog.With("repo", "MatchingRepo")}
}

func (r *matchingRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *matchingRepo) List(dbc dbctx.Context) ([]*types.Matching, error) {
	out := []*types.Matching{}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *matchingRepo) GetByID(dbc dbctx.Context, id string) (*types.Matching, error) {
	if id == "" {
		return nil, nil
	}
	var row types.Matching
	if err := r.dbx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *matchingRepo) ListByTopicID(dbc dbctx.Context, topicID string) ([]*types.Matching, error) {
	out := []*types.Matching{}
	if topicID == "" {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("topicid = ?", topicID).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *matchingRepo) Create(dbc dbctx.Context, row *types.Matching) error {
	if row == nil {
		return nil
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).Create(row).Error
}
