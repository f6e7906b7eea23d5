package catalog

import (
	"errors"

	"gorm.io/gorm"

	types "github.com/yungbote/meraki-backend/internal/domain"
	"github.com/yungbote/meraki-backend/internal/pkg/dbctx"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
)

type ContentRepo interface {
	List(dbc dbctx.Context, topicID string) ([]*types.Content, error)
	GetByID(dbc dbctx.Context, id string) (*types.Content, error)
	GetByIDs(dbc dbctx.Context, ids []string) ([]*types.Content, error)
	ListIDsByTopic(dbc dbctx.Context, topicID string) ([]string, error)
	ListByGroup(dbc dbctx.Context, group string) ([]*types.Content, error)
	ListGroups(dbc dbctx.Context) ([]types.ContentGroupSummary, error)
	Create(dbc dbctx.Context, row *types.Content) error
	Update(dbc dbctx.Context, id string, patch types.ContentPatch) (*types.Content, error)
}

type contentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentRepo(db *gorm.DB, baseLog *logger.Logger) ContentRepo {
	return &contentRepo{db: db, log: baseLog.With("repo", "ContentRepo")}
}

func (r *contentRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

// List returns all content, or only the content of topicID when it is set.
func (r *contentRepo) List(dbc dbctx.Context, topicID string) ([]*types.Content, error) {
	out := []*types.Content{}
	q := r.dbx(dbc).WithContext(dbc.Ctx)
	if topicID != "" {
		q = q.Where("topicid = ?", topicID)
	}
	if err := q.Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *contentRepo) GetByID(dbc dbctx.Context, id string) (*types.Content, error) {
	if id == "" {
		return nil, nil
	}
	var row types.Content
	err := r.dbx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *contentRepo) GetByIDs(dbc dbctx.Context, ids []string) ([]*types.Content, error) {
	out := []*types.Content{}
	if len(ids) == 0 {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *contentRepo) ListIDsByTopic(dbc dbctx.Context, topicID string) ([]string, error) {
	out := []string{}
	if topicID == "" {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.Content{}).
		Where("topicid = ?", topicID).
		Order("id ASC").
		Pluck("id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *contentRepo) ListByGroup(dbc dbctx.Context, group string) ([]*types.Content, error) {
	out := []*types.Content{}
	if group == "" {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("contentgroup = ?", group).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListGroups counts content per (contentgroup, url), largest groups first.
func (r *contentRepo) ListGroups(dbc dbctx.Context) ([]types.ContentGroupSummary, error) {
	type row struct {
		ContentGroup string
		URL          *string
		ContentCount int64
	}
	rows := []row{}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.Content{}).
		Select("contentgroup AS content_group, url AS url, COUNT(*) AS content_count").
		Where("contentgroup IS NOT NULL AND contentgroup <> ''").
		Group("contentgroup, url").
		Order("content_count DESC").Order("contentgroup ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]types.ContentGroupSummary, 0, len(rows))
	for _, rw := range rows {
		s := types.ContentGroupSummary{ContentGroup: rw.ContentGroup, ContentCount: rw.ContentCount}
		if rw.URL != nil {
			s.URL = *rw.URL
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *contentRepo) Create(dbc dbctx.Context, row *types.Content) error {
	if row == nil {
		return nil
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).Create(row).Error
}

// Update applies the patch and returns the fresh row, or nil when id is unknown.
func (r *contentRepo) Update(dbc dbctx.Context, id string, patch types.ContentPatch) (*types.Content, error) {
	if id == "" {
		return nil, nil
	}
	if cols := patch.Columns(); len(cols) > 0 {
		if err := r.dbx(dbc).WithContext(dbc.Ctx).
			Model(&types.Content{}).
			Where("id = ?", id).
			Updates(cols).Error; err != nil {
			return nil, err
		}
	}
	return r.GetByID(dbc, id)
}
