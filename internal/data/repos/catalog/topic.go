package catalog

import (
	"errors"

	"gorm.io/gorm"

	types "github.com/yungbote/meraki-backend/internal/domain"
	"github.com/yungbote/meraki-backend/internal/pkg/dbctx"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
)

// ExcludedRootSubjects are root topics that are not part of the bowl challenge.
var ExcludedRootSubjects = []string{
	"Art", "Bowl", "Challenge", "Debate", "History", "Literature", "Media", "Music",
	"Science and Technology", "Social Studies", "Special areas", "Teaching lesson", "Writing",
}

type TopicRepo interface {
	List(dbc dbctx.Context) ([]*types.Topic, error)
	ListBowlChallenge(dbc dbctx.Context) ([]*types.Topic, error)
	GetByID(dbc dbctx.Context, id string) (*types.Topic, error)
	Create(dbc dbctx.Context, row *types.Topic) error
	Update(dbc dbctx.Context, id string, updates map[string]interface{}) (*types.Topic, error)
}

type topicRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTopicRepo(db *gorm.DB, baseLog *logger.Logger) TopicRepo {
	return &topicRepo{db: db, log: baseLog.With("repo", "TopicRepo")}
}

func (r *topicRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *topicRepo) List(dbc dbctx.Context) ([]*types.Topic, error) {
	out := []*types.Topic{}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Order("topic ASC").Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *topicRepo) ListBowlChallenge(dbc dbctx.Context) ([]*types.Topic, error) {
	out := []*types.Topic{}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("(parentid IS NULL OR parentid = '')").
		Where("topic IS NOT NULL AND TRIM(topic) <> ''").
		Where("topic NOT IN ?", ExcludedRootSubjects).
		Order("topic ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *topicRepo) GetByID(dbc dbctx.Context, id string) (*types.Topic, error) {
	if id == "" {
		return nil, nil
	}
	var row types.Topic
	err := r.dbx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *topicRepo) Create(dbc dbctx.Context, row *types.Topic) error {
	if row == nil {
		return nil
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).Create(row).Error
}

// Update applies column updates and returns the fresh row, or nil when id is unknown.
func (r *topicRepo) Update(dbc dbctx.Context, id string, updates map[string]interface{}) (*types.Topic, error) {
	if id == "" {
		return nil, nil
	}
	if len(updates) > 0 {
		res := r.dbx(dbc).WithContext(dbc.Ctx).Model(&types.Topic{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
	}
	return r.GetByID(dbc, id)
}
