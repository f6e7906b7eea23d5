package catalog

import (
	"errors"

	"gorm.io/gorm"

	types "github.com/yungbote/meraki-backend/internal/domain"
	"github.com/yungbote/meraki-backend/internal/pkg/dbctx"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
)

type ImageRepo interface {
	List(dbc dbctx.Context) ([]*types.Image, error)
	GetByID(dbc dbctx.Context, id string) (*types.Image, error)
}

type imageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewImageRepo(db *gorm.DB, baseLog *logger.Logger) ImageRepo {
	return &imageRepo{db: db, log: baseLog.With("repo", "ImageRepo")}
}

func (r *imageRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *imageRepo) List(dbc dbctx.Context) ([]*types.Image, error) {
	out := []*types.Image{}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *imageRepo) GetByID(dbc dbctx.Context, id string) (*types.Image, error) {
	if id == "" {
		return nil, nil
	}
	var row types.Image
	if err := r.dbx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

type VideoRepo interface {
	List(dbc dbctx.Context) ([]*types.Video, error)
	GetByID(dbc dbctx.Context, id string) (*types.Video, error)
	ListByContentID(dbc dbctx.Context, contentID string) ([]*types.Video, error)
}

type videoRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVideoRepo(db *gorm.DB, baseLog *logger.Logger) VideoRepo {
	return &videoRepo{db: db, log: baseLog.With("repo", "VideoRepo")}
}

func (r *videoRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *videoRepo) List(dbc dbctx.Context) ([]*types.Video, error) {
	out := []*types.Video{}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *videoRepo) GetByID(dbc dbctx.Context, id string) (*types.Video, error) {
	if id == "" {
		return nil, nil
	}
	var row types.Video
	if err := r.dbx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *videoRepo) ListByContentID(dbc dbctx.Context, contentID string) ([]*types.Video, error) {
	out := []*types.Video{}
	if contentID == "" {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("contentid = ?", contentID).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
