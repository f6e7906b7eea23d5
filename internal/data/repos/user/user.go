package user

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	types "github.com/yungbote/meraki-backend/internal/domain"
	"github.com/yungbote/meraki-backend/internal/pkg/dbctx"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
)

type UserRepo interface {
	List(dbc dbctx.Context) ([]*types.User, error)
	GetByID(dbc dbctx.Context, id string) (*types.User, error)
	GetByIdentifier(dbc dbctx.Context, identifier string) (*types.User, error)
	GetByEmail(dbc dbctx.Context, email string) (*types.User, error)
	Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error)
	UpdateEmail(dbc dbctx.Context, id, email string) (*types.User, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) List(dbc dbctx.Context) ([]*types.User, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}

	results := []*types.User{}
	if err := transaction.WithContext(dbc.Ctx).
		Order("first_name ASC").Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) GetByID(dbc dbctx.Context, id string) (*types.User, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}
	if id == "" {
		return nil, nil
	}

	var u types.User
	if err := transaction.WithContext(dbc.Ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// GetByIdentifier matches the student id or the Meraki email, ignoring case
// and surrounding whitespace.
func (ur *userRepo) GetByIdentifier(dbc dbctx.Context, identifier string) (*types.User, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}
	needle := strings.ToLower(strings.TrimSpace(identifier))
	if needle == "" {
		return nil, nil
	}

	var u types.User
	err := transaction.WithContext(dbc.Ctx).
		Where("LOWER(id) = ? OR LOWER(meraki_email) = ?", needle, needle).
		Order("id ASC").
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmail matches either the personal or the Meraki email.
func (ur *userRepo) GetByEmail(dbc dbctx.Context, email string) (*types.User, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}
	needle := strings.ToLower(strings.TrimSpace(email))
	if needle == "" {
		return nil, nil
	}

	var u types.User
	err := transaction.WithContext(dbc.Ctx).
		Where("LOWER(email) = ? OR LOWER(meraki_email) = ?", needle, needle).
		Order("id ASC").
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (ur *userRepo) Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}

	if len(users) == 0 {
		return []*types.User{}, nil
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (ur *userRepo) UpdateEmail(dbc dbctx.Context, id, email string) (*types.User, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}

	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.User{}).
		Where("id = ?", id).
		Update("email", strings.TrimSpace(email)).Error; err != nil {
		return nil, err
	}
	return ur.GetByID(dbc, id)
}
