package services

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/yungbote/meraki-backend/internal/data/db"
	"github.com/yungbote/meraki-backend/internal/data/repos"
	types "github.com/yungbote/meraki-backend/internal/domain"
	"github.com/yungbote/meraki-backend/internal/pkg/dbctx"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
	"github.com/yungbote/meraki-backend/internal/platform/apierr"
)

type UserService interface {
	List(ctx context.Context) ([]*types.User, error)
	Get(ctx context.Context, id string) (*types.User, error)
	GetByEmail(ctx context.Context, email string) (*types.User, error)
	// SavePersonalEmail stores email as the personal address of the student
	// matched by identifier (student id or Meraki email).
	SavePersonalEmail(ctx context.Context, identifier, email string) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
	validate *validator.Validate
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{
		db:       db,
		log:      log.With("service", "UserService"),
		userRepo: userRepo,
		validate: validator.New(),
	}
}

func (s *userService) List(ctx context.Context) ([]*types.User, error) {
	return read(ctx, s.log, "list users", s.userRepo.List)
}

func (s *userService) Get(ctx context.Context, id string) (*types.User, error) {
	return get(ctx, s.log, "get user", "User", func(dbc dbctx.Context) (*types.User, error) {
		return s.userRepo.GetByID(dbc, strings.TrimSpace(id))
	})
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*types.User, error) {
	return get(ctx, s.log, "get user by email", "User", func(dbc dbctx.Context) (*types.User, error) {
		return s.userRepo.GetByEmail(dbc, email)
	})
}

func (s *userService) SavePersonalEmail(ctx context.Context, identifier, email string) (*types.User, error) {
	identifier = strings.TrimSpace(identifier)
	email = strings.TrimSpace(email)
	if identifier == "" {
		return nil, apierr.BadRequest("Student ID or Meraki Email is required")
	}
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, apierr.BadRequest("Please enter a valid email address")
	}
	dbc := dbctx.New(ctx)
	u, err := s.userRepo.GetByIdentifier(dbc, identifier)
	if err != nil {
		return nil, db.MapError("find user", err)
	}
	if u == nil {
		return nil, apierr.NotFound("User")
	}
	updated, err := s.userRepo.UpdateEmail(dbc, u.ID, email)
	if err != nil {
		return nil, db.MapError("save personal email", err)
	}
	if updated == nil {
		return nil, apierr.NotFound("User")
	}
	s.log.Info("Personal email saved", "student_id", updated.ID)
	return updated, nil
}
