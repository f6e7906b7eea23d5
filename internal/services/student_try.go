package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/meraki-backend/internal/data/db"
	"github.com/yungbote/meraki-backend/internal/data/repos"
	types "github.com/yungbote/meraki-backend/internal/domain"
	"github.com/yungbote/meraki-backend/internal/pkg/dbctx"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
	"github.com/yungbote/meraki-backend/internal/platform/apierr"
)

type StudentTryService interface {
	Create(ctx context.Context, row *types.StudentTry) (*types.StudentTry, error)
	Get(ctx context.Context, id string) (*types.StudentTry, error)
	List(ctx context.Context) ([]*types.StudentTry, error)
	Update(ctx context.Context, id string, patch types.StudentTryPatch) (*types.StudentTry, error)
	// CountsByContent returns the student's attempt count per content id.
	CountsByContent(ctx context.Context, studentID string, contentIDs []string) (map[string]int64, error)
	ListTryContent(ctx context.Context, studentID string) ([]*types.StudentTryContent, error)
	ListRecentTryContent(ctx context.Context) ([]*types.StudentTryContent, error)
}

type studentTryService struct {
	db             *gorm.DB
	log            *logger.Logger
	tryRepo        repos.StudentTryRepo
	tryContentRepo repos.StudentTryContentRepo
	now            func() time.Time
}

func NewStudentTryService(
	db *gorm.DB,
	log *logger.Logger,
	tryRepo repos.StudentTryRepo,
	tryContentRepo repos.StudentTryContentRepo,
) StudentTryService {
	return &studentTryService{
		db:             db,
		log:            log.With("service", "StudentTryService"),
		tryRepo:        tryRepo,
		tryContentRepo: tryContentRepo,
		now:            time.Now,
	}
}

func (s *studentTryService) Create(ctx context.Context, row *types.StudentTry) (*types.StudentTry, error) {
	if row == nil || strings.TrimSpace(row.HocsinhID) == "" {
		return nil, apierr.BadRequest("hocsinh_id is required")
	}
	row.HocsinhID = strings.TrimSpace(row.HocsinhID)
	row.ID = fmt.Sprintf("try_%d", s.now().UnixNano())
	if row.TimeStart == nil {
		ts := s.now().UTC()
		row.TimeStart = &ts
	}
	if err := s.tryRepo.Create(dbctx.New(ctx), row); err != nil {
		return nil, db.MapError("create student try", err)
	}
	s.log.Debug("Student try created", "try_id", row.ID, "student_id", row.HocsinhID, "question_id", row.QuestionID)
	return row, nil
}

func (s *studentTryService) Get(ctx context.Context, id string) (*types.StudentTry, error) {
	return get(ctx, s.log, "get student try", "Student try", func(dbc dbctx.Context) (*types.StudentTry, error) {
		return s.tryRepo.GetByID(dbc, id)
	})
}

func (s *studentTryService) List(ctx context.Context) ([]*types.StudentTry, error) {
	return read(ctx, s.log, "list student tries", s.tryRepo.List)
}

func (s *studentTryService) Update(ctx context.Context, id string, patch types.StudentTryPatch) (*types.StudentTry, error) {
	row, err := s.tryRepo.Update(dbctx.New(ctx), id, patch)
	if err != nil {
		return nil, db.MapError("update student try", err)
	}
	if row == nil {
		return nil, apierr.NotFound("Student try")
	}
	return row, nil
}

func (s *studentTryService) CountsByContent(ctx context.Context, studentID string, contentIDs []string) (map[string]int64, error) {
	ids := make([]string, 0, len(contentIDs))
	for _, id := range contentIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return read(ctx, s.log, "count student tries", func(dbc dbctx.Context) (map[string]int64, error) {
		return s.tryRepo.CountByStudentContent(dbc, strings.TrimSpace(studentID), ids)
	})
}

func (s *studentTryService) ListTryContent(ctx context.Context, studentID string) ([]*types.StudentTryContent, error) {
	return read(ctx, s.log, "list student try content", func(dbc dbctx.Context) ([]*types.StudentTryContent, error) {
		return s.tryContentRepo.ListByStudent(dbc, studentID)
	})
}

func (s *studentTryService) ListRecentTryContent(ctx context.Context) ([]*types.StudentTryContent, error) {
	return read(ctx, s.log, "list recent student try content", func(dbc dbctx.Context) ([]*types.StudentTryContent, error) {
		return s.tryContentRepo.ListRecent(dbc, 100)
	})
}
