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

// AccessResult is the outcome of a content view.
type AccessResult struct {
	Record    *types.ContentRating
	FirstView bool
}

type RatingService interface {
	Get(ctx context.Context, studentID, contentID string) (*types.ContentRating, error)
	ListByStudent(ctx context.Context, studentID string) ([]*types.ContentRating, error)
	Create(ctx context.Context, row *types.ContentRating) (*types.ContentRating, error)
	Rate(ctx context.Context, studentID, contentID string, rating *types.Rating, note *string) (*types.ContentRating, error)
	TrackAccess(ctx context.Context, studentID, contentID string) (*AccessResult, error)
	Stats(ctx context.Context, contentID string) (types.RatingStats, error)
	PersonalContent(ctx context.Context, studentID string) ([]types.PersonalContent, error)
}

type ratingService struct {
	db             *gorm.DB
	log            *logger.Logger
	ratingRepo     repos.ContentRatingRepo
	tryContentRepo repos.StudentTryContentRepo
	progress       ProgressService
	now            func() time.Time
}

func NewRatingService(
	db *gorm.DB,
	log *logger.Logger,
	ratingRepo repos.ContentRatingRepo,
	tryContentRepo repos.StudentTryContentRepo,
	progress ProgressService,
) RatingService {
	return &ratingService{
		db:             db,
		log:            log.With("service", "RatingService"),
		ratingRepo:     ratingRepo,
		tryContentRepo: tryContentRepo,
		progress:       progress,
		now:            time.Now,
	}
}

func (s *ratingService) Get(ctx context.Context, studentID, contentID string) (*types.ContentRating, error) {
	return get(ctx, s.log, "get rating", "Rating", func(dbc dbctx.Context) (*types.ContentRating, error) {
		return s.ratingRepo.Get(dbc, studentID, contentID)
	})
}

func (s *ratingService) ListByStudent(ctx context.Context, studentID string) ([]*types.ContentRating, error) {
	return read(ctx, s.log, "list ratings", func(dbc dbctx.Context) ([]*types.ContentRating, error) {
		return s.ratingRepo.ListByStudent(dbc, studentID)
	})
}

func (s *ratingService) Create(ctx context.Context, row *types.ContentRating) (*types.ContentRating, error) {
	if row == nil || strings.TrimSpace(row.StudentID) == "" || strings.TrimSpace(row.ContentID) == "" {
		return nil, apierr.BadRequest("student_id and content_id are required")
	}
	if row.Rating == "" {
		row.Rating = types.RatingNormal
	}
	if !row.Rating.Valid() {
		return nil, apierr.BadRequest(fmt.Sprintf("unknown rating %q", row.Rating))
	}
	if err := s.ratingRepo.Create(dbctx.New(ctx), row); err != nil {
		return nil, db.MapError("create rating", err)
	}
	return row, nil
}

func (s *ratingService) Rate(ctx context.Context, studentID, contentID string, rating *types.Rating, note *string) (*types.ContentRating, error) {
	studentID = strings.TrimSpace(studentID)
	contentID = strings.TrimSpace(contentID)
	if studentID == "" || contentID == "" {
		return nil, apierr.BadRequest("studentId and contentId are required")
	}
	if rating != nil && !rating.Valid() {
		return nil, apierr.BadRequest(fmt.Sprintf("unknown rating %q", *rating))
	}
	row, err := s.ratingRepo.Upsert(dbctx.New(ctx), studentID, contentID, rating, note)
	if err != nil {
		return nil, db.MapError("rate content", err)
	}
	if rating != nil && s.progress != nil {
		// Rating counts as activity; the rating itself is already stored.
		if _, err := s.progress.CompleteActivity(ctx, studentID); err != nil {
			s.log.Warn("Failed to record rating activity", "student_id", studentID, "content_id", contentID, "error", err)
		}
	}
	return row, nil
}

func (s *ratingService) TrackAccess(ctx context.Context, studentID, contentID string) (*AccessResult, error) {
	studentID = strings.TrimSpace(studentID)
	contentID = strings.TrimSpace(contentID)
	if studentID == "" || contentID == "" {
		return nil, apierr.BadRequest("student_id and content_id are required")
	}
	dbc := dbctx.New(ctx)
	if err := s.touchTryContent(dbc, studentID, contentID); err != nil {
		s.log.Warn("Failed to write student_try_content", "student_id", studentID, "content_id", contentID, "error", err)
	}
	row, err := s.ratingRepo.IncrementViewCount(dbc, studentID, contentID)
	if err != nil {
		return nil, db.MapError("track access", err)
	}
	res := &AccessResult{Record: row, FirstView: row != nil && row.ViewCount <= 1}
	s.log.Debug("Content access recorded", "student_id", studentID, "content_id", contentID, "first_view", res.FirstView)
	return res, nil
}

// touchTryContent moves time_end of the (student, content) tracking row,
// creating the row on first access.
func (s *ratingService) touchTryContent(dbc dbctx.Context, studentID, contentID string) error {
	now := s.now().UTC()
	n, err := s.tryContentRepo.Touch(dbc, studentID, contentID, now)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return s.tryContentRepo.Create(dbc, &types.StudentTryContent{
		ContentID:   contentID,
		HocsinhID:   studentID,
		TimeStart:   &now,
		TimeEnd:     &now,
		QuestionIDs: "Content_viewed_" + now.Format(time.RFC3339Nano),
	})
}

func (s *ratingService) Stats(ctx context.Context, contentID string) (types.RatingStats, error) {
	return read(ctx, s.log, "rating stats", func(dbc dbctx.Context) (types.RatingStats, error) {
		return s.ratingRepo.Stats(dbc, contentID)
	})
}

func (s *ratingService) PersonalContent(ctx context.Context, studentID string) ([]types.PersonalContent, error) {
	return read(ctx, s.log, "personal content", func(dbc dbctx.Context) ([]types.PersonalContent, error) {
		return s.ratingRepo.PersonalContent(dbc, studentID)
	})
}
