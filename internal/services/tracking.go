package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/meraki-backend/internal/data/db"
	"github.com/yungbote/meraki-backend/internal/data/repos"
	types "github.com/yungbote/meraki-backend/internal/domain"
	"github.com/yungbote/meraki-backend/internal/pkg/batch"
	"github.com/yungbote/meraki-backend/internal/pkg/dbctx"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
)

// TrackingWindow is how far back each tracking run looks for answered questions.
const TrackingWindow = 24 * time.Hour

type TrackingService interface {
	// UpdateStudentTracking folds the last day's answered questions into
	// student_try_content, one row per (student, content).
	UpdateStudentTracking(ctx context.Context) (batch.Result, error)
}

type trackingService struct {
	db             *gorm.DB
	log            *logger.Logger
	tryRepo        repos.StudentTryRepo
	tryContentRepo repos.StudentTryContentRepo
	now            func() time.Time
}

func NewTrackingService(
	db *gorm.DB,
	log *logger.Logger,
	tryRepo repos.StudentTryRepo,
	tryContentRepo repos.StudentTryContentRepo,
	now func() time.Time,
) TrackingService {
	if now == nil {
		now = time.Now
	}
	return &trackingService{
		db:             db,
		log:            log.With("service", "TrackingService"),
		tryRepo:        tryRepo,
		tryContentRepo: tryContentRepo,
		now:            now,
	}
}

type trackingKey struct {
	studentID string
	contentID string
}

func (s *trackingService) UpdateStudentTracking(ctx context.Context) (batch.Result, error) {
	var res batch.Result
	now := s.now().UTC()
	since := now.Add(-TrackingWindow)

	answered, err := read(ctx, s.log, "list answered questions", func(dbc dbctx.Context) ([]types.AnsweredQuestion, error) {
		return s.tryRepo.ListSince(dbc, since)
	})
	if err != nil {
		return res, err
	}

	groups := map[trackingKey][]string{}
	keys := []trackingKey{}
	for _, a := range answered {
		k := trackingKey{studentID: a.StudentID, contentID: a.ContentID}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], a.QuestionID)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].studentID != keys[j].studentID {
			return keys[i].studentID < keys[j].studentID
		}
		return keys[i].contentID < keys[j].contentID
	})
	s.log.Info("Updating student tracking", "pairs", len(keys), "answers", len(answered), "since", since)

	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		ids := groups[k]
		sort.Strings(ids)
		if err := s.track(ctx, k, strings.Join(ids, ", "), now); err != nil {
			s.log.Warn("Failed to update student tracking", "student_id", k.studentID, "content_id", k.contentID, "error", err)
			res.Fail(k.studentID+"/"+k.contentID, err)
			continue
		}
		res.Ok()
	}
	s.log.Info("Student tracking updated", "succeeded", res.Succeeded, "failed", len(res.Failed))
	return res, nil
}

func (s *trackingService) track(ctx context.Context, k trackingKey, questionIDs string, now time.Time) error {
	dbc := dbctx.New(ctx)
	n, err := s.tryContentRepo.AppendQuestions(dbc, k.studentID, k.contentID, questionIDs, now)
	if err != nil {
		return db.MapError("append questions", err)
	}
	if n > 0 {
		return nil
	}
	row := &types.StudentTryContent{
		ContentID:   k.contentID,
		HocsinhID:   k.studentID,
		TimeStart:   &now,
		TimeEnd:     &now,
		QuestionIDs: questionIDs,
	}
	if err := s.tryContentRepo.Create(dbc, row); err != nil {
		return db.MapError("create tracking row", err)
	}
	return nil
}
