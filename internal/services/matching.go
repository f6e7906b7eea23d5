package services

import (
	"context"
	"encoding/json"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/meraki-backend/internal/data/db"
	"github.com/yungbote/meraki-backend/internal/data/repos"
	types "github.com/yungbote/meraki-backend/internal/domain"
	"github.com/yungbote/meraki-backend/internal/pkg/dbctx"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
	"github.com/yungbote/meraki-backend/internal/platform/apierr"
)

type MatchingService interface {
	CreateAttempt(ctx context.Context, row *types.MatchingAttempt) (*types.MatchingAttempt, error)
	GetAttempt(ctx context.Context, id string) (*types.MatchingAttempt, error)
	ListAttempts(ctx context.Context, studentID, matchingID string) ([]*types.MatchingAttempt, error)
	UpdateAttempt(ctx context.Context, id string, patch types.MatchingAttemptPatch) (*types.MatchingAttempt, error)
}

type matchingService struct {
	db           *gorm.DB
	log          *logger.Logger
	matchingRepo repos.MatchingRepo
	attemptRepo  repos.MatchingAttemptRepo
}

func NewMatchingService(
	db *gorm.DB,
	log *logger.Logger,
	matchingRepo repos.MatchingRepo,
	attemptRepo repos.MatchingAttemptRepo,
) MatchingService {
	return &matchingService{
		db:           db,
		log:          log.With("service", "MatchingService"),
		matchingRepo: matchingRepo,
		attemptRepo:  attemptRepo,
	}
}

// CreateAttempt numbers the attempt after the student's previous ones and,
// when answers are given without a score, grades them against the activity.
func (s *matchingService) CreateAttempt(ctx context.Context, row *types.MatchingAttempt) (*types.MatchingAttempt, error) {
	if row == nil || strings.TrimSpace(row.StudentID) == "" || strings.TrimSpace(row.MatchingID) == "" {
		return nil, apierr.BadRequest("student_id and matching_id are required")
	}
	row.StudentID = strings.TrimSpace(row.StudentID)
	row.MatchingID = strings.TrimSpace(row.MatchingID)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.New(ctx).WithTx(tx)
		if row.Score == nil && len(row.Answers) > 0 {
			m, err := s.matchingRepo.GetByID(dbc, row.MatchingID)
			if err != nil {
				return err
			}
			if m == nil {
				return apierr.NotFound("Matching activity")
			}
			answers, err := parseMatchingAnswers(row.Answers)
			if err != nil {
				return apierr.BadRequest("answers must map prompts to choices")
			}
			correct, total := m.Grade(answers)
			isCorrect := total > 0 && correct == total
			row.Score, row.MaxScore, row.IsCorrect = &correct, &total, &isCorrect
		}
		n, err := s.attemptRepo.CountByStudentMatching(dbc, row.StudentID, row.MatchingID)
		if err != nil {
			return err
		}
		row.AttemptNumber = int(n) + 1
		return s.attemptRepo.Create(dbc, row)
	})
	if err != nil {
		return nil, db.MapError("create matching attempt", err)
	}
	s.log.Debug("Matching attempt created", "student_id", row.StudentID, "matching_id", row.MatchingID, "attempt", row.AttemptNumber)
	return row, nil
}

func (s *matchingService) GetAttempt(ctx context.Context, id string) (*types.MatchingAttempt, error) {
	return get(ctx, s.log, "get matching attempt", "Matching attempt", func(dbc dbctx.Context) (*types.MatchingAttempt, error) {
		return s.attemptRepo.GetByID(dbc, id)
	})
}

func (s *matchingService) ListAttempts(ctx context.Context, studentID, matchingID string) ([]*types.MatchingAttempt, error) {
	return read(ctx, s.log, "list matching attempts", func(dbc dbctx.Context) ([]*types.MatchingAttempt, error) {
		return s.attemptRepo.ListByStudent(dbc, strings.TrimSpace(studentID), strings.TrimSpace(matchingID))
	})
}

func (s *matchingService) UpdateAttempt(ctx context.Context, id string, patch types.MatchingAttemptPatch) (*types.MatchingAttempt, error) {
	row, err := s.attemptRepo.Update(dbctx.New(ctx), id, patch.Columns())
	if err != nil {
		return nil, db.MapError("update matching attempt", err)
	}
	if row == nil {
		return nil, apierr.NotFound("Matching attempt")
	}
	return row, nil
}

// parseMatchingAnswers accepts either {"prompt": "choice"} or
// [{"prompt": "...", "choice": "..."}].
func parseMatchingAnswers(raw []byte) (map[string]string, error) {
	byPrompt := map[string]string{}
	if err := json.Unmarshal(raw, &byPrompt); err == nil {
		return byPrompt, nil
	}
	var pairs []types.MatchingPair
	if err := json.Unmarshal(raw, &pairs); err != nil {
		return nil, err
	}
	for _, p := range pairs {
		byPrompt[p.Prompt] = p.Choice
	}
	return byPrompt, nil
}
