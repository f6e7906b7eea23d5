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

// ActivityPoints is what one rated or completed item is worth.
const ActivityPoints = 10

const (
	leaderboardLimit      = 10
	triesLeaderboardLimit = 20
)

type ProgressService interface {
	GetStreak(ctx context.Context, studentID string) (*types.StudentStreak, error)
	UpdateStreak(ctx context.Context, studentID string) (*types.StudentStreak, error)
	RecordActivity(ctx context.Context, studentID string, points int) (*types.DailyActivity, error)
	// CompleteActivity records a standard activity and then advances the streak.
	CompleteActivity(ctx context.Context, studentID string) (*types.StudentStreak, error)
	Leaderboards(ctx context.Context) (*types.Leaderboards, error)
	TriesLeaderboard(ctx context.Context) ([]types.TriesLeaderboardEntry, error)
}

type progressService struct {
	db           *gorm.DB
	log          *logger.Logger
	streakRepo   repos.StudentStreakRepo
	activityRepo repos.DailyActivityRepo
	tryRepo      repos.StudentTryRepo
	now          func() time.Time
}

func NewProgressService(
	db *gorm.DB,
	log *logger.Logger,
	streakRepo repos.StudentStreakRepo,
	activityRepo repos.DailyActivityRepo,
	tryRepo repos.StudentTryRepo,
	now func() time.Time,
) ProgressService {
	if now == nil {
		now = time.Now
	}
	return &progressService{
		db:           db,
		log:          log.With("service", "ProgressService"),
		streakRepo:   streakRepo,
		activityRepo: activityRepo,
		tryRepo:      tryRepo,
		now:          now,
	}
}

func (s *progressService) GetStreak(ctx context.Context, studentID string) (*types.StudentStreak, error) {
	return read(ctx, s.log, "get streak", func(dbc dbctx.Context) (*types.StudentStreak, error) {
		return s.streakRepo.Get(dbc, strings.TrimSpace(studentID))
	})
}

func (s *progressService) UpdateStreak(ctx context.Context, studentID string) (*types.StudentStreak, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, apierr.BadRequest("studentId is required")
	}
	today := types.Day(s.now())
	var out *types.StudentStreak
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.New(ctx).WithTx(tx)
		existing, err := s.streakRepo.Get(dbc, studentID)
		if err != nil {
			return err
		}
		activity, err := s.activityRepo.Get(dbc, studentID, today)
		if err != nil {
			return err
		}
		current := types.StudentStreak{StudentID: studentID}
		if existing != nil {
			current = *existing
		}
		next := current.Advance(today, activity != nil)
		if err := s.streakRepo.Save(dbc, &next); err != nil {
			return err
		}
		out, err = s.streakRepo.Get(dbc, studentID)
		return err
	})
	if err != nil {
		return nil, db.MapError("update streak", err)
	}
	return out, nil
}

func (s *progressService) RecordActivity(ctx context.Context, studentID string, points int) (*types.DailyActivity, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, apierr.BadRequest("studentId is required")
	}
	if points < 0 {
		return nil, apierr.BadRequest("points must not be negative")
	}
	row, err := s.activityRepo.Record(dbctx.New(ctx), studentID, s.now(), points)
	if err != nil {
		return nil, db.MapError("record activity", err)
	}
	return row, nil
}

func (s *progressService) CompleteActivity(ctx context.Context, studentID string) (*types.StudentStreak, error) {
	if _, err := s.RecordActivity(ctx, studentID, ActivityPoints); err != nil {
		return nil, err
	}
	return s.UpdateStreak(ctx, studentID)
}

func (s *progressService) Leaderboards(ctx context.Context) (*types.Leaderboards, error) {
	today := types.Day(s.now())
	weekAgo := today.AddDate(0, 0, -7)
	out := &types.Leaderboards{}
	err := db.Retry(ctx, s.log, "leaderboards", func() error {
		dbc := dbctx.New(ctx)
		var err error
		if out.TotalPoints, err = s.activityRepo.TotalPoints(dbc, leaderboardLimit); err != nil {
			return fmt.Errorf("total points: %w", err)
		}
		if out.BestStreak, err = s.streakRepo.Leaderboard(dbc, leaderboardLimit); err != nil {
			return fmt.Errorf("best streak: %w", err)
		}
		if out.TodayQuizzes, err = s.activityRepo.DayCounts(dbc, today, leaderboardLimit); err != nil {
			return fmt.Errorf("today: %w", err)
		}
		if out.WeeklyQuizzes, err = s.activityRepo.WeekCounts(dbc, weekAgo, leaderboardLimit); err != nil {
			return fmt.Errorf("weekly: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("leaderboards: %w", err)
	}
	return out, nil
}

func (s *progressService) TriesLeaderboard(ctx context.Context) ([]types.TriesLeaderboardEntry, error) {
	return read(ctx, s.log, "tries leaderboard", func(dbc dbctx.Context) ([]types.TriesLeaderboardEntry, error) {
		return s.tryRepo.Leaderboard(dbc, triesLeaderboardLimit)
	})
}
