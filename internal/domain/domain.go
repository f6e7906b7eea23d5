package domain

import (
	"github.com/yungbote/meraki-backend/internal/domain/catalog"
	"github.com/yungbote/meraki-backend/internal/domain/progress"
	"github.com/yungbote/meraki-backend/internal/domain/user"
)

type (
	Topic               = catalog.Topic
	TopicPatch          = catalog.TopicPatch
	Content             = catalog.Content
	ContentPatch        = catalog.ContentPatch
	ContentGroupSummary = catalog.ContentGroupSummary
	ContentGroupBucket  = catalog.ContentGroupBucket
	TopicContentSplit   = catalog.TopicContentSplit
	Image               = catalog.Image
	Video               = catalog.Video
	Question            = catalog.Question
	QuestionFilter      = catalog.QuestionFilter
	Matching            = catalog.Matching
	MatchingPair        = catalog.MatchingPair

	Rating                = progress.Rating
	ContentRating         = progress.ContentRating
	RatingStats           = progress.RatingStats
	PersonalContent       = progress.PersonalContent
	StudentStreak         = progress.StudentStreak
	DailyActivity         = progress.DailyActivity
	Leaderboards          = progress.Leaderboards
	PointsEntry           = progress.PointsEntry
	StreakEntry           = progress.StreakEntry
	CountEntry            = progress.CountEntry
	StudentTry            = progress.StudentTry
	StudentTryPatch       = progress.StudentTryPatch
	StudentTryContent     = progress.StudentTryContent
	TriesLeaderboardEntry = progress.TriesLeaderboardEntry
	AnsweredQuestion      = progress.AnsweredQuestion
	MatchingAttempt       = progress.MatchingAttempt
	MatchingAttemptPatch  = progress.MatchingAttemptPatch
	CronJob               = progress.CronJob

	User = user.User
)

const (
	RatingOK        = progress.RatingOK
	RatingNormal    = progress.RatingNormal
	RatingReallyBad = progress.RatingReallyBad
	RatingViewed    = progress.RatingViewed

	PromptGroupCard   = catalog.PromptGroupCard
	MaxMatchingPairs  = catalog.MaxMatchingPairs
	LevelOverview     = catalog.LevelOverview
	QuizResultCorrect = progress.QuizResultCorrect

	CronStatusRunning   = progress.CronStatusRunning
	CronStatusSucceeded = progress.CronStatusSucceeded
	CronStatusFailed    = progress.CronStatusFailed
)

var (
	Day          = progress.Day
	SplitByGroup = catalog.SplitByGroup
)

// Models lists every persisted type in migration order.
func Models() []interface{} {
	return []interface{}{
		&User{},

		&Topic{},
		&Content{},
		&Image{},
		&Video{},
		&Question{},
		&Matching{},

		&ContentRating{},
		&StudentStreak{},
		&DailyActivity{},
		&StudentTry{},
		&StudentTryContent{},
		&MatchingAttempt{},
		&CronJob{},
	}
}
