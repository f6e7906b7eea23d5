package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/meraki-backend/internal/data/repos"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
)

type Repos struct {
	User repos.UserRepo

	Topic    repos.TopicRepo
	Content  repos.ContentRepo
	Image    repos.ImageRepo
	Video    repos.VideoRepo
	Question repos.QuestionRepo
	Matching repos.MatchingRepo

	ContentRating     repos.ContentRatingRepo
	StudentStreak     repos.StudentStreakRepo
	DailyActivity     repos.DailyActivityRepo
	StudentTry        repos.StudentTryRepo
	StudentTryContent repos.StudentTryContentRepo
	MatchingAttempt   repos.MatchingAttemptRepo
	CronJob           repos.CronJobRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User: repos.NewUserRepo(db, log),

		Topic:    repos.NewTopicRepo(db, log),
		Content:  repos.NewContentRepo(db, log),
		Image:    repos.NewImageRepo(db, log),
		Video:    repos.NewVideoRepo(db, log),
		Question: repos.NewQuestionRepo(db, log),
		Matching: repos.NewMatchingRepo(db, log),

		ContentRating:     repos.NewContentRatingRepo(db, log),
		StudentStreak:     repos.NewStudentStreakRepo(db, log),
		DailyActivity:     repos.NewDailyActivityRepo(db, log),
		StudentTry:        repos.NewStudentTryRepo(db, log),
		StudentTryContent: repos.NewStudentTryContentRepo(db, log),
		MatchingAttempt:   repos.NewMatchingAttemptRepo(db, log),
		CronJob:           repos.NewCronJobRepo(db, log),
	}
}
