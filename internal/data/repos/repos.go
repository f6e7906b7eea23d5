package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/meraki-backend/internal/data/repos/catalog"
	"github.com/yungbote/meraki-backend/internal/data/repos/progress"
	"github.com/yungbote/meraki-backend/internal/data/repos/user"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
)

type UserRepo = user.UserRepo

type TopicRepo = catalog.TopicRepo
type ContentRepo = catalog.ContentRepo
type ImageRepo = catalog.ImageRepo
type VideoRepo = catalog.VideoRepo
type QuestionRepo = catalog.QuestionRepo
type MatchingRepo = catalog.MatchingRepo

type ContentRatingRepo = progress.ContentRatingRepo
type StudentStreakRepo = progress.StudentStreakRepo
type DailyActivityRepo = progress.DailyActivityRepo
type StudentTryRepo = progress.StudentTryRepo
type StudentTryContentRepo = progress.StudentTryContentRepo
type MatchingAttemptRepo = progress.MatchingAttemptRepo
type CronJobRepo = progress.CronJobRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }

func NewTopicRepo(db *gorm.DB, baseLog *logger.Logger) TopicRepo {
	return catalog.NewTopicRepo(db, baseLog)
}
func NewContentRepo(db *gorm.DB, baseLog *logger.Logger) ContentRepo {
	return catalog.NewContentRepo(db, baseLog)
}
func NewImageRepo(db *gorm.DB, baseLog *logger.Logger) ImageRepo {
	return catalog.NewImageRepo(db, baseLog)
}
func NewVideoRepo(db *gorm.DB, baseLog *logger.Logger) VideoRepo {
	return catalog.NewVideoRepo(db, baseLog)
}
func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return catalog.NewQuestionRepo(db, baseLog)
}
func NewMatchingRepo(db *gorm.DB, baseLog *logger.Logger) MatchingRepo {
	return catalog.NewMatchingRepo(db, baseLog)
}

func NewContentRatingRepo(db *gorm.DB, baseLog *logger.Logger) ContentRatingRepo {
	return progress.NewContentRatingRepo(db, baseLog)
}
func NewStudentStreakRepo(db *gorm.DB, baseLog *logger.Logger) StudentStreakRepo {
	return progress.NewStudentStreakRepo(db, baseLog)
}
func NewDailyActivityRepo(db *gorm.DB, baseLog *logger.Logger) DailyActivityRepo {
	return progress.NewDailyActivityRepo(db, baseLog)
}
func NewStudentTryRepo(db *gorm.DB, baseLog *logger.Logger) StudentTryRepo {
	return progress.NewStudentTryRepo(db, baseLog)
}
func NewStudentTryContentRepo(db *gorm.DB, baseLog *logger.Logger) StudentTryContentRepo {
	return progress.NewStudentTryContentRepo(db, baseLog)
}
func NewMatchingAttemptRepo(db *gorm.DB, baseLog *logger.Logger) MatchingAttemptRepo {
	return progress.NewMatchingAttemptRepo(db, baseLog)
}
func NewCronJobRepo(db *gorm.DB, baseLog *logger.Logger) CronJobRepo {
	return progress.NewCronJobRepo(db, baseLog)
}
