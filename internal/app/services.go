package app

import (
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/meraki-backend/internal/modules/hierarchy"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
	"github.com/yungbote/meraki-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	User       services.UserService
	Catalog    services.CatalogService
	Progress   services.ProgressService
	Rating     services.RatingService
	StudentTry services.StudentTryService
	Matching   services.MatchingService
	Hierarchy  services.HierarchyService
	Tracking   services.TrackingService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos) Services {
	log.Info("Wiring services...")
	progress := services.NewProgressService(db, log, r.StudentStreak, r.DailyActivity, r.StudentTry, time.Now)
	return Services{
		Auth: services.NewAuthService(db, log, r.User, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.AdminStudentIDs),
		User: services.NewUserService(db, log, r.User),
		Catalog: services.NewCatalogService(db, log,
			r.Topic, r.Content, r.Image, r.Video, r.Question, r.Matching),
		Progress:   progress,
		Rating:     services.NewRatingService(db, log, r.ContentRating, r.StudentTryContent, progress),
		StudentTry: services.NewStudentTryService(db, log, r.StudentTry, r.StudentTryContent),
		Matching:   services.NewMatchingService(db, log, r.Matching, r.MatchingAttempt),
		Hierarchy: services.NewHierarchyService(db, log, r.Topic, r.Content, r.ContentRating,
			hierarchy.Options{MaxDepth: cfg.HierarchyMaxDepth}),
		Tracking: services.NewTrackingService(db, log, r.StudentTry, r.StudentTryContent, time.Now),
	}
}
