package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/meraki-backend/internal/http/handlers"
	httpMW "github.com/yungbote/meraki-backend/internal/http/middleware"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler     *httpH.HealthHandler
	AuthHandler       *httpH.AuthHandler
	UserHandler       *httpH.UserHandler
	CatalogHandler    *httpH.CatalogHandler
	RatingHandler     *httpH.RatingHandler
	ProgressHandler   *httpH.ProgressHandler
	StudentTryHandler *httpH.StudentTryHandler
	MatchingHandler   *httpH.MatchingHandler
	HierarchyHandler  *httpH.HierarchyHandler
	CronHandler       *httpH.CronHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	if cfg.HealthHandler != nil {
		api.GET("/health", cfg.HealthHandler.Status)
	}

	student := []gin.HandlerFunc{}
	admin := []gin.HandlerFunc{}
	if cfg.AuthMiddleware != nil {
		student = append(student, cfg.AuthMiddleware.RequireStudent())
		admin = append(admin, cfg.AuthMiddleware.RequireStudent(), cfg.AuthMiddleware.RequireAdmin())
	}
	with := func(chain []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
		out := make([]gin.HandlerFunc, 0, len(chain)+1)
		out = append(out, chain...)
		return append(out, h)
	}

	// Auth
	if cfg.AuthHandler != nil {
		api.POST("/auth/student-login", cfg.AuthHandler.StudentLogin)
		api.POST("/auth/set-personal-email", cfg.AuthHandler.SetPersonalEmail)
		api.GET("/auth/user", with(student, cfg.AuthHandler.CurrentUser)...)
		api.POST("/auth/setup-email", with(student, cfg.AuthHandler.SetupEmail)...)
	}

	// Catalog
	if h := cfg.CatalogHandler; h != nil {
		api.GET("/topics", with(student, h.ListTopics)...)
		api.POST("/topics", with(admin, h.CreateTopic)...)
		api.GET("/topics/bowl-challenge", h.ListBowlChallengeTopics)
		api.GET("/topics/:id", h.GetTopic)
		api.PUT("/topics/:id", with(admin, h.UpdateTopic)...)

		api.GET("/content", with(student, h.ListContent)...)
		api.POST("/content", with(admin, h.CreateContent)...)
		api.GET("/content/:id", with(student, h.GetContent)...)
		api.PATCH("/content/:id", h.UpdateContent)
		api.GET("/content/:id/videos", h.ListContentVideos)

		api.GET("/content-groups", h.ListContentGroups)
		api.GET("/content-groups/:groupName", h.ListContentByGroup)
		api.GET("/content-groups/topic/:topicId", h.SplitTopicContent)

		api.GET("/images", h.ListImages)
		api.GET("/images/:id", h.GetImage)
		api.GET("/videos", h.ListVideos)
		api.GET("/videos/:id", h.GetVideo)

		api.GET("/questions", h.ListQuestions)
		api.GET("/questions/:id", h.GetQuestion)

		api.GET("/matching", h.ListMatching)
		api.POST("/matching", with(admin, h.CreateMatching)...)
		api.GET("/matching/:id", h.GetMatching)
		api.GET("/matching/topic/:topicId", h.ListMatchingByTopic)
	}

	// Users
	if cfg.UserHandler != nil {
		api.GET("/users", cfg.UserHandler.List)
		api.GET("/users/:id", cfg.UserHandler.Get)
		api.GET("/users/by-email/:email", cfg.UserHandler.GetByEmail)
	}

	// Ratings and content access
	if h := cfg.RatingHandler; h != nil {
		api.POST("/content-access", h.TrackAccess)
		api.GET("/personal-content/:studentId", h.PersonalContent)
		api.POST("/content-ratings", h.Create)
		api.GET("/content-ratings/stats/:contentId", h.Stats)
		api.GET("/content-ratings/:studentId", h.ListByStudent)
		api.GET("/content-ratings/:studentId/:contentId", h.Get)
		api.PUT("/content-ratings/:studentId/:contentId", h.Rate)
	}

	// Progress
	if h := cfg.ProgressHandler; h != nil {
		api.GET("/streaks/:studentId", h.GetStreak)
		api.POST("/streaks/:studentId", h.CompleteActivity)
		api.POST("/daily-activities", h.RecordActivity)
		api.GET("/leaderboards", h.Leaderboards)
		api.GET("/student-tries-leaderboard", h.TriesLeaderboard)
	}

	// Student tries
	if h := cfg.StudentTryHandler; h != nil {
		api.GET("/student-tries", h.List)
		api.POST("/student-tries", h.Create)
		api.GET("/student-tries/:id", h.Get)
		api.PATCH("/student-tries/:id", h.Update)
		api.GET("/student-tries-count/:studentId", h.CountsByContent)
		api.GET("/student-try-content", h.ListRecentTryContent)
		api.GET("/student-try-content/:studentId", h.ListTryContent)
	}

	// Matching attempts
	if h := cfg.MatchingHandler; h != nil {
		api.POST("/matching-attempts", h.CreateAttempt)
		api.GET("/matching-attempts/student/:studentId", h.ListAttempts)
		api.GET("/matching-attempts/:id", h.GetAttempt)
		api.PATCH("/matching-attempts/:id", h.UpdateAttempt)
	}

	if cfg.HierarchyHandler != nil {
		api.GET("/hierarchy/:studentId", cfg.HierarchyHandler.Tree)
	}

	if cfg.CronHandler != nil {
		api.POST("/cron/update-student-tracking", cfg.CronHandler.UpdateStudentTracking)
	}

	return r
}
