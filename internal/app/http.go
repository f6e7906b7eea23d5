package app

import (
	"github.com/yungbote/meraki-backend/internal/http"
	httpH "github.com/yungbote/meraki-backend/internal/http/handlers"
	httpMW "github.com/yungbote/meraki-backend/internal/http/middleware"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health     *httpH.HealthHandler
	Auth       *httpH.AuthHandler
	User       *httpH.UserHandler
	Catalog    *httpH.CatalogHandler
	Rating     *httpH.RatingHandler
	Progress   *httpH.ProgressHandler
	StudentTry *httpH.StudentTryHandler
	Matching   *httpH.MatchingHandler
	Hierarchy  *httpH.HierarchyHandler
	Cron       *httpH.CronHandler
}

func wireHandlers(log *logger.Logger, services Services, pinger httpH.Pinger, runner httpH.JobRunner) Handlers {
	log.Info("Wiring handlers...")
	bind := httpH.NewBinder()
	return Handlers{
		Health:     httpH.NewHealthHandler(pinger),
		Auth:       httpH.NewAuthHandler(log, bind, services.Auth, services.User),
		User:       httpH.NewUserHandler(log, services.User),
		Catalog:    httpH.NewCatalogHandler(log, bind, services.Catalog),
		Rating:     httpH.NewRatingHandler(log, bind, services.Rating),
		Progress:   httpH.NewProgressHandler(log, bind, services.Progress),
		StudentTry: httpH.NewStudentTryHandler(log, bind, services.StudentTry),
		Matching:   httpH.NewMatchingHandler(log, bind, services.Matching),
		Hierarchy:  httpH.NewHierarchyHandler(log, services.Hierarchy),
		Cron:       httpH.NewCronHandler(log, runner),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *http.Server {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewServer(http.RouterConfig{
		Log:               log,
		ServiceName:       serviceName,
		AllowedOrigins:    cfg.AllowedOrigins,
		AuthMiddleware:    middleware.Auth,
		HealthHandler:     handlers.Health,
		AuthHandler:       handlers.Auth,
		UserHandler:       handlers.User,
		CatalogHandler:    handlers.Catalog,
		RatingHandler:     handlers.Rating,
		ProgressHandler:   handlers.Progress,
		StudentTryHandler: handlers.StudentTry,
		MatchingHandler:   handlers.Matching,
		HierarchyHandler:  handlers.Hierarchy,
		CronHandler:       handlers.Cron,
	})
}
