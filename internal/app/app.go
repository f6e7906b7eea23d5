package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/yungbote/meraki-backend/internal/clients/redis"
	"github.com/yungbote/meraki-backend/internal/data/db"
	"github.com/yungbote/meraki-backend/internal/http"
	"github.com/yungbote/meraki-backend/internal/jobs/scheduler"
	"github.com/yungbote/meraki-backend/internal/observability"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
	"github.com/yungbote/meraki-backend/internal/platform/envutil"
)

type App struct {
	Log       *logger.Logger
	DB        *gorm.DB
	Server    *http.Server
	Cfg       Config
	Repos     Repos
	Services  Services
	Scheduler *scheduler.Scheduler

	pg           *db.PostgresService
	locker       *redis.Locker
	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	envutil.LoadDotEnv(log)
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)

	pg, err := db.NewPostgresServiceWithDSN(log, cfg.DatabaseDSN)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		_ = pg.Close()
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()
	sqlDB, err := theDB.DB()
	if err != nil {
		_ = pg.Close()
		log.Sync()
		return nil, fmt.Errorf("postgres pool: %w", err)
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet)

	sched, locker, err := wireScheduler(log, cfg, reposet, serviceset)
	if err != nil {
		_ = pg.Close()
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, serviceset, sqlDB, sched)
	middleware := wireMiddleware(log, serviceset)
	server := wireServer(log, cfg, handlerset, middleware)

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       server,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Scheduler:    sched,
		pg:           pg,
		locker:       locker,
		otelShutdown: otelShutdown,
	}, nil
}

// Run starts the scheduler (when enabled) and serves HTTP until ctx ends.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return errors.New("app not initialized")
	}
	if a.Cfg.SchedulerEnabled {
		a.Scheduler.Start(ctx)
	} else {
		a.Log.Info("Scheduler disabled")
	}
	err := a.Server.Run(ctx, ":"+a.Cfg.Port, a.Cfg.ShutdownTimeout)
	a.Scheduler.Wait()
	return err
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.locker != nil {
		if err := a.locker.Close(); err != nil {
			a.Log.Warn("Failed to close redis locker", "error", err)
		}
	}
	if a.pg != nil {
		if err := a.pg.Close(); err != nil {
			a.Log.Warn("Failed to close postgres", "error", err)
		}
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(context.Background()); err != nil {
			a.Log.Warn("Failed to flush traces", "error", err)
		}
	}
	a.Log.Sync()
}
