package app

import (
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/meraki-backend/internal/data/db"
	"github.com/yungbote/meraki-backend/internal/observability"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
	"github.com/yungbote/meraki-backend/internal/platform/envutil"
)

type Config struct {
	Port            string
	DatabaseDSN     string
	ShutdownTimeout time.Duration

	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	AdminStudentIDs []string
	AllowedOrigins  []string

	SchedulerEnabled bool
	TrackingInterval time.Duration
	RedisAddr        string
	RedisLockPrefix  string
	JobLockTTL       time.Duration

	HierarchyMaxDepth int

	Otel observability.OtelConfig
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port:            envutil.GetEnv("PORT", "8080", log),
		DatabaseDSN:     db.DSN(log),
		ShutdownTimeout: envutil.GetEnvAsDuration("SHUTDOWN_TIMEOUT", 15*time.Second, log),

		JWTSecretKey:    envutil.GetEnv("JWT_SECRET_KEY", "defaultsecret", nil),
		AccessTokenTTL:  envutil.GetEnvAsDuration("ACCESS_TOKEN_TTL", 24*time.Hour, log),
		AdminStudentIDs: envutil.GetEnvAsList("ADMIN_STUDENT_IDS", []string{"GV0002"}),
		AllowedOrigins:  envutil.GetEnvAsList("CORS_ALLOWED_ORIGINS", nil),

		SchedulerEnabled: envutil.GetEnvAsBool("SCHEDULER_ENABLED", true, log),
		TrackingInterval: envutil.GetEnvAsDuration("TRACKING_INTERVAL", 24*time.Hour, log),
		RedisAddr:        strings.TrimSpace(envutil.GetEnv("REDIS_ADDR", "", log)),
		RedisLockPrefix:  envutil.GetEnv("REDIS_LOCK_PREFIX", "meraki:lock:", log),
		JobLockTTL:       envutil.GetEnvAsDuration("JOB_LOCK_TTL", 30*time.Minute, log),

		HierarchyMaxDepth: envutil.GetEnvAsInt("HIERARCHY_MAX_DEPTH", 0, log),

		Otel: observability.OtelConfig{
			Enabled:     envutil.GetEnvAsBool("OTEL_ENABLED", false, log),
			ServiceName: envutil.GetEnv("OTEL_SERVICE_NAME", "meraki-backend", log),
			Environment: envutil.GetEnv("APP_ENV", "development", log),
			Version:     envutil.GetEnv("APP_VERSION", "", log),
			Endpoint:    envutil.GetEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Insecure:    envutil.GetEnvAsBool("OTEL_EXPORTER_OTLP_INSECURE", false, log),
			Headers:     observability.ParseHeaders(envutil.GetEnv("OTEL_EXPORTER_OTLP_HEADERS", "", nil)),
			SampleRatio: sampleRatio(envutil.GetEnv("OTEL_SAMPLER_RATIO", "", log)),
		},
	}
}

func sampleRatio(raw string) float64 {
	if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		return f
	}
	return 0.1
}
