package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Vision       VisionConfig
	Notification NotificationConfig
	Insight      InsightConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// VisionConfig configures the external image classifier. An empty API key
// disables the image triage path.
type VisionConfig struct {
	APIKey                string
	Model                 string
	RequestTimeoutSeconds int
	RetryBackoffSeconds   int
}

// NotificationConfig configures escalation alert delivery. An empty API key
// falls back to log-only alerts.
type NotificationConfig struct {
	SendGridAPIKey string
	FromName       string
	FromEmail      string
	AlertRecipient string
}

// InsightConfig controls the cached reporting surface.
type InsightConfig struct {
	CacheTTLSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "maintenance-engine"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Vision: VisionConfig{
			APIKey:                os.Getenv("VISION_API_KEY"),
			Model:                 getEnv("VISION_MODEL", ""),
			RequestTimeoutSeconds: getEnvAsInt("VISION_REQUEST_TIMEOUT_SECONDS", 20),
			RetryBackoffSeconds:   getEnvAsInt("VISION_RETRY_BACKOFF_SECONDS", 10),
		},
		Notification: NotificationConfig{
			SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
			FromName:       getEnv("NOTIFY_FROM_NAME", "PropOS Maintenance"),
			FromEmail:      getEnv("NOTIFY_FROM_EMAIL", "noreply@example.com"),
			AlertRecipient: getEnv("NOTIFY_ALERT_RECIPIENT", ""),
		},
		Insight: InsightConfig{
			CacheTTLSeconds: getEnvAsInt("INSIGHT_CACHE_TTL_SECONDS", 60),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// RequestTimeout returns the classifier call timeout.
func (v VisionConfig) RequestTimeout() time.Duration {
	if v.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(v.RequestTimeoutSeconds) * time.Second
}

// RetryBackoff returns the delay before the single rate-limit retry.
func (v VisionConfig) RetryBackoff() time.Duration {
	if v.RetryBackoffSeconds <= 0 {
		return 0
	}
	return time.Duration(v.RetryBackoffSeconds) * time.Second
}

// CacheTTL returns the insight cache lifetime.
func (i InsightConfig) CacheTTL() time.Duration {
	if i.CacheTTLSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(i.CacheTTLSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
