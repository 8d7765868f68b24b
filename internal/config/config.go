package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
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
	Notification NotificationConfig
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
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr            string
	Password        string
	DB              int
	CacheTTLSeconds int
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

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

const devSecret = "dev-secret"

// Load reads the environment (and a .env file when present) into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisCfg, err := loadRedis()
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		App:      loadApp(),
		Postgres: loadPostgres(),
		Redis:    redisCfg,
		Logger:   LoggerConfig{Level: getEnv("LOG_LEVEL", "info")},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", devSecret),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 10),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@hospital.local"),
			WebhookURL: os.Getenv("NOTIFY_WEBHOOK_URL"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if c.App.IsProduction() && c.Auth.JWTSecret == devSecret {
		return errors.New("AUTH_JWT_SECRET must be set in production")
	}
	if c.Auth.AccessTokenTTLMinutes <= 0 {
		return fmt.Errorf("AUTH_ACCESS_TOKEN_TTL_MINUTES must be positive, got %d", c.Auth.AccessTokenTTLMinutes)
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("AUTH_BCRYPT_COST must be within 4..31, got %d", c.Auth.BcryptCost)
	}
	return nil
}

func loadApp() AppConfig {
	return AppConfig{
		Name:                  getEnv("APP_NAME", "hospital-service"),
		Env:                   getEnv("APP_ENV", "development"),
		Host:                  getEnv("APP_HOST", "0.0.0.0"),
		Port:                  getEnv("APP_PORT", "8080"),
		Version:               getEnv("APP_VERSION", "dev"),
		RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
	}
}

func loadPostgres() PostgresConfig {
	return PostgresConfig{
		DSN:            os.Getenv("POSTGRES_DSN"),
		MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
		MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
		RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
		MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
		ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
		ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
	}
}

func loadRedis() (RedisConfig, error) {
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return RedisConfig{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	return RedisConfig{
		Addr:            getEnvOrEmpty("REDIS_ADDR", "127.0.0.1:6379"),
		Password:        os.Getenv("REDIS_PASSWORD"),
		DB:              db,
		CacheTTLSeconds: getEnvAsInt("REDIS_CACHE_TTL_SECONDS", 300),
	}, nil
}

// IsProduction reports whether APP_ENV names a production deployment.
func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Env, "production")
}

// CacheTTL returns how long cached entries live.
func (r RedisConfig) CacheTTL() time.Duration {
	if r.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(r.CacheTTLSeconds) * time.Second
}

// AccessTokenTTL returns the validity window of issued tokens.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
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

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

// getEnvOrEmpty honours an explicitly empty value, which callers treat as
// "disabled"; only an unset key takes the fallback.
func getEnvOrEmpty(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(val)
	}
	return fallback
}

// getEnvAsInt falls back on unset or malformed values.
func getEnvAsInt(key string, fallback int) int {
	if parsed, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return parsed
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if parsed, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return parsed
	}
	return fallback
}
