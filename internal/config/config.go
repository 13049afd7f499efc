package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const defaultRefreshTokenTTL = 7 * 24 * time.Hour

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Storage      StorageConfig
	Upload       UploadConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name    string
	Env     string
	Host    string
	Port    string
	Version string
	// RequestTimeoutSec bounds the context handed to handlers; 0 disables it.
	RequestTimeoutSec int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN                string
	MaxConns           int32
	MinConns           int32
	RunMigrations      bool
	ConnMaxIdleSec     int32
	ConnMaxLifeSec     int32
	ConnectAttempts    int
	ConnectBackoffMsec int
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	PoolSize    int
	DialTimeout time.Duration
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret              string
	AccessTokenTTLSeconds  int
	RefreshTokenTTLMinutes int
	BcryptCost             int
}

// StorageConfig points at the S3-compatible bucket holding seller images.
type StorageConfig struct {
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
	UsePathStyle  bool
}

// UploadConfig bounds inbound request bodies and files.
type UploadConfig struct {
	MaxImageBytes int
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	secret := os.Getenv("AUTH_JWT_SECRET")
	if secret == "" {
		return nil, errors.New("AUTH_JWT_SECRET is required")
	}

	cfg := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "marketplace-service"),
			Env:     getEnv("APP_ENV", "development"),
			Host:    getEnv("APP_HOST", "0.0.0.0"),
			Port:    getEnv("APP_PORT", getEnv("PORT", "5000")),
			Version: getEnv("APP_VERSION", "dev"),

			RequestTimeoutSec: getEnvAsInt("APP_REQUEST_TIMEOUT_SECONDS", 15),
		},
		Postgres: PostgresConfig{
			DSN:                postgresDSN(),
			MaxConns:           int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:           int32(getEnvAsInt("POSTGRES_MIN_CONNS", 0)),
			RunMigrations:      getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec:     int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec:     int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
			ConnectAttempts:    getEnvAsInt("POSTGRES_CONNECT_ATTEMPTS", 5),
			ConnectBackoffMsec: getEnvAsInt("POSTGRES_CONNECT_BACKOFF_MS", 500),
		},
		Redis: RedisConfig{
			Addr:        getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:    os.Getenv("REDIS_PASSWORD"),
			DB:          redisDB,
			PoolSize:    getEnvAsInt("REDIS_POOL_SIZE", 10),
			DialTimeout: time.Duration(getEnvAsInt("REDIS_DIAL_TIMEOUT_MS", 2000)) * time.Millisecond,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:              secret,
			AccessTokenTTLSeconds:  getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_SECONDS", 100),
			RefreshTokenTTLMinutes: getEnvAsInt("AUTH_REFRESH_TOKEN_TTL_MINUTES", int(defaultRefreshTokenTTL/time.Minute)),
			BcryptCost:             getEnvAsInt("AUTH_BCRYPT_COST", 10),
		},
		Storage: StorageConfig{
			Region:        getEnv("S3_REGION", "us-east-1"),
			Endpoint:      os.Getenv("S3_ENDPOINT"),
			AccessKey:     os.Getenv("S3_ACCESS_KEY"),
			SecretKey:     os.Getenv("S3_SECRET_KEY"),
			Bucket:        os.Getenv("S3_BUCKET"),
			PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),
			UsePathStyle:  getEnvAsBool("S3_USE_PATH_STYLE", true),
		},
		Upload: UploadConfig{
			MaxImageBytes: getEnvAsInt("UPLOAD_MAX_IMAGE_BYTES", 10*1024*1024),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the per-request context deadline.
func (a AppConfig) RequestTimeout() time.Duration {
	return time.Duration(a.RequestTimeoutSec) * time.Second
}

// AccessTokenTTL returns the lifetime of issued access tokens.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	return time.Duration(a.AccessTokenTTLSeconds) * time.Second
}

// RefreshTokenTTL returns the lifetime of issued refresh tokens.
// Non-positive values fall back to the default; Redis would otherwise keep them forever.
func (a AuthConfig) RefreshTokenTTL() time.Duration {
	if a.RefreshTokenTTLMinutes <= 0 {
		return defaultRefreshTokenTTL
	}
	return time.Duration(a.RefreshTokenTTLMinutes) * time.Minute
}

// ConnectBackoff returns the base delay between connection attempts.
func (p PostgresConfig) ConnectBackoff() time.Duration {
	return time.Duration(p.ConnectBackoffMsec) * time.Millisecond
}

// Enabled reports whether an object storage bucket is configured.
func (s StorageConfig) Enabled() bool {
	return s.Bucket != ""
}

// postgresDSN prefers POSTGRES_DSN and otherwise assembles a URL from the DB_* variables.
func postgresDSN() string {
	if dsn := os.Getenv("POSTGRES_DSN"); dsn != "" {
		return dsn
	}
	host := os.Getenv("DB_HOST")
	if host == "" {
		return ""
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(os.Getenv("DB_USER"), os.Getenv("DB_PASS")),
		Host:     fmt.Sprintf("%s:%s", host, getEnv("DB_PORT", "5432")),
		Path:     "/" + os.Getenv("DB_NAME"),
		RawQuery: "sslmode=" + getEnv("DB_SSLMODE", "disable"),
	}
	return u.String()
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
