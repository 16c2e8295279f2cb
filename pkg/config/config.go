package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Storage  StorageConfig
	Retry    RetryConfig
	Feed     FeedConfig
	Stats    StatsConfig
	CORS     CORSConfig
	Log      LogConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// AuthConfig gates the lecturer role behind a single configured credential
// pair. The verifier behind it is swappable; this only feeds the default one.
type AuthConfig struct {
	AdminEmail        string
	AdminPasswordHash string
	JWTSecret         string
	TokenExpiry       time.Duration
	Issuer            string
}

// StorageConfig locates the blob store and the public route it is served on.
type StorageConfig struct {
	BaseDir       string
	PublicBaseURL string
	MaxFileSize   int64
}

// RetryConfig tunes the store-call retry wrapper.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// FeedConfig tunes the live content feed.
type FeedConfig struct {
	Channel       string
	BufferSize    int
	ResyncTimeout time.Duration
}

// StatsConfig governs statistics caching.
type StatsConfig struct {
	CacheTTL time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Auth = AuthConfig{
		AdminEmail:        v.GetString("ADMIN_EMAIL"),
		AdminPasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		TokenExpiry:       parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:            v.GetString("JWT_ISSUER"),
	}

	maxFileSize := v.GetInt64("STORAGE_MAX_FILE_SIZE")
	if maxFileSize <= 0 {
		maxFileSize = 50 * 1024 * 1024
	}
	cfg.Storage = StorageConfig{
		BaseDir:       v.GetString("STORAGE_DIR"),
		PublicBaseURL: v.GetString("STORAGE_PUBLIC_BASE_URL"),
		MaxFileSize:   maxFileSize,
	}

	cfg.Retry = RetryConfig{
		MaxAttempts: v.GetInt("RETRY_MAX_ATTEMPTS"),
		BaseDelay:   parseDuration(v.GetString("RETRY_BASE_DELAY"), time.Second),
	}

	cfg.Feed = FeedConfig{
		Channel:       v.GetString("FEED_CHANNEL"),
		BufferSize:    v.GetInt("FEED_BUFFER_SIZE"),
		ResyncTimeout: parseDuration(v.GetString("FEED_RESYNC_TIMEOUT"), 5*time.Second),
	}

	cfg.Stats = StatsConfig{
		CacheTTL: parseDuration(v.GetString("STATS_CACHE_TTL"), 5*time.Minute),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "edushare")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ADMIN_EMAIL", "admin@admin.com")
	v.SetDefault("ADMIN_PASSWORD_HASH", "")
	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "edushare-api")

	v.SetDefault("STORAGE_DIR", "./uploads")
	v.SetDefault("STORAGE_PUBLIC_BASE_URL", "")
	v.SetDefault("STORAGE_MAX_FILE_SIZE", 50*1024*1024)

	v.SetDefault("RETRY_MAX_ATTEMPTS", 3)
	v.SetDefault("RETRY_BASE_DELAY", "1s")

	v.SetDefault("FEED_CHANNEL", "content:changed")
	v.SetDefault("FEED_BUFFER_SIZE", 8)
	v.SetDefault("FEED_RESYNC_TIMEOUT", "5s")

	v.SetDefault("STATS_CACHE_TTL", "5m")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
