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

	Database    DatabaseConfig
	Redis       RedisConfig
	CORS        CORSConfig
	Log         LogConfig
	Storage     StorageConfig
	AI          AIConfig
	Upload      UploadConfig
	Streak      StreakConfig
	Leaderboard LeaderboardConfig
	Chat        ChatConfig
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

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// StorageConfig configures the S3-compatible object store holding uploaded
// documents. PublicURL overrides the endpoint when building file URLs, for
// deployments where the bucket sits behind a CDN or different hostname.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	PublicURL string
}

// AIConfig configures the chat-completion provider. BaseURL points at any
// OpenAI-compatible endpoint (OpenRouter by default). Timeout bounds a single
// completion call and must stay well below the upload write timeout.
type AIConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// UploadConfig bounds the upload pipeline. Timeout covers the whole
// request including the AI call, so it is sized in minutes rather than the
// usual seconds.
type UploadConfig struct {
	MaxFileSizeBytes int64
	Timeout          time.Duration
}

// StreakConfig tunes the per-user advisory lock taken around the
// read-compute-upsert of the streak row.
type StreakConfig struct {
	LockTTL     time.Duration
	LockRetries int
}

// LeaderboardConfig tunes leaderboard caching.
type LeaderboardConfig struct {
	Size     int
	CacheTTL time.Duration
}

// ChatConfig holds the banned-word list applied to outgoing messages.
type ChatConfig struct {
	BannedWords []string
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

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Storage = StorageConfig{
		Endpoint:  v.GetString("STORAGE_ENDPOINT"),
		AccessKey: v.GetString("STORAGE_ACCESS_KEY"),
		SecretKey: v.GetString("STORAGE_SECRET_KEY"),
		Bucket:    v.GetString("STORAGE_BUCKET"),
		Region:    v.GetString("STORAGE_REGION"),
		UseSSL:    v.GetBool("STORAGE_USE_SSL"),
		PublicURL: v.GetString("STORAGE_PUBLIC_URL"),
	}

	cfg.AI = AIConfig{
		BaseURL:     v.GetString("AI_BASE_URL"),
		APIKey:      v.GetString("AI_API_KEY"),
		Model:       v.GetString("AI_MODEL"),
		Temperature: v.GetFloat64("AI_TEMPERATURE"),
		Timeout:     parseDuration(v.GetString("AI_TIMEOUT"), 2*time.Minute),
	}

	maxFileSize := v.GetInt64("UPLOAD_MAX_FILE_SIZE")
	if maxFileSize <= 0 {
		maxFileSize = 20 * 1024 * 1024
	}
	cfg.Upload = UploadConfig{
		MaxFileSizeBytes: maxFileSize,
		Timeout:          parseDuration(v.GetString("UPLOAD_TIMEOUT"), 10*time.Minute),
	}

	cfg.Streak = StreakConfig{
		LockTTL:     parseDuration(v.GetString("STREAK_LOCK_TTL"), 10*time.Second),
		LockRetries: v.GetInt("STREAK_LOCK_RETRIES"),
	}

	cfg.Leaderboard = LeaderboardConfig{
		Size:     v.GetInt("LEADERBOARD_SIZE"),
		CacheTTL: parseDuration(v.GetString("LEADERBOARD_CACHE_TTL"), time.Minute),
	}

	cfg.Chat = ChatConfig{BannedWords: splitAndTrim(v.GetString("CHAT_BANNED_WORDS"))}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "unicollab")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("STORAGE_ENDPOINT", "localhost:9000")
	v.SetDefault("STORAGE_ACCESS_KEY", "minioadmin")
	v.SetDefault("STORAGE_SECRET_KEY", "minioadmin")
	v.SetDefault("STORAGE_BUCKET", "study-materials")
	v.SetDefault("STORAGE_REGION", "us-east-1")
	v.SetDefault("STORAGE_USE_SSL", false)
	v.SetDefault("STORAGE_PUBLIC_URL", "")

	v.SetDefault("AI_BASE_URL", "https://openrouter.ai/api/v1")
	v.SetDefault("AI_API_KEY", "")
	v.SetDefault("AI_MODEL", "meta-llama/llama-3.3-70b-instruct:free")
	v.SetDefault("AI_TEMPERATURE", 0.3)
	v.SetDefault("AI_TIMEOUT", "2m")

	v.SetDefault("UPLOAD_MAX_FILE_SIZE", 20*1024*1024)
	v.SetDefault("UPLOAD_TIMEOUT", "10m")

	v.SetDefault("STREAK_LOCK_TTL", "10s")
	v.SetDefault("STREAK_LOCK_RETRIES", 3)

	v.SetDefault("LEADERBOARD_SIZE", 25)
	v.SetDefault("LEADERBOARD_CACHE_TTL", "1m")

	v.SetDefault("CHAT_BANNED_WORDS", "fuck,scam,idiot,olodo,mumu,stfu,mgbeke")
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
