package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/code-100-precent/LingSync/pkg/logger"
	"github.com/code-100-precent/LingSync/pkg/utils"
)

// Config System  CommonConfig
type Config struct {
	ServerName  string `env:"SERVER_NAME"`
	DBDriver    string `env:"DB_DRIVER"`
	DSN         string `env:"DSN"`
	AutoMigrate bool   `env:"AUTO_MIGRATE"`
	Log         logger.LogConfig
	Addr        string `env:"ADDR"`
	Mode        string `env:"MODE"`
	APIPrefix   string `env:"API_PREFIX"`

	// ElevenLabs
	ElevenLabs ElevenLabsConfig

	// HTTP middleware
	RateLimit          string   `env:"RATE_LIMIT"`
	RateLimitRedis     RedisConfig
	CorsAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS"`
	MetricsEnabled     bool     `env:"METRICS_ENABLED"`
}

// ElevenLabsConfig provider connection settings
type ElevenLabsConfig struct {
	APIKey   string        `env:"ELEVENLABS_API_KEY"`
	BaseURL  string        `env:"ELEVENLABS_BASE_URL"`
	Timeout  time.Duration `env:"ELEVENLABS_TIMEOUT"`
	PageSize int           `env:"ELEVENLABS_PAGE_SIZE"`
}

// RedisConfig optional shared store for rate limit counters; empty Addr keeps them in memory
type RedisConfig struct {
	Addr     string `env:"RATE_LIMIT_REDIS_ADDR"`
	Password string `env:"RATE_LIMIT_REDIS_PASSWORD"`
	DB       int    `env:"RATE_LIMIT_REDIS_DB"`
}

// Configured reports whether an API key is present
func (c ElevenLabsConfig) Configured() bool {
	return c.APIKey != ""
}

var GlobalConfig *Config

func Load() error {
	// 1. .env files are optional
	env := os.Getenv("APP_ENV")
	err := utils.LoadEnv(env)
	if err != nil {
		log.Printf("Note: .env file not found or failed to load: %v (using default values)", err)
	}

	// 2. every key has a default so the service starts without a .env
	GlobalConfig = &Config{
		ServerName:  getStringOrDefault("SERVER_NAME", "LingSync"),
		DBDriver:    getStringOrDefault("DB_DRIVER", "sqlite"),
		DSN:         getStringOrDefault("DSN", "./lingsync.db"),
		AutoMigrate: getBoolOrDefault("AUTO_MIGRATE", true),
		Addr:        getStringOrDefault("ADDR", ":3001"),
		Mode:        getStringOrDefault("MODE", "development"),
		APIPrefix:   getStringOrDefault("API_PREFIX", "/api"),
		Log: logger.LogConfig{
			Level:      getStringOrDefault("LOG_LEVEL", "info"),
			Filename:   getStringOrDefault("LOG_FILENAME", "./logs/app.log"),
			MaxSize:    getIntOrDefault("LOG_MAX_SIZE", 100),
			MaxAge:     getIntOrDefault("LOG_MAX_AGE", 30),
			MaxBackups: getIntOrDefault("LOG_MAX_BACKUPS", 5),
			Daily:      getBoolOrDefault("LOG_DAILY", true),
		},
		ElevenLabs: ElevenLabsConfig{
			APIKey:   getStringOrDefault("ELEVENLABS_API_KEY", ""),
			BaseURL:  getStringOrDefault("ELEVENLABS_BASE_URL", "https://api.elevenlabs.io/v1"),
			Timeout:  utils.GetDurationEnv("ELEVENLABS_TIMEOUT", 30*time.Second),
			PageSize: getIntOrDefault("ELEVENLABS_PAGE_SIZE", 100),
		},
		RateLimit:          getStringOrDefault("RATE_LIMIT", "1000-M"),
		CorsAllowedOrigins: splitList(getStringOrDefault("CORS_ALLOWED_ORIGINS", "*")),
		MetricsEnabled:     getBoolOrDefault("METRICS_ENABLED", true),
		RateLimitRedis: RedisConfig{
			Addr:     getStringOrDefault("RATE_LIMIT_REDIS_ADDR", ""),
			Password: getStringOrDefault("RATE_LIMIT_REDIS_PASSWORD", ""),
			DB:       int(utils.GetIntEnv("RATE_LIMIT_REDIS_DB")),
		},
	}
	return nil
}

// getStringOrDefault returns defaultValue when key is empty
func getStringOrDefault(key, defaultValue string) string {
	value := utils.GetEnv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	value := utils.GetEnv(key)
	if value == "" {
		return defaultValue
	}
	return utils.GetBoolEnv(key)
}

func getIntOrDefault(key string, defaultValue int) int {
	value := utils.GetIntEnv(key)
	if value <= 0 {
		return defaultValue
	}
	return int(value)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
