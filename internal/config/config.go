package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	SessionTTL    time.Duration
	GinMode       string
	LogLevel      string
	Environment   string
	ServiceName   string
}

func Load() *Config {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	return &Config{
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "timesheet"),
		DBPassword:    getEnv("DB_PASSWORD", "timesheet"),
		DBName:        getEnv("DB_NAME", "timesheet"),
		DBSSLMode:     getEnv("DB_SSLMODE", "disable"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		SessionTTL:    getEnvHours("SESSION_TTL_HOURS", 24*7),
		GinMode:       getEnv("GIN_MODE", "debug"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		ServiceName:   getEnv("SERVICE_NAME", "timesheet-api"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvHours(key string, defaultHours int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if hours, err := strconv.Atoi(value); err == nil && hours > 0 {
			return time.Duration(hours) * time.Hour
		}
	}
	return time.Duration(defaultHours) * time.Hour
}
