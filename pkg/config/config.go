package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	ChatPassword    string
	Environment     string
	SessionTokenTTL time.Duration
	MaxUploadSize   int64
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		ChatPassword:    getEnv("CHAT_PASSWORD", "1"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		SessionTokenTTL: time.Duration(getEnvAsInt64("SESSION_TOKEN_TTL", 3600)) * time.Second,
		MaxUploadSize:   getEnvAsInt64("MAX_UPLOAD_SIZE", 5*1024*1024),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}
