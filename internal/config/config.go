package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	GeminiAPIKey  string
	ThinkingModel string
	RegularModel  string

	DatabaseURL string
	HTTPPort    string
	LogLevel    string

	JWTSecret     string
	UUIDNamespace string

	YouTubeAPIKey    string
	StorageBucket    string
	StorageCDNDomain string

	FileCacheTTL      time.Duration
	FileCacheSize     int
	GenerationTimeout time.Duration
}

var AppConfig Config

func LoadConfig() {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = Config{
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		ThinkingModel: getEnv("THINKING_MODEL", "gemini-1.5-pro-latest"),
		RegularModel:  getEnv("REGULAR_MODEL", "gemini-1.5-flash-latest"),

		DatabaseURL: getEnv("DATABASE_URL", "studypilot.db"),
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),

		JWTSecret:     getEnv("JWT_SECRET", ""),
		UUIDNamespace: getEnv("UUID_NAMESPACE", ""),

		YouTubeAPIKey:    getEnv("YOUTUBE_API_KEY", ""),
		StorageBucket:    getEnv("STORAGE_BUCKET", ""),
		StorageCDNDomain: getEnv("STORAGE_CDN_DOMAIN", ""),

		FileCacheTTL:      getEnvAsDuration("FILE_CACHE_TTL", 7*24*time.Hour),
		FileCacheSize:     getEnvAsInt("FILE_CACHE_SIZE", 256),
		GenerationTimeout: getEnvAsDuration("GENERATION_TIMEOUT", 120*time.Second),
	}

	if AppConfig.GeminiAPIKey == "" {
		log.Fatal("GEMINI_API_KEY environment variable is required")
	}

	if AppConfig.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}

	if AppConfig.UUIDNamespace == "" {
		log.Fatal("UUID_NAMESPACE environment variable is required")
	}
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
