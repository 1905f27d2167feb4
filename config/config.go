package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	DBPath      string
	Environment string
	UploadDir   string
	AppURL      string
	// Headless Chrome for PDF delivery of the printable report
	ChromePath string
	// Attachment limits
	MaxPhotosPerActivity int
	MaxUploadSize        int64
	AllowedOrigins       []string
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		ServerPort:           getEnv("SERVER_PORT", "8080"),
		DBPath:               getEnv("DB_PATH", "db/minikpi.db"),
		Environment:          getEnv("ENVIRONMENT", "development"),
		UploadDir:            getEnv("UPLOAD_DIR", "static/uploads"),
		AppURL:               getEnv("APP_URL", "http://localhost:8080"),
		ChromePath:           getEnv("CHROME_PATH", ""),
		MaxPhotosPerActivity: getEnvInt("MAX_PHOTOS_PER_ACTIVITY", 10),
		MaxUploadSize:        int64(getEnvInt("MAX_UPLOAD_SIZE", 10*1024*1024)),
		AllowedOrigins:       strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Printf("Using default value for %s: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer for %s (%q), using default %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
