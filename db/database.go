package db

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the process-wide store handle. Service functions take an explicit
// *gorm.DB so tests run against an in-memory store; this global is wired
// only at the process boundary.
var DB *gorm.DB

// Initialize opens the activity store at dbPath, creating parent
// directories on first run. WAL mode keeps report generation readable
// while an entry is being saved.
func Initialize(dbPath string, environment string) error {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create store directory %s: %w", dir, err)
		}
	}

	logLevel := logger.Info
	if environment == "production" {
		logLevel = logger.Warn
	}

	var err error
	DB, err = gorm.Open(sqlite.Open(dbPath+"?_journal_mode=WAL&_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to open activity store at %s: %w", dbPath, err)
	}

	log.Printf("Activity store open at %s (WAL)", dbPath)
	return nil
}

// AutoMigrate applies the schema for the given record types
func AutoMigrate(models ...interface{}) error {
	if DB == nil {
		return fmt.Errorf("store not initialized")
	}
	if err := DB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close releases the underlying sqlite handle
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access underlying connection: %w", err)
	}
	return sqlDB.Close()
}
