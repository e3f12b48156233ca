// Package db wires the disk cache's metadata store (§4.3 item 2) to a
// local SQLite file via gorm, exactly as the teacher's db/sqlite.go wires
// its Stage/Apply/Session bookkeeping — adapted to the cache's single model
// (models.CacheEntry). The teacher's remote-libsql/Turso connection branch
// is dropped: the disk cache is always local, so there is nothing for a
// remote SQLite endpoint to serve here (see DESIGN.md).
package db

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oxhq/inkwell/models"
)

// Connect opens (creating if necessary) the SQLite database at dsn and
// runs migrations.
func Connect(dsn string, debug bool) (*gorm.DB, error) {
	if dsn != ":memory:" {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	config := &gorm.Config{}
	if debug {
		config.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(sqlite.Open(dsn), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Exec("PRAGMA foreign_keys = ON")
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return db, nil
}

// Migrate runs the schema migration for every model the disk cache
// persists.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.CacheEntry{})
}
