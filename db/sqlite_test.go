package db

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oxhq/inkwell/models"
)

func TestConnect(t *testing.T) {
	tests := []struct {
		name  string
		dsn   string
		debug bool
	}{
		{name: "successful connection with memory database", dsn: ":memory:"},
		{name: "successful connection with debug enabled", dsn: ":memory:", debug: true},
		{name: "successful connection with file database", dsn: "/tmp/test_inkwell.db"},
		{name: "connection with nested directory creation", dsn: "/tmp/nested/path/test_inkwell.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.dsn != ":memory:" {
				defer func() {
					os.Remove(tt.dsn)
					os.Remove(filepath.Dir(tt.dsn))
				}()
			}

			db, err := Connect(tt.dsn, tt.debug)
			require.NoError(t, err)
			require.NotNil(t, db)

			sqlDB, err := db.DB()
			require.NoError(t, err)
			require.NoError(t, sqlDB.Ping())

			var fkEnabled int
			require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fkEnabled).Error)
			assert.Equal(t, 1, fkEnabled)

			assert.True(t, db.Migrator().HasTable("cache_entries"))

			testBasicOperations(t, db)
			sqlDB.Close()
		})
	}
}

func TestMigrate(t *testing.T) {
	db, err := Connect(":memory:", false)
	require.NoError(t, err)
	defer func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	}()

	require.NoError(t, db.Migrator().DropTable(&models.CacheEntry{}))
	require.NoError(t, Migrate(db))
	assert.True(t, db.Migrator().HasTable(&models.CacheEntry{}))
}

func TestConnectDirectoryCreation(t *testing.T) {
	tempDir := "/tmp/inkwell_test_" + fmt.Sprintf("%d", os.Getpid())
	dbPath := filepath.Join(tempDir, "nested", "deep", "test.db")
	defer os.RemoveAll(tempDir)

	db, err := Connect(dbPath, false)
	require.NoError(t, err)
	defer func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	}()

	assert.DirExists(t, filepath.Dir(dbPath))
	_, err = os.Stat(dbPath)
	assert.NoError(t, err)
}

// testBasicOperations performs basic CRUD operations to verify the
// CacheEntry model round-trips through gorm correctly.
func testBasicOperations(t *testing.T, db *gorm.DB) {
	entry := &models.CacheEntry{
		Hash: "deadbeef",
		URL:  "https://example.com/a.html",
		Path: "/tmp/cache/deadbeef",
		Size: 1024,
	}
	require.NoError(t, db.Create(entry).Error)

	var got models.CacheEntry
	require.NoError(t, db.Where("hash = ?", entry.Hash).First(&got).Error)
	assert.Equal(t, entry.URL, got.URL)
	assert.Equal(t, entry.Size, got.Size)
}
