package db

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/oxhq/inkwell/models"
)

// TestDatabaseIntegration exercises the disk cache's metadata store end to
// end, grounded on the teacher's TestDatabaseIntegration for its
// Stage/Apply/Session workflow — same shape (connect, CRUD workflow,
// concurrency, rollback, bulk), repointed at models.CacheEntry.
func TestDatabaseIntegration(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "integration_test.db")

	db, err := Connect(dbPath, true)
	require.NoError(t, err)
	require.NotNil(t, db)

	defer func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	}()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err)

	t.Run("complete workflow", func(t *testing.T) {
		testCompleteWorkflow(t, db)
	})
	t.Run("concurrent operations", func(t *testing.T) {
		testConcurrentOperations(t, db)
	})
	t.Run("transaction rollback", func(t *testing.T) {
		testTransactionRollback(t, db)
	})
	t.Run("bulk operations", func(t *testing.T) {
		testBulkOperations(t, db)
	})
}

func testCompleteWorkflow(t *testing.T, db *gorm.DB) {
	extra, err := datatypes.NewJSONType(map[string]string{"etag": `"abc123"`}).MarshalJSON()
	require.NoError(t, err)

	entry := &models.CacheEntry{
		Hash:         "workflow-hash",
		URL:          "https://example.com/doc.html",
		Path:         "/var/cache/inkwell/workflow-hash",
		Size:         2048,
		ContentType:  "text/html",
		LastAccessed: time.Now(),
		Extra:        datatypes.JSON(extra),
	}
	require.NoError(t, db.Create(entry).Error)

	var fetched models.CacheEntry
	require.NoError(t, db.Where("hash = ?", entry.Hash).First(&fetched).Error)
	assert.Equal(t, entry.URL, fetched.URL)
	assert.Equal(t, entry.ContentType, fetched.ContentType)

	fetched.LastAccessed = time.Now().Add(time.Minute)
	require.NoError(t, db.Save(&fetched).Error)

	require.NoError(t, db.Delete(&models.CacheEntry{}, "hash = ?", entry.Hash).Error)
	var count int64
	require.NoError(t, db.Model(&models.CacheEntry{}).Where("hash = ?", entry.Hash).Count(&count).Error)
	assert.Zero(t, count)
}

func testConcurrentOperations(t *testing.T, db *gorm.DB) {
	const n = 20
	var wg sync.WaitGroup
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = db.Create(&models.CacheEntry{
				Hash: fmt.Sprintf("concurrent-%d", i),
				URL:  fmt.Sprintf("https://example.com/%d", i),
				Path: fmt.Sprintf("/var/cache/inkwell/concurrent-%d", i),
				Size: int64(i),
			}).Error
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}

	var count int64
	require.NoError(t, db.Model(&models.CacheEntry{}).Where("hash LIKE ?", "concurrent-%").Count(&count).Error)
	assert.Equal(t, int64(n), count)
}

func testTransactionRollback(t *testing.T, db *gorm.DB) {
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.CacheEntry{
			Hash: "rollback-hash",
			URL:  "https://example.com/rollback",
			Path: "/var/cache/inkwell/rollback-hash",
			Size: 1,
		}).Error; err != nil {
			return err
		}
		return fmt.Errorf("force rollback")
	})
	assert.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.CacheEntry{}).Where("hash = ?", "rollback-hash").Count(&count).Error)
	assert.Zero(t, count)
}

func testBulkOperations(t *testing.T, db *gorm.DB) {
	entries := make([]models.CacheEntry, 0, 50)
	for i := 0; i < 50; i++ {
		entries = append(entries, models.CacheEntry{
			Hash: fmt.Sprintf("bulk-%d", i),
			URL:  fmt.Sprintf("https://example.com/bulk/%d", i),
			Path: fmt.Sprintf("/var/cache/inkwell/bulk-%d", i),
			Size: int64(i * 10),
		})
	}
	require.NoError(t, db.CreateInBatches(entries, 10).Error)

	var count int64
	require.NoError(t, db.Model(&models.CacheEntry{}).Where("hash LIKE ?", "bulk-%").Count(&count).Error)
	assert.Equal(t, int64(50), count)

	// Eviction-style bulk delete of everything below a size threshold,
	// mirroring the disk cache's max_size eviction sweep.
	require.NoError(t, db.Where("hash LIKE ? AND size < ?", "bulk-%", 250).Delete(&models.CacheEntry{}).Error)

	require.NoError(t, db.Model(&models.CacheEntry{}).Where("hash LIKE ?", "bulk-%").Count(&count).Error)
	assert.Equal(t, int64(25), count)
}
