// Package cache implements the fetch/cache layer (§4.3, §6.5): an
// in-memory LRU of parsed trees (memcache.go), a content-addressable
// on-disk store for raw fetched bytes (this file), a directory-listing
// walker (directory.go) and an atomic blob writer (atomicwriter.go).
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	"github.com/oxhq/inkwell/models"
)

// DiskCache is the content-addressable on-disk store described in §4.3
// item 2: raw fetched bytes live under baseDir keyed by sha256(URL), with
// models.CacheEntry rows in db tracking size and last-access time for
// eviction. Grounded on the teacher's db/sqlite.go + AtomicWriter pairing,
// repurposed from code-transform session bookkeeping to cache-blob
// bookkeeping.
type DiskCache struct {
	baseDir  string
	db       *gorm.DB
	writer   *AtomicWriter
	maxBytes int64
}

// NewDiskCache opens a disk cache rooted at baseDir, backed by db for
// metadata. maxBytes <= 0 means no size-based eviction.
func NewDiskCache(baseDir string, db *gorm.DB, maxBytes int64) (*DiskCache, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &DiskCache{
		baseDir:  baseDir,
		db:       db,
		writer:   NewAtomicWriter(false),
		maxBytes: maxBytes,
	}, nil
}

// HashURL computes the cache key for a URL: sha256, hex-encoded.
func HashURL(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// pathFor returns the on-disk path for a content hash, fanned out into a
// two-character subdirectory to keep any one directory from accumulating
// too many entries.
func (c *DiskCache) pathFor(hash string) string {
	if len(hash) < 2 {
		return filepath.Join(c.baseDir, hash)
	}
	return filepath.Join(c.baseDir, hash[:2], hash)
}

// Get returns the cached bytes for url, along with its metadata row, if
// present. A hit bumps LastAccessed.
func (c *DiskCache) Get(url string) ([]byte, *models.CacheEntry, bool, error) {
	hash := HashURL(url)

	var entry models.CacheEntry
	err := c.db.Where("hash = ?", hash).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, false, nil
	}
	if err != nil {
		return nil, nil, false, fmt.Errorf("cache metadata lookup failed: %w", err)
	}

	content, err := os.ReadFile(entry.Path)
	if errors.Is(err, os.ErrNotExist) {
		// Metadata survived but the blob didn't; treat as a miss and let
		// Put re-populate both.
		c.db.Delete(&entry)
		return nil, nil, false, nil
	}
	if err != nil {
		return nil, nil, false, fmt.Errorf("cache blob read failed: %w", err)
	}

	entry.LastAccessed = time.Now()
	if err := c.db.Save(&entry).Error; err != nil {
		return nil, nil, false, fmt.Errorf("cache metadata update failed: %w", err)
	}

	return content, &entry, true, nil
}

// Put writes content for url to disk and records/updates its metadata row,
// then runs eviction if a size budget is configured.
func (c *DiskCache) Put(url string, content []byte, contentType string) (*models.CacheEntry, error) {
	hash := HashURL(url)
	path := c.pathFor(hash)

	if err := c.writer.WriteFile(path, content); err != nil {
		return nil, fmt.Errorf("cache blob write failed: %w", err)
	}

	entry := models.CacheEntry{
		Hash:         hash,
		URL:          url,
		Path:         path,
		Size:         int64(len(content)),
		ContentType:  contentType,
		LastAccessed: time.Now(),
	}
	if err := c.db.Save(&entry).Error; err != nil {
		return nil, fmt.Errorf("cache metadata write failed: %w", err)
	}

	if c.maxBytes > 0 {
		if err := c.evict(); err != nil {
			return &entry, fmt.Errorf("cache eviction failed: %w", err)
		}
	}

	return &entry, nil
}

// Invalidate removes the cached blob and metadata for url, if present.
func (c *DiskCache) Invalidate(url string) error {
	hash := HashURL(url)

	var entry models.CacheEntry
	if err := c.db.Where("hash = ?", hash).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("cache metadata lookup failed: %w", err)
	}

	os.Remove(entry.Path)
	return c.db.Delete(&entry).Error
}

// evict removes the least-recently-accessed entries until total cached
// bytes fall within maxBytes.
func (c *DiskCache) evict() error {
	var total int64
	if err := c.db.Model(&models.CacheEntry{}).Select("COALESCE(SUM(size), 0)").Row().Scan(&total); err != nil {
		return fmt.Errorf("failed to compute cache size: %w", err)
	}

	for total > c.maxBytes {
		var oldest models.CacheEntry
		err := c.db.Order("last_accessed asc").First(&oldest).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			break
		}
		if err != nil {
			return err
		}

		os.Remove(oldest.Path)
		if err := c.db.Delete(&oldest).Error; err != nil {
			return err
		}
		total -= oldest.Size
	}
	return nil
}

// Size returns the current total size in bytes of all cached blobs.
func (c *DiskCache) Size() (int64, error) {
	var total int64
	err := c.db.Model(&models.CacheEntry{}).Select("COALESCE(SUM(size), 0)").Row().Scan(&total)
	return total, err
}
