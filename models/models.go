// Package models holds the gorm record types persisted by the disk cache's
// metadata store (§4.3, §6.5), adapted from the teacher's Stage/Apply/
// Session models — same "typed columns + a JSON sidecar for the odds and
// ends" shape, repurposed from code-transform bookkeeping to cache-entry
// bookkeeping.
package models

import (
	"time"

	"gorm.io/datatypes"
)

// CacheEntry is one row of the content-addressable on-disk cache (§4.3 item
// 2, §6.5): key = hash of the source URL, value = raw bytes on disk at
// Path, with the metadata the eviction policy needs.
type CacheEntry struct {
	// Hash is sha256(URL) hex-encoded — also the on-disk file's basename.
	Hash string `gorm:"primaryKey;type:varchar(64)"`

	URL  string `gorm:"type:text;not null;uniqueIndex"`
	Path string `gorm:"type:text;not null"`

	// Size in bytes of the cached payload, used by the eviction policy's
	// max_size bound.
	Size int64 `gorm:"not null"`

	CreatedAt    time.Time `gorm:"autoCreateTime"`
	LastAccessed time.Time `gorm:"index"`

	// ContentType is the best-known MIME type, when the fetch path learned
	// one (e.g. an HTTP response's Content-Type header).
	ContentType string `gorm:"type:varchar(255)"`

	// Extra carries anything else worth remembering about the fetch
	// (response headers, ETags, redirect chain) without forcing a schema
	// migration for every new field — mirroring the teacher's use of
	// datatypes.JSON for TargetQuery/ConfidenceFactors/ScopeAST.
	Extra datatypes.JSON `gorm:"type:jsonb"`
}

func (CacheEntry) TableName() string { return "cache_entries" }
