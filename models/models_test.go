package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheEntryTableName(t *testing.T) {
	assert.Equal(t, "cache_entries", CacheEntry{}.TableName())
}
