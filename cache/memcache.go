// Package cache implements the fetch/cache layer (§4.3): a two-level cache
// — an in-memory LRU of parsed *core.Input trees, and a content-addressable
// on-disk store of raw bytes — composing in front of an HTTP fetch and a
// directory-listing path.
//
// The in-memory layer is grounded on the teacher's providers/base ASTCache
// (a process-wide cache of parsed trees keyed by a source hash), generalized
// from "parsed tree-sitter AST keyed by source hash" to "parsed Input keyed
// by URL" and given real LRU eviction instead of pure TTL pruning, per
// §4.3's "eviction by least-recently-used."
package cache

import (
	"container/list"
	"sync"

	"github.com/oxhq/inkwell/core"
)

// TreeCache is the parsed-tree LRU (§4.3 item 1). Key = URL; value =
// *core.Input. Eviction fires when either the entry count or the summed
// estimated memory (core.Arena.Used of every cached Input) exceeds the
// configured bounds.
type TreeCache struct {
	mu sync.Mutex

	maxEntries int
	maxBytes   int64

	usedBytes int64
	ll        *list.List // front = most recently used
	index     map[string]*list.Element

	hits, misses, evictions int64
}

type treeEntry struct {
	url   string
	input *core.Input
	bytes int64
}

// NewTreeCache creates a parsed-tree LRU bounded by entry count and/or an
// estimated byte budget. A zero bound disables that particular limit.
func NewTreeCache(maxEntries int, maxBytes int64) *TreeCache {
	return &TreeCache{
		maxEntries: maxEntries,
		maxBytes:   maxBytes,
		ll:         list.New(),
		index:      make(map[string]*list.Element),
	}
}

// Get returns the cached Input for url, promoting it to most-recently-used.
func (c *TreeCache) Get(url string) (*core.Input, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.index[url]
	if !ok {
		c.misses++
		return nil, false
	}
	c.ll.MoveToFront(el)
	c.hits++
	return el.Value.(*treeEntry).input, true
}

// Put stores (or replaces) the parsed Input for url, evicting
// least-recently-used entries until both bounds are satisfied.
func (c *TreeCache) Put(url string, in *core.Input) {
	c.mu.Lock()
	defer c.mu.Unlock()

	size := int64(in.Arena.Used())

	if el, ok := c.index[url]; ok {
		old := el.Value.(*treeEntry)
		c.usedBytes -= old.bytes
		old.input = in
		old.bytes = size
		c.usedBytes += size
		c.ll.MoveToFront(el)
	} else {
		el := c.ll.PushFront(&treeEntry{url: url, input: in, bytes: size})
		c.index[url] = el
		c.usedBytes += size
	}

	c.evictLocked()
}

func (c *TreeCache) evictLocked() {
	for {
		overCount := c.maxEntries > 0 && len(c.index) > c.maxEntries
		overBytes := c.maxBytes > 0 && c.usedBytes > c.maxBytes
		if !overCount && !overBytes {
			return
		}
		back := c.ll.Back()
		if back == nil {
			return
		}
		entry := back.Value.(*treeEntry)
		c.ll.Remove(back)
		delete(c.index, entry.url)
		c.usedBytes -= entry.bytes
		c.evictions++
	}
}

// Invalidate drops a single entry, e.g. after a disk-cache refresh.
func (c *TreeCache) Invalidate(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.index[url]; ok {
		entry := el.Value.(*treeEntry)
		c.ll.Remove(el)
		delete(c.index, url)
		c.usedBytes -= entry.bytes
	}
}

// Stats mirrors the teacher's ASTCache.Stats, generalized to the LRU's own
// counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Entries   int
	UsedBytes int64
}

func (c *TreeCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Entries:   len(c.index),
		UsedBytes: c.usedBytes,
	}
}
