package feature

import (
	"sync"

	"github.com/rushteam/learnrec/core"
)

// CachedExtractor 按内容 ID 缓存特征向量，采用 LRU 淘汰。
// 内容发布后不可变，因此缓存不需要过期时间；目录变更时调用 Invalidate。
//
// 返回的 Vector 被多个调用方共享，只读使用。
type CachedExtractor struct {
	inner   ItemExtractor
	maxSize int

	mu      sync.Mutex
	entries map[string]*cacheEntry
	tick    uint64
	hits    uint64
	misses  uint64
}

type cacheEntry struct {
	vec    Vector
	access uint64
}

// NewCachedExtractor 创建带缓存的抽取器，maxSize <= 0 表示不限制容量。
func NewCachedExtractor(inner ItemExtractor, maxSize int) *CachedExtractor {
	if inner == nil {
		inner = NewTextExtractor()
	}
	return &CachedExtractor{
		inner:   inner,
		maxSize: maxSize,
		entries: make(map[string]*cacheEntry),
	}
}

func (c *CachedExtractor) Name() string {
	return "cached_" + c.inner.Name()
}

func (c *CachedExtractor) Extract(item *core.ContentItem) Vector {
	if item == nil || item.ID == "" {
		return c.inner.Extract(item)
	}

	c.mu.Lock()
	c.tick++
	if e, ok := c.entries[item.ID]; ok {
		e.access = c.tick
		c.hits++
		c.mu.Unlock()
		return e.vec
	}
	c.misses++
	c.mu.Unlock()

	vec := c.inner.Extract(item)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictLRU()
	}
	c.entries[item.ID] = &cacheEntry{vec: vec, access: c.tick}
	return vec
}

// Invalidate 删除某个内容的缓存，ids 为空时清空全部。
func (c *CachedExtractor) Invalidate(ids ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(ids) == 0 {
		c.entries = make(map[string]*cacheEntry)
		return
	}
	for _, id := range ids {
		delete(c.entries, id)
	}
}

// Stats 返回命中/未命中次数与当前条目数。
func (c *CachedExtractor) Stats() (hits, misses uint64, size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses, len(c.entries)
}

func (c *CachedExtractor) evictLRU() {
	var oldestKey string
	var oldest uint64
	first := true
	for key, e := range c.entries {
		if first || e.access < oldest {
			oldestKey = key
			oldest = e.access
			first = false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
	}
}
