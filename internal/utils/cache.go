package utils

import (
	"os"
	"sync"
	"time"
)

// CacheItem represents a cached item with the file metadata it was loaded from
type CacheItem[T any] struct {
	Value   T
	ModTime time.Time
	Size    int64
}

// fresh reports whether the file still matches the cached metadata
func (item *CacheItem[T]) fresh(stat os.FileInfo) bool {
	return stat.ModTime().Equal(item.ModTime) && stat.Size() == item.Size
}

// Cache holds values derived from files and drops them once the file's
// modification time or size changes
type Cache[K comparable, V any] struct {
	items  map[K]*CacheItem[V]
	mutex  sync.RWMutex
	hits   int
	misses int
}

// NewCache creates a new generic cache
func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		items: make(map[K]*CacheItem[V]),
	}
}

// GetWithFileValidation retrieves an item if filePath is unchanged since it
// was cached. A stale item is removed.
func (c *Cache[K, V]) GetWithFileValidation(key K, filePath string) (V, bool) {
	c.mutex.RLock()
	item, exists := c.items[key]
	c.mutex.RUnlock()

	var zero V
	if !exists {
		c.count(false)
		return zero, false
	}

	if stat, err := os.Stat(filePath); err == nil && item.fresh(stat) {
		c.count(true)
		return item.Value, true
	}

	c.mutex.Lock()
	delete(c.items, key)
	c.misses++
	c.mutex.Unlock()
	return zero, false
}

// SetWithFileInfo stores an item together with the current metadata of filePath
func (c *Cache[K, V]) SetWithFileInfo(key K, value V, filePath string) error {
	stat, err := os.Stat(filePath)
	if err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items[key] = &CacheItem[V]{
		Value:   value,
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
	}
	return nil
}

// Load returns the cached value for filePath or computes it with load and
// caches the result. Errors are not cached.
func (c *Cache[K, V]) Load(key K, filePath string, load func() (V, error)) (V, error) {
	if value, ok := c.GetWithFileValidation(key, filePath); ok {
		return value, nil
	}
	value, err := load()
	if err != nil {
		return value, err
	}
	// a file removed after loading just stays uncached
	_ = c.SetWithFileInfo(key, value, filePath)
	return value, nil
}

// Delete removes an item from the cache
func (c *Cache[K, V]) Delete(key K) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.items, key)
}

// Size returns the number of items in the cache
func (c *Cache[K, V]) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.items)
}

func (c *Cache[K, V]) count(hit bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if hit {
		c.hits++
	} else {
		c.misses++
	}
}

// GetStats returns cache statistics
func (c *Cache[K, V]) GetStats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return CacheStats{
		Size:   len(c.items),
		Hits:   c.hits,
		Misses: c.misses,
	}
}

// CacheStats provides cache statistics
type CacheStats struct {
	Size   int
	Hits   int
	Misses int
}
