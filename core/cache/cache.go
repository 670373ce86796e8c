package cache

import (
	"sync"
	"time"
)

// Cache is a thread-safe key-value store with optional expiry and tag-based invalidation.
type Cache struct {
	m sync.Map
	// tagIndex maps tag string to the set of keys carrying it (*sync.Map of key → struct{})
	tagIndex sync.Map
	now      func() time.Time
}

var (
	once     sync.Once
	instance *Cache
)

// GetInstance returns the process-wide cache.
func GetInstance() *Cache {
	once.Do(func() {
		instance = NewCache()
	})
	return instance
}

// NewCache creates a new Cache instance.
func NewCache() *Cache {
	return &Cache{now: time.Now}
}

// cacheItem holds a value and its expiration time.
type cacheItem struct {
	Value     interface{}
	ExpiresAt int64 // Unix nanoseconds; 0 means no expiration
}

// Set stores a value with an optional TTL and tags. A zero ttl never expires.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration, tags []string) {
	var expiresAt int64
	if ttl > 0 {
		expiresAt = c.now().Add(ttl).UnixNano()
	}
	c.m.Store(key, cacheItem{Value: value, ExpiresAt: expiresAt})
	if len(tags) > 0 {
		c.TagKey(key, tags)
	}
}

// Get returns (value, true) if key is present and not expired.
func (c *Cache) Get(key string) (interface{}, bool) {
	v, ok := c.m.Load(key)
	if !ok {
		return nil, false
	}
	item := v.(cacheItem)
	if item.ExpiresAt > 0 && c.now().UnixNano() > item.ExpiresAt {
		c.m.Delete(key)
		return nil, false
	}
	return item.Value, true
}

// GetOrDefault returns the cached value or defaultValue.
func (c *Cache) GetOrDefault(key string, defaultValue interface{}) interface{} {
	if v, ok := c.Get(key); ok {
		return v
	}
	return defaultValue
}

// Delete removes a key from the cache.
func (c *Cache) Delete(key string) {
	c.m.Delete(key)
}

// TagKey assigns one or more tags to a cache key.
func (c *Cache) TagKey(key string, tags []string) {
	for _, tag := range tags {
		val, _ := c.tagIndex.LoadOrStore(tag, &sync.Map{})
		val.(*sync.Map).Store(key, struct{}{})
	}
}

// GetKeysByTag returns all keys assigned to a tag.
func (c *Cache) GetKeysByTag(tag string) []string {
	var keys []string
	if val, ok := c.tagIndex.Load(tag); ok {
		val.(*sync.Map).Range(func(key, _ interface{}) bool {
			keys = append(keys, key.(string))
			return true
		})
	}
	return keys
}

// DeleteByTag deletes all cache entries assigned to a tag.
func (c *Cache) DeleteByTag(tag string) {
	if val, ok := c.tagIndex.Load(tag); ok {
		km := val.(*sync.Map)
		km.Range(func(key, _ interface{}) bool {
			c.Delete(key.(string))
			km.Delete(key)
			return true
		})
		c.tagIndex.Delete(tag)
	}
}
