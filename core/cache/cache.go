// Package cache holds decoded catalog reads in memory. Entries may expire and are
// grouped by tag so a write can drop every list it affects at once.
package cache

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type Cache struct {
	entries sync.Map // string -> entry
	tags    sync.Map // tag -> *sync.Map of keys
	loads   singleflight.Group
	now     func() time.Time
}

type entry struct {
	value   interface{}
	expires time.Time // zero never expires
}

func NewCache() *Cache {
	return &Cache{now: time.Now}
}

// Set stores value under key. A ttl of zero keeps it until deleted.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration, tags ...string) {
	e := entry{value: value}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}
	c.entries.Store(key, e)
	for _, tag := range tags {
		keys, _ := c.tags.LoadOrStore(tag, &sync.Map{})
		keys.(*sync.Map).Store(key, struct{}{})
	}
}

func (c *Cache) Get(key string) (interface{}, bool) {
	v, ok := c.entries.Load(key)
	if !ok {
		return nil, false
	}
	e := v.(entry)
	if !e.expires.IsZero() && c.now().After(e.expires) {
		c.entries.Delete(key)
		return nil, false
	}
	return e.value, true
}

func (c *Cache) Delete(key string) {
	c.entries.Delete(key)
}

// DeleteByTag drops every entry stored with tag.
func (c *Cache) DeleteByTag(tag string) {
	keys, ok := c.tags.LoadAndDelete(tag)
	if !ok {
		return
	}
	keys.(*sync.Map).Range(func(k, _ interface{}) bool {
		c.entries.Delete(k)
		return true
	})
}

// Remember returns the value cached under key, calling load on a miss and storing
// its result. Concurrent misses on the same key share one load. Errors are not cached.
func Remember[T any](c *Cache, key string, ttl time.Duration, tags []string, load func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		return v.(T), nil
	}
	v, err, _ := c.loads.Do(key, func() (interface{}, error) {
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		loaded, err := load()
		if err != nil {
			return nil, err
		}
		c.Set(key, loaded, ttl, tags...)
		return loaded, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
