// Package cache holds derived dashboard summaries keyed by period. Entries
// expire on a TTL and the least recently read entry is evicted once the
// cache is full.
package cache

import (
	"container/list"
	"sync"
	"time"
)

type entry[T any] struct {
	key     string
	value   T
	staleAt time.Time
}

// Cache is a bounded TTL cache. The zero value is not usable; construct
// with New.
type Cache[T any] struct {
	mu      sync.Mutex
	cap     int
	ttl     time.Duration
	index   map[string]*list.Element
	recency *list.List
}

func New[T any](capacity int, ttl time.Duration) *Cache[T] {
	return &Cache[T]{
		cap:     capacity,
		ttl:     ttl,
		index:   make(map[string]*list.Element),
		recency: list.New(),
	}
}

// Get returns the cached value for key, refreshing its recency. A stale
// entry is dropped and reported as a miss.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	el, ok := c.index[key]
	if !ok {
		return zero, false
	}
	e := el.Value.(*entry[T])
	if time.Now().After(e.staleAt) {
		c.drop(el)
		return zero, false
	}
	c.recency.MoveToFront(el)
	return e.value, true
}

// Set stores value under key, evicting the least recently read entry when
// the cache is at capacity.
func (c *Cache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := &entry[T]{key: key, value: value, staleAt: time.Now().Add(c.ttl)}
	if el, ok := c.index[key]; ok {
		el.Value = e
		c.recency.MoveToFront(el)
		return
	}
	c.index[key] = c.recency.PushFront(e)
	if c.recency.Len() > c.cap {
		if oldest := c.recency.Back(); oldest != nil {
			c.drop(oldest)
		}
	}
}

// Clear drops every entry. Any apartment, lease or payment change can move
// any month's totals, so mutations invalidate wholesale.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = make(map[string]*list.Element)
	c.recency.Init()
}

// Purge removes stale entries and reports how many were dropped.
func (c *Cache[T]) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	var stale []*list.Element
	for el := c.recency.Front(); el != nil; el = el.Next() {
		if now.After(el.Value.(*entry[T]).staleAt) {
			stale = append(stale, el)
		}
	}
	for _, el := range stale {
		c.drop(el)
	}
	return len(stale)
}

// Len reports the number of live and stale entries currently held.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.index)
}

func (c *Cache[T]) drop(el *list.Element) {
	delete(c.index, el.Value.(*entry[T]).key)
	c.recency.Remove(el)
}
