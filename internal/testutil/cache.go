// Package testutil holds in-memory stand-ins for the storage and cache layers.
package testutil

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"bookreview-backend/pkg/cache"
)

// MemoryCache is a cache.Cache kept in a map. Setting Down makes every call fail.
type MemoryCache struct {
	mu      sync.Mutex
	items   map[string]memoryItem
	Now     func() time.Time
	Down    bool
	Gets    int
	Sets    int
	Deletes int
}

type memoryItem struct {
	raw       []byte
	expiresAt time.Time
}

var _ cache.Cache = (*MemoryCache)(nil)

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: map[string]memoryItem{}, Now: time.Now}
}

func (m *MemoryCache) live(key string) (memoryItem, bool) {
	item, ok := m.items[key]
	if !ok {
		return memoryItem{}, false
	}
	if !item.expiresAt.IsZero() && !m.Now().Before(item.expiresAt) {
		delete(m.items, key)
		return memoryItem{}, false
	}
	return item, true
}

func (m *MemoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gets++
	if m.Down {
		return false, cache.ErrUnavailable
	}

	item, ok := m.live(key)
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(item.raw, dest)
}

func (m *MemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sets++
	if m.Down {
		return cache.ErrUnavailable
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	item := memoryItem{raw: raw}
	if ttl > 0 {
		item.expiresAt = m.Now().Add(ttl)
	}
	m.items[key] = item
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deletes++
	if m.Down {
		return cache.ErrUnavailable
	}
	for _, k := range keys {
		delete(m.items, k)
	}
	return nil
}

func (m *MemoryCache) Ping(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Down {
		return cache.ErrUnavailable
	}
	return nil
}

func (m *MemoryCache) Increment(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Down {
		return 0, cache.ErrUnavailable
	}

	item, _ := m.live(key)
	var n int64
	if len(item.raw) > 0 {
		n, _ = strconv.ParseInt(string(item.raw), 10, 64)
	}
	n++
	item.raw = []byte(strconv.FormatInt(n, 10))
	m.items[key] = item
	return n, nil
}

func (m *MemoryCache) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Down {
		return false, cache.ErrUnavailable
	}
	_, ok := m.live(key)
	return ok, nil
}

func (m *MemoryCache) Expire(_ context.Context, key string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Down {
		return cache.ErrUnavailable
	}
	if item, ok := m.live(key); ok {
		item.expiresAt = m.Now().Add(ttl)
		m.items[key] = item
	}
	return nil
}

// TTL follows Redis: -2s for a missing key, -1s for a key without expiry
func (m *MemoryCache) TTL(_ context.Context, key string) (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Down {
		return 0, cache.ErrUnavailable
	}
	item, ok := m.live(key)
	switch {
	case !ok:
		return -2 * time.Second, nil
	case item.expiresAt.IsZero():
		return -1 * time.Second, nil
	default:
		return item.expiresAt.Sub(m.Now()), nil
	}
}

// Has reports whether key is present and not expired
func (m *MemoryCache) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.live(key)
	return ok
}
