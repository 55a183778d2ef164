package cache

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	value   string
	expires time.Time // нулевое значение: без срока
}

// MemoryCache потокобезопасный кэш в памяти процесса с TTL
type MemoryCache struct {
	mu    sync.Mutex
	items map[string]memoryItem
	now   func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		items: make(map[string]memoryItem),
		now:   time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[key]
	if !ok {
		return "", false, nil
	}
	if !item.expires.IsZero() && !m.now().Before(item.expires) {
		delete(m.items, key)
		return "", false, nil
	}
	return item.value, true, nil
}

func (m *MemoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item := memoryItem{value: value}
	if ttl > 0 {
		item.expires = m.now().Add(ttl)
	}
	m.items[key] = item
	return nil
}
