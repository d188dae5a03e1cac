package kvstore

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const memoryCapacity = 10000

type memoryItem struct {
	Value     []byte
	ExpiresAt time.Time
}

// Memory is the in-process backend. Expiry is lazy: entries are dropped on
// read, bounded overall by the LRU capacity.
type Memory struct {
	mu       sync.Mutex
	lruCache *lru.Cache[string, memoryItem]
	now      func() time.Time
}

func NewMemory() *Memory {
	l, _ := lru.New[string, memoryItem](memoryCapacity)
	return &Memory{
		lruCache: l,
		now:      time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.lruCache.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	if m.now().After(item.ExpiresAt) {
		m.lruCache.Remove(key)
		return nil, ErrNotFound
	}
	return item.Value, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lruCache.Add(key, memoryItem{
		Value:     value,
		ExpiresAt: m.now().Add(ttl),
	})
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lruCache.Remove(key)
	return nil
}

func (m *Memory) GetDel(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.lruCache.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	m.lruCache.Remove(key)
	if m.now().After(item.ExpiresAt) {
		return nil, ErrNotFound
	}
	return item.Value, nil
}
