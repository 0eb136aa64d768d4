package lock

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// Memory is a process-local Locker. It is used when no Redis URL is configured.
type Memory struct {
	c *cache.Cache
	// mu makes release's compare-and-delete atomic with respect to Add.
	mu sync.Mutex
}

func NewMemory() *Memory {
	return &Memory{c: cache.New(cache.NoExpiration, time.Minute)}
}

func (m *Memory) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	token := newToken()
	m.mu.Lock()
	err := m.c.Add(key, token, ttl)
	m.mu.Unlock()
	if err != nil {
		return nil, ErrLocked
	}
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if v, ok := m.c.Get(key); ok && v.(string) == token {
			m.c.Delete(key)
		}
	}, nil
}
