package memory

import (
	"context"
	"sync"
	"time"

	"github.com/pxlabs/kye-screener/internal/domain"
)

type item struct {
	records   []domain.CaseRecord
	expiresAt time.Time
}

// Cache - in-memory кеш списков дел с TTL.
type Cache struct {
	mu       sync.RWMutex
	items    map[string]item
	stopChan chan struct{}
	stopped  bool
}

func New() *Cache {
	return NewWithContext(context.Background())
}

func NewWithContext(ctx context.Context) *Cache {
	c := &Cache{
		items:    make(map[string]item),
		stopChan: make(chan struct{}),
	}
	go c.cleanup(ctx)
	return c
}

func (c *Cache) Get(subjectID string) ([]domain.CaseRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, ok := c.items[subjectID]
	if !ok || time.Now().After(it.expiresAt) {
		return nil, false
	}
	return it.records, true
}

func (c *Cache) Set(subjectID string, records []domain.CaseRecord, ttl time.Duration) {
	c.mu.Lock()
	c.items[subjectID] = item{records: records, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

func (c *Cache) Delete(subjectID string) {
	c.mu.Lock()
	delete(c.items, subjectID)
	c.mu.Unlock()
}

func (c *Cache) Stop() {
	c.mu.Lock()
	if !c.stopped {
		c.stopped = true
		close(c.stopChan)
	}
	c.mu.Unlock()
}

// cleanup чистит просроченные записи раз в 5 минут
func (c *Cache) cleanup(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *Cache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for k, it := range c.items {
		if now.After(it.expiresAt) {
			delete(c.items, k)
		}
	}
}
