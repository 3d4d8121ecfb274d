package taxonomy

import (
	"fmt"
	"sync"
	"time"

	"betnotes/internal/models"
)

// Cache serves id lookups from memory. It reflects the store as of the last
// Load call; Load builds a fresh map and swaps it in one assignment, so
// readers never observe a half-built table.
type Cache struct {
	store *Store

	mu       sync.RWMutex
	nodes    map[int]models.TaxonomyNode
	loadedAt time.Time
}

type CacheStatus struct {
	Count      int       `json:"count"`
	LoadedAt   time.Time `json:"loadedAt"`
	AgeSeconds int64     `json:"ageSeconds"`
}

func NewCache(store *Store) *Cache {
	return &Cache{store: store}
}

func (c *Cache) Load() error {
	rows, err := c.store.FindAll()
	if err != nil {
		return fmt.Errorf("load taxonomy cache: %w", err)
	}
	nodes := make(map[int]models.TaxonomyNode, len(rows))
	for _, row := range rows {
		nodes[row.ID] = row
	}

	c.mu.Lock()
	c.nodes = nodes
	c.loadedAt = time.Now()
	c.mu.Unlock()
	return nil
}

func (c *Cache) Lookup(id int) (models.TaxonomyNode, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	node, ok := c.nodes[id]
	return node, ok
}

// All returns the cached nodes in unspecified order.
func (c *Cache) All() []models.TaxonomyNode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.TaxonomyNode, 0, len(c.nodes))
	for _, node := range c.nodes {
		out = append(out, node)
	}
	return out
}

func (c *Cache) Status() CacheStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	status := CacheStatus{
		Count:    len(c.nodes),
		LoadedAt: c.loadedAt,
	}
	if !c.loadedAt.IsZero() {
		status.AgeSeconds = int64(time.Since(c.loadedAt).Seconds())
	}
	return status
}
