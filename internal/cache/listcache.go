// Package cache provides an in-process LRU cache for tenant-scoped list reads.
// Each entity (members, groups, events, finances, churches) gets its own cache
// keyed by tenant id; every mutation on a tenant invalidates that tenant's key.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/igreja-admin/igreja-admin/internal/telemetry"
)

// DefaultSize is the per-entity cache capacity in tenant keys. The working set
// is one entry per active tenant, so a few hundred covers typical deployments.
const DefaultSize = 256

// ListCache caches the full list result for an entity, keyed by tenant id.
type ListCache[T any] struct {
	entity string
	cache  *lru.Cache[string, []T]
}

// NewListCache creates a cache for the named entity. The entity name is used
// as the metrics label. size <= 0 falls back to DefaultSize.
func NewListCache[T any](entity string, size int) (*ListCache[T], error) {
	if size <= 0 {
		size = DefaultSize
	}
	c, err := lru.New[string, []T](size)
	if err != nil {
		return nil, err
	}
	return &ListCache[T]{entity: entity, cache: c}, nil
}

// Get returns the cached list for a tenant, if present.
func (c *ListCache[T]) Get(tenantID string) ([]T, bool) {
	items, ok := c.cache.Get(tenantID)
	if ok {
		telemetry.CacheHitsTotal.WithLabelValues(c.entity).Inc()
	} else {
		telemetry.CacheMissesTotal.WithLabelValues(c.entity).Inc()
	}
	return items, ok
}

// Put stores the list for a tenant, replacing any previous entry.
func (c *ListCache[T]) Put(tenantID string, items []T) {
	c.cache.Add(tenantID, items)
}

// Invalidate drops the tenant's cached list. Invalidating an absent key is a no-op,
// so callers may invalidate unconditionally after every mutation.
func (c *ListCache[T]) Invalidate(tenantID string) {
	c.cache.Remove(tenantID)
}

// Purge drops every cached entry.
func (c *ListCache[T]) Purge() {
	c.cache.Purge()
}

// Len returns the number of cached tenant entries.
func (c *ListCache[T]) Len() int {
	return c.cache.Len()
}
