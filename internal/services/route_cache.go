package services

import (
	"container/list"
	"route-dispatch-service/internal/domain"
	"sync"
)

// Cached route computation: the inputs plus the assembled per-driver routes.
type CachedRoute struct {
	Config  domain.RouteConfiguration
	Markers []domain.Stop
	Routes  []domain.DriverRoute
}

type cacheEntry struct {
	id          string
	route       CachedRoute
	subscribers map[int]func(CachedRoute)
	nextSubID   int
	elem        *list.Element
}

// RouteCache holds recently computed route sets keyed by route id, with a
// bounded entry count and oldest-entry eviction. Subscribers are notified
// when an entry is replaced (recalculation); Subscribe returns a cancel
// func so discarded subscribers never pin an entry. The cache owns every
// entry; callbacks are lookups, never owners.
type RouteCache struct {
	mu      sync.Mutex
	max     int
	entries map[string]*cacheEntry
	order   *list.List
}

func NewRouteCache(maxEntries int) *RouteCache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &RouteCache{
		max:     maxEntries,
		entries: make(map[string]*cacheEntry),
		order:   list.New(),
	}
}

// Put stores or replaces an entry and notifies its subscribers.
// Inserting past the bound evicts the oldest entry along with its
// subscriptions.
func (c *RouteCache) Put(id string, route CachedRoute) {
	c.mu.Lock()

	e, ok := c.entries[id]
	if ok {
		e.route = route
		c.order.MoveToBack(e.elem)
	} else {
		if len(c.entries) >= c.max {
			oldest := c.order.Front()
			if oldest != nil {
				evicted := oldest.Value.(*cacheEntry)
				c.order.Remove(oldest)
				delete(c.entries, evicted.id)
			}
		}
		e = &cacheEntry{id: id, route: route, subscribers: make(map[int]func(CachedRoute))}
		e.elem = c.order.PushBack(e)
		c.entries[id] = e
	}

	// Notify outside the lock; a slow subscriber must not stall the cache.
	subs := make([]func(CachedRoute), 0, len(e.subscribers))
	for _, fn := range e.subscribers {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(route)
	}
}

// Get returns the cached route set for an id.
func (c *RouteCache) Get(id string) (CachedRoute, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok {
		return CachedRoute{}, false
	}
	return e.route, true
}

// Subscribe registers a recalculation callback for an entry and returns a
// cancel func. Subscribing to an unknown id is a no-op cancel.
func (c *RouteCache) Subscribe(id string, fn func(CachedRoute)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok {
		return func() {}
	}

	subID := e.nextSubID
	e.nextSubID++
	e.subscribers[subID] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if cur, ok := c.entries[id]; ok && cur == e {
			delete(cur.subscribers, subID)
		}
	}
}

// Len reports the current entry count.
func (c *RouteCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
