// Package lru provides a small generic least-recently-used cache.
package lru

import "sync"

// node is an element of the recency list. Head is most recently used.
type node[K comparable, V any] struct {
	key   K
	value V
	prev  *node[K, V]
	next  *node[K, V]
}

// Cache is a thread-safe LRU cache holding at most Capacity entries.
//
// Cache must not be copied after creation (has mutex).
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	nodes    map[K]*node[K, V]
	head     *node[K, V]
	tail     *node[K, V]
	onEvict  func(K, V)

	hits, misses, evictions uint64
}

// New creates a cache holding up to capacity entries. onEvict, if not nil,
// is called for every entry dropped to make room, outside the lock.
func New[K comparable, V any](capacity int, onEvict func(K, V)) *Cache[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache[K, V]{
		capacity: capacity,
		nodes:    make(map[K]*node[K, V], capacity),
		onEvict:  onEvict,
	}
}

// Get returns the value for key and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.nodes[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.moveToFront(n)
	return n.value, true
}

// Put stores value under key, evicting the least recently used entry when
// the cache is full.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	evicted, did := c.put(key, value)
	c.mu.Unlock()

	if did && c.onEvict != nil {
		c.onEvict(evicted.key, evicted.value)
	}
}

// GetOrCreate returns the cached value for key or stores the result of
// create. create runs under the lock, so it is called at most once per
// missing key.
func (c *Cache[K, V]) GetOrCreate(key K, create func() V) V {
	c.mu.Lock()
	if n, ok := c.nodes[key]; ok {
		c.hits++
		c.moveToFront(n)
		v := n.value
		c.mu.Unlock()
		return v
	}
	c.misses++
	v := create()
	evicted, did := c.put(key, v)
	c.mu.Unlock()

	if did && c.onEvict != nil {
		c.onEvict(evicted.key, evicted.value)
	}
	return v
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.nodes)
}

// Stats contains cache statistics.
type Stats struct {
	Len       int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Stats returns cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Len:       len(c.nodes),
		Capacity:  c.capacity,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

// Clear removes all entries without calling onEvict.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.nodes)
	c.head, c.tail = nil, nil
}

// put inserts or updates key. Caller must hold c.mu.
func (c *Cache[K, V]) put(key K, value V) (node[K, V], bool) {
	if n, ok := c.nodes[key]; ok {
		n.value = value
		c.moveToFront(n)
		return node[K, V]{}, false
	}

	n := &node[K, V]{key: key, value: value}
	c.nodes[key] = n
	c.pushFront(n)

	if len(c.nodes) <= c.capacity {
		return node[K, V]{}, false
	}
	old := c.tail
	c.unlink(old)
	delete(c.nodes, old.key)
	c.evictions++
	return *old, true
}

func (c *Cache[K, V]) pushFront(n *node[K, V]) {
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

func (c *Cache[K, V]) moveToFront(n *node[K, V]) {
	if n == c.head {
		return
	}
	c.unlink(n)
	c.pushFront(n)
}

func (c *Cache[K, V]) unlink(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
	n.prev, n.next = nil, nil
}
