package assets

import (
	"container/list"
	"sync"
)

// Cache is a size-bounded LRU of fetched image bytes keyed by reference.
type Cache struct {
	mu       sync.Mutex
	maxBytes int64
	size     int64
	order    *list.List
	items    map[string]*list.Element
}

type cacheEntry struct {
	key  string
	data []byte
}

// NewCache returns a cache holding at most maxBytes of image data.
func NewCache(maxBytes int64) *Cache {
	return &Cache{maxBytes: maxBytes, order: list.New(), items: make(map[string]*list.Element)}
}

// Get returns the bytes cached under key.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).data, true
}

// Put stores data under key, evicting the least recently used entries.
// Entries larger than the whole cache are not stored.
func (c *Cache) Put(key string, data []byte) {
	n := int64(len(data))
	if c.maxBytes <= 0 || n > c.maxBytes {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.size -= int64(len(el.Value.(*cacheEntry).data))
		el.Value.(*cacheEntry).data = data
		c.size += n
		c.order.MoveToFront(el)
	} else {
		c.items[key] = c.order.PushFront(&cacheEntry{key: key, data: data})
		c.size += n
	}
	for c.size > c.maxBytes {
		oldest := c.order.Back()
		e := oldest.Value.(*cacheEntry)
		c.order.Remove(oldest)
		delete(c.items, e.key)
		c.size -= int64(len(e.data))
	}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
