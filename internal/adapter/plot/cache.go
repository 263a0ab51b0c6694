package plot

import (
	"bytes"
	"container/list"
	"sync"

	"github.com/couchcryptid/disaster-scatter/internal/domain"
)

// CachedExporter renders charts and keeps the most recently used encodings
// in memory. Callers key entries by everything that determines the image,
// typically dataset version, selection, and format.
type CachedExporter struct {
	opts  Options
	cache *lruCache
}

// NewCachedExporter creates an exporter holding at most maxEntries images.
func NewCachedExporter(opts Options, maxEntries int) *CachedExporter {
	return &CachedExporter{opts: opts, cache: newLRUCache(maxEntries)}
}

// Export returns the encoded chart for key, rendering it on a miss. hit
// reports whether the image came from the cache. Failed renders are not cached.
func (e *CachedExporter) Export(key, title string, records []domain.DisasterRecord, format Format) (img []byte, hit bool, err error) {
	if img, ok := e.cache.get(key); ok {
		return img, true, nil
	}

	var buf bytes.Buffer
	if err := Render(&buf, title, records, format, e.opts); err != nil {
		return nil, false, err
	}
	img = buf.Bytes()
	e.cache.put(key, img)
	return img, false, nil
}

// Len returns the number of cached images.
func (e *CachedExporter) Len() int {
	return e.cache.len()
}

// lruCache is a thread-safe LRU cache of encoded images.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	order      *list.List // front is most recently used
	entries    map[string]*list.Element
}

type cacheEntry struct {
	key   string
	value []byte
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: max(maxEntries, 1),
		order:      list.New(),
		entries:    make(map[string]*list.Element),
	}
}

func (c *lruCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).value, true
}

func (c *lruCache) put(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).value = value
		c.order.MoveToFront(el)
		return
	}

	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, value: value})
	for c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
