package cache

import (
	"container/list"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/HasinduNiran/Nephro-AI-sub000/schema"
)

// ResponseCache stores finished chat responses keyed by patient, data
// version, language and normalized query. Because the patient's data version
// is baked into the key, a profile update silently orphans every stale entry;
// Invalidate exists for callers that want the memory back immediately.
type ResponseCache interface {
	Get(key string) (*schema.Response, bool)
	Set(key, patientID string, value *schema.Response, ttl time.Duration)
	Invalidate(patientID string)
	Purge()
}

// Key derives the cache key. Queries are normalized so trivial whitespace and
// casing differences share an entry.
func Key(patientID, dataVersion, targetLang, query string) string {
	normalized := strings.ToLower(strings.TrimSpace(query))
	raw := fmt.Sprintf("%s:%s:%s:%s", patientID, dataVersion, targetLang, normalized)
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}

type entry struct {
	key       string
	patientID string
	value     *schema.Response
	expires   time.Time
	element   *list.Element
}

type lruCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	items    map[string]*entry
	order    *list.List
}

// NewLRU creates a response cache with capacity and default TTL.
func NewLRU(capacity int, ttl time.Duration) ResponseCache {
	if capacity <= 0 {
		capacity = 2000
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &lruCache{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*entry, capacity),
		order:    list.New(),
	}
}

func (c *lruCache) Get(key string) (*schema.Response, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		if ent.expires.IsZero() || time.Now().Before(ent.expires) {
			c.order.MoveToFront(ent.element)
			return ent.value, true
		}
		c.removeEntry(ent)
	}
	return nil, false
}

func (c *lruCache) Set(key, patientID string, value *schema.Response, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		ent.value = value
		ent.expires = c.computeExpiry(ttl)
		c.order.MoveToFront(ent.element)
		return
	}

	if len(c.items) >= c.capacity {
		c.evictOldest()
	}

	elem := c.order.PushFront(key)
	c.items[key] = &entry{
		key:       key,
		patientID: patientID,
		value:     value,
		expires:   c.computeExpiry(ttl),
		element:   elem,
	}
}

// Invalidate drops every entry belonging to patientID with a linear scan.
// The cache is small enough that walking it beats maintaining a second index.
func (c *lruCache) Invalidate(patientID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, ent := range c.items {
		if ent.patientID == patientID {
			c.removeEntry(ent)
		}
	}
}

func (c *lruCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*entry, c.capacity)
	c.order.Init()
}

func (c *lruCache) computeExpiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		ttl = c.ttl
	}
	if ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(ttl)
}

func (c *lruCache) evictOldest() {
	elem := c.order.Back()
	if elem == nil {
		return
	}
	key := elem.Value.(string)
	if ent, ok := c.items[key]; ok {
		c.removeEntry(ent)
	}
}

func (c *lruCache) removeEntry(ent *entry) {
	if ent.element != nil {
		c.order.Remove(ent.element)
	}
	delete(c.items, ent.key)
}
