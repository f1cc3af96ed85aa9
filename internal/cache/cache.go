package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/toolmesh/dagcore/internal/task"
)

// Entry is a CacheEntry: a stored execution result keyed by a stable hash,
// along with the tool-version map it was produced under.
type Entry struct {
	Key          Key
	Result       task.TaskResult
	ToolVersions map[string]string
	CreatedAt    time.Time
	ExpiresAt    time.Time
	HitCount     int
}

// Stats mirrors the four counters the cache must expose.
type Stats struct {
	Hits           int64
	Misses         int64
	CurrentEntries int
	TotalSavedMs   int64
}

// Config is the enumerated cache configuration.
type Config struct {
	Enabled    bool
	MaxEntries int
	TTLSeconds int
}

type listEntry struct {
	key   Key
	entry Entry
}

// Cache is a bounded, strict-LRU, per-entry-TTL execution cache. All
// methods are safe for concurrent use; the at-most-one-build-per-fingerprint
// guarantee is explicitly NOT provided — parallel misses may race on
// insertion and the last writer wins, per the concurrency model.
type Cache struct {
	mu     sync.Mutex
	cfg    Config
	ll     *list.List // front = most recently used
	lookup map[Key]*list.Element

	stats Stats

	hitsMetric   prometheus.Counter
	missesMetric prometheus.Counter
	sizeMetric   prometheus.Gauge
}

// New constructs a Cache. If reg is non-nil, hit/miss/size metrics are
// registered against it; pass nil in tests that don't need metrics. Never a
// package-level default registry, per the explicit-config design note.
func New(cfg Config, reg *prometheus.Registry) *Cache {
	c := &Cache{
		cfg:    cfg,
		ll:     list.New(),
		lookup: make(map[Key]*list.Element),
	}
	if reg != nil {
		c.hitsMetric = prometheus.NewCounter(prometheus.CounterOpts{Name: "dagcore_cache_hits_total"})
		c.missesMetric = prometheus.NewCounter(prometheus.CounterOpts{Name: "dagcore_cache_misses_total"})
		c.sizeMetric = prometheus.NewGauge(prometheus.GaugeOpts{Name: "dagcore_cache_entries"})
		reg.MustRegister(c.hitsMetric, c.missesMetric, c.sizeMetric)
	}
	return c
}

// Get returns the cached result for key if present and unexpired. When the
// cache is disabled, Get always reports a miss.
func (c *Cache) Get(key Key, now time.Time) (task.TaskResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.cfg.Enabled {
		c.recordMiss()
		return task.TaskResult{}, false
	}

	el, ok := c.lookup[key]
	if !ok {
		c.recordMiss()
		return task.TaskResult{}, false
	}

	e := el.Value.(listEntry).entry
	if now.After(e.ExpiresAt) {
		c.ll.Remove(el)
		delete(c.lookup, key)
		c.recordMiss()
		return task.TaskResult{}, false
	}

	e.HitCount++
	el.Value = listEntry{key: key, entry: e}
	c.ll.MoveToFront(el)

	c.stats.Hits++
	c.stats.TotalSavedMs += e.Result.ExecutionTimeMs
	if c.hitsMetric != nil {
		c.hitsMetric.Inc()
	}
	return e.Result, true
}

func (c *Cache) recordMiss() {
	c.stats.Misses++
	if c.missesMetric != nil {
		c.missesMetric.Inc()
	}
}

// Set inserts or refreshes an entry. A repeated Set for the same key
// updates CreatedAt and refreshes the TTL (idempotent set-get). When the
// cache is disabled, Set is a no-op observable only via Stats not growing.
func (c *Cache) Set(key Key, result task.TaskResult, toolVersions map[string]string, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.cfg.Enabled {
		return
	}

	entry := Entry{
		Key:          key,
		Result:       result,
		ToolVersions: toolVersions,
		CreatedAt:    now,
		ExpiresAt:    now.Add(time.Duration(c.cfg.TTLSeconds) * time.Second),
	}

	if el, ok := c.lookup[key]; ok {
		el.Value = listEntry{key: key, entry: entry}
		c.ll.MoveToFront(el)
		return
	}

	el := c.ll.PushFront(listEntry{key: key, entry: entry})
	c.lookup[key] = el

	if c.cfg.MaxEntries > 0 && c.ll.Len() > c.cfg.MaxEntries {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.lookup, oldest.Value.(listEntry).key)
		}
	}
	if c.sizeMetric != nil {
		c.sizeMetric.Set(float64(c.ll.Len()))
	}
}

// Clear removes all entries; stats counters persist.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll = list.New()
	c.lookup = make(map[Key]*list.Element)
	if c.sizeMetric != nil {
		c.sizeMetric.Set(0)
	}
}

// Stats returns a snapshot of the cache's counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.CurrentEntries = c.ll.Len()
	return s
}
