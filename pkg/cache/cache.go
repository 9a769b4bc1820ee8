// Package cache is a bounded in-memory TTL cache for computed wallet
// analyses. Entries expire lazily on read; inserting past capacity evicts
// the entry with the oldest creation time (creation order, not LRU). It is
// a convenience cache, not a consistency-critical store.
package cache

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/etherscope-bot/pkg/models"
)

type entry struct {
	value     *models.WalletAnalysis
	ttl       time.Duration
	createdAt time.Time
}

func (e *entry) expired(now time.Time) bool {
	return now.Sub(e.createdAt) > e.ttl
}

// Stats is a point-in-time snapshot of cache state.
type Stats struct {
	Enabled     bool          `json:"enabled"`
	Size        int           `json:"size"`
	MaxSize     int           `json:"max_size"`
	TTL         time.Duration `json:"ttl"`
	Utilization float64       `json:"utilization"`
}

type Cache struct {
	mu      sync.Mutex
	enabled bool
	ttl     time.Duration
	maxSize int
	entries map[string]*entry

	now func() time.Time // swappable in tests
}

func New(enabled bool, ttl time.Duration, maxSize int) *Cache {
	log.Info().Bool("enabled", enabled).Dur("ttl", ttl).Int("max_size", maxSize).Msg("cache initialized")
	return &Cache{
		enabled: enabled,
		ttl:     ttl,
		maxSize: maxSize,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Get returns the cached value, or nil on a miss. An entry past its TTL
// counts as a miss and is removed as a side effect.
func (c *Cache) Get(key string) *models.WalletAnalysis {
	if !c.enabled {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		log.Debug().Str("key", key).Msg("cache miss")
		return nil
	}
	if e.expired(c.now()) {
		log.Debug().Str("key", key).Msg("cache expired")
		delete(c.entries, key)
		return nil
	}
	log.Debug().Str("key", key).Msg("cache hit")
	return e.value
}

// Set stores value under key with the default TTL.
func (c *Cache) Set(key string, value *models.WalletAnalysis) {
	c.SetTTL(key, value, 0)
}

// SetTTL stores value with an explicit TTL (0 means the default). When the
// cache is at capacity the single oldest-created entry is evicted first.
func (c *Cache) SetTTL(key string, value *models.WalletAnalysis, ttl time.Duration) {
	if !c.enabled {
		return
	}
	if ttl <= 0 {
		ttl = c.ttl
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxSize {
		oldestKey := ""
		var oldest time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.createdAt.Before(oldest) {
				oldestKey = k
				oldest = e.createdAt
			}
		}
		if oldestKey != "" {
			log.Debug().Str("key", oldestKey).Msg("cache full, evicting oldest entry")
			delete(c.entries, oldestKey)
		}
	}

	c.entries[key] = &entry{value: value, ttl: ttl, createdAt: c.now()}
	log.Debug().Str("key", key).Dur("ttl", ttl).Msg("cache set")
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
	log.Info().Msg("cache cleared")
}

// CleanupExpired removes every expired entry and returns how many were
// dropped.
func (c *Cache) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for k, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, k)
			removed++
		}
	}
	if removed > 0 {
		log.Debug().Int("removed", removed).Msg("cleaned up expired cache entries")
	}
	return removed
}

// GetStats cleans up expired entries, then reports current state.
func (c *Cache) GetStats() Stats {
	c.CleanupExpired()

	c.mu.Lock()
	defer c.mu.Unlock()
	util := 0.0
	if c.maxSize > 0 {
		util = float64(len(c.entries)) / float64(c.maxSize)
	}
	return Stats{
		Enabled:     c.enabled,
		Size:        len(c.entries),
		MaxSize:     c.maxSize,
		TTL:         c.ttl,
		Utilization: util,
	}
}
