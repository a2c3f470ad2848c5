package cache

import (
	"log"
	"time"

	"github.com/dgraph-io/ristretto"
)

func New() *ristretto.Cache {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     1 << 24,
		BufferItems: 64,
	})
	if err != nil {
		log.Fatalf("cache.New: err = %s", err)
	}
	return c
}

// Deduplicator remembers keys for a fixed window. Ristretto may reject a Set
// under contention, so deduplication is best effort.
type Deduplicator struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

func NewDeduplicator(c *ristretto.Cache, ttl time.Duration) *Deduplicator {
	return &Deduplicator{cache: c, ttl: ttl}
}

// Seen reports whether key was marked within the window and marks it otherwise.
func (d *Deduplicator) Seen(key string) bool {
	if key == "" {
		return false
	}
	if _, found := d.cache.Get(key); found {
		return true
	}
	d.cache.SetWithTTL(key, struct{}{}, 1, d.ttl)
	d.cache.Wait()
	return false
}
