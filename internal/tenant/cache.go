// internal/tenant/cache.go
//
// Lazy tenant-record cache.
//
// Context
// -------
// Tenant resolution runs on every request, so records are cached in a
// sync.Map and loaded on demand.  A singleflight.Group collapses
// concurrent first hits for the same key into one query, and an atomic
// lastSeen timestamp feeds the idle-TTL/LRU evictor in evictor.go.
//
// Keys carry the addressing scheme as a prefix ("slug:acme",
// "domain:acme.example.com") so the two lookup paths never collide.
//
// Notes
// -----
//   - Loads run under context.Background(): a flight may be shared by
//     several requests, and the first caller's cancellation must not
//     poison the result for the rest.
//   - Cached values are lightweight Records; eviction is a plain delete,
//     no resources to close.
package tenant

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/singleflight"

	"github.com/matija2209/obrtnik-platform/internal/metrics"
)

// Static defaults.  Override via the tenant_cache config section.
const (
	IdleTTL       = 30 * time.Minute
	MaxEntries    = 500
	EvictInterval = 5 * time.Minute
)

// ErrNotFound is the only failure the resolver exposes: the tenant either
// does not exist or the viewer may not learn that it does.
var ErrNotFound = errors.New("tenant not found")

type entry struct {
	rec      *Record
	lastSeen int64 // UnixNano
}

// Cache lazily loads tenant records, stores them in a sync.Map, and
// evicts them on idle TTL or LRU pressure.
type Cache struct {
	db          *sqlx.DB
	sfg         singleflight.Group
	m           sync.Map
	evictTicker *time.Ticker
	done        chan struct{}
	stopOnce    sync.Once
	idleTTL     time.Duration
	maxEntries  int
}

// NewCache constructs a Cache and starts the background evictor.
func NewCache(db *sqlx.DB, idleTTL time.Duration, maxEntries int) *Cache {
	if idleTTL <= 0 {
		idleTTL = IdleTTL
	}
	if maxEntries <= 0 {
		maxEntries = MaxEntries
	}
	c := &Cache{
		db:         db,
		idleTTL:    idleTTL,
		maxEntries: maxEntries,
	}
	c.evictTicker = time.NewTicker(EvictInterval)
	c.done = make(chan struct{})
	go c.evictLoop()
	return c
}

// Stop halts the background evictor.  Safe to call more than once; cached
// entries stay readable afterwards.
func (c *Cache) Stop() {
	c.stopOnce.Do(func() {
		c.evictTicker.Stop()
		close(c.done)
	})
}

// BySlug returns the Record for a tenant slug, loading it on demand.
func (c *Cache) BySlug(ctx context.Context, slug string) (*Record, error) {
	return c.get("slug:"+slug, func() (*Record, error) {
		return BySlug(context.Background(), c.db, slug)
	})
}

// ByDomain returns the Record for a custom domain, loading it on demand.
func (c *Cache) ByDomain(ctx context.Context, domain string) (*Record, error) {
	return c.get("domain:"+domain, func() (*Record, error) {
		return ByDomain(context.Background(), c.db, domain)
	})
}

func (c *Cache) get(key string, load func() (*Record, error)) (*Record, error) {
	if v, ok := c.m.Load(key); ok {
		ent := v.(*entry)
		atomic.StoreInt64(&ent.lastSeen, time.Now().UnixNano())
		return ent.rec, nil
	}

	v, err, _ := c.sfg.Do(key, func() (interface{}, error) {
		// Double-check after singleflight barrier.
		if v, ok := c.m.Load(key); ok {
			ent := v.(*entry)
			atomic.StoreInt64(&ent.lastSeen, time.Now().UnixNano())
			return ent.rec, nil
		}
		rec, err := load()
		if err != nil {
			metrics.TenantLoadErrorsTotal.Inc()
			return nil, err
		}
		ent := &entry{
			rec:      rec,
			lastSeen: time.Now().UnixNano(),
		}
		c.m.Store(key, ent)
		metrics.TenantLoadTotal.Inc()
		metrics.ActiveTenants.Inc()
		return rec, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Record), nil
}

// Invalidate drops any cached entries for a tenant after an admin
// mutation, so the next request observes the new row.
func (c *Cache) Invalidate(slug string, domain *string) {
	if _, ok := c.m.LoadAndDelete("slug:" + slug); ok {
		metrics.ActiveTenants.Dec()
	}
	if domain != nil {
		if _, ok := c.m.LoadAndDelete("domain:" + *domain); ok {
			metrics.ActiveTenants.Dec()
		}
	}
}
