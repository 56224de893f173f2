// internal/hostmap/store.go
//
// Hostname→tenant-slug mapping store.
//
// Context
// -------
// The edge rewrite layer must answer “what tenant slug does this hostname
// map to” without touching the content database.  The Store abstraction
// covers that lookup plus the administrative writes that keep it in sync
// with tenant records.
//
// The store is a best-effort accelerator, never the source of truth: the
// tenant table remains authoritative, and a stale or missing entry only
// degrades routing (the request falls through to the generic
// hostname-as-tenant rewrite and the server-side resolver sorts it out).
// Write failures are therefore reported as a bool, logged by callers, and
// never propagated as errors.
package hostmap

import (
	"context"
	"sync"
)

// Store answers hostname→slug lookups and accepts best-effort writes.
type Store interface {
	// Lookup returns the slug mapped to host, or "" when no mapping exists.
	Lookup(ctx context.Context, host string) string

	// Upsert idempotently sets or replaces the mapping.  A false return
	// means the write did not take effect; callers log and move on.
	Upsert(ctx context.Context, host, slug string) bool

	// Delete idempotently removes a mapping.  Same failure semantics as
	// Upsert.
	Delete(ctx context.Context, host string) bool
}

//
// In-memory store
//

// Memory is a map-backed Store for development setups and tests.  Writes
// never fail.
type Memory struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewMemory returns a Memory store seeded with the given table (may be nil).
func NewMemory(seed map[string]string) *Memory {
	m := make(map[string]string, len(seed))
	for k, v := range seed {
		m[k] = v
	}
	return &Memory{m: m}
}

func (s *Memory) Lookup(_ context.Context, host string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m[host]
}

func (s *Memory) Upsert(_ context.Context, host, slug string) bool {
	s.mu.Lock()
	s.m[host] = slug
	s.mu.Unlock()
	return true
}

func (s *Memory) Delete(_ context.Context, host string) bool {
	s.mu.Lock()
	delete(s.m, host)
	s.mu.Unlock()
	return true
}
