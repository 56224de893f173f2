// internal/tenant/resolver.go
//
// Authoritative tenant identity resolution.
//
// Context
// -------
// The edge layer rewrites URLs from hostnames without consulting any data
// store; this resolver is the server-side counterpart that re-derives
// tenant identity from the content store and is the single source of
// truth for access decisions.  Given a slug or domain plus the current
// viewer, it answers with the tenant's numeric ID or ErrNotFound —
// nothing else.
//
// Error collapsing is deliberate: a tenant that does not exist and a
// tenant the viewer is not allowed to see produce the same ErrNotFound,
// so the response never distinguishes "absent" from "private".  Any
// repository failure (connectivity included) collapses the same way; raw
// errors must not escape to the HTTP layer.
package tenant

import (
	"context"

	"go.uber.org/zap"

	"github.com/matija2209/obrtnik-platform/internal/viewer"
)

// Gatekeeper decides whether a viewer may confirm a tenant's existence.
// Defined here, implemented by internal/access, so this package stays
// import-cycle free.
type Gatekeeper interface {
	CanView(ctx context.Context, rec *Record, v viewer.Viewer) (bool, error)
}

// Resolver resolves slugs and domains to tenant IDs through the cache.
type Resolver struct {
	cache *Cache
	gate  Gatekeeper
}

// NewResolver binds a cache and a gatekeeper.
func NewResolver(cache *Cache, gate Gatekeeper) *Resolver {
	return &Resolver{cache: cache, gate: gate}
}

// ResolveSlug resolves path-based addressing.
func (r *Resolver) ResolveSlug(ctx context.Context, slug string, v viewer.Viewer) (uint64, error) {
	rec, err := r.cache.BySlug(ctx, slug)
	return r.admit(ctx, rec, err, v, "slug", slug)
}

// ResolveDomain resolves domain-based addressing.
func (r *Resolver) ResolveDomain(ctx context.Context, domain string, v viewer.Viewer) (uint64, error) {
	rec, err := r.cache.ByDomain(ctx, domain)
	return r.admit(ctx, rec, err, v, "domain", domain)
}

// Record looks up the full record for a resolved tenant ID's slug.  Used
// by render code that needs the title; access has already been decided.
func (r *Resolver) Record(ctx context.Context, slug string) (*Record, error) {
	rec, err := r.cache.BySlug(ctx, slug)
	if err != nil {
		return nil, ErrNotFound
	}
	return rec, nil
}

// admit collapses every lookup or access failure into ErrNotFound and
// exposes only the numeric ID on success.
func (r *Resolver) admit(ctx context.Context, rec *Record, err error, v viewer.Viewer, scheme, key string) (uint64, error) {
	if err != nil {
		// Includes sql.ErrNoRows and connectivity errors alike.  Logged
		// for diagnosis, collapsed for the caller.
		zap.S().Debugw("tenant lookup failed", scheme, key, "err", err)
		return 0, ErrNotFound
	}

	ok, err := r.gate.CanView(ctx, rec, v)
	if err != nil {
		zap.S().Warnw("tenant access check failed", scheme, key, "err", err)
		return 0, ErrNotFound
	}
	if !ok {
		return 0, ErrNotFound
	}
	return rec.ID, nil
}
