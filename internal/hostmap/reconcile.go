// internal/hostmap/reconcile.go
//
// Mapping reconciliation on tenant domain changes.
//
// Context
// -------
// When an administrator edits a tenant's custom domain the mapping store
// must follow, or the edge layer keeps routing the old hostname to the
// tenant (or the new hostname to nothing).  Reconcile is invoked as the
// *last* step of the tenant mutation, after the authoritative row is
// committed, so a crash mid-change leaves the store stale rather than
// ahead of the truth.  Stale entries are tolerable: the server-side
// resolver re-derives tenant identity from the tenant table on every
// request and always wins.
package hostmap

import (
	"context"

	"go.uber.org/zap"
)

// Reconciler applies tenant domain changes to a Store.
type Reconciler struct {
	store Store
}

// NewReconciler binds a Reconciler to a Store.
func NewReconciler(store Store) *Reconciler { return &Reconciler{store: store} }

// OnTenantDomainChange synchronises the mapping store after a tenant's
// domain field changed from oldDomain to newDomain.
//
// Order matters: the old entry is deleted before the new one is written,
// so at no point do two hostnames map to the same tenant through this
// path.  An empty oldDomain means the tenant had no custom domain before,
// and no delete is issued.  An empty newDomain means the domain was
// removed, and no upsert is issued.
func (r *Reconciler) OnTenantDomainChange(ctx context.Context, newDomain, newSlug, oldDomain string) {
	if oldDomain != "" && oldDomain != newDomain {
		if !r.store.Delete(ctx, oldDomain) {
			zap.L().Warn("hostmap reconcile: stale mapping left behind",
				zap.String("host", oldDomain))
		}
	}
	if newDomain != "" {
		if !r.store.Upsert(ctx, newDomain, newSlug) {
			zap.L().Warn("hostmap reconcile: new mapping not written",
				zap.String("host", newDomain), zap.String("slug", newSlug))
		}
	}
}
