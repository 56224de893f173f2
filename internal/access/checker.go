// internal/access/checker.go
//
// Gatekeeper implementation for tenant resolution.
//
// Decision table, first match wins:
//
//	tenant allows public read → yes
//	viewer has admin role     → yes
//	anonymous viewer          → no
//	viewer is a member        → yes
//	otherwise                 → no
//
// The existence check itself runs privileged (the tenant row was already
// fetched); only the yes/no verdict leaves this package.
package access

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/matija2209/obrtnik-platform/internal/tenant"
	"github.com/matija2209/obrtnik-platform/internal/viewer"
)

// Checker implements tenant.Gatekeeper over the control-plane database.
type Checker struct {
	db *sqlx.DB
}

// NewChecker binds a Checker to the control-plane pool.
func NewChecker(db *sqlx.DB) *Checker { return &Checker{db: db} }

var _ tenant.Gatekeeper = (*Checker)(nil)

// CanView reports whether v may learn that rec exists.
func (c *Checker) CanView(ctx context.Context, rec *tenant.Record, v viewer.Viewer) (bool, error) {
	if rec.AllowPublicRead {
		return true, nil
	}
	if v.HasRole(viewer.RoleAdmin) {
		return true, nil
	}
	if v.Anonymous() {
		return false, nil
	}
	return Member(ctx, c.db, v.UserID, rec.ID)
}
