// internal/access/member.go
//
// Tenant-membership query helpers.
//
// Context
// -------
// Private tenants (allow_public_read = FALSE) may only be confirmed to
// exist by viewers who belong to them.  Membership lives in one table in
// the control-plane database:
//
//	tenant_member (tenant_id, user_id, role)
//
// These helpers are thin parameterised queries; the resolver wraps the
// results in its own not-found collapsing, and the cache in front of the
// tenant table makes per-request membership checks cheap enough to run
// uncached.
package access

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// Member reports whether userID belongs to tenantID.
func Member(ctx context.Context, db *sqlx.DB, userID, tenantID uint64) (bool, error) {
	const q = `SELECT 1
                 FROM tenant_member
                WHERE tenant_id = ? AND user_id = ?
                LIMIT 1`

	var dummy int
	err := db.QueryRowContext(ctx, q, tenantID, userID).Scan(&dummy)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MemberTenantIDs returns every tenant the user belongs to.  Used by the
// admin UI's tenant switcher, not the request hot path.
func MemberTenantIDs(ctx context.Context, db *sqlx.DB, userID uint64) ([]uint64, error) {
	const q = `SELECT tenant_id
                 FROM tenant_member
                WHERE user_id = ?`

	var ids []uint64
	if err := db.SelectContext(ctx, &ids, q, userID); err != nil {
		return nil, err
	}
	return ids, nil
}
