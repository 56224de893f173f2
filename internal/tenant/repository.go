// internal/tenant/repository.go
//
// Tenant-table query helpers.
//
// Context
// -------
// Access to the **tenant** table.  `BySlug` and `ByDomain` back the
// resolver's two addressing schemes; `AllActive` feeds static-path
// enumeration and admin dashboards.  The read helpers exclude suspended
// or deleted rows at SQL level to keep callers simple.  `Insert` and
// `Update` exist for the admin surface only.
//
// Notes
// -----
//   - Column list matches the fields in `Record`; update both together.
//   - Errors are returned verbatim so the caller can wrap or collapse
//     them; the resolver maps every failure to ErrNotFound.
package tenant

import (
	"context"

	"github.com/jmoiron/sqlx"
)

const recordColumns = `id, slug, domain, title, allow_public_read,
               suspended_at, deleted_at, created_at, updated_at`

// BySlug fetches a single tenant row by its unique slug.
func BySlug(ctx context.Context, db *sqlx.DB, slug string) (*Record, error) {
	const q = `
        SELECT ` + recordColumns + `
        FROM   tenant
        WHERE  slug = ?
          AND  suspended_at IS NULL
          AND  deleted_at   IS NULL
        LIMIT  1`
	var rec Record
	if err := db.GetContext(ctx, &rec, q, slug); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ByDomain fetches a single tenant row by its unique custom domain.
func ByDomain(ctx context.Context, db *sqlx.DB, domain string) (*Record, error) {
	const q = `
        SELECT ` + recordColumns + `
        FROM   tenant
        WHERE  domain = ?
          AND  suspended_at IS NULL
          AND  deleted_at   IS NULL
        LIMIT  1`
	var rec Record
	if err := db.GetContext(ctx, &rec, q, domain); err != nil {
		return nil, err
	}
	return &rec, nil
}

// AllActive returns every tenant that is neither suspended nor deleted.
// Intended for static-path enumeration and admin dashboards, not the HTTP
// bootstrap path.
func AllActive(ctx context.Context, db *sqlx.DB) ([]Record, error) {
	const q = `
        SELECT ` + recordColumns + `
        FROM   tenant
        WHERE  suspended_at IS NULL
          AND  deleted_at   IS NULL`
	var rows []Record
	if err := db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}

// ByID fetches one tenant row regardless of suspended state.  Admin
// surface only; the serving path never addresses tenants by ID.
func ByID(ctx context.Context, db *sqlx.DB, id uint64) (*Record, error) {
	const q = `
        SELECT ` + recordColumns + `
        FROM   tenant
        WHERE  id = ?
          AND  deleted_at IS NULL
        LIMIT  1`
	var rec Record
	if err := db.GetContext(ctx, &rec, q, id); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Insert creates a tenant row and returns its ID.  Slug uniqueness is
// enforced by the table; callers surface the duplicate-key error.
func Insert(ctx context.Context, db *sqlx.DB, rec *Record) (uint64, error) {
	const q = `
        INSERT INTO tenant (slug, domain, title, allow_public_read, created_at, updated_at)
        VALUES             (?, ?, ?, ?, NOW(), NOW())`
	res, err := db.ExecContext(ctx, q, rec.Slug, rec.Domain, rec.Title, rec.AllowPublicRead)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

// Update rewrites the mutable columns of an existing tenant row.
func Update(ctx context.Context, db *sqlx.DB, rec *Record) error {
	const q = `
        UPDATE tenant
        SET    domain = ?, title = ?, allow_public_read = ?, updated_at = NOW()
        WHERE  id = ?`
	_, err := db.ExecContext(ctx, q, rec.Domain, rec.Title, rec.AllowPublicRead, rec.ID)
	return err
}
