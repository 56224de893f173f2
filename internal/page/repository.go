// internal/page/repository.go
//
// Page-table query helpers.
//
// Context
// -------
// All queries are scoped by tenant ID; there is no way to ask for a page
// without naming its tenant.  The draft flag widens the published filter
// for preview requests.  A missing document is returned as ErrNotFound,
// which the HTTP layer renders as a plain 404 — page-level absence within
// a known-good tenant is never a login redirect.
package page

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when no document matches (tenant, kind, slug).
var ErrNotFound = errors.New("page not found")

// Repo wraps the control-plane pool for page queries.
type Repo struct {
	db *sqlx.DB
}

// NewRepo binds a Repo to the pool.
func NewRepo(db *sqlx.DB) *Repo { return &Repo{db: db} }

const documentColumns = `id, tenant_id, kind, slug, title, blocks,
               published_at, created_at, updated_at`

// Fetch returns the document for one dispatch request within a tenant.
// draft == true permits unpublished rows (preview path only; the caller
// has already checked editor eligibility).
func (r *Repo) Fetch(ctx context.Context, tenantID uint64, req Request, draft bool) (*Document, error) {
	q := `
        SELECT ` + documentColumns + `
        FROM   page
        WHERE  tenant_id = ?
          AND  kind      = ?
          AND  slug      = ?`
	if !draft {
		q += `
          AND  published_at IS NOT NULL`
	}
	q += `
        LIMIT  1`

	var doc Document
	if err := r.db.GetContext(ctx, &doc, q, tenantID, req.Kind, req.Slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// PathEntry is one (tenant slug, page path) pair for static generation.
type PathEntry struct {
	TenantSlug string `db:"tenant_slug"`
	Kind       Kind   `db:"kind"`
	PageSlug   string `db:"page_slug"`
}

// AllPublishedPaths enumerates every published (tenant, page) combination
// for build-time rendering.  The returned entries are converted back to
// URL paths with the same route-key table that runtime dispatch uses, so
// the two cannot drift.
func (r *Repo) AllPublishedPaths(ctx context.Context) ([]PathEntry, error) {
	const q = `
        SELECT t.slug AS tenant_slug, p.kind AS kind, p.slug AS page_slug
        FROM   page p
        JOIN   tenant t ON t.id = p.tenant_id
        WHERE  p.published_at IS NOT NULL
          AND  t.suspended_at IS NULL
          AND  t.deleted_at   IS NULL`
	var rows []PathEntry
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}
