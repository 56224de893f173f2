// internal/tenant/model.go
//
// `tenant` table row model.
//
// Context
// -------
// The `Record` struct mirrors one row in the persistent **tenant** table,
// capturing both addressing schemes (unique slug, optional unique custom
// domain), the public-read flag, and soft-delete state.  It is used by the
// resolver cache and by admin tooling that lists or edits tenants.
//
// Schema reference
//
//	CREATE TABLE tenant (
//	    id                INT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
//	    slug              VARCHAR(128)  NOT NULL UNIQUE,
//	    domain            VARCHAR(256)  NULL UNIQUE,
//	    title             VARCHAR(256)  NOT NULL DEFAULT '',
//	    allow_public_read TINYINT(1)    NOT NULL DEFAULT 1,
//	    suspended_at      TIMESTAMP NULL,
//	    deleted_at        TIMESTAMP NULL,
//	    created_at        TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
//	    updated_at        TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
//	);
//
// Notes
// -----
// • `Domain` is nullable; callers must nil-check before use.
// • Either soft-delete timestamp being non-NULL prevents the resolver
//   from serving the tenant.  Hot-path code never hard-deletes.
// • This struct contains no behaviour—pure data model for sqlx scans.
package tenant

import "time"

// Record mirrors one row in the `tenant` table.
type Record struct {
	ID              uint64     `db:"id"`
	Slug            string     `db:"slug"`
	Domain          *string    `db:"domain"`
	Title           string     `db:"title"`
	AllowPublicRead bool       `db:"allow_public_read"`
	SuspendedAt     *time.Time `db:"suspended_at"`
	DeletedAt       *time.Time `db:"deleted_at"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}
