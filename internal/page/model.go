// internal/page/model.go
//
// `page` table row model.
//
// Context
// -------
// One row per content document.  `Blocks` holds the page-builder layout
// as an opaque JSON array of block instances; this core never interprets
// individual block payloads, it only carries them to the render layer.
//
// Schema reference
//
//	CREATE TABLE page (
//	    id           INT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
//	    tenant_id    INT UNSIGNED  NOT NULL,
//	    kind         VARCHAR(16)   NOT NULL DEFAULT 'general',
//	    slug         VARCHAR(256)  NOT NULL,
//	    title        VARCHAR(256)  NOT NULL DEFAULT '',
//	    blocks       JSON          NOT NULL,
//	    published_at TIMESTAMP NULL,
//	    created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
//	    updated_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
//	    UNIQUE KEY (tenant_id, kind, slug)
//	);
//
// Notes
// -----
// • A NULL published_at means draft; drafts are visible only on the
//   preview path.
// • (tenant_id, kind, slug) is unique, so lookups return at most one row.
package page

import (
	"encoding/json"
	"time"
)

// Document mirrors one row in the `page` table.
type Document struct {
	ID          uint64          `db:"id"`
	TenantID    uint64          `db:"tenant_id"`
	Kind        Kind            `db:"kind"`
	Slug        string          `db:"slug"`
	Title       string          `db:"title"`
	Blocks      json.RawMessage `db:"blocks"`
	PublishedAt *time.Time      `db:"published_at"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

// Draft reports whether the document is unpublished.
func (d *Document) Draft() bool { return d.PublishedAt == nil }

// BlockInstance is the envelope of one page-builder block.  Only the type
// tag is decoded here; block payloads stay raw for the render layer.
type BlockInstance struct {
	Type string `json:"blockType"`
}

// BlockTypes decodes just the block-type tags from the layout, in order.
// Used by the render shell and by admin tooling; a malformed layout
// yields an empty list rather than an error (the document is still
// servable).
func (d *Document) BlockTypes() []string {
	var blocks []BlockInstance
	if err := json.Unmarshal(d.Blocks, &blocks); err != nil {
		return nil
	}
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, b.Type)
	}
	return out
}
