// internal/viewer/viewer.go
//
// Viewer identity for access decisions.
//
// Context
// -------
// Every request carries a Viewer: anonymous for plain visitors, or a user
// ID plus role names recovered from the session cookie.  The tenant
// resolver consults the Viewer to decide whether a private tenant may be
// confirmed to exist, and the page layer consults it for draft-mode
// eligibility.  The struct is inert data, safe to log or pass across
// package boundaries.
package viewer

import "context"

// Role names understood by the access layer.
const (
	RoleAdmin  = "admin"  // platform operator, sees every tenant
	RoleEditor = "editor" // tenant content editor, may request drafts
)

// Viewer is the per-request identity.  The zero value is anonymous.
type Viewer struct {
	UserID uint64
	Roles  []string
}

// Anonymous reports whether no authenticated user is attached.
func (v Viewer) Anonymous() bool { return v.UserID == 0 }

// HasRole reports whether the viewer carries the named role.
func (v Viewer) HasRole(name string) bool {
	for _, r := range v.Roles {
		if r == name {
			return true
		}
	}
	return false
}

//
// context plumbing
//

// ctxKey is unexported to avoid context-key collisions.
type ctxKey struct{}

// WithViewer returns a new context carrying v.
func WithViewer(ctx context.Context, v Viewer) context.Context {
	return context.WithValue(ctx, ctxKey{}, v)
}

// FromContext returns the Viewer stored by the session middleware, or the
// anonymous zero value when none is present.
func FromContext(ctx context.Context) Viewer {
	v, _ := ctx.Value(ctxKey{}).(Viewer)
	return v
}
