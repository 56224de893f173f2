// internal/page/kind.go
//
// Page-type dispatch.
//
// Context
// -------
// The first slug segment selects which content shape to query: a fixed
// route-key table maps the Slovenian section keywords to specialized page
// kinds, and everything else is a general content page.  The table is
// injected data so tests can run arbitrary fixtures, but the production
// table is the fixed one below.
//
// Kind is a closed set; every switch over it should be exhaustive so
// adding or removing a page type is a compile-visible change.
package page

import "strings"

// Kind discriminates the content shapes a tenant page can take.
type Kind string

const (
	KindGeneral Kind = "general"
	KindService Kind = "service"
	KindProject Kind = "project"
	KindProduct Kind = "product"
)

// RouteKeys maps a first slug segment to a specialized page kind.
type RouteKeys map[string]Kind

// DefaultRouteKeys is the production routing convention.
func DefaultRouteKeys() RouteKeys {
	return RouteKeys{
		"storitve": KindService,
		"projekti": KindProject,
		"izdelki":  KindProduct,
	}
}

// Request names one content document to fetch.
type Request struct {
	Kind Kind
	Slug string // entity slug for specialized kinds, full path for general
}

// Normalize maps an empty slug to the home sentinel.  Non-empty slugs
// pass through unchanged; the system is permissive about path shape and
// never rejects a slug as malformed.
func Normalize(segs []string) []string {
	if len(segs) == 0 {
		return []string{"home"}
	}
	return segs
}

// Dispatch selects the query for a normalized slug.  A slug of more than
// one segment whose first segment is a route key dispatches to the
// specialized kind with the *second* segment as the entity's own slug;
// anything else is a general page addressed by the full joined path.
//
// Static-path generation must use this same function so build-time paths
// and runtime dispatch cannot drift.
func (rk RouteKeys) Dispatch(segs []string) Request {
	segs = Normalize(segs)

	if len(segs) > 1 {
		if kind, ok := rk[segs[0]]; ok {
			return Request{Kind: kind, Slug: segs[1]}
		}
	}
	return Request{Kind: KindGeneral, Slug: strings.Join(segs, "/")}
}
