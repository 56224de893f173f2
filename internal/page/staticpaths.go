// internal/page/staticpaths.go
//
// Static-path enumeration for prerender tooling.
//
// Walks every published (tenant, page) pair and rebuilds the public URL
// path through the same route-key table as runtime dispatch.  The inverse
// mapping (kind → first segment) is derived from the injected table, not
// duplicated, so adding a route key changes both directions at once.
package page

import (
	"context"
	"fmt"
)

// StaticPath is one pre-renderable path, tenant-scoped.
type StaticPath struct {
	TenantSlug string `json:"tenant"`
	Path       string `json:"path"`
}

// StaticPaths converts repository path entries to URL paths.
func (rk RouteKeys) StaticPaths(ctx context.Context, repo *Repo) ([]StaticPath, error) {
	entries, err := repo.AllPublishedPaths(ctx)
	if err != nil {
		return nil, err
	}

	// Invert the route-key table once per call.
	section := make(map[Kind]string, len(rk))
	for seg, kind := range rk {
		section[kind] = seg
	}

	out := make([]StaticPath, 0, len(entries))
	for _, e := range entries {
		var p string
		switch e.Kind {
		case KindGeneral:
			if e.PageSlug == "home" {
				p = "/"
			} else {
				p = "/" + e.PageSlug
			}
		case KindService, KindProject, KindProduct:
			seg, ok := section[e.Kind]
			if !ok {
				return nil, fmt.Errorf("no route key for page kind %q", e.Kind)
			}
			p = "/" + seg + "/" + e.PageSlug
		default:
			return nil, fmt.Errorf("unknown page kind %q", e.Kind)
		}
		out = append(out, StaticPath{TenantSlug: e.TenantSlug, Path: p})
	}
	return out, nil
}
