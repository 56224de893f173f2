// internal/rewrite/rewrite.go
//
// Host-based URL rewrite rules (edge layer).
//
// Context
// -------
// Every inbound request is classified before routing.  Requests already
// addressed to an internal system path pass through untouched; everything
// else is rewritten so the path carries tenant context forward into the
// routing tree:
//
//	host in alias table            → /tenant-slugs/{slug}{path}
//	host == admin host, path == /  → /admin
//	anything else                  → /tenant-domains/{host}{path}
//
// The rewrite is internal and invisible to the client; no redirect is ever
// issued here.  This layer performs no data-store lookups: the alias table
// and admin host are injected configuration, and the generic rule treats
// the raw hostname as an opaque tenant identifier that the server-side
// resolver validates later.  An empty or malformed hostname therefore
// flows naturally into the not-found path instead of failing the rewrite.
package rewrite

import "strings"

// Internal path prefixes for the two tenant addressing schemes.
const (
	DomainPrefix = "/tenant-domains"
	SlugPrefix   = "/tenant-slugs"
)

// defaultPassPrefixes are the system paths the rewrite layer must never
// touch.  DomainPrefix and SlugPrefix are included so an already-rewritten
// path is idempotent under a second pass.
var defaultPassPrefixes = []string{
	"/admin",
	"/api",
	"/_next",
	"/static",
	"/favicon.ico",
	"/metrics",
	"/healthz",
	DomainPrefix,
	SlugPrefix,
}

// Outcome tags a rewrite decision for logging and metrics.
type Outcome string

const (
	OutcomePassthrough Outcome = "passthrough"
	OutcomeAlias       Outcome = "alias"
	OutcomeAdmin       Outcome = "admin"
	OutcomeDomain      Outcome = "domain"
)

// Decision is the result of classifying one request.
type Decision struct {
	Path    string // rewritten path ("" means keep the original)
	Outcome Outcome
}

// Rules is the injected edge configuration.  Zero value routes everything
// through the generic domain rule; construct with New to pick up the
// default pass-through prefixes.
type Rules struct {
	Aliases      map[string]string // legacy hostname → tenant slug
	AdminHost    string
	passPrefixes []string
}

// New builds Rules around an alias table and admin host.  aliases may be
// nil.
func New(aliases map[string]string, adminHost string) *Rules {
	return &Rules{
		Aliases:      aliases,
		AdminHost:    adminHost,
		passPrefixes: defaultPassPrefixes,
	}
}

// Rewrite classifies one request.  Ordered, first match wins; the result
// is deterministic in (host, path) alone, so identical requests always
// rewrite identically regardless of order.
func (ru *Rules) Rewrite(host, path string) Decision {
	if path == "" {
		path = "/"
	}

	prefixes := ru.passPrefixes
	if prefixes == nil {
		prefixes = defaultPassPrefixes
	}
	for _, p := range prefixes {
		if pathHasPrefix(path, p) {
			return Decision{Outcome: OutcomePassthrough}
		}
	}

	if slug, ok := ru.Aliases[host]; ok {
		return Decision{Path: SlugPrefix + "/" + slug + path, Outcome: OutcomeAlias}
	}

	if ru.AdminHost != "" && host == ru.AdminHost && path == "/" {
		return Decision{Path: "/admin", Outcome: OutcomeAdmin}
	}

	return Decision{Path: DomainPrefix + "/" + host + path, Outcome: OutcomeDomain}
}

// pathHasPrefix matches on whole path segments, so "/apix" does not count
// as "/api".
func pathHasPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}

// StripPort removes the :port suffix from a Host header when present.
func StripPort(h string) string {
	if i := strings.IndexByte(h, ':'); i != -1 {
		return h[:i]
	}
	return h
}
