// internal/gate/gate.go
//
// Access gate: tenant-resolution failure → login redirect.
//
// Context
// -------
// When the resolver cannot produce a tenant for a domain-scoped request —
// whether the tenant genuinely does not exist or the viewer may not see
// it — the user is redirected to the tenant login view instead of a bare
// 404.  A 404 would leak nothing extra, but it also gives a legitimate
// user no way forward; the login page does.  The originally requested
// path rides along in the `redirect` query parameter so the client can
// return there after authentication.
//
// This is a hard, client-visible redirect, in contrast to the invisible
// rewrite in internal/rewrite.  It applies only to *tenant* resolution
// failure; a missing page within a resolved tenant is a plain 404.
package gate

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/matija2209/obrtnik-platform/internal/metrics"
	"github.com/matija2209/obrtnik-platform/internal/rewrite"
)

// LoginPath is where the gate sends unresolved domain traffic.
const LoginPath = rewrite.DomainPrefix + "/login"

// OriginalPath rebuilds the tenant-relative destination that should be
// revisited after login.  The failed tenant identifier itself is dropped;
// only the content path is preserved, re-rooted under the domain prefix.
func OriginalPath(slugSegs []string) string {
	var b strings.Builder
	b.WriteString(rewrite.DomainPrefix)
	for _, seg := range slugSegs {
		b.WriteByte('/')
		b.WriteString(seg)
	}
	return b.String()
}

// RedirectURL builds the full login redirect target.  QueryEscape keeps
// the round trip lossless for arbitrary path segments, Unicode and
// reserved characters included.
func RedirectURL(originalPath string) string {
	return LoginPath + "?redirect=" + url.QueryEscape(originalPath)
}

// Redirect issues the login redirect for a failed tenant resolution.
func Redirect(w http.ResponseWriter, r *http.Request, slugSegs []string) {
	metrics.LoginRedirectTotal.Inc()
	http.Redirect(w, r, RedirectURL(OriginalPath(slugSegs)), http.StatusTemporaryRedirect)
}

// Destination extracts the post-login target from the request.  Only
// site-relative paths are honoured so the parameter cannot be abused as
// an open redirect; anything else falls back to the tenant root default.
func Destination(r *http.Request) string {
	dest := r.URL.Query().Get("redirect")
	if dest == "" || !strings.HasPrefix(dest, "/") || strings.HasPrefix(dest, "//") {
		return rewrite.DomainPrefix
	}
	return dest
}
