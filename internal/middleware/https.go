// Package middleware holds small, composable HTTP wrappers.
package middleware

import (
	"context"
	"net/http"

	"github.com/matija2209/obrtnik-platform/internal/rewrite"
	"github.com/matija2209/obrtnik-platform/internal/tenant"
)

// KnownHost answers whether a hostname belongs to a known tenant.  The
// tenant cache satisfies this through ByDomain.
type KnownHost interface {
	ByDomain(ctx context.Context, domain string) (*tenant.Record, error)
}

// ForceHTTPS wraps h.  If the request is plain HTTP, the host is not
// “localhost”, and the host resolves to a known tenant domain, the wrapper
// issues a 308 Permanent Redirect to the HTTPS version of the same URL.
// Otherwise it calls the next handler unchanged.
func ForceHTTPS(known KnownHost, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Already HTTPS or dev host → continue.
		if r.TLS != nil || rewrite.StripPort(r.Host) == "localhost" {
			h.ServeHTTP(w, r)
			return
		}

		// Only redirect when the host is a known tenant domain.
		if _, err := known.ByDomain(r.Context(), rewrite.StripPort(r.Host)); err == nil {
			target := "https://" + r.Host + r.URL.RequestURI()
			http.Redirect(w, r, target, http.StatusPermanentRedirect)
			return
		}

		// Unknown host → keep normal flow (login gate later).
		h.ServeHTTP(w, r)
	})
}
