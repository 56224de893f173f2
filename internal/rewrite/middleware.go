// internal/rewrite/middleware.go
//
// HTTP middleware applying the rewrite rules.
//
// Sits first in the chain, before any tenant or data-layer code.  On a
// rewrite it mutates r.URL.Path in place, exactly like an edge rewrite:
// the client never sees the internal path.
package rewrite

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/matija2209/obrtnik-platform/internal/metrics"
)

// Middleware returns a handler wrapper bound to the given Rules.
func Middleware(ru *Rules) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := StripPort(r.Host)
			dec := ru.Rewrite(host, r.URL.Path)
			metrics.RewriteTotal.WithLabelValues(string(dec.Outcome)).Inc()

			if dec.Path != "" {
				original := r.URL.Path
				r.URL.Path = dec.Path
				zap.L().Debug("edge rewrite",
					zap.String("host", host),
					zap.String("from", original),
					zap.String("to", dec.Path),
					zap.String("outcome", string(dec.Outcome)))
			}

			next.ServeHTTP(w, r)
		})
	}
}
