// internal/requestinfo/middleware.go
//
// HTTP middleware that enriches each request with *RequestInfo.  Sits
// high in the chain, after the edge rewrite but before tenant lookup, so
// every downstream layer can read the bot flag and client IP without
// reparsing headers.
package requestinfo

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Enrich wraps an http.Handler, attaches *RequestInfo, and forwards.
func Enrich(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := &RequestInfo{
			UA:        ParseUA(r.UserAgent()),
			ClientIP:  clientIP(r),
			Timestamp: time.Now().UTC(),
		}

		zap.S().Debugw("request info",
			"ip", info.ClientIP.String(),
			"browser", info.UA.Browser,
			"device", info.UA.Device,
			"bot", info.UA.IsBot,
			"path", r.URL.Path,
		)

		ctx := context.WithValue(r.Context(), ctxKey{}, info)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
