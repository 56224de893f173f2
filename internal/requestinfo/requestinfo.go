// internal/requestinfo/requestinfo.go
//
// Per-request metadata (user-agent fingerprint, client IP, timestamp).
//
// Context
// -------
// The routing core needs only two things from the raw request beyond the
// URL: whether the caller looks like a crawler (bots never receive draft
// content), and enough client detail to make the structured request log
// useful.  The structs here are inert — no database handles, no large
// buffers — so they are safe to log or JSON-encode.
package requestinfo

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	surfer "github.com/avct/uasurfer"
)

// UA holds the parsed user-agent properties the platform cares about.
type UA struct {
	Raw     string
	Browser string // "Chrome", "Firefox", "Safari", …
	Version string // "124.0.6367"
	OS      string // "MacOSX", "Windows", "Android", …
	Device  string // "Desktop", "Mobile", "Tablet", or "Other"
	IsBot   bool
}

// RequestInfo is attached to the request context by Enrich.
type RequestInfo struct {
	UA        UA
	ClientIP  net.IP
	Timestamp time.Time
}

type ctxKey struct{} // unexported, collision-proof

// FromContext returns the pointer previously stored by Enrich, or nil if
// the middleware has not run.
func FromContext(ctx context.Context) *RequestInfo {
	v, _ := ctx.Value(ctxKey{}).(*RequestInfo)
	return v
}

// IsBot is a convenience for the draft-mode check; a missing RequestInfo
// counts as not-a-bot.
func IsBot(ctx context.Context) bool {
	if info := FromContext(ctx); info != nil {
		return info.UA.IsBot
	}
	return false
}

// ParseUA converts a raw header into our UA struct using uasurfer.
func ParseUA(raw string) UA {
	u := surfer.Parse(raw)

	info := UA{
		Raw:     raw,
		Browser: u.Browser.Name.String(),
		Version: versionToString(u.Browser.Version),
		OS:      u.OS.Name.String(),
		IsBot:   u.IsBot(),
	}

	switch u.DeviceType {
	case surfer.DeviceComputer:
		info.Device = "Desktop"
	case surfer.DeviceTablet:
		info.Device = "Tablet"
	case surfer.DevicePhone, surfer.DeviceWearable:
		info.Device = "Mobile"
	default:
		info.Device = "Other"
	}
	return info
}

// versionToString renders a semantic version in dotted form while trimming
// trailing zeros, e.g. 17.0.0 → "17", 17.3.0 → "17.3", 17.3.1 → "17.3.1".
func versionToString(v surfer.Version) string {
	if v.Major == 0 && v.Minor == 0 && v.Patch == 0 {
		return ""
	}
	if v.Patch != 0 {
		return strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor) + "." + strconv.Itoa(v.Patch)
	}
	if v.Minor != 0 {
		return strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor)
	}
	return strconv.Itoa(v.Major)
}

// clientIP extracts the left-most address from X-Forwarded-For or
// X-Real-IP, falling back to RemoteAddr.
func clientIP(r *http.Request) net.IP {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
		if ip := net.ParseIP(first); ip != nil {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if ip := net.ParseIP(xri); ip != nil {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return net.ParseIP(host)
}
