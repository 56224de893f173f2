// internal/viewer/session.go
//
// Signed session cookie (JWT, HS256).
//
// Context
// -------
// Authentication persists between requests through the `obrtnik_session`
// cookie, a compact HS256 JWT carrying the user ID and role names.  Two
// further cookies are read-only inputs to the routing core:
//
//   - `obrtnik_draft`  – requests draft/preview rendering; honoured only
//     for viewers with the editor or admin role.
//   - `active-tenant`  – secondary, lower-priority tenant signal set by
//     the admin UI's tenant switcher; the path-derived tenant always wins.
//
// A cookie that fails to parse or verify degrades to the anonymous
// viewer; session problems must never surface as errors on the render
// path.
package viewer

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	SessionCookie      = "obrtnik_session"
	DraftCookie        = "obrtnik_draft"
	ActiveTenantCookie = "active-tenant"

	sessionTTL = 14 * 24 * time.Hour
)

// Claims is the JWT payload of a session cookie.
type Claims struct {
	UserID uint64   `json:"uid"`
	Roles  []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Sessions issues and verifies session cookies.  Construct once at boot
// with the config secret.
type Sessions struct {
	secret []byte
}

// NewSessions wraps the HMAC secret.
func NewSessions(secret string) *Sessions {
	return &Sessions{secret: []byte(secret)}
}

// Issue signs a session token for the user and sets the cookie.
func (s *Sessions) Issue(w http.ResponseWriter, r *http.Request, userID uint64, roles []string) error {
	if len(s.secret) == 0 {
		return errors.New("session secret not set")
	}

	claims := Claims{
		UserID: userID,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(sessionTTL),
	})
	return nil
}

// Clear removes the session cookie.
func (s *Sessions) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// FromRequest recovers the Viewer from the session cookie.  Any parse or
// signature failure yields the anonymous viewer.
func (s *Sessions) FromRequest(r *http.Request) Viewer {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return Viewer{}
	}

	token, err := jwt.ParseWithClaims(c.Value, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return Viewer{}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return Viewer{}
	}
	return Viewer{UserID: claims.UserID, Roles: claims.Roles}
}

// Middleware attaches the Viewer to the request context.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v := s.FromRequest(r)
		next.ServeHTTP(w, r.WithContext(WithViewer(r.Context(), v)))
	})
}

//
// secondary cookie signals
//

// DraftRequested reports whether the draft-mode cookie is set.  Role
// checks are the caller's job; this only reads the signal.
func DraftRequested(r *http.Request) bool {
	c, err := r.Cookie(DraftCookie)
	return err == nil && c.Value == "1"
}

// ActiveTenant returns the admin UI's tenant-switcher cookie value, or "".
func ActiveTenant(r *http.Request) string {
	c, err := r.Cookie(ActiveTenantCookie)
	if err != nil {
		return ""
	}
	return c.Value
}
