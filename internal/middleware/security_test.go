package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// The headers must be present on a real HTTP response, not just in the
// recorder's live map: once a handler writes the body, header mutations
// no longer reach the wire.
func TestSecurityHeadersReachTheWire(t *testing.T) {
	srv := httptest.NewServer(Security(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html></html>"))
	})))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	for _, name := range []string{
		"Strict-Transport-Security",
		"Content-Security-Policy",
		"X-Frame-Options",
		"X-Content-Type-Options",
		"Referrer-Policy",
		"Permissions-Policy",
	} {
		if resp.Header.Get(name) == "" {
			t.Errorf("header %s missing from response", name)
		}
	}
	if got := resp.Header.Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Errorf("handler Content-Type clobbered: %q", got)
	}
}

func TestSecurityKeepsHandlerOverride(t *testing.T) {
	srv := httptest.NewServer(Security(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "SAMEORIGIN")
		_, _ = w.Write([]byte("ok"))
	})))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("X-Frame-Options"); got != "SAMEORIGIN" {
		t.Errorf("X-Frame-Options = %q, want handler's SAMEORIGIN", got)
	}
}
