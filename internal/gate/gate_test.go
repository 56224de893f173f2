// internal/gate/gate_test.go
//
// Unit-tests for the login redirect, in particular the lossless
// encode/decode round trip of the preserved destination path.

package gate

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestOriginalPath_DropsTenantIdentifier(t *testing.T) {
	if got := OriginalPath([]string{"some", "path"}); got != "/tenant-domains/some/path" {
		t.Fatalf("got %q", got)
	}
	if got := OriginalPath(nil); got != "/tenant-domains" {
		t.Fatalf("empty slug → tenant root default, got %q", got)
	}
}

func TestRedirectURL_RoundTrip(t *testing.T) {
	paths := []string{
		"/tenant-domains/some/path",
		"/tenant-domains/anything",
		"/tenant-domains/storitve/rezanje-betona",
		"/tenant-domains/čistilni-servis/o-nas",   // Unicode
		"/tenant-domains/a b/c&d?e=f#g",           // reserved characters
		"/tenant-domains/100%25/q+r",              // percent and plus
	}

	for _, p := range paths {
		target, err := url.Parse(RedirectURL(p))
		if err != nil {
			t.Fatalf("parse %q: %v", p, err)
		}
		if target.Path != "/tenant-domains/login" {
			t.Errorf("path = %q", target.Path)
		}
		if got := target.Query().Get("redirect"); got != p {
			t.Errorf("round trip lost data: got %q, want %q", got, p)
		}
	}
}

func TestRedirect_StatusAndLocation(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/tenant-domains/unknown-host.example/anything", nil)
	rr := httptest.NewRecorder()

	Redirect(rr, req, []string{"anything"})

	if rr.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", rr.Code)
	}
	want := "/tenant-domains/login?redirect=%2Ftenant-domains%2Fanything"
	if got := rr.Header().Get("Location"); got != want {
		t.Fatalf("Location = %q, want %q", got, want)
	}
}

func TestDestination(t *testing.T) {
	cases := map[string]string{
		"/tenant-domains/login?redirect=%2Ftenant-domains%2Fsome%2Fpath": "/tenant-domains/some/path",
		"/tenant-domains/login":                          "/tenant-domains",
		"/tenant-domains/login?redirect=https%3A%2F%2Fevil.example": "/tenant-domains",
		"/tenant-domains/login?redirect=%2F%2Fevil.example":         "/tenant-domains",
	}
	for rawURL, want := range cases {
		req := httptest.NewRequest(http.MethodGet, rawURL, nil)
		if got := Destination(req); got != want {
			t.Errorf("Destination(%q) = %q, want %q", rawURL, got, want)
		}
	}
}
