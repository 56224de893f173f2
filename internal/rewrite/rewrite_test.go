// internal/rewrite/rewrite_test.go
//
// Unit-tests for the edge rewrite rules and middleware.
//
// Context
// -------
// The rewrite layer is a pure function of (host, path) plus injected
// configuration, which makes its contract directly testable:
//
//   • system paths pass through untouched for every hostname,
//   • unknown hostnames rewrite byte-identically to /tenant-domains/…,
//   • alias hostnames take the /tenant-slugs/… path instead,
//   • the admin host's root rewrites straight to /admin,
//   • a second pass over an already-rewritten path is a no-op.
//
// The middleware test confirms the rewrite mutates r.URL.Path without
// issuing a redirect.

package rewrite

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func testRules() *Rules {
	return New(map[string]string{
		"www.legacy-obrtnik.si": "acme",
		"legacy-obrtnik.si":     "acme",
	}, "admin.obrtnik.example")
}

func TestRewrite_SystemPathsPassThrough(t *testing.T) {
	ru := testRules()

	paths := []string{
		"/admin",
		"/admin/collections/pages",
		"/api/tenants",
		"/_next/static/chunk.js",
		"/favicon.ico",
		"/metrics",
		"/healthz",
		"/tenant-domains/acme.example.com/foo",
		"/tenant-slugs/acme/storitve",
	}
	hosts := []string{"acme.example.com", "www.legacy-obrtnik.si", "admin.obrtnik.example", ""}

	for _, h := range hosts {
		for _, p := range paths {
			dec := ru.Rewrite(h, p)
			if dec.Outcome != OutcomePassthrough || dec.Path != "" {
				t.Errorf("Rewrite(%q, %q) = %+v, want passthrough", h, p, dec)
			}
		}
	}
}

func TestRewrite_SystemPrefixIsSegmentAware(t *testing.T) {
	ru := testRules()

	// "/apix" is tenant content, not the API prefix.
	dec := ru.Rewrite("acme.example.com", "/apix")
	if dec.Path != "/tenant-domains/acme.example.com/apix" {
		t.Fatalf("got %q, want domain rewrite of /apix", dec.Path)
	}
}

func TestRewrite_DomainDeterminism(t *testing.T) {
	ru := testRules()

	for i := 0; i < 3; i++ { // no hidden state between calls
		dec := ru.Rewrite("h.example.com", "/foo/bar")
		if dec.Outcome != OutcomeDomain {
			t.Fatalf("outcome = %q, want domain", dec.Outcome)
		}
		if dec.Path != "/tenant-domains/h.example.com/foo/bar" {
			t.Fatalf("path = %q", dec.Path)
		}
	}
}

func TestRewrite_AliasTableTakesPrecedence(t *testing.T) {
	ru := testRules()

	dec := ru.Rewrite("www.legacy-obrtnik.si", "/o-nas")
	if dec.Outcome != OutcomeAlias {
		t.Fatalf("outcome = %q, want alias", dec.Outcome)
	}
	if dec.Path != "/tenant-slugs/acme/o-nas" {
		t.Fatalf("path = %q", dec.Path)
	}
}

func TestRewrite_AdminHostRoot(t *testing.T) {
	ru := testRules()

	if dec := ru.Rewrite("admin.obrtnik.example", "/"); dec.Path != "/admin" {
		t.Fatalf("admin root rewrite = %+v", dec)
	}
	// Only the root path is special-cased; deeper paths are ordinary
	// domain traffic.
	if dec := ru.Rewrite("admin.obrtnik.example", "/x"); dec.Outcome != OutcomeDomain {
		t.Fatalf("admin non-root = %+v, want domain", dec)
	}
}

func TestRewrite_EmptyHostIsOpaque(t *testing.T) {
	ru := testRules()

	// Empty hostname must not crash; it becomes an opaque identifier that
	// the resolver downstream fails to find.
	dec := ru.Rewrite("", "/anything")
	if dec.Outcome != OutcomeDomain {
		t.Fatalf("outcome = %q, want domain", dec.Outcome)
	}
}

func TestRewrite_RootPathNormalised(t *testing.T) {
	ru := testRules()

	dec := ru.Rewrite("acme.example.com", "")
	if dec.Path != "/tenant-domains/acme.example.com/" {
		t.Fatalf("path = %q", dec.Path)
	}
}

func TestMiddleware_MutatesPathWithoutRedirect(t *testing.T) {
	ru := testRules()

	var got string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/storitve", nil)
	req.Host = "acme.example.com:8080" // port must be stripped
	rr := httptest.NewRecorder()

	Middleware(ru)(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (rewrite is not a redirect)", rr.Code)
	}
	if got != "/tenant-domains/acme.example.com/storitve" {
		t.Fatalf("rewritten path = %q", got)
	}
}

func TestStripPort(t *testing.T) {
	if got := StripPort("acme.example.com:443"); got != "acme.example.com" {
		t.Fatalf("got %q", got)
	}
	if got := StripPort("acme.example.com"); got != "acme.example.com" {
		t.Fatalf("got %q", got)
	}
}
