// internal/tenant/resolver_test.go
//
// Unit-tests for the resolver's collapse-to-not-found contract, using
// sqlmock behind a sqlx wrapper and a stub Gatekeeper.
//
// Run: go test ./internal/tenant -v

package tenant

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/matija2209/obrtnik-platform/internal/viewer"
)

// stubGate admits everything, denies everything, or errors, per field.
type stubGate struct {
	allow bool
	err   error
}

func (g stubGate) CanView(context.Context, *Record, viewer.Viewer) (bool, error) {
	return g.allow, g.err
}

func newMockCache(t *testing.T) (*Cache, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { raw.Close() })
	db := sqlx.NewDb(raw, "mysql")
	c := NewCache(db, time.Minute, 10)
	t.Cleanup(c.Stop)
	return c, mock
}

func recordRows(id uint64, slug string, domain *string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "slug", "domain", "title", "allow_public_read",
		"suspended_at", "deleted_at", "created_at", "updated_at",
	}).AddRow(id, slug, domain, "Acme d.o.o.", true, nil, nil, now, now)
}

func TestResolveSlug_Found(t *testing.T) {
	cache, mock := newMockCache(t)
	mock.ExpectQuery("FROM\\s+tenant\\s+WHERE\\s+slug = \\?").
		WithArgs("acme").
		WillReturnRows(recordRows(42, "acme", nil))

	r := NewResolver(cache, stubGate{allow: true})
	id, err := r.ResolveSlug(context.Background(), "acme", viewer.Viewer{})
	if err != nil {
		t.Fatalf("ResolveSlug: %v", err)
	}
	if id != 42 {
		t.Fatalf("id = %d, want 42", id)
	}
}

func TestResolveDomain_Found(t *testing.T) {
	cache, mock := newMockCache(t)
	dom := "acme.example.com"
	mock.ExpectQuery("FROM\\s+tenant\\s+WHERE\\s+domain = \\?").
		WithArgs(dom).
		WillReturnRows(recordRows(42, "acme", &dom))

	r := NewResolver(cache, stubGate{allow: true})
	id, err := r.ResolveDomain(context.Background(), dom, viewer.Viewer{})
	if err != nil {
		t.Fatalf("ResolveDomain: %v", err)
	}
	if id != 42 {
		t.Fatalf("id = %d, want 42", id)
	}
}

func TestResolveSlug_NoRowsCollapses(t *testing.T) {
	cache, mock := newMockCache(t)
	mock.ExpectQuery("FROM\\s+tenant\\s+WHERE\\s+slug = \\?").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	r := NewResolver(cache, stubGate{allow: true})
	if _, err := r.ResolveSlug(context.Background(), "missing", viewer.Viewer{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestResolveSlug_QueryErrorCollapses(t *testing.T) {
	cache, mock := newMockCache(t)
	mock.ExpectQuery("FROM\\s+tenant\\s+WHERE\\s+slug = \\?").
		WithArgs("acme").
		WillReturnError(errors.New("connection refused"))

	r := NewResolver(cache, stubGate{allow: true})
	if _, err := r.ResolveSlug(context.Background(), "acme", viewer.Viewer{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound (no raw error may escape)", err)
	}
}

func TestResolve_AccessDeniedCollapses(t *testing.T) {
	cache, mock := newMockCache(t)
	mock.ExpectQuery("FROM\\s+tenant\\s+WHERE\\s+slug = \\?").
		WithArgs("private").
		WillReturnRows(recordRows(7, "private", nil))

	r := NewResolver(cache, stubGate{allow: false})
	if _, err := r.ResolveSlug(context.Background(), "private", viewer.Viewer{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("denied access must look identical to not-found, got %v", err)
	}
}

func TestResolve_GateErrorCollapses(t *testing.T) {
	cache, mock := newMockCache(t)
	mock.ExpectQuery("FROM\\s+tenant\\s+WHERE\\s+slug = \\?").
		WithArgs("acme").
		WillReturnRows(recordRows(42, "acme", nil))

	r := NewResolver(cache, stubGate{err: errors.New("membership table gone")})
	if _, err := r.ResolveSlug(context.Background(), "acme", viewer.Viewer{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("gate errors must collapse, got %v", err)
	}
}

func TestCache_SecondHitSkipsQuery(t *testing.T) {
	cache, mock := newMockCache(t)
	mock.ExpectQuery("FROM\\s+tenant\\s+WHERE\\s+slug = \\?").
		WithArgs("acme").
		WillReturnRows(recordRows(42, "acme", nil))

	ctx := context.Background()
	if _, err := cache.BySlug(ctx, "acme"); err != nil {
		t.Fatalf("first hit: %v", err)
	}
	// Second hit must be served from memory; sqlmock would fail the test
	// on an unexpected query.
	rec, err := cache.BySlug(ctx, "acme")
	if err != nil {
		t.Fatalf("second hit: %v", err)
	}
	if rec.ID != 42 {
		t.Fatalf("id = %d, want 42", rec.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestMakeSlug(t *testing.T) {
	cases := map[string]string{
		"Acme d.o.o.":       "acme-d-o-o",
		"  Rezanje Betona ": "rezanje-betona",
		"čistilni servis":   "istilni-servis",
		"---":               "tenant",
	}
	for in, want := range cases {
		if got := MakeSlug(in); got != want {
			t.Errorf("MakeSlug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCacheStop(t *testing.T) {
	cache, mock := newMockCache(t)

	mock.ExpectQuery(`FROM\s+tenant\s+WHERE\s+slug = \?`).
		WithArgs("acme").
		WillReturnRows(recordRows(42, "acme", nil))

	if _, err := cache.BySlug(context.Background(), "acme"); err != nil {
		t.Fatalf("load: %v", err)
	}

	// Idempotent, and cached reads keep working after the evictor stops.
	cache.Stop()
	cache.Stop()

	rec, err := cache.BySlug(context.Background(), "acme")
	if err != nil {
		t.Fatalf("read after stop: %v", err)
	}
	if rec.ID != 42 {
		t.Fatalf("id = %d, want 42", rec.ID)
	}
}
