// internal/access/member_test.go
//
// Unit-tests for membership queries and the CanView decision table,
// using sqlmock.
//
// Run: go test ./internal/access -v

package access

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/matija2209/obrtnik-platform/internal/tenant"
	"github.com/matija2209/obrtnik-platform/internal/viewer"
)

func newDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { raw.Close() })
	return sqlx.NewDb(raw, "mysql"), mock
}

func TestMember(t *testing.T) {
	db, mock := newDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1`)).
		WithArgs(uint64(42), uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	ok, err := Member(context.Background(), db, 7, 42)
	if err != nil {
		t.Fatalf("Member: %v", err)
	}
	if !ok {
		t.Fatalf("expected membership")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestMember_NoRow(t *testing.T) {
	db, mock := newDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1`)).
		WithArgs(uint64(42), uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	ok, err := Member(context.Background(), db, 7, 42)
	if err != nil {
		t.Fatalf("Member: %v", err)
	}
	if ok {
		t.Fatalf("expected no membership")
	}
}

func TestCanView_PublicTenant(t *testing.T) {
	db, _ := newDB(t)
	c := NewChecker(db)

	rec := &tenant.Record{ID: 42, Slug: "acme", AllowPublicRead: true}
	ok, err := c.CanView(context.Background(), rec, viewer.Viewer{})
	if err != nil || !ok {
		t.Fatalf("public tenant must be viewable anonymously: ok=%v err=%v", ok, err)
	}
}

func TestCanView_PrivateTenant(t *testing.T) {
	db, mock := newDB(t)
	c := NewChecker(db)
	rec := &tenant.Record{ID: 42, Slug: "private", AllowPublicRead: false}

	// Anonymous → denied without a query.
	if ok, err := c.CanView(context.Background(), rec, viewer.Viewer{}); err != nil || ok {
		t.Fatalf("anonymous on private: ok=%v err=%v", ok, err)
	}

	// Admin → allowed without a query.
	admin := viewer.Viewer{UserID: 1, Roles: []string{viewer.RoleAdmin}}
	if ok, err := c.CanView(context.Background(), rec, admin); err != nil || !ok {
		t.Fatalf("admin on private: ok=%v err=%v", ok, err)
	}

	// Member → allowed via the membership table.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1`)).
		WithArgs(uint64(42), uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	member := viewer.Viewer{UserID: 7, Roles: []string{viewer.RoleEditor}}
	if ok, err := c.CanView(context.Background(), rec, member); err != nil || !ok {
		t.Fatalf("member on private: ok=%v err=%v", ok, err)
	}
}
