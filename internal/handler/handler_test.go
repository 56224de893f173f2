package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matija2209/obrtnik-platform/internal/access"
	"github.com/matija2209/obrtnik-platform/internal/hostmap"
	"github.com/matija2209/obrtnik-platform/internal/page"
	"github.com/matija2209/obrtnik-platform/internal/render"
	"github.com/matija2209/obrtnik-platform/internal/tenant"
	"github.com/matija2209/obrtnik-platform/internal/viewer"
)

const (
	tenantQueryBySlug   = `FROM\s+tenant\s+WHERE\s+slug = \?`
	tenantQueryByDomain = `FROM\s+tenant\s+WHERE\s+domain = \?`
	pageQuery           = `FROM\s+page\s+WHERE\s+tenant_id = \?`
)

func tenantColumns() []string {
	return []string{"id", "slug", "domain", "title", "allow_public_read",
		"suspended_at", "deleted_at", "created_at", "updated_at"}
}

func publicTenantRow(id int64, slug, domain string) *sqlmock.Rows {
	var dom any
	if domain != "" {
		dom = domain
	}
	now := time.Now()
	return sqlmock.NewRows(tenantColumns()).
		AddRow(id, slug, dom, "Acme d.o.o.", true, nil, nil, now, now)
}

func pageRow(id, tenantID int64, kind, slug string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "tenant_id", "kind", "slug", "title",
		"blocks", "published_at", "created_at", "updated_at"}).
		AddRow(id, tenantID, kind, slug, "Hello",
			[]byte(`[{"blockType":"hero"},{"blockType":"cta"}]`), now, now, now)
}

// newTestHandler wires a full Handler over sqlmock and an in-memory
// hostname map.
func newTestHandler(t *testing.T, hostSeed map[string]string) (http.Handler, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })

	db := sqlx.NewDb(raw, "mysql")
	cache := tenant.NewCache(db, tenant.IdleTTL, tenant.MaxEntries)
	t.Cleanup(cache.Stop)
	resolver := tenant.NewResolver(cache, access.NewChecker(db))
	engine, err := render.NewEngine("")
	require.NoError(t, err)

	h := New(db, resolver, cache, page.NewRepo(db), engine,
		viewer.NewSessions("test-secret"), hostmap.NewMemory(hostSeed), nil)
	return h.Routes(), mock
}

func TestUnknownHostRedirectsToLogin(t *testing.T) {
	router, mock := newTestHandler(t, nil)

	mock.ExpectQuery(tenantQueryByDomain).
		WithArgs("unknown.example").
		WillReturnRows(sqlmock.NewRows(tenantColumns()))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/tenant-domains/unknown.example/anything", nil))

	assert.Equal(t, http.StatusTemporaryRedirect, rr.Code)
	assert.Equal(t,
		"/tenant-domains/login?redirect=%2Ftenant-domains%2Fanything",
		rr.Header().Get("Location"))
}

func TestResolvedTenantMissingPageIs404(t *testing.T) {
	router, mock := newTestHandler(t, nil)

	mock.ExpectQuery(tenantQueryByDomain).
		WithArgs("acme.si").
		WillReturnRows(publicTenantRow(7, "acme", "acme.si"))
	mock.ExpectQuery(pageQuery).
		WithArgs(uint64(7), page.KindGeneral, "no-such-page").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/tenant-domains/acme.si/no-such-page", nil))

	// Page-level absence within a resolved tenant must not redirect.
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Empty(t, rr.Header().Get("Location"))
}

func TestMappedHostServesViaSlug(t *testing.T) {
	router, mock := newTestHandler(t, map[string]string{"www.acme.si": "acme"})

	// The mapped host must resolve through the slug scheme, never the
	// domain column.
	mock.ExpectQuery(tenantQueryBySlug).
		WithArgs("acme").
		WillReturnRows(publicTenantRow(7, "acme", "acme.si"))
	mock.ExpectQuery(pageQuery).
		WithArgs(uint64(7), page.KindGeneral, "home").
		WillReturnRows(pageRow(1, 7, "general", "home"))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/tenant-domains/www.acme.si", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `data-block="hero"`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSlugSchemeServesEntityPage(t *testing.T) {
	router, mock := newTestHandler(t, nil)

	mock.ExpectQuery(tenantQueryBySlug).
		WithArgs("acme").
		WillReturnRows(publicTenantRow(7, "acme", ""))
	mock.ExpectQuery(pageQuery).
		WithArgs(uint64(7), page.KindService, "vodovod").
		WillReturnRows(pageRow(2, 7, "service", "vodovod"))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/tenant-slugs/acme/storitve/vodovod", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `data-block="hero"`)
}

func TestSlugSchemeFailureRedirects(t *testing.T) {
	router, mock := newTestHandler(t, nil)

	mock.ExpectQuery(tenantQueryBySlug).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(tenantColumns()))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/tenant-slugs/ghost/storitve", nil))

	assert.Equal(t, http.StatusTemporaryRedirect, rr.Code)
	assert.Equal(t,
		"/tenant-domains/login?redirect=%2Ftenant-domains%2Fstoritve",
		rr.Header().Get("Location"))
}

func TestDraftIgnoredForAnonymousViewer(t *testing.T) {
	router, mock := newTestHandler(t, nil)

	mock.ExpectQuery(tenantQueryBySlug).
		WithArgs("acme").
		WillReturnRows(publicTenantRow(7, "acme", ""))
	// Unpublished row filtered out because the draft flag must stay off.
	mock.ExpectQuery(pageQuery).
		WithArgs(uint64(7), page.KindGeneral, "home").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	req := httptest.NewRequest("GET", "/tenant-slugs/acme", nil)
	req.AddCookie(&http.Cookie{Name: viewer.DraftCookie, Value: "1"})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLoginFormRenders(t *testing.T) {
	router, _ := newTestHandler(t, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/tenant-domains/login?redirect=%2Ftenant-domains%2Fx", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `name="csrf_token"`)
	assert.Contains(t, rr.Body.String(), "redirect=%2Ftenant-domains%2Fx")
}

func TestAdminSubtreeHiddenFromNonAdmins(t *testing.T) {
	router, _ := newTestHandler(t, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/admin/", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHealthz(t *testing.T) {
	router, _ := newTestHandler(t, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/healthz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}

func TestLiteralPercentSegmentDecodesOnce(t *testing.T) {
	router, mock := newTestHandler(t, nil)

	mock.ExpectQuery(tenantQueryBySlug).
		WithArgs("acme").
		WillReturnRows(publicTenantRow(7, "acme", ""))
	// "/100%2525" carries the literal page slug "100%25"; a second
	// unescape would shrink it to "100%".
	mock.ExpectQuery(pageQuery).
		WithArgs(uint64(7), page.KindGeneral, "100%25").
		WillReturnRows(pageRow(3, 7, "general", "100%25"))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/tenant-slugs/acme/100%2525", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
