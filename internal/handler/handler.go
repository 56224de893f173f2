// internal/handler/handler.go
//
// HTTP routing tree for the tenant platform.
//
// Context
// -------
// By the time a request reaches this router the edge rewrite has already
// folded the Host header into the path, so everything here keys off two
// internal prefixes:
//
//	/tenant-domains/{tenant}/…  – tenant addressed by hostname
//	/tenant-slugs/{tenant}/…    – tenant addressed by slug
//
// Domain-addressed requests consult the hostname map first; if the host
// is mapped the slug takes over, otherwise the raw hostname goes to the
// resolver as-is.  A failed tenant resolution on either scheme becomes a
// login redirect; a missing page inside a resolved tenant is a plain 404.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/matija2209/obrtnik-platform/internal/forms"
	"github.com/matija2209/obrtnik-platform/internal/hostmap"
	"github.com/matija2209/obrtnik-platform/internal/page"
	"github.com/matija2209/obrtnik-platform/internal/render"
	"github.com/matija2209/obrtnik-platform/internal/rewrite"
	"github.com/matija2209/obrtnik-platform/internal/tenant"
	"github.com/matija2209/obrtnik-platform/internal/viewer"
)

// Handler bundles the collaborators every route needs.
type Handler struct {
	db        *sqlx.DB
	resolver  *tenant.Resolver
	cache     *tenant.Cache
	pages     *page.Repo
	engine    *render.Engine
	sessions  *viewer.Sessions
	hosts     hostmap.Store
	reconcile *hostmap.Reconciler
	contact   *forms.Contact
	routeKeys page.RouteKeys
}

// New wires a Handler.  contact may be nil when the contact form is
// disabled for the deployment.
func New(db *sqlx.DB, resolver *tenant.Resolver, cache *tenant.Cache,
	pages *page.Repo, engine *render.Engine, sessions *viewer.Sessions,
	hosts hostmap.Store, contact *forms.Contact) *Handler {
	return &Handler{
		db:        db,
		resolver:  resolver,
		cache:     cache,
		pages:     pages,
		engine:    engine,
		sessions:  sessions,
		hosts:     hosts,
		reconcile: hostmap.NewReconciler(hosts),
		contact:   contact,
		routeKeys: page.DefaultRouteKeys(),
	}
}

// Routes returns the chi router for everything below the rewrite layer.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", h.healthz)
	r.Get("/api/static-paths", h.staticPaths)

	r.Route(rewrite.DomainPrefix, func(r chi.Router) {
		r.Get("/login", h.loginForm)
		r.Post("/login", h.loginSubmit)
		r.Post("/logout", h.logout)

		r.Get("/{tenant}", h.serveDomain)
		r.Get("/{tenant}/*", h.serveDomain)
		r.Post("/{tenant}/contact", h.contactDomain)
	})

	r.Route(rewrite.SlugPrefix, func(r chi.Router) {
		r.Get("/{tenant}", h.serveSlug)
		r.Get("/{tenant}/*", h.serveSlug)
		r.Post("/{tenant}/contact", h.contactSlug)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(h.requireAdmin)
		r.Get("/", h.adminHome)
		r.Post("/tenants", h.adminUpsertTenant)
	})

	return r
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
