// internal/handler/admin.go
//
// Admin surface: tenant provisioning and domain changes.
//
// Context
// -------
// Tenant mutations are the write side of everything the serving path
// reads.  A domain change must reach three places in order: the tenant
// table (authoritative), the hostname map (edge acceleration, delete old
// before upsert new), and the in-process tenant cache (drop both keys).
// The hostname map writes are best-effort; the table is the source of
// truth and a stale map entry only costs one extra resolver lookup.
package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/matija2209/obrtnik-platform/internal/tenant"
	"github.com/matija2209/obrtnik-platform/internal/viewer"
)

// requireAdmin guards the /admin subtree.
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !viewer.FromContext(r.Context()).HasRole(viewer.RoleAdmin) {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) adminHome(w http.ResponseWriter, r *http.Request) {
	recs, err := tenant.AllActive(r.Context(), h.db)
	if err != nil {
		zap.S().Errorw("admin tenant list failed", "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for _, rec := range recs {
		dom := ""
		if rec.Domain != nil {
			dom = *rec.Domain
		}
		_, _ = w.Write([]byte(strconv.FormatUint(rec.ID, 10) + "\t" + rec.Slug + "\t" + dom + "\t" + rec.Title + "\n"))
	}
}

// adminUpsertTenant creates a tenant (no id field) or updates one (id
// present).  Domain moves fan out to the hostname map and the cache.
func (h *Handler) adminUpsertTenant(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	title := r.PostForm.Get("title")
	if title == "" {
		http.Error(w, "title is required", http.StatusUnprocessableEntity)
		return
	}
	newDomain := r.PostForm.Get("domain")
	public := r.PostForm.Get("allow_public_read") == "1"

	var domainPtr *string
	if newDomain != "" {
		domainPtr = &newDomain
	}

	idStr := r.PostForm.Get("id")
	if idStr == "" {
		rec := &tenant.Record{
			Slug:            tenant.MakeSlug(title),
			Domain:          domainPtr,
			Title:           title,
			AllowPublicRead: public,
		}
		id, err := tenant.Insert(r.Context(), h.db, rec)
		if err != nil {
			zap.S().Errorw("tenant insert failed", "slug", rec.Slug, "err", err)
			http.Error(w, "could not create tenant", http.StatusConflict)
			return
		}
		h.reconcile.OnTenantDomainChange(r.Context(), newDomain, rec.Slug, "")
		zap.S().Infow("tenant created", "tenant_id", id, "slug", rec.Slug, "domain", newDomain)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(rec.Slug))
		return
	}

	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		http.Error(w, "bad tenant id", http.StatusUnprocessableEntity)
		return
	}
	old, err := tenant.ByID(r.Context(), h.db, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.NotFound(w, r)
			return
		}
		zap.S().Errorw("tenant load failed", "tenant_id", id, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	oldDomain := ""
	if old.Domain != nil {
		oldDomain = *old.Domain
	}

	upd := *old
	upd.Domain = domainPtr
	upd.Title = title
	upd.AllowPublicRead = public
	if err := tenant.Update(r.Context(), h.db, &upd); err != nil {
		zap.S().Errorw("tenant update failed", "tenant_id", id, "err", err)
		http.Error(w, "could not update tenant", http.StatusConflict)
		return
	}

	h.reconcile.OnTenantDomainChange(r.Context(), newDomain, old.Slug, oldDomain)
	h.cache.Invalidate(old.Slug, old.Domain)

	zap.S().Infow("tenant updated",
		"tenant_id", id, "slug", old.Slug,
		"old_domain", oldDomain, "new_domain", newDomain)
	w.WriteHeader(http.StatusNoContent)
}
