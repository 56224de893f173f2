// internal/handler/site.go
//
// Tenant site serving: resolve, dispatch, render.
package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/matija2209/obrtnik-platform/internal/forms"
	"github.com/matija2209/obrtnik-platform/internal/gate"
	"github.com/matija2209/obrtnik-platform/internal/page"
	"github.com/matija2209/obrtnik-platform/internal/requestinfo"
	"github.com/matija2209/obrtnik-platform/internal/tenant"
	"github.com/matija2209/obrtnik-platform/internal/viewer"
)

// restSegments returns the decoded path segments after the tenant
// identifier.  An absent or empty wildcard yields nil.
//
// chi routes on RawPath only when the URL needed escaping; when RawPath
// is empty the wildcard is already decoded, and unescaping again would
// double-decode a segment with a literal percent.
func restSegments(r *http.Request) []string {
	rest := chi.URLParam(r, "*")
	if rest == "" {
		return nil
	}
	escaped := r.URL.RawPath != ""
	parts := strings.Split(rest, "/")
	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if escaped {
			if dec, err := url.PathUnescape(p); err == nil {
				p = dec
			}
		}
		segs = append(segs, p)
	}
	return segs
}

// serveDomain handles /tenant-domains/{tenant}/…, where {tenant} is a raw
// hostname.  The hostname map is consulted first; a mapped host resolves
// through its slug, an unmapped one goes to the resolver verbatim.
func (h *Handler) serveDomain(w http.ResponseWriter, r *http.Request) {
	host := chi.URLParam(r, "tenant")
	segs := restSegments(r)
	v := viewer.FromContext(r.Context())

	var (
		id  uint64
		err error
	)
	if slug := h.hosts.Lookup(r.Context(), host); slug != "" {
		id, err = h.resolver.ResolveSlug(r.Context(), slug, v)
	} else {
		id, err = h.resolver.ResolveDomain(r.Context(), host, v)
	}
	if err != nil {
		gate.Redirect(w, r, segs)
		return
	}
	h.servePage(w, r, id, segs)
}

// serveSlug handles /tenant-slugs/{tenant}/….
func (h *Handler) serveSlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "tenant")
	segs := restSegments(r)
	v := viewer.FromContext(r.Context())

	id, err := h.resolver.ResolveSlug(r.Context(), slug, v)
	if err != nil {
		gate.Redirect(w, r, segs)
		return
	}
	h.servePage(w, r, id, segs)
}

// servePage dispatches the remaining segments to a page kind, fetches the
// document, and renders it.  Tenant identity is settled by this point, so
// every failure from here down is a plain 404.
func (h *Handler) servePage(w http.ResponseWriter, r *http.Request, tenantID uint64, segs []string) {
	req := h.routeKeys.Dispatch(page.Normalize(segs))

	doc, err := h.pages.Fetch(r.Context(), tenantID, req, h.draftEligible(r, tenantID))
	if err != nil {
		if !errors.Is(err, page.ErrNotFound) {
			zap.S().Errorw("page fetch failed",
				"tenant_id", tenantID, "kind", req.Kind, "slug", req.Slug, "err", err)
		}
		http.NotFound(w, r)
		return
	}

	rec, err := h.tenantRecord(r, tenantID)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	h.engine.Page(w, rec, doc)
}

// tenantRecord re-reads the cached record for render metadata.  The
// resolver only hands back IDs, so the slug is recovered from whichever
// identifier the request carried.
func (h *Handler) tenantRecord(r *http.Request, tenantID uint64) (*tenant.Record, error) {
	ident := chi.URLParam(r, "tenant")

	if strings.HasPrefix(r.URL.Path, "/tenant-domains/") {
		if slug := h.hosts.Lookup(r.Context(), ident); slug != "" {
			return h.cache.BySlug(r.Context(), slug)
		}
		return h.cache.ByDomain(r.Context(), ident)
	}
	return h.cache.BySlug(r.Context(), ident)
}

// draftEligible reports whether this request may see unpublished content.
// Drafts require an explicit opt-in cookie, a signed-in editor or admin,
// and a human client; editors additionally need their active-tenant
// cookie pointed at the tenant being viewed.
func (h *Handler) draftEligible(r *http.Request, tenantID uint64) bool {
	if !viewer.DraftRequested(r) || requestinfo.IsBot(r.Context()) {
		return false
	}
	v := viewer.FromContext(r.Context())
	if v.HasRole(viewer.RoleAdmin) {
		return true
	}
	if !v.HasRole(viewer.RoleEditor) {
		return false
	}
	active := viewer.ActiveTenant(r)
	if active == "" {
		return false
	}
	rec, err := h.cache.BySlug(r.Context(), active)
	return err == nil && rec.ID == tenantID
}

// contactDomain accepts a contact-form POST on the domain scheme.
func (h *Handler) contactDomain(w http.ResponseWriter, r *http.Request) {
	host := chi.URLParam(r, "tenant")
	v := viewer.FromContext(r.Context())

	var (
		id  uint64
		err error
	)
	if slug := h.hosts.Lookup(r.Context(), host); slug != "" {
		id, err = h.resolver.ResolveSlug(r.Context(), slug, v)
	} else {
		id, err = h.resolver.ResolveDomain(r.Context(), host, v)
	}
	if err != nil {
		gate.Redirect(w, r, []string{"contact"})
		return
	}
	h.contactSubmit(w, r, id)
}

// contactSlug accepts a contact-form POST on the slug scheme.
func (h *Handler) contactSlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "tenant")
	v := viewer.FromContext(r.Context())

	id, err := h.resolver.ResolveSlug(r.Context(), slug, v)
	if err != nil {
		gate.Redirect(w, r, []string{"contact"})
		return
	}
	h.contactSubmit(w, r, id)
}

func (h *Handler) contactSubmit(w http.ResponseWriter, r *http.Request, tenantID uint64) {
	if h.contact == nil {
		http.NotFound(w, r)
		return
	}
	_, err := h.contact.HandleSubmit(r, tenantID)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("thanks"))
	case errors.Is(err, forms.ErrInvalidToken):
		http.Error(w, "form expired, please retry", http.StatusForbidden)
	case forms.IsValidationError(err):
		http.Error(w, "invalid submission", http.StatusUnprocessableEntity)
	default:
		zap.S().Errorw("contact submit failed", "tenant_id", tenantID, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
