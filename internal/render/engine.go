// internal/render/engine.go
//
// Minimal page shell renderer.
//
// Context
// -------
// Block rendering proper lives outside this core; the shell only emits
// the head section and the ordered list of block types so a downstream
// theme (or the prerender pipeline) can take over.  Tenants may override
// the shell with `themes/{slug}/page.html`; parsed overrides are held in
// a small LRU so hot tenants never re-parse.
package render

import (
	"html/template"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/matija2209/obrtnik-platform/internal/head"
	"github.com/matija2209/obrtnik-platform/internal/page"
	"github.com/matija2209/obrtnik-platform/internal/tenant"
)

// defaultShell is used when a tenant has no theme override.
const defaultShell = `<!DOCTYPE html>
<html lang="sl">
<head>
<meta charset="utf-8">
{{ .Head.Render }}
</head>
<body>
<main data-tenant="{{ .TenantSlug }}" data-kind="{{ .Kind }}">
{{- range .BlockTypes }}
<section data-block="{{ . }}"></section>
{{- end }}
</main>
</body>
</html>
`

// Data is the template payload for the shell.
type Data struct {
	Head       *head.Builder
	TenantSlug string
	Kind       page.Kind
	Title      string
	BlockTypes []string
	Draft      bool
}

// Engine renders documents through the shell template.
type Engine struct {
	base     *template.Template
	themeDir string
	cache    *lru // tenant slug → parsed override
}

// NewEngine parses the built-in shell and prepares the override cache.
// themeDir may be "" to disable per-tenant overrides.
func NewEngine(themeDir string) (*Engine, error) {
	base, err := template.New("page").Parse(defaultShell)
	if err != nil {
		return nil, err
	}
	return &Engine{
		base:     base,
		themeDir: themeDir,
		cache:    newLRU(64),
	}, nil
}

// Page writes the rendered shell for one document.
func (e *Engine) Page(w http.ResponseWriter, ten *tenant.Record, doc *page.Document) {
	hb := head.New()
	title := doc.Title
	if title == "" {
		title = ten.Title
	}
	hb.SetTitle(title)
	hb.Meta(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	if doc.Draft() {
		hb.Meta(`<meta name="robots" content="noindex">`)
	}

	data := Data{
		Head:       hb,
		TenantSlug: ten.Slug,
		Kind:       doc.Kind,
		Title:      title,
		BlockTypes: doc.BlockTypes(),
		Draft:      doc.Draft(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := e.lookup(ten.Slug).Execute(w, data); err != nil {
		zap.S().Errorw("page render failed", "tenant", ten.Slug, "slug", doc.Slug, "err", err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// lookup returns the tenant's override template, or the built-in shell.
func (e *Engine) lookup(slug string) *template.Template {
	if e.themeDir == "" {
		return e.base
	}
	if t, ok := e.cache.get(slug); ok {
		return t
	}

	path := filepath.Join(e.themeDir, slug, "page.html")
	raw, err := os.ReadFile(path)
	if err != nil {
		// No override; remember the fallback so the stat doesn't repeat.
		e.cache.add(slug, e.base)
		return e.base
	}
	t, err := template.New("page").Parse(string(raw))
	if err != nil {
		zap.S().Warnw("theme override unparsable, using default shell",
			"tenant", slug, "file", path, "err", err)
		t = e.base
	}
	e.cache.add(slug, t)
	return t
}
