// internal/head/builder.go
//
// Per-request <head> builder.
//
// The Builder collects everything the page shell emits inside <head>: the
// title, meta tags, link tags, and raw JSON-LD payloads.  It is scoped to
// a single render call.  Tags are deduplicated by their literal text, so
// a canonical link pushed twice appears once.
package head

import (
	"html/template"
	"strings"
	"sync"
)

// Builder accumulates head tags for one render.
type Builder struct {
	mu sync.Mutex

	title string

	metas  []string
	links  []string
	jsonLD []string

	seen map[string]struct{}
}

func New() *Builder {
	return &Builder{seen: make(map[string]struct{})}
}

// SetTitle overrides the page <title>.  The last caller wins.
func (b *Builder) SetTitle(t string) {
	b.mu.Lock()
	b.title = t
	b.mu.Unlock()
}

// Title returns a fully formed <title> tag or an empty string.
func (b *Builder) Title() template.HTML {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.title == "" {
		return ""
	}
	escaped := template.HTMLEscapeString(b.title)
	return template.HTML("<title>" + escaped + "</title>")
}

func (b *Builder) Meta(tag string)  { b.add("meta:"+tag, &b.metas, tag) }
func (b *Builder) Link(tag string)  { b.add("link:"+tag, &b.links, tag) }
func (b *Builder) JSONLD(js string) { b.add("jsonld:"+js, &b.jsonLD, js) }

func (b *Builder) add(key string, tgt *[]string, tag string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, dup := b.seen[key]; dup {
		return
	}
	b.seen[key] = struct{}{}
	*tgt = append(*tgt, tag)
}

// Render concatenates every collected tag in emit order: title, metas,
// links, JSON-LD scripts.
func (b *Builder) Render() template.HTML {
	b.mu.Lock()
	defer b.mu.Unlock()

	var sb strings.Builder
	if b.title != "" {
		sb.WriteString("<title>")
		sb.WriteString(template.HTMLEscapeString(b.title))
		sb.WriteString("</title>\n")
	}
	for _, m := range b.metas {
		sb.WriteString(m)
		sb.WriteByte('\n')
	}
	for _, l := range b.links {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	for _, js := range b.jsonLD {
		sb.WriteString(`<script type="application/ld+json">`)
		sb.WriteString(js)
		sb.WriteString("</script>\n")
	}
	return template.HTML(sb.String())
}
