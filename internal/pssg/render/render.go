package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/masajid/masajid-seo/internal/pssg/config"
	"github.com/masajid/masajid-seo/internal/pssg/entity"
	"github.com/masajid/masajid-seo/internal/pssg/schema"
	"github.com/masajid/masajid-seo/internal/pssg/taxonomy"
)

//go:embed templates/*.html
var embedded embed.FS

// Template names.
const (
	tmplDocument    = "document.html"
	tmplMasjid      = "masjid.html"
	tmplRegion      = "region.html"
	tmplHomeSummary = "home_summary.html"
)

// Engine is the template rendering engine.
type Engine struct {
	tmpl *template.Template
	cfg  *config.Config
}

// Page is a generated document before it is wrapped in the layout.
// Pages are not modified after creation.
type Page struct {
	URL         string
	Title       string
	Description string
	JSONLD      []map[string]interface{}
	Body        template.HTML
}

// DocumentOptions is everything RenderDocument needs besides site config.
// Stylesheets and Scripts are verbatim tags taken from the entry document.
type DocumentOptions struct {
	Page        Page
	Stylesheets template.HTML
	Scripts     template.HTML
}

type documentContext struct {
	Site        config.SiteConfig
	Page        Page
	JsonLD      template.HTML
	Stylesheets template.HTML
	Scripts     template.HTML
	MountID     string
}

// Breadcrumb is a single breadcrumb entry. The current page has no URL.
type Breadcrumb struct {
	Name string
	URL  string
}

// MasjidPageContext is the template context for mosque page bodies.
type MasjidPageContext struct {
	Mosque      *entity.Mosque
	RegionLabel string
	Breadcrumbs []Breadcrumb
	Related     []*entity.Mosque
	MapURL      string
}

// RegionPageContext is the template context for region page bodies.
type RegionPageContext struct {
	Region      taxonomy.Entry
	Breadcrumbs []Breadcrumb
	MapURL      string
	City        string
}

// HomeSummaryContext is the template context for the block inserted into
// the entry document.
type HomeSummaryContext struct {
	Regions []taxonomy.Entry
	Total   int
	City    string
}

// NewEngine parses the built-in templates, then any *.html file in
// paths.templates, which replaces the built-in template of the same name.
func NewEngine(cfg *config.Config) (*Engine, error) {
	tmpl, err := template.New("").Funcs(BuildFuncMap()).ParseFS(embedded, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing built-in templates: %w", err)
	}

	if tmplDir := cfg.Paths.Templates; tmplDir != "" {
		entries, err := os.ReadDir(tmplDir)
		if err != nil {
			return nil, fmt.Errorf("reading template dir %s: %w", tmplDir, err)
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || filepath.Ext(name) != ".html" {
				continue
			}
			data, err := os.ReadFile(filepath.Join(tmplDir, name))
			if err != nil {
				return nil, fmt.Errorf("reading template %s: %w", name, err)
			}
			if _, err := tmpl.New(name).Parse(string(data)); err != nil {
				return nil, fmt.Errorf("parsing template %s: %w", name, err)
			}
		}
	}

	return &Engine{tmpl: tmpl, cfg: cfg}, nil
}

// RenderDocument wraps a page body in the full HTML document.
func (e *Engine) RenderDocument(opts DocumentOptions) (string, error) {
	jsonLD, err := schema.MarshalSchemas(opts.Page.JSONLD...)
	if err != nil {
		return "", err
	}

	ctx := documentContext{
		Site:        e.cfg.Site,
		Page:        opts.Page,
		JsonLD:      template.HTML(strings.ReplaceAll(jsonLD, "\n", "\n    ")),
		Stylesheets: opts.Stylesheets,
		Scripts:     opts.Scripts,
		MountID:     e.cfg.Build.MountID,
	}
	return e.render(tmplDocument, ctx)
}

// RenderFragment renders a named body template.
func (e *Engine) RenderFragment(name string, data interface{}) (template.HTML, error) {
	out, err := e.render(name, data)
	if err != nil {
		return "", err
	}
	return template.HTML(out), nil
}

// RenderMasjidBody renders the body of a mosque page.
func (e *Engine) RenderMasjidBody(ctx MasjidPageContext) (template.HTML, error) {
	return e.RenderFragment(tmplMasjid, ctx)
}

// RenderRegionBody renders the body of a region page.
func (e *Engine) RenderRegionBody(ctx RegionPageContext) (template.HTML, error) {
	return e.RenderFragment(tmplRegion, ctx)
}

// RenderHomeSummary renders the block inserted into the entry document.
func (e *Engine) RenderHomeSummary(ctx HomeSummaryContext) (template.HTML, error) {
	return e.RenderFragment(tmplHomeSummary, ctx)
}

func (e *Engine) render(name string, data interface{}) (string, error) {
	t := e.tmpl.Lookup(name)
	if t == nil {
		return "", fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template %q: %w", name, err)
	}

	return buf.String(), nil
}
