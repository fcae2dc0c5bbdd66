package build

import (
	"fmt"

	"github.com/masajid/masajid-seo/internal/pssg/config"
	"github.com/masajid/masajid-seo/internal/pssg/entity"
	"github.com/masajid/masajid-seo/internal/pssg/entry"
	"github.com/masajid/masajid-seo/internal/pssg/output"
	"github.com/masajid/masajid-seo/internal/pssg/render"
	"github.com/masajid/masajid-seo/internal/pssg/schema"
	"github.com/masajid/masajid-seo/internal/pssg/taxonomy"
)

const homeLabel = "الرئيسية"

// pageComposer turns records into complete documents. It holds only
// read-only state and is shared by the page workers.
type pageComposer struct {
	cfg       *config.Config
	engine    *render.Engine
	schemaGen *schema.Generator
	assets    entry.AssetTags
	records   []*entity.Mosque
}

func newPageComposer(cfg *config.Config, engine *render.Engine, assets entry.AssetTags, records []*entity.Mosque) *pageComposer {
	return &pageComposer{
		cfg:       cfg,
		engine:    engine,
		schemaGen: schema.NewGenerator(cfg.Site, cfg.Schema),
		assets:    assets,
		records:   records,
	}
}

// MasjidPage renders the full document for one mosque.
func (p *pageComposer) MasjidPage(m *entity.Mosque) (string, error) {
	site := p.cfg.Site
	label := p.cfg.RegionLabel(m.Region)
	pageURL := output.CanonicalURL(site.BaseURL, m.Path())

	breadcrumbs := []render.Breadcrumb{
		{Name: homeLabel, URL: "/"},
		{Name: label, URL: entity.RegionPath(m.Region)},
		{Name: m.MosqueName},
	}

	body, err := p.engine.RenderMasjidBody(render.MasjidPageContext{
		Mosque:      m,
		RegionLabel: label,
		Breadcrumbs: breadcrumbs,
		Related:     taxonomy.Related(m, p.records, p.cfg.Related.Max()),
		MapURL:      m.MapPath(),
	})
	if err != nil {
		return "", fmt.Errorf("rendering masjid %s: %w", m.ID, err)
	}

	return p.document(render.Page{
		URL:         pageURL,
		Title:       fmt.Sprintf("%s - القارئ %s | %s", m.MosqueName, m.ReaderName, site.Name),
		Description: fmt.Sprintf("%s في %s ب%s - القارئ %s. استمع للتلاوة واعرف الموقع على الخريطة.", m.MosqueName, label, site.City, m.ReaderName),
		JSONLD: []map[string]interface{}{
			p.schemaGen.GenerateMosqueSchema(m, pageURL),
			p.schemaGen.GenerateBreadcrumbSchema(p.schemaBreadcrumbs(breadcrumbs)),
		},
		Body: body,
	})
}

// RegionPage renders the full document for one region.
func (p *pageComposer) RegionPage(r taxonomy.Entry) (string, error) {
	site := p.cfg.Site
	pageURL := output.CanonicalURL(site.BaseURL, r.Path())

	breadcrumbs := []render.Breadcrumb{
		{Name: homeLabel, URL: "/"},
		{Name: r.Label},
	}

	body, err := p.engine.RenderRegionBody(render.RegionPageContext{
		Region:      r,
		Breadcrumbs: breadcrumbs,
		MapURL:      entity.RegionMapPath(r.Key),
		City:        site.City,
	})
	if err != nil {
		return "", fmt.Errorf("rendering region %s: %w", r.Key, err)
	}

	return p.document(render.Page{
		URL:         pageURL,
		Title:       fmt.Sprintf("مساجد %s | %s", r.Label, site.Name),
		Description: fmt.Sprintf("اكتشف %d مسجد في منطقة %s ب%s مع معلومات القراء وعينات التلاوة والمواقع على الخريطة.", r.Count(), r.Label, site.City),
		JSONLD: []map[string]interface{}{
			p.schemaGen.GenerateBreadcrumbSchema(p.schemaBreadcrumbs(breadcrumbs)),
		},
		Body: body,
	})
}

func (p *pageComposer) document(page render.Page) (string, error) {
	return p.engine.RenderDocument(render.DocumentOptions{
		Page:        page,
		Stylesheets: p.assets.StylesheetHTML(),
		Scripts:     p.assets.ScriptHTML(),
	})
}

// schemaBreadcrumbs makes breadcrumb URLs absolute. The home item is the
// bare base URL.
func (p *pageComposer) schemaBreadcrumbs(breadcrumbs []render.Breadcrumb) []schema.BreadcrumbItem {
	items := make([]schema.BreadcrumbItem, len(breadcrumbs))
	for i, bc := range breadcrumbs {
		items[i] = schema.BreadcrumbItem{Name: bc.Name}
		switch bc.URL {
		case "":
		case "/":
			items[i].URL = p.cfg.Site.BaseURL
		default:
			items[i].URL = p.cfg.Site.BaseURL + bc.URL
		}
	}
	return items
}
