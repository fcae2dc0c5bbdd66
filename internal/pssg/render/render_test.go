package render

import (
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masajid/masajid-seo/internal/pssg/config"
	"github.com/masajid/masajid-seo/internal/pssg/entity"
	"github.com/masajid/masajid-seo/internal/pssg/taxonomy"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(config.Default())
	require.NoError(t, err)
	return e
}

func sampleMosque() *entity.Mosque {
	return &entity.Mosque{
		ID:          "n-003",
		ReaderName:  "الشيخ بندر بليلة",
		MosqueName:  "جامع الياسمين الكبير",
		Region:      "north",
		Coordinates: entity.Coordinates{Lat: 24.82, Lng: 46.67},
		MapsURL:     "https://maps.google.com/?q=24.8200,46.6700",
		AudioURL:    "https://example.com/audio/n-003.mp3",
		Notes:       "مواقف واسعة متاحة",
	}
}

func TestRenderDocument(t *testing.T) {
	e := newEngine(t)

	out, err := e.RenderDocument(DocumentOptions{
		Page: Page{
			URL:         "https://masajid.nawaf-alsheddi.com/region/north",
			Title:       "مساجد الشمال | خريطة مساجد الرياض",
			Description: "وصف",
			JSONLD: []map[string]interface{}{
				{"@type": "First"},
				{"@type": "Second"},
			},
			Body: template.HTML("<main>body</main>"),
		},
		Stylesheets: template.HTML(`<link rel="stylesheet" href="/assets/index.css">`),
		Scripts:     template.HTML(`<script type="module" src="/assets/index.js"></script>`),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>\n<html lang=\"ar\" dir=\"rtl\">"))
	assert.Equal(t, 1, strings.Count(out, "<title>"))
	assert.Equal(t, 1, strings.Count(out, `<meta name="description"`))
	assert.Equal(t, 1, strings.Count(out, `<link rel="canonical" href="https://masajid.nawaf-alsheddi.com/region/north" />`))
	assert.Contains(t, out, `<meta property="og:url" content="https://masajid.nawaf-alsheddi.com/region/north" />`)
	assert.Contains(t, out, `<meta property="og:locale" content="ar_SA" />`)
	assert.Contains(t, out, `<meta name="twitter:title" content="مساجد الشمال | خريطة مساجد الرياض" />`)
	assert.Equal(t, 2, strings.Count(out, `<script type="application/ld+json">`))
	assert.Less(t, strings.Index(out, `"First"`), strings.Index(out, `"Second"`))

	// Body wrapper, then the mount element, then the bundle scripts.
	seo := strings.Index(out, `<div id="seo-content"`)
	body := strings.Index(out, "<main>body</main>")
	mount := strings.Index(out, `<div id="root"></div>`)
	script := strings.Index(out, `<script type="module" src="/assets/index.js"></script>`)
	assert.True(t, seo < body && body < mount && mount < script)
	assert.Less(t, strings.Index(out, `/assets/index.css`), strings.Index(out, "</head>"))
}

func TestRenderMasjidBody(t *testing.T) {
	e := newEngine(t)
	m := sampleMosque()
	related := []*entity.Mosque{{ID: "n-001", MosqueName: "جامع الراجحي الكبير", ReaderName: "الشيخ عبدالرحمن السديس"}}

	body, err := e.RenderMasjidBody(MasjidPageContext{
		Mosque:      m,
		RegionLabel: "الشمال",
		Breadcrumbs: []Breadcrumb{{Name: "الرئيسية", URL: "/"}, {Name: "الشمال", URL: "/region/north"}, {Name: m.MosqueName}},
		Related:     related,
		MapURL:      m.MapPath(),
	})
	require.NoError(t, err)
	out := string(body)

	assert.Contains(t, out, "<h1 style=\"font-size:28px; font-weight:700; margin:0 0 8px 0;\">جامع الياسمين الكبير</h1>")
	assert.Contains(t, out, "القارئ الشيخ بندر بليلة")
	assert.Contains(t, out, "الإحداثيات: 24.820000, 46.670000")
	assert.Contains(t, out, `href="https://maps.google.com/?q=24.8200,46.6700"`)
	assert.Contains(t, out, `href="https://example.com/audio/n-003.mp3"`)
	assert.Contains(t, out, `id="notes"`)
	assert.Contains(t, out, "مواقف واسعة متاحة")
	assert.Contains(t, out, `href="/?masjid=n-003"`)
	assert.Contains(t, out, "مساجد أخرى في الشمال")
	assert.Contains(t, out, `href="/masjid/n-001"`)
	assert.Contains(t, out, `<a href="/region/north"`)
	assert.Contains(t, out, `<span style="color:#cbd5e1;">جامع الياسمين الكبير</span>`)
}

func TestRenderMasjidBody_OptionalSections(t *testing.T) {
	e := newEngine(t)
	m := sampleMosque()
	m.Notes = ""

	body, err := e.RenderMasjidBody(MasjidPageContext{Mosque: m, RegionLabel: "الشمال", MapURL: m.MapPath()})
	require.NoError(t, err)

	assert.NotContains(t, string(body), `id="notes"`)
	assert.NotContains(t, string(body), `id="related"`)
	assert.NotContains(t, string(body), "ملاحظات")
}

func TestRenderMasjidBody_Escaping(t *testing.T) {
	e := newEngine(t)
	m := sampleMosque()
	m.MosqueName = `<b>"Al & Co"</b>`
	m.ReaderName = `Reader <script>`
	m.Notes = `a > b & "c"`

	body, err := e.RenderMasjidBody(MasjidPageContext{
		Mosque:      m,
		RegionLabel: "الشمال",
		Breadcrumbs: []Breadcrumb{{Name: m.MosqueName}},
		MapURL:      m.MapPath(),
	})
	require.NoError(t, err)
	out := string(body)

	assert.NotContains(t, out, "<b>")
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, `"Al & Co"`)
	assert.Contains(t, out, "&lt;b&gt;&#34;Al &amp; Co&#34;&lt;/b&gt;")
	assert.Contains(t, out, "Reader &lt;script&gt;")
	assert.Contains(t, out, "a &gt; b &amp; &#34;c&#34;")
}

func TestRenderRegionBody(t *testing.T) {
	e := newEngine(t)
	n3 := sampleMosque()
	n1 := &entity.Mosque{ID: "n-001", MosqueName: "جامع الراجحي الكبير", ReaderName: "الشيخ عبدالرحمن السديس", Region: "north"}
	region := taxonomy.Entry{Key: "north", Label: "الشمال", Mosques: []*entity.Mosque{n1, n3}}

	body, err := e.RenderRegionBody(RegionPageContext{
		Region:      region,
		Breadcrumbs: []Breadcrumb{{Name: "الرئيسية", URL: "/"}, {Name: "الشمال"}},
		MapURL:      entity.RegionMapPath("north"),
		City:        "الرياض",
	})
	require.NoError(t, err)
	out := string(body)

	assert.Contains(t, out, "مساجد الشمال</h1>")
	assert.Contains(t, out, "2 مسجد في منطقة الشمال بالرياض")
	assert.Less(t, strings.Index(out, `/masjid/n-001`), strings.Index(out, `/masjid/n-003`))
	assert.Contains(t, out, "مواقف واسعة متاحة")
	assert.Contains(t, out, `href="/?region=north"`)
}

func TestRenderHomeSummary(t *testing.T) {
	e := newEngine(t)
	cfg := config.Default()
	records := []*entity.Mosque{{ID: "a", Region: "north"}, {ID: "b", Region: "east"}, {ID: "c", Region: "north"}}
	regions := taxonomy.Regions(records, cfg.Regions)

	block, err := e.RenderHomeSummary(HomeSummaryContext{Regions: regions, Total: taxonomy.Total(regions), City: "الرياض"})
	require.NoError(t, err)
	out := string(block)

	assert.Contains(t, out, "تصفح حسب المنطقة")
	assert.Contains(t, out, `<a href="/region/north" style="color: #10b981;`)
	assert.Contains(t, out, `border: 1px solid #f59e0b;`)
	assert.Contains(t, out, "٣ مسجد في ٣ مناطق بالرياض")
	assert.Less(t, strings.Index(out, "/region/north"), strings.Index(out, "/region/westSouth"))
}

func TestRenderIsDeterministic(t *testing.T) {
	e := newEngine(t)
	m := sampleMosque()
	ctx := MasjidPageContext{Mosque: m, RegionLabel: "الشمال", MapURL: m.MapPath()}

	a, err := e.RenderMasjidBody(ctx)
	require.NoError(t, err)
	b, err := e.RenderMasjidBody(ctx)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestNewEngine_TemplateOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "region.html"), []byte(`<p>{{.Region.Label}}</p>`), 0o644))

	cfg := config.Default()
	cfg.Paths.Templates = dir
	e, err := NewEngine(cfg)
	require.NoError(t, err)

	body, err := e.RenderRegionBody(RegionPageContext{Region: taxonomy.Entry{Label: "الشرق"}})
	require.NoError(t, err)
	assert.Equal(t, "<p>الشرق</p>", string(body))
}

func TestArabicDigits(t *testing.T) {
	assert.Equal(t, "١٤٨", arabicDigits(148))
	assert.Equal(t, "٠", arabicDigits(0))
}
