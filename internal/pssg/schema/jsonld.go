package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/masajid/masajid-seo/internal/pssg/config"
	"github.com/masajid/masajid-seo/internal/pssg/entity"
)

// Generator creates JSON-LD structured data.
type Generator struct {
	SiteConfig config.SiteConfig
	Schema     config.SchemaConfig
}

// NewGenerator creates a new JSON-LD generator.
func NewGenerator(siteCfg config.SiteConfig, schemaCfg config.SchemaConfig) *Generator {
	return &Generator{
		SiteConfig: siteCfg,
		Schema:     schemaCfg,
	}
}

// GenerateMosqueSchema generates the place JSON-LD for a mosque page.
func (g *Generator) GenerateMosqueSchema(m *entity.Mosque, pageURL string) map[string]interface{} {
	s := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    g.Schema.EntityType,
		"name":     m.MosqueName,
		"url":      pageURL,
		"address": map[string]interface{}{
			"@type":           "PostalAddress",
			"addressLocality": g.Schema.Address.Locality,
			"addressRegion":   g.Schema.Address.Region,
			"addressCountry":  g.Schema.Address.Country,
		},
		"geo": map[string]interface{}{
			"@type":     "GeoCoordinates",
			"latitude":  m.Coordinates.Lat,
			"longitude": m.Coordinates.Lng,
		},
	}
	if m.MapsURL != "" {
		s["hasMap"] = m.MapsURL
	}
	return s
}

// GenerateBreadcrumbSchema generates BreadcrumbList JSON-LD.
// The last item usually has no URL: it is the current page.
func (g *Generator) GenerateBreadcrumbSchema(items []BreadcrumbItem) map[string]interface{} {
	var listItems []map[string]interface{}
	for i, item := range items {
		li := map[string]interface{}{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     item.Name,
		}
		if item.URL != "" {
			li["item"] = item.URL
		}
		listItems = append(listItems, li)
	}

	return map[string]interface{}{
		"@context":        "https://schema.org",
		"@type":           "BreadcrumbList",
		"itemListElement": listItems,
	}
}

// BreadcrumbItem is a single breadcrumb entry.
type BreadcrumbItem struct {
	Name string
	URL  string
}

// MarshalSchemas encodes schemas as JSON-LD script blocks, one per schema,
// in the order given. encoding/json escapes <, > and & as \u003c, \u003e
// and \u0026, so no "</script>" can appear inside a block.
func MarshalSchemas(schemas ...map[string]interface{}) (string, error) {
	var parts []string
	for _, s := range schemas {
		if s == nil {
			continue
		}
		data, err := json.Marshal(s)
		if err != nil {
			return "", fmt.Errorf("marshaling %v schema: %w", s["@type"], err)
		}
		parts = append(parts, fmt.Sprintf(`<script type="application/ld+json">%s</script>`, string(data)))
	}
	return strings.Join(parts, "\n"), nil
}
