package output

import (
	"fmt"
	"strings"

	"github.com/masajid/masajid-seo/internal/pssg/config"
	"github.com/masajid/masajid-seo/internal/pssg/taxonomy"
)

// GenerateLlmsTxt generates an llms.txt file in the llmstxt.org format:
// one section per region listing its mosque pages.
func GenerateLlmsTxt(cfg *config.Config, regions []taxonomy.Entry) string {
	var lines []string

	lines = append(lines, fmt.Sprintf("# %s", cfg.Site.Name))
	lines = append(lines, "")

	tagline := cfg.LlmsTxt.Tagline
	if tagline == "" {
		tagline = cfg.Site.Description
	}
	if tagline != "" {
		lines = append(lines, fmt.Sprintf("> %s", tagline))
		lines = append(lines, "")
	}

	for _, r := range regions {
		regionURL := CanonicalURL(cfg.Site.BaseURL, r.Path())
		lines = append(lines, fmt.Sprintf("## [مساجد %s](%s)", r.Label, regionURL))
		for _, m := range r.Mosques {
			url := CanonicalURL(cfg.Site.BaseURL, m.Path())
			lines = append(lines, fmt.Sprintf("- [%s](%s): القارئ %s", m.MosqueName, url, m.ReaderName))
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
