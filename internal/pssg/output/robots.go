package output

import (
	"fmt"
	"strings"

	"github.com/masajid/masajid-seo/internal/pssg/config"
)

// GenerateRobotsTxt generates a robots.txt file that points crawlers at
// the sitemap.
func GenerateRobotsTxt(cfg *config.Config) string {
	var b strings.Builder

	b.WriteString("User-agent: *\n")
	if cfg.Robots.AllowAll {
		b.WriteString("Allow: /\n")
	} else {
		b.WriteString("Allow: /masjid/\nAllow: /region/\n")
	}
	b.WriteString("\n")

	// Named crawlers (search and AI bots) get an explicit allow.
	for _, bot := range append([]string{"Googlebot", "Bingbot"}, cfg.Robots.ExtraBots...) {
		fmt.Fprintf(&b, "User-agent: %s\nAllow: /\n\n", bot)
	}

	fmt.Fprintf(&b, "Sitemap: %s\n", CanonicalURL(cfg.Site.BaseURL, "/sitemap.xml"))
	return b.String()
}
