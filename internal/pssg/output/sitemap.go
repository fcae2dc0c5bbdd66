package output

import (
	"encoding/xml"
	"fmt"

	"github.com/masajid/masajid-seo/internal/pssg/config"
	"github.com/masajid/masajid-seo/internal/pssg/entity"
	"github.com/masajid/masajid-seo/internal/pssg/taxonomy"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

// SitemapEntry represents a single URL in the sitemap.
type SitemapEntry struct {
	Loc        string
	Lastmod    string
	ChangeFreq string
	Priority   string
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	XMLNS   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

// Field order is the element order required inside <url>.
type urlEntry struct {
	Loc        string `xml:"loc"`
	Lastmod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type sitemapIndex struct {
	XMLName  xml.Name       `xml:"sitemapindex"`
	XMLNS    string         `xml:"xmlns,attr"`
	Sitemaps []sitemapEntry `xml:"sitemap"`
}

type sitemapEntry struct {
	Loc     string `xml:"loc"`
	Lastmod string `xml:"lastmod,omitempty"`
}

// SitemapFile is a filename + content pair.
type SitemapFile struct {
	Filename string
	Content  string
}

// BuildSitemapEntries lists every URL of the site: the homepage, then each
// region in declared order, then each mosque in source order. lastmod is
// the run date shared by all entries.
func BuildSitemapEntries(cfg *config.Config, records []*entity.Mosque, regions []taxonomy.Entry, lastmod string) []SitemapEntry {
	base := cfg.Site.BaseURL
	prio := cfg.Sitemap.Priorities
	freq := cfg.Sitemap.ChangeFreqs

	entries := make([]SitemapEntry, 0, 1+len(regions)+len(records))
	entries = append(entries, NewSitemapEntry(base, "/", lastmod, prio["homepage"], freq["homepage"]))
	for _, r := range regions {
		entries = append(entries, NewSitemapEntry(base, r.Path(), lastmod, prio["region"], freq["region"]))
	}
	for _, m := range records {
		entries = append(entries, NewSitemapEntry(base, m.Path(), lastmod, prio["masjid"], freq["masjid"]))
	}
	return entries
}

// NewSitemapEntry creates a sitemap entry for a site-relative path. The
// root keeps its trailing slash; other paths never get one.
func NewSitemapEntry(baseURL, path, lastmod, priority, changefreq string) SitemapEntry {
	return SitemapEntry{
		Loc:        CanonicalURL(baseURL, path),
		Lastmod:    lastmod,
		ChangeFreq: changefreq,
		Priority:   priority,
	}
}

// CanonicalURL joins the base URL and a site-relative path.
func CanonicalURL(baseURL, path string) string {
	if path == "" || path == "/" {
		return baseURL + "/"
	}
	return baseURL + path
}

// GenerateSitemapFiles generates sitemap XML files, splitting at maxPerFile
// URLs. When split, sitemap.xml becomes an index of sitemap-N.xml files.
func GenerateSitemapFiles(entries []SitemapEntry, baseURL string, maxPerFile int) ([]SitemapFile, error) {
	if maxPerFile <= 0 {
		maxPerFile = 50000
	}

	if len(entries) <= maxPerFile {
		content, err := generateSitemap(entries)
		if err != nil {
			return nil, err
		}
		return []SitemapFile{{Filename: "sitemap.xml", Content: content}}, nil
	}

	var files []SitemapFile
	var indexEntries []sitemapEntry
	lastmod := entries[0].Lastmod

	for i, chunk := range chunkEntries(entries, maxPerFile) {
		filename := fmt.Sprintf("sitemap-%d.xml", i+1)
		content, err := generateSitemap(chunk)
		if err != nil {
			return nil, err
		}
		files = append(files, SitemapFile{Filename: filename, Content: content})
		indexEntries = append(indexEntries, sitemapEntry{
			Loc:     fmt.Sprintf("%s/%s", baseURL, filename),
			Lastmod: lastmod,
		})
	}

	indexContent, err := generateSitemapIndex(indexEntries)
	if err != nil {
		return nil, err
	}
	return append([]SitemapFile{{Filename: "sitemap.xml", Content: indexContent}}, files...), nil
}

func generateSitemap(entries []SitemapEntry) (string, error) {
	us := urlSet{XMLNS: sitemapNS}
	for _, e := range entries {
		us.URLs = append(us.URLs, urlEntry(e))
	}

	data, err := xml.MarshalIndent(us, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding sitemap: %w", err)
	}
	return xml.Header + string(data), nil
}

func generateSitemapIndex(entries []sitemapEntry) (string, error) {
	si := sitemapIndex{XMLNS: sitemapNS, Sitemaps: entries}

	data, err := xml.MarshalIndent(si, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding sitemap index: %w", err)
	}
	return xml.Header + string(data), nil
}

func chunkEntries(entries []SitemapEntry, size int) [][]SitemapEntry {
	var chunks [][]SitemapEntry
	for i := 0; i < len(entries); i += size {
		end := min(i+size, len(entries))
		chunks = append(chunks, entries[i:end])
	}
	return chunks
}
