package taxonomy

import (
	"github.com/masajid/masajid-seo/internal/pssg/config"
	"github.com/masajid/masajid-seo/internal/pssg/entity"
)

// Entry is one region and the mosques that belong to it.
type Entry struct {
	Key     string
	Label   string
	Color   string
	Mosques []*entity.Mosque
}

// Path returns the site-relative URL of the region page.
func (e Entry) Path() string {
	return entity.RegionPath(e.Key)
}

// Count returns the number of member mosques.
func (e Entry) Count() int {
	return len(e.Mosques)
}

// Regions groups records by region. Entries follow the declared region
// order and members keep source order. A declared region with no members
// still gets an entry so that its page and sitemap URL exist.
func Regions(records []*entity.Mosque, regions []config.RegionConfig) []Entry {
	entries := make([]Entry, len(regions))
	index := make(map[string]int, len(regions))
	for i, rc := range regions {
		entries[i] = Entry{Key: rc.Key, Label: rc.Label, Color: rc.Color}
		index[rc.Key] = i
	}

	for _, m := range records {
		if i, ok := index[m.Region]; ok {
			entries[i].Mosques = append(entries[i].Mosques, m)
		}
	}
	return entries
}

// Related returns up to limit other mosques from m's region, in source
// order, never including m itself.
func Related(m *entity.Mosque, records []*entity.Mosque, limit int) []*entity.Mosque {
	if limit <= 0 {
		return nil
	}
	var out []*entity.Mosque
	for _, other := range records {
		if other.ID == m.ID || other.Region != m.Region {
			continue
		}
		out = append(out, other)
		if len(out) == limit {
			break
		}
	}
	return out
}

// Total returns the number of mosques across all entries.
func Total(entries []Entry) int {
	n := 0
	for _, e := range entries {
		n += len(e.Mosques)
	}
	return n
}
