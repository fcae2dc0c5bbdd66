package entity

import "strconv"

// Mosque is one masjid record as authored in the data source.
type Mosque struct {
	ID          string      `json:"id" yaml:"id"`
	ReaderName  string      `json:"readerName" yaml:"readerName"`
	MosqueName  string      `json:"masjidName" yaml:"masjidName"`
	Region      string      `json:"region" yaml:"region"`
	Coordinates Coordinates `json:"coordinates" yaml:"coordinates"`
	MapsURL     string      `json:"googleMapsUrl" yaml:"googleMapsUrl"`
	AudioURL    string      `json:"audioUrl" yaml:"audioUrl"`
	Notes       string      `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// HasNotes reports whether the record carries a non-empty note.
func (m *Mosque) HasNotes() bool {
	return m.Notes != ""
}

// Path returns the site-relative URL path of the mosque page.
func (m *Mosque) Path() string {
	return "/masjid/" + m.ID
}

// MapPath returns the interactive map URL pre-scoped to this mosque.
func (m *Mosque) MapPath() string {
	return "/?masjid=" + m.ID
}

// FormatCoord renders a coordinate with six decimal places.
func FormatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// RegionPath returns the site-relative URL path of a region page.
func RegionPath(key string) string {
	return "/region/" + key
}

// RegionMapPath returns the interactive map URL pre-scoped to a region.
func RegionMapPath(key string) string {
	return "/?region=" + key
}
