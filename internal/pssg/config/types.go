package config

// Config is the top-level pssg configuration loaded from YAML.
type Config struct {
	Site    SiteConfig     `yaml:"site"`
	Paths   PathsConfig    `yaml:"paths"`
	Data    DataConfig     `yaml:"data"`
	Regions []RegionConfig `yaml:"regions" validate:"required,min=1,dive"`
	Schema  SchemaConfig   `yaml:"structured_data"`
	Related RelatedConfig  `yaml:"related"`
	Sitemap SitemapConfig  `yaml:"sitemap"`
	Robots  RobotsConfig   `yaml:"robots"`
	LlmsTxt LlmsTxtConfig  `yaml:"llms_txt"`
	Build   BuildConfig    `yaml:"build"`
	Log     LogConfig      `yaml:"log"`

	// ConfigDir is the directory containing the config file (set at load time).
	ConfigDir string `yaml:"-"`
}

type SiteConfig struct {
	Name        string `yaml:"name"`
	BaseURL     string `yaml:"base_url" validate:"required,url"`
	Description string `yaml:"description"`
	Language    string `yaml:"language"`
	Direction   string `yaml:"direction"`
	Locale      string `yaml:"locale"`
	ThemeColor  string `yaml:"theme_color"`
	Favicon     string `yaml:"favicon"`
	FontsURL    string `yaml:"fonts_url"`
	// City is the locality shown in descriptions ("بالرياض").
	City string `yaml:"city"`
}

type PathsConfig struct {
	Data      string `yaml:"data"`
	Output    string `yaml:"output"`
	Entry     string `yaml:"entry"`
	Templates string `yaml:"templates"`
}

type DataConfig struct {
	Format string `yaml:"format" validate:"oneof=typescript json yaml"`
}

// RegionConfig declares one region. Declaration order is the order used for
// region pages, the sitemap and the homepage summary.
type RegionConfig struct {
	Key   string `yaml:"key" validate:"required,slug"`
	Label string `yaml:"label" validate:"required"`
	Color string `yaml:"color" validate:"omitempty,hexcolor"`
}

type SchemaConfig struct {
	EntityType string        `yaml:"entity_type"`
	Address    AddressConfig `yaml:"address"`
}

type AddressConfig struct {
	Locality string `yaml:"locality"`
	Region   string `yaml:"region"`
	Country  string `yaml:"country"`
}

type RelatedConfig struct {
	// Limit is the maximum number of related mosques per page. Nil means
	// the default of 4; 0 turns the section off.
	Limit *int `yaml:"limit" validate:"omitempty,gte=0"`
}

type SitemapConfig struct {
	MaxURLsPerFile int               `yaml:"max_urls_per_file" validate:"gt=0"`
	Priorities     map[string]string `yaml:"priorities"`
	ChangeFreqs    map[string]string `yaml:"change_freqs"`
}

type RobotsConfig struct {
	Enabled   bool     `yaml:"enabled"`
	AllowAll  bool     `yaml:"allow_all"`
	ExtraBots []string `yaml:"extra_bots"`
}

type LlmsTxtConfig struct {
	Enabled bool   `yaml:"enabled"`
	Tagline string `yaml:"tagline"`
}

type BuildConfig struct {
	Workers int `yaml:"workers" validate:"gt=0"`
	// MountID is the id of the element the interactive application mounts on.
	MountID string `yaml:"mount_id"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// RegionKeys returns the configured region keys in declaration order.
func (c *Config) RegionKeys() []string {
	keys := make([]string, len(c.Regions))
	for i, r := range c.Regions {
		keys[i] = r.Key
	}
	return keys
}

// Region returns the region with the given key.
func (c *Config) Region(key string) (RegionConfig, bool) {
	for _, r := range c.Regions {
		if r.Key == key {
			return r, true
		}
	}
	return RegionConfig{}, false
}

// RegionLabel returns the display label for key, or key itself when unknown.
func (c *Config) RegionLabel(key string) string {
	if r, ok := c.Region(key); ok {
		return r.Label
	}
	return key
}

// DefaultRelatedLimit applies when related.limit is not set.
const DefaultRelatedLimit = 4

// Max returns the related-mosque limit.
func (r RelatedConfig) Max() int {
	if r.Limit == nil {
		return DefaultRelatedLimit
	}
	return *r.Limit
}
