package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/masajid/masajid-seo/internal/pkg/errors"
	"github.com/masajid/masajid-seo/internal/pssg/entity"
)

// Load reads and parses a YAML config file, applies environment overrides
// and defaults, and validates. A missing file is not an error: the defaults
// describe the Riyadh masjid site and are enough to run the generator from
// the application's repository root.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(errors.CodeInvalidConfig, fmt.Sprintf("parsing config %s", path), err)
		}
		cfg.ConfigDir = filepath.Dir(path)
	case stderrors.Is(err, fs.ErrNotExist):
		cfg.ConfigDir = "."
	default:
		return nil, errors.Wrap(errors.CodeInvalidConfig, fmt.Sprintf("reading config %s", path), err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, errors.Wrap(errors.CodeInvalidConfig, "validating config", err)
	}

	// Resolve relative paths against config directory
	resolvePaths(&cfg)

	return &cfg, nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{ConfigDir: "."}
	applyDefaults(cfg)
	return cfg
}

// applyEnv lets the build environment override the handful of settings that
// differ between local runs and CI.
func applyEnv(cfg *Config) {
	v := viper.New()
	v.SetEnvPrefix("PSSG")
	v.AutomaticEnv()

	if s := v.GetString("OUTPUT_DIR"); s != "" {
		cfg.Paths.Output = s
	}
	if s := v.GetString("DATA_PATH"); s != "" {
		cfg.Paths.Data = s
	}
	if s := v.GetString("DATA_FORMAT"); s != "" {
		cfg.Data.Format = s
	}
	if s := v.GetString("BASE_URL"); s != "" {
		cfg.Site.BaseURL = s
	}
	if s := v.GetString("LOG_LEVEL"); s != "" {
		cfg.Log.Level = s
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Site.Name == "" {
		cfg.Site.Name = "خريطة مساجد الرياض"
	}
	if cfg.Site.BaseURL == "" {
		cfg.Site.BaseURL = "https://masajid.nawaf-alsheddi.com"
	}
	cfg.Site.BaseURL = strings.TrimRight(cfg.Site.BaseURL, "/")
	if cfg.Site.Description == "" {
		cfg.Site.Description = "اكتشف مساجد الرياض مع أسماء القراء وعينات التلاوة الصوتية. خريطة تفاعلية مع التصفية حسب المنطقة"
	}
	if cfg.Site.Language == "" {
		cfg.Site.Language = "ar"
	}
	if cfg.Site.Direction == "" {
		cfg.Site.Direction = "rtl"
	}
	if cfg.Site.Locale == "" {
		cfg.Site.Locale = "ar_SA"
	}
	if cfg.Site.ThemeColor == "" {
		cfg.Site.ThemeColor = "#0a0f1a"
	}
	if cfg.Site.Favicon == "" {
		cfg.Site.Favicon = "/assets/favicon.svg"
	}
	if cfg.Site.FontsURL == "" {
		cfg.Site.FontsURL = "https://fonts.googleapis.com/css2?family=Cairo:wght@400;500;600;700&display=swap"
	}
	if cfg.Site.City == "" {
		cfg.Site.City = "الرياض"
	}

	if cfg.Paths.Data == "" {
		cfg.Paths.Data = "src/data/masjids.ts"
	}
	if cfg.Paths.Output == "" {
		cfg.Paths.Output = "dist"
	}
	if cfg.Paths.Entry == "" {
		cfg.Paths.Entry = "index.html"
	}

	if cfg.Data.Format == "" {
		cfg.Data.Format = formatFromExt(cfg.Paths.Data)
	}

	if len(cfg.Regions) == 0 {
		cfg.Regions = []RegionConfig{
			{Key: "north", Label: "الشمال", Color: "#10b981"},
			{Key: "east", Label: "الشرق", Color: "#3b82f6"},
			{Key: "westSouth", Label: "الغرب والجنوب", Color: "#f59e0b"},
		}
	}

	if cfg.Schema.EntityType == "" {
		cfg.Schema.EntityType = "Mosque"
	}
	if cfg.Schema.Address.Locality == "" {
		cfg.Schema.Address.Locality = cfg.Site.City
	}
	if cfg.Schema.Address.Region == "" {
		cfg.Schema.Address.Region = cfg.Site.City
	}
	if cfg.Schema.Address.Country == "" {
		cfg.Schema.Address.Country = "SA"
	}

	if cfg.Sitemap.MaxURLsPerFile == 0 {
		cfg.Sitemap.MaxURLsPerFile = 50000
	}

	// Default sitemap priorities
	defaultPriorities := map[string]string{
		"homepage": "1.0",
		"region":   "0.8",
		"masjid":   "0.6",
	}
	defaultChangeFreqs := map[string]string{
		"homepage": "weekly",
		"region":   "weekly",
		"masjid":   "monthly",
	}
	if cfg.Sitemap.Priorities == nil {
		cfg.Sitemap.Priorities = make(map[string]string)
	}
	if cfg.Sitemap.ChangeFreqs == nil {
		cfg.Sitemap.ChangeFreqs = make(map[string]string)
	}
	for k, v := range defaultPriorities {
		if cfg.Sitemap.Priorities[k] == "" {
			cfg.Sitemap.Priorities[k] = v
		}
	}
	for k, v := range defaultChangeFreqs {
		if cfg.Sitemap.ChangeFreqs[k] == "" {
			cfg.Sitemap.ChangeFreqs[k] = v
		}
	}

	if cfg.Build.Workers <= 0 {
		cfg.Build.Workers = 8
	}
	if cfg.Build.MountID == "" {
		cfg.Build.MountID = "root"
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// formatFromExt guesses the data format from the data file extension.
func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "typescript"
	}
}

func validate(cfg *Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return entity.IsURLSafe(fl.Field().String())
	})

	if err := v.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if stderrors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s: failed %q rule (value %v)", strings.TrimPrefix(fe.Namespace(), "Config."), fe.Tag(), fe.Value())
		}
		return err
	}

	seen := make(map[string]bool)
	for i, r := range cfg.Regions {
		if seen[r.Key] {
			return fmt.Errorf("regions[%d]: duplicate key %q", i, r.Key)
		}
		seen[r.Key] = true
	}
	return nil
}

func resolvePaths(cfg *Config) {
	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(cfg.ConfigDir, p)
	}

	cfg.Paths.Data = resolve(cfg.Paths.Data)
	cfg.Paths.Output = resolve(cfg.Paths.Output)
	if cfg.Paths.Templates != "" {
		cfg.Paths.Templates = resolve(cfg.Paths.Templates)
	}
}
