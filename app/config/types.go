package config

// SourceConfig represents a complete news source configuration
type SourceConfig struct {
	Source     SourceInfo      `yaml:"source"`
	Discovery  DiscoveryRules  `yaml:"discovery"`
	Extraction ExtractionRules `yaml:"extraction"`
	Settings   SourceSettings  `yaml:"settings"`
}

// SourceInfo contains basic source information
type SourceInfo struct {
	Name      string `yaml:"name"`
	Publisher string `yaml:"publisher"`
	BaseURL   string `yaml:"base_url"`
}

// DiscoveryRules controls how article links are discovered
type DiscoveryRules struct {
	Mode            string   `yaml:"mode"` // "listing" or "rss"
	URLs            []string `yaml:"urls"`
	LinkPatterns    []string `yaml:"link_patterns"`
	MinPathSegments int      `yaml:"min_path_segments"`
	MaxPages        int      `yaml:"max_pages"`
}

// ExtractionRules contains CSS selectors for pulling article fields out of
// a page. Empty selectors fall back to readability extraction.
type ExtractionRules struct {
	TitleSelector   string `yaml:"title_selector"`
	AuthorSelector  string `yaml:"author_selector"`
	ContentSelector string `yaml:"content_selector"`
	DateSelector    string `yaml:"date_selector"`
	ImageSelector   string `yaml:"image_selector"`
	UseReadability  bool   `yaml:"use_readability"`
}

// SourceSettings contains source processing settings
type SourceSettings struct {
	Enabled         bool `yaml:"enabled"`
	RefreshInterval int  `yaml:"refresh_interval"` // seconds between attempts after a failed run
	Timeout         int  `yaml:"timeout"`          // seconds
	MaxArticles     int  `yaml:"max_articles"`
}

// Discovery modes
const (
	ModeListing = "listing"
	ModeRSS     = "rss"
)
