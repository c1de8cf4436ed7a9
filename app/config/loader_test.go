package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadValidConfig(t *testing.T) {
	tempDir := t.TempDir()

	content := `
source:
  name: "newyorker"
  publisher: "The New Yorker"
  base_url: "https://www.newyorker.com"

discovery:
  mode: "listing"
  urls:
    - "https://www.newyorker.com/latest"
  link_patterns:
    - "/news/"
    - "/culture/"
  min_path_segments: 4

extraction:
  title_selector: "h1"
  author_selector: ".byline"
  content_selector: "article"
  use_readability: true

settings:
  enabled: true
  refresh_interval: 43200
  timeout: 15
  max_articles: 25
`

	err := os.WriteFile(filepath.Join(tempDir, "newyorker.yml"), []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	loader := NewLoader(tempDir)
	configs, err := loader.LoadAll()
	if err != nil {
		t.Fatal(err)
	}

	if len(configs) != 1 {
		t.Fatalf("Expected 1 config, got %d", len(configs))
	}

	config, ok := configs["newyorker"]
	if !ok {
		t.Fatal("Expected config keyed by source name 'newyorker'")
	}

	if config.Source.Publisher != "The New Yorker" {
		t.Errorf("Expected publisher 'The New Yorker', got '%s'", config.Source.Publisher)
	}
	if config.Source.BaseURL != "https://www.newyorker.com" {
		t.Errorf("Expected base URL 'https://www.newyorker.com', got '%s'", config.Source.BaseURL)
	}
	if config.Discovery.Mode != ModeListing {
		t.Errorf("Expected listing mode, got '%s'", config.Discovery.Mode)
	}
	if len(config.Discovery.LinkPatterns) != 2 {
		t.Errorf("Expected 2 link patterns, got %d", len(config.Discovery.LinkPatterns))
	}
	if config.Extraction.AuthorSelector != ".byline" {
		t.Errorf("Expected author selector '.byline', got '%s'", config.Extraction.AuthorSelector)
	}
	if !config.Extraction.UseReadability {
		t.Error("Expected readability fallback to be enabled")
	}
	if config.Settings.GetRefreshInterval() != 43200*time.Second {
		t.Errorf("Expected refresh interval 43200s, got %v", config.Settings.GetRefreshInterval())
	}
	if config.Settings.GetTimeout() != 15*time.Second {
		t.Errorf("Expected timeout 15s, got %v", config.Settings.GetTimeout())
	}
	if config.Settings.MaxArticles != 25 {
		t.Errorf("Expected max articles 25, got %d", config.Settings.MaxArticles)
	}
}

func TestLoadConfigWithDefaults(t *testing.T) {
	tempDir := t.TempDir()

	content := `
source:
  name: "minimal"
  base_url: "https://example.org"

discovery:
  urls:
    - "https://example.org/latest"

settings:
  enabled: true
`

	err := os.WriteFile(filepath.Join(tempDir, "minimal.yml"), []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	loader := NewLoader(tempDir)
	configs, err := loader.LoadAll()
	if err != nil {
		t.Fatal(err)
	}

	config := configs["minimal"]
	if config == nil {
		t.Fatal("Expected config for source 'minimal'")
	}

	if config.Discovery.Mode != ModeListing {
		t.Errorf("Expected default mode 'listing', got '%s'", config.Discovery.Mode)
	}
	if config.Discovery.MinPathSegments != 3 {
		t.Errorf("Expected default min path segments 3, got %d", config.Discovery.MinPathSegments)
	}
	if config.Discovery.MaxPages != 1 {
		t.Errorf("Expected default max pages 1, got %d", config.Discovery.MaxPages)
	}
	if config.Extraction.TitleSelector != "h1" {
		t.Errorf("Expected default title selector 'h1', got '%s'", config.Extraction.TitleSelector)
	}
	if config.Extraction.DateSelector != "time[datetime]" {
		t.Errorf("Expected default date selector 'time[datetime]', got '%s'", config.Extraction.DateSelector)
	}
	if config.Settings.GetRefreshInterval() != 3600*time.Second {
		t.Errorf("Expected default refresh interval 3600s, got %v", config.Settings.GetRefreshInterval())
	}
	if config.Settings.GetTimeout() != 30*time.Second {
		t.Errorf("Expected default timeout 30s, got %v", config.Settings.GetTimeout())
	}
	if config.Settings.MaxArticles != 50 {
		t.Errorf("Expected default max articles 50, got %d", config.Settings.MaxArticles)
	}
	if config.PublisherName() != "minimal" {
		t.Errorf("Expected publisher fallback to source name, got '%s'", config.PublisherName())
	}
}

func TestInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "missing source name",
			content: `
source:
  base_url: "https://example.org"
discovery:
  urls: ["https://example.org/latest"]
`,
		},
		{
			name: "missing base URL",
			content: `
source:
  name: "test"
discovery:
  urls: ["https://example.org/latest"]
`,
		},
		{
			name: "unknown discovery mode",
			content: `
source:
  name: "test"
  base_url: "https://example.org"
discovery:
  mode: "sitemap"
  urls: ["https://example.org/latest"]
`,
		},
		{
			name: "no discovery URLs",
			content: `
source:
  name: "test"
  base_url: "https://example.org"
discovery:
  mode: "listing"
`,
		},
		{
			name: "link pattern without leading slash",
			content: `
source:
  name: "test"
  base_url: "https://example.org"
discovery:
  urls: ["https://example.org/latest"]
  link_patterns: ["news/"]
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			err := os.WriteFile(filepath.Join(tempDir, "bad.yml"), []byte(tt.content), 0644)
			if err != nil {
				t.Fatal(err)
			}

			loader := NewLoader(tempDir)
			if _, err := loader.LoadAll(); err == nil {
				t.Error("Expected error for invalid configuration")
			}
		})
	}
}

func TestDuplicateSourceNames(t *testing.T) {
	tempDir := t.TempDir()

	content := `
source:
  name: "dupe"
  base_url: "https://example.org"
discovery:
  urls: ["https://example.org/latest"]
`

	for _, file := range []string{"one.yml", "two.yml"} {
		if err := os.WriteFile(filepath.Join(tempDir, file), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	loader := NewLoader(tempDir)
	if _, err := loader.LoadAll(); err == nil {
		t.Error("Expected error for duplicate source names")
	}
}

func TestEmptyDirectory(t *testing.T) {
	loader := NewLoader(t.TempDir())
	configs, err := loader.LoadAll()
	if err != nil {
		t.Fatal(err)
	}

	if len(configs) != 0 {
		t.Errorf("Expected 0 configs from empty directory, got %d", len(configs))
	}
}

func TestMissingDirectory(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "does-not-exist"))
	configs, err := loader.LoadAll()
	if err != nil {
		t.Fatal(err)
	}

	if len(configs) != 0 {
		t.Errorf("Expected 0 configs from missing directory, got %d", len(configs))
	}
}
