package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and validation of source configurations
type Loader struct {
	sourcesDir string
}

// NewLoader creates a new configuration loader
func NewLoader(sourcesDir string) *Loader {
	return &Loader{sourcesDir: sourcesDir}
}

// LoadAll loads all YAML configuration files from the sources directory,
// keyed by source name. Duplicate source names are an error.
func (l *Loader) LoadAll() (map[string]*SourceConfig, error) {
	configs := make(map[string]*SourceConfig)

	if _, err := os.Stat(l.sourcesDir); os.IsNotExist(err) {
		return configs, nil // Return empty map if directory doesn't exist
	}

	files, err := filepath.Glob(filepath.Join(l.sourcesDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YAML files: %w", err)
	}

	// Also check for .yml extension
	ymlFiles, err := filepath.Glob(filepath.Join(l.sourcesDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YML files: %w", err)
	}
	files = append(files, ymlFiles...)

	for _, file := range files {
		config, err := l.loadFile(file)
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", file, err)
		}

		if err := l.validate(config); err != nil {
			return nil, fmt.Errorf("invalid config %s: %w", file, err)
		}

		if _, exists := configs[config.Source.Name]; exists {
			return nil, fmt.Errorf("duplicate source name %q in %s", config.Source.Name, file)
		}

		configs[config.Source.Name] = config
		slog.Debug("Loaded source configuration", "file", file, "source", config.Source.Name)
	}

	return configs, nil
}

// loadFile loads a single YAML configuration file
func (l *Loader) loadFile(path string) (*SourceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config SourceConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	l.setDefaults(&config)

	return &config, nil
}

// setDefaults applies default values to configuration
func (l *Loader) setDefaults(config *SourceConfig) {
	if config.Discovery.Mode == "" {
		config.Discovery.Mode = ModeListing
	}
	if config.Discovery.MinPathSegments == 0 {
		config.Discovery.MinPathSegments = 3
	}
	if config.Discovery.MaxPages == 0 {
		config.Discovery.MaxPages = 1
	}
	if config.Extraction.TitleSelector == "" {
		config.Extraction.TitleSelector = "h1"
	}
	if config.Extraction.DateSelector == "" {
		config.Extraction.DateSelector = "time[datetime]"
	}
	if config.Settings.RefreshInterval == 0 {
		config.Settings.RefreshInterval = 3600 // seconds between attempts after a failed run
	}
	if config.Settings.Timeout == 0 {
		config.Settings.Timeout = 30 // seconds
	}
	if config.Settings.MaxArticles == 0 {
		config.Settings.MaxArticles = 50
	}
}

// validate validates the configuration
func (l *Loader) validate(config *SourceConfig) error {
	if config.Source.Name == "" {
		return fmt.Errorf("source name is required")
	}
	if config.Source.BaseURL == "" {
		return fmt.Errorf("source base URL is required")
	}

	switch config.Discovery.Mode {
	case ModeListing, ModeRSS:
	default:
		return fmt.Errorf("unknown discovery mode: %s", config.Discovery.Mode)
	}
	if len(config.Discovery.URLs) == 0 {
		return fmt.Errorf("at least one discovery URL is required")
	}
	for i, pattern := range config.Discovery.LinkPatterns {
		if !strings.HasPrefix(pattern, "/") {
			return fmt.Errorf("link pattern at index %d must start with /: %s", i, pattern)
		}
	}

	if config.Settings.RefreshInterval < 0 {
		return fmt.Errorf("refresh interval must be non-negative")
	}
	if config.Settings.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	if config.Settings.MaxArticles < 0 {
		return fmt.Errorf("max articles must be non-negative")
	}
	if config.Discovery.MaxPages < 0 {
		return fmt.Errorf("max pages must be non-negative")
	}

	return nil
}
