package config

import (
	"time"
)

// GetRefreshInterval returns how long to wait before attempting another
// run after a failed one
func (s *SourceSettings) GetRefreshInterval() time.Duration {
	if s.RefreshInterval <= 0 {
		return 3600 * time.Second // default one hour
	}
	return time.Duration(s.RefreshInterval) * time.Second
}

// GetTimeout returns the HTTP timeout as time.Duration
func (s *SourceSettings) GetTimeout() time.Duration {
	if s.Timeout <= 0 {
		return 30 * time.Second // default 30 seconds
	}
	return time.Duration(s.Timeout) * time.Second
}

// PublisherName returns the display name used when an article carries no
// byline of its own
func (c *SourceConfig) PublisherName() string {
	if c.Source.Publisher != "" {
		return c.Source.Publisher
	}
	return c.Source.Name
}
