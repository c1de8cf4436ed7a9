package discovery

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"newsdigest/app/config"
)

// Discoverer finds candidate article URLs for a source. Listing mode walks
// index pages and harvests anchors, rss mode reads syndication feeds. Both
// return absolute URLs on the source's host, deduplicated, in the order
// they were first seen.
type Discoverer struct {
	httpClient *http.Client
	feedParser *gofeed.Parser
	userAgent  string
}

func NewDiscoverer(httpClient *http.Client, userAgent string) *Discoverer {
	return &Discoverer{
		httpClient: httpClient,
		feedParser: gofeed.NewParser(),
		userAgent:  userAgent,
	}
}

func (d *Discoverer) Run(ctx context.Context, sourceConfig *config.SourceConfig) ([]string, error) {
	filter, err := NewLinkFilter(sourceConfig)
	if err != nil {
		return nil, err
	}

	var links []string
	switch sourceConfig.Discovery.Mode {
	case config.ModeRSS:
		links, err = d.discoverFromFeeds(ctx, sourceConfig, filter)
	default:
		links, err = d.discoverFromListings(ctx, sourceConfig, filter)
	}
	if err != nil {
		return nil, err
	}

	if max := sourceConfig.Settings.MaxArticles; max > 0 && len(links) > max {
		links = links[:max]
	}

	return links, nil
}

func (d *Discoverer) fetch(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
