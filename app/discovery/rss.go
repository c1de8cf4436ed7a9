package discovery

import (
	"bytes"
	"context"
	"log/slog"

	"newsdigest/app/config"
)

// discoverFromFeeds reads each configured feed and collects item links.
// Feeds already enumerate articles, so the path depth heuristic is not
// applied; section prefixes still are, letting one feed drive several
// differently-scoped sources.
func (d *Discoverer) discoverFromFeeds(ctx context.Context, sourceConfig *config.SourceConfig, filter *LinkFilter) ([]string, error) {
	seen := make(map[string]struct{})
	var links []string

	for _, feedURL := range sourceConfig.Discovery.URLs {
		data, err := d.fetch(ctx, feedURL, sourceConfig.Settings.GetTimeout())
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.Warn("Skipping feed", "url", feedURL, "error", err)
			continue
		}

		parsed, err := d.feedParser.Parse(bytes.NewReader(data))
		if err != nil {
			slog.Warn("Skipping unparseable feed", "url", feedURL, "error", err)
			continue
		}

		for _, item := range parsed.Items {
			if item == nil || item.Link == "" {
				continue
			}

			absolute := filter.Resolve(item.Link)
			if absolute == "" {
				continue
			}
			if !filter.MatchesPatterns(absolute) {
				continue
			}
			if _, dup := seen[absolute]; dup {
				continue
			}

			seen[absolute] = struct{}{}
			links = append(links, absolute)
		}
	}

	return links, nil
}
