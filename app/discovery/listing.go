package discovery

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/PuerkitoBio/goquery"

	"newsdigest/app/config"
)

func (d *Discoverer) discoverFromListings(ctx context.Context, sourceConfig *config.SourceConfig, filter *LinkFilter) ([]string, error) {
	seen := make(map[string]struct{})
	var links []string

	for _, listingURL := range sourceConfig.Discovery.URLs {
		for page := 1; page <= sourceConfig.Discovery.MaxPages; page++ {
			pageURL, err := buildPageURL(listingURL, page)
			if err != nil {
				return nil, err
			}

			data, err := d.fetch(ctx, pageURL, sourceConfig.Settings.GetTimeout())
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				// One dead listing must not sink the run; later pages
				// of the same listing are skipped too.
				slog.Warn("Skipping listing page", "url", pageURL, "error", err)
				break
			}

			doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
			if err != nil {
				slog.Warn("Skipping unparseable listing page", "url", pageURL, "error", err)
				break
			}

			doc.Find("a[href]").Each(func(_ int, anchor *goquery.Selection) {
				href, _ := anchor.Attr("href")

				absolute := filter.Resolve(href)
				if absolute == "" {
					return
				}
				if !filter.MatchesPatterns(absolute) || !filter.MatchesDepth(absolute) {
					return
				}
				if _, dup := seen[absolute]; dup {
					return
				}

				seen[absolute] = struct{}{}
				links = append(links, absolute)
			})
		}
	}

	return links, nil
}

// buildPageURL appends a page query parameter for pages past the first,
// leaving the listing URL untouched for page one.
func buildPageURL(listingURL string, page int) (string, error) {
	if page <= 1 {
		return listingURL, nil
	}

	parsed, err := url.Parse(listingURL)
	if err != nil {
		return "", fmt.Errorf("invalid listing URL %s: %w", listingURL, err)
	}

	query := parsed.Query()
	query.Set("page", strconv.Itoa(page))
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
