package discovery

import (
	"fmt"
	"net/url"
	"strings"

	"newsdigest/app/config"
)

// LinkFilter decides which anchors on a listing page point at articles.
// Listing pages mix article links with navigation, section indexes and
// offsite links; the filter keeps same-host URLs whose path matches one of
// the configured section prefixes and is deep enough to be a single story.
type LinkFilter struct {
	base            *url.URL
	patterns        []string
	minPathSegments int
}

func NewLinkFilter(sourceConfig *config.SourceConfig) (*LinkFilter, error) {
	base, err := url.Parse(sourceConfig.Source.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %s: %w", sourceConfig.Source.BaseURL, err)
	}

	return &LinkFilter{
		base:            base,
		patterns:        sourceConfig.Discovery.LinkPatterns,
		minPathSegments: sourceConfig.Discovery.MinPathSegments,
	}, nil
}

// Resolve turns an anchor href into an absolute URL on the source's host.
// Offsite links, non-HTTP schemes and unparseable hrefs resolve to "".
// Fragments are stripped so the same article is not discovered twice.
func (f *LinkFilter) Resolve(href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}

	abs := f.base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	if abs.Host != f.base.Host {
		return ""
	}

	abs.Fragment = ""
	return abs.String()
}

// MatchesPatterns reports whether the URL path starts with one of the
// configured section prefixes. No configured patterns means every path
// matches.
func (f *LinkFilter) MatchesPatterns(absolute string) bool {
	if len(f.patterns) == 0 {
		return true
	}

	u, err := url.Parse(absolute)
	if err != nil {
		return false
	}

	for _, pattern := range f.patterns {
		if strings.HasPrefix(u.Path, pattern) {
			return true
		}
	}
	return false
}

// MatchesDepth reports whether the URL path has enough segments to be an
// article page rather than a section index. "/news/2026/some-story" has
// three segments, "/news/" has one.
func (f *LinkFilter) MatchesDepth(absolute string) bool {
	if f.minPathSegments <= 0 {
		return true
	}

	u, err := url.Parse(absolute)
	if err != nil {
		return false
	}

	segments := 0
	for _, part := range strings.Split(u.Path, "/") {
		if part != "" {
			segments++
		}
	}
	return segments >= f.minPathSegments
}
