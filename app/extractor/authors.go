package extractor

import (
	"regexp"
	"strings"
)

var bylinePrefix = regexp.MustCompile(`(?i)^(?:Interview by|Photographs by|Reporting by|Words by|From|With|By|and)\s+`)

// CleanAuthor normalizes a raw byline. Contributor prefixes such as "By"
// or "Photographs by" are stripped, non-breaking spaces become regular
// spaces, and an empty byline falls back to the publisher name.
func CleanAuthor(raw, publisher string) string {
	text := strings.ReplaceAll(strings.TrimSpace(raw), " ", " ")
	text = strings.TrimSpace(bylinePrefix.ReplaceAllString(text, ""))
	if text == "" {
		return publisher
	}
	return text
}
