package extractor

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"

	"newsdigest/app/archive"
)

// extractDate recovers the publication date from the dateline element.
// A missing or unparseable dateline means the article counts as published
// on the reference date, and dates past the reference date are clamped to
// it. The publication date is never in the future.
func extractDate(doc *goquery.Document, selector string, reference archive.Date) archive.Date {
	var raw string
	if selector != "" {
		sel := doc.Find(selector).First()
		if datetime, ok := sel.Attr("datetime"); ok {
			raw = datetime
		} else {
			raw = sel.Text()
		}
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return reference
	}

	date, ok := parseDateline(raw)
	if !ok {
		slog.Debug("Unparseable dateline, treating article as fresh", "dateline", raw)
		return reference
	}
	if date.After(reference) {
		return reference
	}
	return date
}

// parseDateline handles ISO timestamps by taking their date prefix, then
// hands anything else to dateparse.
func parseDateline(raw string) (archive.Date, bool) {
	if len(raw) >= 10 {
		if date, err := archive.ParseDate(raw[:10]); err == nil {
			return date, true
		}
	}
	if t, err := dateparse.ParseAny(raw); err == nil {
		return archive.DateOf(t), true
	}
	return archive.Date{}, false
}
