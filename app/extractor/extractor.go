package extractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"

	"newsdigest/app/archive"
	"newsdigest/app/config"
)

// Extractor turns a discovered article URL into an ArticleRecord. Field
// selectors from the source configuration drive extraction; readability
// recovers the body on pages the selectors cannot handle.
type Extractor struct {
	httpClient *http.Client
	policy     *bluemonday.Policy
	userAgent  string
}

func NewExtractor(httpClient *http.Client, userAgent string) *Extractor {
	return &Extractor{
		httpClient: httpClient,
		policy:     bluemonday.UGCPolicy(),
		userAgent:  userAgent,
	}
}

func (e *Extractor) Run(ctx context.Context, articleURL string, sourceConfig *config.SourceConfig, reference archive.Date) (archive.ArticleRecord, error) {
	record := archive.ArticleRecord{URL: articleURL}

	pageURL, err := url.Parse(articleURL)
	if err != nil {
		return record, fmt.Errorf("invalid article URL: %w", err)
	}

	data, err := e.fetch(ctx, articleURL, sourceConfig.Settings.GetTimeout())
	if err != nil {
		return record, fmt.Errorf("failed to fetch article: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return record, fmt.Errorf("failed to parse article HTML: %w", err)
	}

	record.Title = extractTitle(doc, sourceConfig.Extraction.TitleSelector)
	record.Author = CleanAuthor(extractText(doc, sourceConfig.Extraction.AuthorSelector), sourceConfig.PublisherName())
	record.Date = extractDate(doc, sourceConfig.Extraction.DateSelector, reference)

	content, err := extractContent(doc, data, pageURL, sourceConfig.Extraction)
	if err != nil {
		return record, err
	}
	record.Content = content

	// The image pass runs before sanitization; the policy strips class
	// attributes the image selector may need.
	if err := rewriteImages(&record, pageURL, sourceConfig.Extraction.ImageSelector); err != nil {
		return record, err
	}
	record.Content = e.policy.Sanitize(record.Content)

	return record, nil
}

func (e *Extractor) fetch(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.httpClient.Do(req)
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

// extractTitle tries the configured selector first, then falls back
// through og:title, the document title and the first h1.
func extractTitle(doc *goquery.Document, selector string) string {
	if selector != "" {
		if title := strings.TrimSpace(doc.Find(selector).First().Text()); title != "" {
			return title
		}
	}
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if title := strings.TrimSpace(og); title != "" {
			return title
		}
	}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	if title := strings.TrimSpace(doc.Find("h1").First().Text()); title != "" {
		return title
	}
	return "Untitled"
}

func extractText(doc *goquery.Document, selector string) string {
	if selector == "" {
		return ""
	}
	return strings.TrimSpace(doc.Find(selector).First().Text())
}

func extractContent(doc *goquery.Document, data []byte, pageURL *url.URL, rules config.ExtractionRules) (string, error) {
	if rules.ContentSelector != "" {
		var parts []string
		doc.Find(rules.ContentSelector).Each(func(_ int, sel *goquery.Selection) {
			if html, err := goquery.OuterHtml(sel); err == nil {
				parts = append(parts, html)
			}
		})
		if content := strings.TrimSpace(strings.Join(parts, "\n")); content != "" {
			return content, nil
		}
	}

	if rules.UseReadability || rules.ContentSelector == "" {
		article, err := readability.FromReader(bytes.NewReader(data), pageURL)
		if err == nil && strings.TrimSpace(article.Content) != "" {
			return article.Content, nil
		}
	}

	return "", fmt.Errorf("no content extracted")
}
