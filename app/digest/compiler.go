package digest

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	epub "github.com/go-shiori/go-epub"

	"newsdigest/app/archive"
	"newsdigest/app/config"
)

// Section titles of the compiled digest.
const (
	SectionToday    = "Today's News"
	SectionThisWeek = "This Week"
)

// Digest summarizes a compiled digest file.
type Digest struct {
	Path     string
	Title    string
	Today    int
	ThisWeek int
	Images   int
}

// Compiler packages a partitioned archive into a single EPUB with one
// section per retention bucket. Images are fetched while packaging and
// embedded next to their articles; the archive on disk stays plain JSON.
type Compiler struct {
	httpClient *http.Client
	outputDir  string
	userAgent  string
}

func NewCompiler(httpClient *http.Client, outputDir string, userAgent string) *Compiler {
	return &Compiler{
		httpClient: httpClient,
		outputDir:  outputDir,
		userAgent:  userAgent,
	}
}

// Run compiles the digest for one source. Empty sections are left out of
// the book entirely; when both sections are empty there is nothing to
// compile and Run returns (nil, nil).
func (c *Compiler) Run(ctx context.Context, sourceConfig *config.SourceConfig, partition archive.Partition, reference archive.Date) (*Digest, error) {
	if len(partition.Today) == 0 && len(partition.ThisWeek) == 0 {
		return nil, nil
	}

	title := fmt.Sprintf("%s Digest %s", sourceConfig.PublisherName(), reference)

	book, err := epub.NewEpub(title)
	if err != nil {
		return nil, fmt.Errorf("failed to create digest: %w", err)
	}
	book.SetAuthor(sourceConfig.PublisherName())
	book.SetLang("en")
	book.SetIdentifier(fmt.Sprintf("newsdigest:%s:%s", sourceConfig.Source.Name, reference))
	book.SetDescription(fmt.Sprintf("News digest compiled from %s on %s.", sourceConfig.PublisherName(), reference))

	// Image bytes live in a scratch directory until the book is written.
	scratchDir, err := os.MkdirTemp("", "newsdigest-images-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratchDir)

	digest := &Digest{
		Title:    title,
		Today:    len(partition.Today),
		ThisWeek: len(partition.ThisWeek),
	}

	seq := 0
	if err := c.addSection(ctx, book, SectionToday, partition.Today, scratchDir, digest, &seq); err != nil {
		return nil, err
	}
	if err := c.addSection(ctx, book, SectionThisWeek, partition.ThisWeek, scratchDir, digest, &seq); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(c.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	digest.Path = filepath.Join(c.outputDir, archive.SanitizeFilename(title)+".epub")
	if err := book.Write(digest.Path); err != nil {
		return nil, fmt.Errorf("failed to write digest: %w", err)
	}

	slog.Debug("Digest compiled",
		"path", digest.Path,
		"today", digest.Today,
		"this_week", digest.ThisWeek,
		"images", digest.Images)

	return digest, nil
}

func (c *Compiler) addSection(ctx context.Context, book *epub.Epub, sectionTitle string, records []archive.ArticleRecord, scratchDir string, digest *Digest, seq *int) error {
	if len(records) == 0 {
		return nil
	}

	parent, err := book.AddSection(fmt.Sprintf("<h1>%s</h1>", html.EscapeString(sectionTitle)), sectionTitle, "", "")
	if err != nil {
		return fmt.Errorf("failed to add section %s: %w", sectionTitle, err)
	}

	for _, record := range records {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		*seq++
		embedded := c.embedImages(ctx, book, record, scratchDir, *seq)
		digest.Images += len(embedded)

		body := renderArticle(record, rewriteImageSources(record.Content, embedded))
		if _, err := book.AddSubSection(parent, body, record.Title, "", ""); err != nil {
			return fmt.Errorf("failed to add article %s: %w", record.URL, err)
		}
	}

	return nil
}

func renderArticle(record archive.ArticleRecord, content string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(record.Title))
	fmt.Fprintf(&b, "<p>%s, %s</p>\n", html.EscapeString(record.Author), record.Date.Time().Format("January 2, 2006"))
	b.WriteString(content)
	fmt.Fprintf(&b, "\n<p><a href=%q>Read on the web</a></p>", record.URL)
	return b.String()
}
