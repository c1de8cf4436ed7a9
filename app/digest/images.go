package digest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	epub "github.com/go-shiori/go-epub"

	"newsdigest/app/archive"
)

// imageTimeout bounds each image download. One slow or vanished image
// must not stall the whole digest.
const imageTimeout = 10 * time.Second

// embedImages downloads each of the record's images and adds them to the
// book under a name unique to this article. The returned map goes from
// the archived local filename to the path the book serves the image at.
// A failed image is logged and skipped; the article still ships.
func (c *Compiler) embedImages(ctx context.Context, book *epub.Epub, record archive.ArticleRecord, scratchDir string, seq int) map[string]string {
	embedded := make(map[string]string)

	for _, ref := range record.Images {
		internalName := fmt.Sprintf("a%03d_%s", seq, ref.Filename)

		local, err := c.downloadImage(ctx, ref.RemoteURL, filepath.Join(scratchDir, internalName))
		if err != nil {
			slog.Warn("Skipping image", "article", record.URL, "image", ref.RemoteURL, "error", err)
			continue
		}

		internalPath, err := book.AddImage(local, internalName)
		if err != nil {
			slog.Warn("Skipping image", "article", record.URL, "image", ref.RemoteURL, "error", err)
			continue
		}

		embedded[ref.Filename] = internalPath
	}

	return embedded
}

func (c *Compiler) downloadImage(ctx context.Context, remote string, dest string) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, imageTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", remote, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}

	return dest, nil
}

// rewriteImageSources points content images at their embedded book paths.
// Images that were not embedded, because their download failed or they
// were never archived, are removed so the book has no dangling references.
func rewriteImageSources(content string, embedded map[string]string) string {
	if !strings.Contains(content, "<img") {
		return content
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return content
	}

	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		if internalPath, ok := embedded[src]; ok {
			img.SetAttr("src", internalPath)
			return
		}
		img.Remove()
	})

	html, err := doc.Find("body").Html()
	if err != nil {
		return content
	}
	return html
}
