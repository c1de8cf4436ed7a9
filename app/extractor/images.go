package extractor

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"newsdigest/app/archive"
)

// rewriteImages points every img in the content at a stable local
// filename and records the remote pairing on the record. The bytes are
// fetched later, when the digest is packaged, so the archive itself stays
// image-free. Images without a usable source, and images outside the
// configured image selector when one is set, are dropped from the content.
func rewriteImages(record *archive.ArticleRecord, pageURL *url.URL, imageSelector string) error {
	if strings.TrimSpace(record.Content) == "" {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(record.Content))
	if err != nil {
		return fmt.Errorf("failed to parse extracted content: %w", err)
	}

	assigned := make(map[string]string)
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		if imageSelector != "" && !img.Is(imageSelector) {
			img.Remove()
			return
		}

		src, _ := img.Attr("src")
		src = strings.TrimSpace(src)
		if src == "" {
			img.Remove()
			return
		}

		remote := resolveImageURL(pageURL, src)
		if remote == "" {
			img.Remove()
			return
		}

		filename, seen := assigned[remote]
		if !seen {
			filename = fmt.Sprintf("image_%d%s", len(assigned)+1, imageExt(remote))
			assigned[remote] = filename
			record.Images = append(record.Images, archive.ImageRef{RemoteURL: remote, Filename: filename})
		}
		img.SetAttr("src", filename)
	})

	html, err := doc.Find("body").Html()
	if err != nil {
		return fmt.Errorf("failed to serialize content: %w", err)
	}
	record.Content = html

	return nil
}

func resolveImageURL(pageURL *url.URL, src string) string {
	ref, err := url.Parse(src)
	if err != nil {
		return ""
	}

	abs := pageURL.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}

	abs.Fragment = ""
	return abs.String()
}

// imageExt pulls the extension out of the image URL path, ignoring query
// and fragment. Extensionless URLs default to .jpg.
func imageExt(remote string) string {
	u, err := url.Parse(remote)
	if err != nil {
		return ".jpg"
	}

	ext := strings.ToLower(path.Ext(u.Path))
	if ext == "" || len(ext) > 5 {
		return ".jpg"
	}
	return ext
}
