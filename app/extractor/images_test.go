package extractor

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdigest/app/archive"
)

func pageURL(t *testing.T) *url.URL {
	t.Helper()
	u, err := url.Parse("https://www.example.org/news/2026/story")
	require.NoError(t, err)
	return u
}

func TestRewriteImages(t *testing.T) {
	record := archive.ArticleRecord{
		URL: "https://www.example.org/news/2026/story",
		Content: `<article>
<p>Intro.</p>
<img src="https://cdn.example.org/photos/lead.jpg?w=1200"/>
<p>Middle.</p>
<img src="/assets/inline.png"/>
</article>`,
	}

	require.NoError(t, rewriteImages(&record, pageURL(t), ""))

	require.Len(t, record.Images, 2)
	assert.Equal(t, archive.ImageRef{
		RemoteURL: "https://cdn.example.org/photos/lead.jpg?w=1200",
		Filename:  "image_1.jpg",
	}, record.Images[0])
	assert.Equal(t, archive.ImageRef{
		RemoteURL: "https://www.example.org/assets/inline.png",
		Filename:  "image_2.png",
	}, record.Images[1])

	assert.Contains(t, record.Content, `src="image_1.jpg"`)
	assert.Contains(t, record.Content, `src="image_2.png"`)
	assert.NotContains(t, record.Content, "cdn.example.org")
}

func TestRewriteImagesDeduplicatesRemotes(t *testing.T) {
	record := archive.ArticleRecord{
		Content: `<img src="/a.jpg"/><img src="/a.jpg"/>`,
	}

	require.NoError(t, rewriteImages(&record, pageURL(t), ""))

	require.Len(t, record.Images, 1)
	assert.Equal(t, 2, strings.Count(record.Content, `src="image_1.jpg"`))
}

func TestRewriteImagesDropsUnusableSources(t *testing.T) {
	record := archive.ArticleRecord{
		Content: `<p>text</p><img/><img src="   "/><img src="data:image/png;base64,AAAA"/>`,
	}

	require.NoError(t, rewriteImages(&record, pageURL(t), ""))

	assert.Empty(t, record.Images)
	assert.NotContains(t, record.Content, "<img")
	assert.Contains(t, record.Content, "<p>text</p>")
}

func TestRewriteImagesEmptyContent(t *testing.T) {
	record := archive.ArticleRecord{Content: "   "}

	require.NoError(t, rewriteImages(&record, pageURL(t), ""))

	assert.Empty(t, record.Images)
}

func TestImageExt(t *testing.T) {
	tests := []struct {
		remote   string
		expected string
	}{
		{"https://cdn.example.org/a.jpg", ".jpg"},
		{"https://cdn.example.org/a.PNG", ".png"},
		{"https://cdn.example.org/a.webp?quality=80", ".webp"},
		{"https://cdn.example.org/photo", ".jpg"},
		{"https://cdn.example.org/weird.verylongext", ".jpg"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, imageExt(tt.remote), "remote %s", tt.remote)
	}
}

func TestRewriteImagesHonorsImageSelector(t *testing.T) {
	record := archive.ArticleRecord{
		Content: `<img class="lead" src="/lead.jpg"/><img class="tracker" src="/pixel.gif"/>`,
	}

	require.NoError(t, rewriteImages(&record, pageURL(t), "img.lead"))

	require.Len(t, record.Images, 1)
	assert.Equal(t, "https://www.example.org/lead.jpg", record.Images[0].RemoteURL)
	assert.NotContains(t, record.Content, "pixel.gif")
}
