package digest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewriteImageSources(t *testing.T) {
	content := `<p>Before.</p><img src="image_1.jpg"/><img src="image_2.png"/><p>After.</p>`
	embedded := map[string]string{
		"image_1.jpg": "../images/a001_image_1.jpg",
	}

	result := rewriteImageSources(content, embedded)

	assert.Contains(t, result, `src="../images/a001_image_1.jpg"`)
	assert.NotContains(t, result, "image_2.png")
	assert.Contains(t, result, "Before.")
	assert.Contains(t, result, "After.")
}

func TestRewriteImageSourcesWithoutImages(t *testing.T) {
	content := "<p>Plain text only.</p>"

	assert.Equal(t, content, rewriteImageSources(content, nil))
}
