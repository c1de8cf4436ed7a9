package archive

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"A Quiet Season", "A Quiet Season"},
		{"Café Society: An Exposé", "Cafe Society_ An Expose"},
		{"what/about\\slashes?", "what_about_slashes_"},
		{"résumé.pdf", "resume.pdf"},
		{"", "untitled"},
		{"///", "___"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, SanitizeFilename(tt.in), "input %q", tt.in)
	}
}

func TestSanitizeFilenameCapsLength(t *testing.T) {
	long := strings.Repeat("a", 300)
	got := SanitizeFilename(long)
	assert.LessOrEqual(t, len(got), 120)
	assert.NotEmpty(t, got)
}
