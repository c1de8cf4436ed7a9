package archive

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var unsafeFilenameChars = regexp.MustCompile(`[^\w\-. ]`)

// SanitizeFilename folds a title or slug into a name every filesystem
// accepts. Diacritics are stripped to their base letters, anything outside
// [A-Za-z0-9_ .-] becomes an underscore, and the result is capped at 120
// bytes.
func SanitizeFilename(name string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), name)
	if err == nil {
		name = folded
	}

	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.TrimSpace(name)
	if len(name) > 120 {
		name = strings.TrimSpace(name[:120])
	}
	if name == "" {
		name = "untitled"
	}
	return name
}
