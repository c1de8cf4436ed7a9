package archive

import (
	"encoding/json"
	"fmt"
)

// ImageRef ties a remote image URL to the local filename it was saved
// under. It serializes as a two-element JSON array to keep the store
// format compact: ["https://example.org/img.jpg", "image_1.jpg"].
type ImageRef struct {
	RemoteURL string
	Filename  string
}

func (r ImageRef) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{r.RemoteURL, r.Filename})
}

func (r *ImageRef) UnmarshalJSON(data []byte) error {
	var pair [2]string
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("invalid image reference: %w", err)
	}
	r.RemoteURL = pair[0]
	r.Filename = pair[1]
	return nil
}

// ArticleRecord is one archived article. The URL is the record's identity:
// two records with the same URL describe the same article, and the fresher
// one wins on merge.
type ArticleRecord struct {
	Title   string     `json:"title"`
	Author  string     `json:"author"`
	Content string     `json:"content"`
	URL     string     `json:"url"`
	Date    Date       `json:"date"`
	Images  []ImageRef `json:"image_data"`
}

// Valid reports whether the record carries the minimum an archive entry
// needs. Records without a URL have no identity and cannot be merged.
func (r ArticleRecord) Valid() bool {
	return r.URL != ""
}
