package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrStoreCorrupt marks an archive file that exists but cannot be parsed.
// It is fatal for the run: overwriting a readable-but-broken store would
// destroy every article in it, so the caller must stop before mutating
// anything.
var ErrStoreCorrupt = errors.New("article store is corrupt")

type storeDocument struct {
	Articles []ArticleRecord `json:"articles"`
}

// Store reads and writes the archive file. The on-disk format is a single
// pretty-printed JSON document so the archive stays inspectable and
// diffable by hand.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Load reads the archive. A missing file is an empty archive, not an
// error; a file that cannot be parsed returns ErrStoreCorrupt. A document
// without an "articles" key loads as empty.
func (s *Store) Load() ([]ArticleRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read article store %s: %w", s.path, err)
	}

	var doc storeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStoreCorrupt, s.path, err)
	}

	return doc.Articles, nil
}

// Save writes the archive atomically: the document is written to a
// temporary file in the same directory and renamed over the target, so a
// crash mid-write leaves the previous archive intact. The "articles" key
// is always present, even when the archive is empty.
func (s *Store) Save(records []ArticleRecord) error {
	doc := storeDocument{Articles: records}
	if doc.Articles == nil {
		doc.Articles = []ArticleRecord{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode article store: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create store directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".articles-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temporary store file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write temporary store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temporary store file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace article store %s: %w", s.path, err)
	}

	return nil
}
