package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(url, title string) ArticleRecord {
	return ArticleRecord{URL: url, Title: title, Author: "Staff", Content: "<p>body</p>"}
}

func urls(records []ArticleRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.URL)
	}
	return out
}

func TestMergeAppendsNewInDiscoveryOrder(t *testing.T) {
	persisted := []ArticleRecord{record("https://example.org/a", "A")}
	fresh := []ArticleRecord{
		record("https://example.org/b", "B"),
		record("https://example.org/c", "C"),
	}

	result := Merge(persisted, fresh)

	assert.Equal(t, []string{
		"https://example.org/a",
		"https://example.org/b",
		"https://example.org/c",
	}, urls(result.Records))
	assert.Equal(t, 2, result.Added)
	assert.Equal(t, 0, result.Superseded)
	assert.Empty(t, result.Rejected)
}

func TestMergeSupersedesInPlace(t *testing.T) {
	persisted := []ArticleRecord{
		record("https://example.org/a", "A"),
		record("https://example.org/b", "stale title"),
		record("https://example.org/c", "C"),
	}
	fresh := []ArticleRecord{record("https://example.org/b", "fresh title")}

	result := Merge(persisted, fresh)

	require.Len(t, result.Records, 3)
	assert.Equal(t, "fresh title", result.Records[1].Title)
	assert.Equal(t, []string{
		"https://example.org/a",
		"https://example.org/b",
		"https://example.org/c",
	}, urls(result.Records))
	assert.Equal(t, 0, result.Added)
	assert.Equal(t, 1, result.Superseded)
}

func TestMergeRejectsRecordsWithoutURL(t *testing.T) {
	fresh := []ArticleRecord{
		record("https://example.org/a", "A"),
		{Title: "no identity"},
		record("https://example.org/b", "B"),
	}

	result := Merge(nil, fresh)

	assert.Equal(t, []string{"https://example.org/a", "https://example.org/b"}, urls(result.Records))
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, "no identity", result.Rejected[0].Title)
	assert.Equal(t, 2, result.Added)
}

func TestMergeDuplicateFreshLastWins(t *testing.T) {
	fresh := []ArticleRecord{
		record("https://example.org/a", "first pass"),
		record("https://example.org/a", "second pass"),
	}

	result := Merge(nil, fresh)

	require.Len(t, result.Records, 1)
	assert.Equal(t, "second pass", result.Records[0].Title)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 1, result.Superseded)
}

func TestMergeIsIdempotent(t *testing.T) {
	persisted := []ArticleRecord{
		record("https://example.org/a", "A"),
		record("https://example.org/b", "B"),
	}
	fresh := []ArticleRecord{
		record("https://example.org/b", "B updated"),
		record("https://example.org/c", "C"),
	}

	once := Merge(persisted, fresh)
	twice := Merge(once.Records, fresh)

	assert.Equal(t, once.Records, twice.Records)
	assert.Equal(t, 0, twice.Added)
}

func TestMergeEmptyInputs(t *testing.T) {
	assert.Empty(t, Merge(nil, nil).Records)

	persisted := []ArticleRecord{record("https://example.org/a", "A")}
	result := Merge(persisted, nil)
	assert.Equal(t, persisted, result.Records)
	assert.Equal(t, 0, result.Added)
}
