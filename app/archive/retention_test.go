package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func datedRecord(t *testing.T, url, date string) ArticleRecord {
	t.Helper()
	r := record(url, url)
	r.Date = mustDate(t, date)
	return r
}

func TestBucketOfBoundaries(t *testing.T) {
	reference := mustDate(t, "2026-08-25")

	tests := []struct {
		published string
		expected  Bucket
	}{
		{"2026-08-25", BucketToday},
		{"2026-08-24", BucketThisWeek},
		{"2026-08-19", BucketThisWeek},
		{"2026-08-18", BucketThisWeek}, // exactly seven days old is still retained
		{"2026-08-17", BucketExpired},
		{"2026-07-01", BucketExpired},
		{"2026-08-26", BucketToday}, // clock moved backwards between runs
	}

	for _, tt := range tests {
		got := BucketOf(mustDate(t, tt.published), reference)
		assert.Equal(t, tt.expected, got, "published %s", tt.published)
	}
}

func TestPartitionByAge(t *testing.T) {
	reference := mustDate(t, "2026-08-25")
	records := []ArticleRecord{
		datedRecord(t, "https://example.org/a", "2026-08-25"),
		datedRecord(t, "https://example.org/b", "2026-08-22"),
		datedRecord(t, "https://example.org/c", "2026-08-15"),
		datedRecord(t, "https://example.org/d", "2026-08-25"),
	}

	p := PartitionByAge(records, reference)

	assert.Equal(t, []string{"https://example.org/a", "https://example.org/d"}, urls(p.Today))
	assert.Equal(t, []string{"https://example.org/b"}, urls(p.ThisWeek))
	assert.Equal(t, []string{"https://example.org/c"}, urls(p.Expired))
}

func TestPartitionMigratesAsReferenceAdvances(t *testing.T) {
	records := []ArticleRecord{datedRecord(t, "https://example.org/a", "2026-08-25")}

	day := func(s string) Partition {
		return PartitionByAge(records, mustDate(t, s))
	}

	assert.Len(t, day("2026-08-25").Today, 1)
	assert.Len(t, day("2026-08-28").ThisWeek, 1)
	assert.Len(t, day("2026-09-01").ThisWeek, 1)
	assert.Len(t, day("2026-09-02").Expired, 1)
}

func TestRetainedKeepsTodayFirst(t *testing.T) {
	reference := mustDate(t, "2026-08-25")
	records := []ArticleRecord{
		datedRecord(t, "https://example.org/old", "2026-08-20"),
		datedRecord(t, "https://example.org/new", "2026-08-25"),
		datedRecord(t, "https://example.org/gone", "2026-08-10"),
	}

	retained := PartitionByAge(records, reference).Retained()

	assert.Equal(t, []string{"https://example.org/new", "https://example.org/old"}, urls(retained))
}

func TestPartitionEmptyArchive(t *testing.T) {
	p := PartitionByAge(nil, mustDate(t, "2026-08-25"))

	assert.Empty(t, p.Today)
	assert.Empty(t, p.ThisWeek)
	assert.Empty(t, p.Expired)
	assert.Empty(t, p.Retained())
}

func TestBucketString(t *testing.T) {
	assert.Equal(t, "today", BucketToday.String())
	assert.Equal(t, "this_week", BucketThisWeek.String())
	assert.Equal(t, "expired", BucketExpired.String())
}
