package archive

// RetentionDays is the size of the rolling retention window. Articles
// published more than this many days before the reference date leave the
// archive on the next run.
const RetentionDays = 7

// Bucket classifies an article's age relative to a reference date.
type Bucket int

const (
	BucketToday Bucket = iota
	BucketThisWeek
	BucketExpired
)

func (b Bucket) String() string {
	switch b {
	case BucketToday:
		return "today"
	case BucketThisWeek:
		return "this_week"
	case BucketExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// BucketOf classifies a publication date against the reference date.
// A date past the reference day counts as today: publication dates are
// clamped at extraction time, so one can only get ahead of the reference
// when the clock moved backwards between runs.
func BucketOf(published, reference Date) Bucket {
	cutoff := reference.AddDays(-RetentionDays)
	switch {
	case published.Before(cutoff):
		return BucketExpired
	case published.Before(reference):
		return BucketThisWeek
	default:
		return BucketToday
	}
}

// Partition is the archive split by age. Each slice preserves the relative
// order of the input records.
type Partition struct {
	Today    []ArticleRecord
	ThisWeek []ArticleRecord
	Expired  []ArticleRecord
}

// Retained returns the records that stay in the archive, today's first,
// in the same relative order they arrived in.
func (p Partition) Retained() []ArticleRecord {
	retained := make([]ArticleRecord, 0, len(p.Today)+len(p.ThisWeek))
	retained = append(retained, p.Today...)
	return append(retained, p.ThisWeek...)
}

// PartitionByAge splits records into retention buckets relative to the
// reference date. The split is recomputed from scratch every run, so an
// article drifts from today into this week and finally out of the archive
// as the reference date advances, without any per-record state.
func PartitionByAge(records []ArticleRecord, reference Date) Partition {
	var p Partition
	for _, record := range records {
		switch BucketOf(record.Date, reference) {
		case BucketToday:
			p.Today = append(p.Today, record)
		case BucketThisWeek:
			p.ThisWeek = append(p.ThisWeek, record)
		default:
			p.Expired = append(p.Expired, record)
		}
	}
	return p
}
