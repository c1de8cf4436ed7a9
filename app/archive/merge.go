package archive

// MergeResult describes the outcome of folding freshly extracted records
// into the persisted archive.
type MergeResult struct {
	// Records is the merged archive: persisted records in their original
	// order, then genuinely new records in discovery order. Every URL
	// appears exactly once.
	Records []ArticleRecord

	// Added counts records whose URL was not in the archive before.
	Added int

	// Superseded counts records that replaced an existing entry in place.
	Superseded int

	// Rejected holds records without a URL. They carry no identity and are
	// excluded from the merge; callers log them and move on.
	Rejected []ArticleRecord
}

// Merge folds fresh records into the persisted archive. A fresh record
// with a known URL replaces the stored one in place, keeping its original
// position; unknown URLs append in the order they were discovered. When
// the same URL occurs twice among the fresh records the later extraction
// wins.
func Merge(persisted, fresh []ArticleRecord) MergeResult {
	result := MergeResult{
		Records: make([]ArticleRecord, 0, len(persisted)+len(fresh)),
	}

	position := make(map[string]int, len(persisted)+len(fresh))

	for _, record := range persisted {
		if !record.Valid() {
			result.Rejected = append(result.Rejected, record)
			continue
		}
		position[record.URL] = len(result.Records)
		result.Records = append(result.Records, record)
	}

	for _, record := range fresh {
		if !record.Valid() {
			result.Rejected = append(result.Rejected, record)
			continue
		}
		if at, known := position[record.URL]; known {
			result.Records[at] = record
			result.Superseded++
			continue
		}
		position[record.URL] = len(result.Records)
		result.Records = append(result.Records, record)
		result.Added++
	}

	return result
}
