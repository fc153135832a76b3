package personalize

// RecordPractice folds a new session score into a section's record.
// The best score never goes down.
func RecordPractice(prev *PracticeRecord, score int) PracticeRecord {
	var rec PracticeRecord
	if prev != nil {
		rec = *prev
	}
	rec.TotalAttempts++
	if prev == nil || score > rec.BestScore {
		rec.BestScore = score
	}
	return rec
}
