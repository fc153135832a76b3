package personalize

import (
	"sort"
	"time"
)

// NextReviewDate returns when a question should next be reviewed.
// A correct answer moves along the ladder by streak; a miss always
// falls back to the first rung.
func NextReviewDate(correctStreak int, wasCorrect bool, now time.Time) time.Time {
	days := ReviewLadder[0]
	if wasCorrect {
		days = ladderDays(correctStreak)
	}
	return now.AddDate(0, 0, days)
}

// RecordAnswer applies one answer to a question's review state.
// prev may be nil for a question answered for the first time, in which case
// the state starts from zero before the answer is applied.
// When mastered is true the caller should drop the item from the queue
// instead of storing the returned value.
func RecordAnswer(prev *ReviewItem, key QuestionKey, wasCorrect bool, now time.Time) (item ReviewItem, mastered bool) {
	item = ReviewItem{Key: key}
	if prev != nil {
		item.CorrectStreak = prev.CorrectStreak
		item.WrongCount = prev.WrongCount
	}

	if wasCorrect {
		item.CorrectStreak++
	} else {
		item.CorrectStreak = 0
		item.WrongCount++
	}

	item.LastAttempt = now
	item.LastWasCorrect = wasCorrect
	item.NextReviewDate = NextReviewDate(item.CorrectStreak, wasCorrect, now)

	return item, item.CorrectStreak >= MasteryStreak
}

// DueItems returns the review items due at now, most-missed first.
// Items with equal miss counts keep their queue order.
func DueItems(queue []ReviewItem, now time.Time) []ReviewItem {
	var due []ReviewItem
	for i := range queue {
		if queue[i].Key.IsZero() || queue[i].NextReviewDate.IsZero() {
			continue
		}
		if queue[i].IsDue(now) {
			due = append(due, queue[i])
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].WrongCount > due[j].WrongCount
	})
	return due
}

// DueCount returns the number of items due at now.
func DueCount(queue []ReviewItem, now time.Time) int {
	return len(DueItems(queue, now))
}
