package personalize

import "time"

// IsDue returns true if the item is due for review (at or past the review date).
func (ri *ReviewItem) IsDue(now time.Time) bool {
	return !now.Before(ri.NextReviewDate)
}

// OverdueDays returns how many days past due the item is. Returns 0 if not yet due.
func (ri *ReviewItem) OverdueDays(now time.Time) float64 {
	if now.Before(ri.NextReviewDate) {
		return 0
	}
	return now.Sub(ri.NextReviewDate).Hours() / 24.0
}

// CurrentIntervalDays returns the ladder interval the item is sitting on.
func (ri *ReviewItem) CurrentIntervalDays() int {
	if !ri.LastWasCorrect {
		return ReviewLadder[0]
	}
	return ladderDays(ri.CorrectStreak)
}

// DaysUntilReview returns the number of days until the next review.
// Returns 0 if already due.
func (ri *ReviewItem) DaysUntilReview(now time.Time) int {
	if ri.IsDue(now) {
		return 0
	}
	return int(ri.NextReviewDate.Sub(now).Hours()/24.0) + 1
}

// StreakRemaining returns how many more correct answers retire the item.
func (ri *ReviewItem) StreakRemaining() int {
	if ri.CorrectStreak >= MasteryStreak {
		return 0
	}
	return MasteryStreak - ri.CorrectStreak
}
