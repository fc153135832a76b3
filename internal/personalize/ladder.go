package personalize

// ReviewLadder defines the expanding review interval schedule in days.
// Index is the learner's current correct streak, capped at the last rung.
var ReviewLadder = []int{1, 2, 4, 7, 14, 30, 60}

// MaxRung is the highest index in ReviewLadder.
const MaxRung = 6

// MasteryStreak is the streak at which an item leaves the review queue.
// It is one past MaxRung: the learner must answer correctly once more after
// reaching the longest interval.
const MasteryStreak = 7

// ladderDays returns the interval for a streak, clamped to the ladder bounds.
func ladderDays(streak int) int {
	if streak < 0 {
		return ReviewLadder[0]
	}
	if streak > MaxRung {
		return ReviewLadder[MaxRung]
	}
	return ReviewLadder[streak]
}
