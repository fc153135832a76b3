package personalize

import (
	"testing"
	"time"
)

func TestIsDue(t *testing.T) {
	tests := []struct {
		name string
		next time.Time
		want bool
	}{
		{"before date", t0.Add(24 * time.Hour), false},
		{"on date", t0, true},
		{"after date", t0.Add(-48 * time.Hour), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ri := &ReviewItem{NextReviewDate: tt.next}
			if got := ri.IsDue(t0); got != tt.want {
				t.Errorf("IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverdueDays(t *testing.T) {
	ri := &ReviewItem{NextReviewDate: t0.Add(48 * time.Hour)}
	if got := ri.OverdueDays(t0); got != 0 {
		t.Errorf("OverdueDays() = %f, want 0", got)
	}

	ri = &ReviewItem{NextReviewDate: t0}
	got := ri.OverdueDays(t0.Add(3 * 24 * time.Hour))
	if got < 2.99 || got > 3.01 {
		t.Errorf("OverdueDays() = %f, want ~3.0", got)
	}
}

func TestDaysUntilReview(t *testing.T) {
	// 4.5 days in the future -> int(4.5) + 1 = 5
	ri := &ReviewItem{NextReviewDate: t0.Add(108 * time.Hour)}
	if got := ri.DaysUntilReview(t0); got != 5 {
		t.Errorf("DaysUntilReview() = %d, want 5", got)
	}

	ri = &ReviewItem{NextReviewDate: t0.Add(-time.Hour)}
	if got := ri.DaysUntilReview(t0); got != 0 {
		t.Errorf("DaysUntilReview() = %d, want 0", got)
	}
}

func TestCurrentIntervalDays(t *testing.T) {
	tests := []struct {
		streak  int
		correct bool
		want    int
	}{
		{0, false, 1},
		{3, false, 1},
		{1, true, 2},
		{2, true, 4},
		{3, true, 7},
		{4, true, 14},
		{5, true, 30},
		{6, true, 60},
		{9, true, 60},
	}
	for _, tt := range tests {
		ri := &ReviewItem{CorrectStreak: tt.streak, LastWasCorrect: tt.correct}
		if got := ri.CurrentIntervalDays(); got != tt.want {
			t.Errorf("streak %d correct=%v: CurrentIntervalDays() = %d, want %d", tt.streak, tt.correct, got, tt.want)
		}
	}
}

func TestStreakRemaining(t *testing.T) {
	if got := (&ReviewItem{CorrectStreak: 2}).StreakRemaining(); got != 5 {
		t.Errorf("StreakRemaining() = %d, want 5", got)
	}
	if got := (&ReviewItem{CorrectStreak: 9}).StreakRemaining(); got != 0 {
		t.Errorf("StreakRemaining() = %d, want 0", got)
	}
}

func TestReviewLadder(t *testing.T) {
	expected := []int{1, 2, 4, 7, 14, 30, 60}
	if len(ReviewLadder) != len(expected) {
		t.Fatalf("len(ReviewLadder) = %d, want %d", len(ReviewLadder), len(expected))
	}
	for i, v := range expected {
		if ReviewLadder[i] != v {
			t.Errorf("ReviewLadder[%d] = %d, want %d", i, ReviewLadder[i], v)
		}
	}
	if MaxRung != len(ReviewLadder)-1 {
		t.Errorf("MaxRung = %d, want %d", MaxRung, len(ReviewLadder)-1)
	}
	if MasteryStreak != len(ReviewLadder) {
		t.Errorf("MasteryStreak = %d, want %d", MasteryStreak, len(ReviewLadder))
	}
}
