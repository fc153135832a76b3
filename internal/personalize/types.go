package personalize

import "time"

// ReviewItem holds the spaced repetition state for a single question the
// learner has answered.
type ReviewItem struct {
	Key            QuestionKey `json:"key"`
	CorrectStreak  int         `json:"correct_streak"`
	WrongCount     int         `json:"wrong_count"`
	LastAttempt    time.Time   `json:"last_attempt"`
	NextReviewDate time.Time   `json:"next_review_date"`
	LastWasCorrect bool        `json:"last_was_correct"`
}

// PracticeRecord is the learner's best result on a practice section.
type PracticeRecord struct {
	BestScore     int `json:"best_score"`
	TotalAttempts int `json:"total_attempts"`
}

// LessonCompletion marks a lesson as done.
type LessonCompletion struct {
	Completed   bool      `json:"completed"`
	CompletedAt time.Time `json:"completed_at"`
}

// SessionResult is the outcome of one practice session.
type SessionResult struct {
	Section        SectionKey `json:"section"`
	Score          int        `json:"score"`
	TotalQuestions int        `json:"total_questions"`
	At             time.Time  `json:"at"`
}

// Snapshot is everything the engine needs to know about one learner.
// Callers load it from storage; the engine never mutates it.
type Snapshot struct {
	Completed   map[LessonKey]LessonCompletion
	Practice    map[SectionKey]PracticeRecord
	Reviews     []ReviewItem // encounter order
	TestDate    *time.Time
	TargetScore *int
}

// completedModules returns the set of modules with at least one completed lesson.
func (s *Snapshot) completedModules() map[string]bool {
	modules := make(map[string]bool)
	if s == nil {
		return modules
	}
	for k, c := range s.Completed {
		if c.Completed {
			modules[k.ModuleID] = true
		}
	}
	return modules
}
