package personalize

import "math"

// Difficulty is the difficulty level of a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// AllDifficulties returns difficulties from easiest to hardest.
func AllDifficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// ParseDifficulty maps a string to a Difficulty. ok is false for unknown values.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s), true
	default:
		return "", false
	}
}

// recentWindow is how many trailing answers NextDifficulty looks at.
const recentWindow = 3

// NextDifficulty picks the difficulty of the next question from the
// learner's most recent answers (true = correct), oldest first.
func NextDifficulty(recent []bool) Difficulty {
	if len(recent) == 0 {
		return DifficultyMedium
	}

	start := len(recent) - recentWindow
	if start < 0 {
		start = 0
	}

	correct := 0
	for _, ok := range recent[start:] {
		if ok {
			correct++
		}
	}

	switch {
	case correct >= 3:
		return DifficultyHard
	case correct >= 2:
		return DifficultyMedium
	default:
		return DifficultyEasy
	}
}

// ScoreMultiplier returns how much a question of the given difficulty is worth.
func ScoreMultiplier(d Difficulty) float64 {
	switch d {
	case DifficultyMedium:
		return 1.5
	case DifficultyHard:
		return 2
	default:
		return 1
	}
}

// Answer is a single graded answer within a practice session.
type Answer struct {
	Correct    bool       `json:"correct"`
	Difficulty Difficulty `json:"difficulty"`
}

// DifficultyTally counts answers at one difficulty.
type DifficultyTally struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// WeightedResult is a difficulty-weighted session score.
type WeightedResult struct {
	Score      float64                         `json:"score"`
	MaxScore   float64                         `json:"max_score"`
	Percentage int                             `json:"percentage"`
	Breakdown  map[Difficulty]*DifficultyTally `json:"breakdown"`
}

// WeightedScore scores a session so that harder questions count more,
// both when answered correctly and in the maximum possible score.
func WeightedScore(answers []Answer) WeightedResult {
	res := WeightedResult{
		Breakdown: map[Difficulty]*DifficultyTally{
			DifficultyEasy:   {},
			DifficultyMedium: {},
			DifficultyHard:   {},
		},
	}

	for _, a := range answers {
		m := ScoreMultiplier(a.Difficulty)
		res.MaxScore += m
		if a.Correct {
			res.Score += m
		}

		tally, ok := res.Breakdown[a.Difficulty]
		if !ok {
			tally = &DifficultyTally{}
			res.Breakdown[a.Difficulty] = tally
		}
		tally.Total++
		if a.Correct {
			tally.Correct++
		}
	}

	if res.MaxScore > 0 {
		res.Percentage = int(math.Round(100 * res.Score / res.MaxScore))
	}
	return res
}

// Readiness recommendations.
const (
	ReadinessNeedMoreData   = "need more data"
	ReadinessReady          = "ready"
	ReadinessKeepPracticing = "keep practicing"
	ReadinessReviewConcepts = "review concepts"
)

const (
	readinessMinSessions = 3
	readinessWindow      = 5
)

// Readiness summarizes whether the learner is ready to move on.
type Readiness struct {
	Ready          bool    `json:"ready"`
	Recommendation string  `json:"recommendation"`
	AverageScore   float64 `json:"average_score"`
	Sessions       int     `json:"sessions"`
}

// AssessReadiness looks at the last few practice sessions (oldest first) and
// decides whether the learner is ready to move on.
func AssessReadiness(history []SessionResult) Readiness {
	if len(history) < readinessMinSessions {
		return Readiness{Recommendation: ReadinessNeedMoreData, Sessions: len(history)}
	}

	recent := history
	if len(recent) > readinessWindow {
		recent = recent[len(recent)-readinessWindow:]
	}

	var sum float64
	for _, s := range recent {
		if s.TotalQuestions > 0 {
			sum += float64(s.Score) / float64(s.TotalQuestions) * 100
		}
	}
	avg := sum / float64(len(recent))

	r := Readiness{AverageScore: avg, Sessions: len(recent)}
	switch {
	case avg >= 80:
		r.Ready = true
		r.Recommendation = ReadinessReady
	case avg >= 60:
		r.Recommendation = ReadinessKeepPracticing
	default:
		r.Recommendation = ReadinessReviewConcepts
	}
	return r
}
