package personalize

import "math"

// Score scale constants.
const (
	MaxBestScore     = 5
	MinMathScore     = 300
	MathScoreRange   = 500
	DefaultMathScore = 500
	// attemptsForFullWeight is how many attempts a section needs before its
	// accuracy counts at full weight.
	attemptsForFullWeight = 3
)

// ScoreEstimate is the projected test score.
type ScoreEstimate struct {
	MathScore      int `json:"math_score"`
	EstimatedTotal int `json:"estimated_total"`
}

// Estimate projects a test score from practice history. Each section's
// accuracy is weighted by its module's importance, discounted while the
// learner has only attempted it once or twice.
func (e *Engine) Estimate(progress map[SectionKey]PracticeRecord) ScoreEstimate {
	if len(progress) == 0 {
		return ScoreEstimate{MathScore: DefaultMathScore, EstimatedTotal: 2 * DefaultMathScore}
	}

	var weighted, totalWeight float64
	for key, rec := range progress {
		weight := e.catalog.Weight(key.ModuleID)
		accuracy := float64(rec.BestScore) / MaxBestScore
		attemptBonus := float64(min(rec.TotalAttempts, attemptsForFullWeight)) / attemptsForFullWeight
		effective := weight * attemptBonus

		weighted += accuracy * effective
		totalWeight += effective
	}

	avgAccuracy := 0.5
	if totalWeight > 0 {
		avgAccuracy = weighted / totalWeight
	}

	mathScore := int(math.Round(MinMathScore + avgAccuracy*MathScoreRange))
	return ScoreEstimate{MathScore: mathScore, EstimatedTotal: mathScore * 2}
}
