package personalize

import (
	"fmt"
	"math"
	"time"
)

// IntensityTier names how demanding the daily study load is.
type IntensityTier string

const (
	TierLight     IntensityTier = "light"
	TierModerate  IntensityTier = "moderate"
	TierFocused   IntensityTier = "focused"
	TierIntensive IntensityTier = "intensive"
	TierMarathon  IntensityTier = "marathon"
	TierFinalPush IntensityTier = "final-push"
)

// Plan defaults and limits.
const (
	DefaultTargetScore = 1400
	// DefaultDaysLeft sizes the plan when no test date is set.
	DefaultDaysLeft   = 60
	MinDailyMinutes   = 15
	MaxDailyMinutes   = 120
	FinalPushMinutes  = 60
	minutesPerPoint   = 30
	onTrackMaxMinutes = 45
	maxFocusSections  = 3
)

// Plan messages, chosen by the first matching rule.
const (
	MessageOnTarget    = "You're on target. Keep your skills sharp with regular review."
	MessageFinalWeek   = "Final week! Focus on reviewing missed questions and stay rested."
	MessageTwoWeeks    = "Two weeks to go. Prioritize practice on your weakest sections."
	MessageCloseToGoal = "You're close to your goal. A little practice each day will get you there."
	MessageAmbitious   = "This is an ambitious goal for the time left. Consider adjusting your target or test date."
	MessageConsistent  = "Stay consistent. Daily practice adds up."
)

// IntensityResult is the required daily load.
type IntensityResult struct {
	MinutesPerDay int           `json:"minutes_per_day"`
	Tier          IntensityTier `json:"tier"`
}

// Intensity sizes daily study time from the points still needed and the
// days left to earn them.
func Intensity(scoreGap, daysLeft int) IntensityResult {
	if daysLeft <= 0 {
		return IntensityResult{MinutesPerDay: FinalPushMinutes, Tier: TierFinalPush}
	}

	minutes := int(math.Ceil(float64(scoreGap) * minutesPerPoint / float64(daysLeft)))
	minutes = max(MinDailyMinutes, min(minutes, MaxDailyMinutes))

	var tier IntensityTier
	switch {
	case minutes <= 20:
		tier = TierLight
	case minutes <= 40:
		tier = TierModerate
	case minutes <= 60:
		tier = TierFocused
	case minutes <= 90:
		tier = TierIntensive
	default:
		tier = TierMarathon
	}
	return IntensityResult{MinutesPerDay: minutes, Tier: tier}
}

// FocusItem is one entry in the week's focus list.
type FocusItem struct {
	Type        RecommendationType `json:"type"`
	Title       string             `json:"title"`
	Detail      string             `json:"detail"`
	ModuleID    string             `json:"module_id,omitempty"`
	SectionName string             `json:"section_name,omitempty"`
}

// WeeklyFocus lists what to concentrate on this week: pending reviews
// first, then the weakest sections.
func WeeklyFocus(weak []SectionProgress, dueReviewCount int) []FocusItem {
	var items []FocusItem
	if dueReviewCount > 0 {
		items = append(items, FocusItem{
			Type:   TypeReview,
			Title:  "Clear your review queue",
			Detail: fmt.Sprintf("%d %s due", dueReviewCount, plural(dueReviewCount, "question", "questions")),
		})
	}
	for i, ws := range weak {
		if i == maxFocusSections {
			break
		}
		items = append(items, FocusItem{
			Type:        TypePractice,
			Title:       ws.Key.SectionName,
			Detail:      fmt.Sprintf("best score %d/%d", ws.Record.BestScore, MaxBestScore),
			ModuleID:    ws.Key.ModuleID,
			SectionName: ws.Key.SectionName,
		})
	}
	return items
}

// DaysUntil returns the 24-hour days from now until the test date, rounding
// partial days up. Returns nil when no test date is set.
func DaysUntil(testDate *time.Time, now time.Time) *int {
	if testDate == nil || testDate.IsZero() {
		return nil
	}
	days := int(math.Ceil(testDate.Sub(now).Hours() / 24))
	return &days
}

// StudyPlan is the learner's plan to reach the target score.
type StudyPlan struct {
	DaysLeft        *int          `json:"days_left"`
	WeeksLeft       *int          `json:"weeks_left"`
	TargetScore     int           `json:"target_score"`
	CurrentEstimate ScoreEstimate `json:"current_estimate"`
	ScoreGap        int           `json:"score_gap"`
	DailyMinutes    int           `json:"daily_minutes"`
	Intensity       IntensityTier `json:"intensity"`
	WeeklyFocus     []FocusItem   `json:"weekly_focus"`
	OnTrack         bool          `json:"on_track"`
	Message         string        `json:"message"`
}

// PlanInputs is the input to BuildPlan.
type PlanInputs struct {
	Snapshot *Snapshot
	Now      time.Time
}

// BuildPlan turns the current score estimate and the test deadline into a
// daily study plan. ok is false when the learner has set neither a test
// date nor a target score; there is nothing to plan toward.
func (e *Engine) BuildPlan(in PlanInputs) (plan *StudyPlan, ok bool) {
	snap := in.Snapshot
	if snap == nil || (snap.TestDate == nil && snap.TargetScore == nil) {
		return nil, false
	}

	daysLeft := DaysUntil(snap.TestDate, in.Now)
	var weeksLeft *int
	if daysLeft != nil {
		w := int(math.Ceil(float64(*daysLeft) / 7))
		weeksLeft = &w
	}

	estimate := e.Estimate(snap.Practice)

	target := DefaultTargetScore
	if snap.TargetScore != nil {
		target = *snap.TargetScore
	}
	gap := max(0, target-estimate.EstimatedTotal)

	days := DefaultDaysLeft
	if daysLeft != nil {
		days = *daysLeft
	}
	load := Intensity(gap, days)

	dueCount := DueCount(snap.Reviews, in.Now)

	plan = &StudyPlan{
		DaysLeft:        daysLeft,
		WeeksLeft:       weeksLeft,
		TargetScore:     target,
		CurrentEstimate: estimate,
		ScoreGap:        gap,
		DailyMinutes:    load.MinutesPerDay,
		Intensity:       load.Tier,
		WeeklyFocus:     WeeklyFocus(e.WeakSections(snap.Practice), dueCount),
		OnTrack:         gap == 0 || (daysLeft != nil && load.MinutesPerDay <= onTrackMaxMinutes),
	}
	plan.Message = planMessage(gap, daysLeft, load.Tier)
	return plan, true
}

func planMessage(gap int, daysLeft *int, tier IntensityTier) string {
	switch {
	case gap == 0:
		return MessageOnTarget
	case daysLeft != nil && *daysLeft <= 7:
		return MessageFinalWeek
	case daysLeft != nil && *daysLeft <= 14:
		return MessageTwoWeeks
	case tier == TierLight:
		return MessageCloseToGoal
	case tier == TierMarathon:
		return MessageAmbitious
	default:
		return MessageConsistent
	}
}
