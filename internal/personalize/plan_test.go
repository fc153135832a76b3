package personalize

import (
	"testing"
	"time"
)

func TestIntensity(t *testing.T) {
	tests := []struct {
		name        string
		gap, days   int
		wantMinutes int
		wantTier    IntensityTier
	}{
		{"floor applied", 0, 30, 15, TierLight},
		{"light edge", 20, 30, 20, TierLight},
		{"moderate", 21, 30, 21, TierModerate},
		{"moderate edge", 100, 75, 40, TierModerate},
		{"focused", 200, 100, 60, TierFocused},
		{"intensive", 300, 100, 90, TierIntensive},
		{"marathon capped", 500, 1, 120, TierMarathon},
		{"rounds up", 1, 7, 15, TierLight},
		{"test day", 100, 0, 60, TierFinalPush},
		{"test passed", 100, -3, 60, TierFinalPush},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Intensity(tt.gap, tt.days)
			if got.MinutesPerDay != tt.wantMinutes || got.Tier != tt.wantTier {
				t.Errorf("Intensity(%d, %d) = %+v, want {%d %s}", tt.gap, tt.days, got, tt.wantMinutes, tt.wantTier)
			}
		})
	}
}

func TestWeeklyFocus(t *testing.T) {
	weak := []SectionProgress{
		{Key: sec("circles", "Area Problems"), Record: PracticeRecord{BestScore: 0}},
		{Key: sec("circles", "Arc Length"), Record: PracticeRecord{BestScore: 1}},
		{Key: sec("linear-equations", "Slope"), Record: PracticeRecord{BestScore: 2}},
		{Key: sec("linear-equations", "Systems"), Record: PracticeRecord{BestScore: 3}},
	}

	got := WeeklyFocus(weak, 4)
	if len(got) != 4 {
		t.Fatalf("len(WeeklyFocus) = %d, want 4", len(got))
	}
	if got[0].Type != TypeReview {
		t.Errorf("first item type = %q, want review", got[0].Type)
	}
	if got[0].Detail != "4 questions due" {
		t.Errorf("review detail = %q", got[0].Detail)
	}
	if got[3].SectionName != "Slope" {
		t.Errorf("last focus section = %q, want Slope", got[3].SectionName)
	}

	got = WeeklyFocus(weak[:1], 0)
	if len(got) != 1 || got[0].Type != TypePractice {
		t.Errorf("WeeklyFocus without reviews = %+v", got)
	}

	if got := WeeklyFocus(nil, 0); len(got) != 0 {
		t.Errorf("WeeklyFocus(nil, 0) = %+v, want empty", got)
	}
}

func TestDaysUntil(t *testing.T) {
	if got := DaysUntil(nil, t0); got != nil {
		t.Errorf("DaysUntil(nil) = %v, want nil", *got)
	}

	tests := []struct {
		name string
		date time.Time
		want int
	}{
		{"exact days", t0.AddDate(0, 0, 5), 5},
		{"partial day rounds up", time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC), 5},
		{"later today", t0.Add(3 * time.Hour), 1},
		{"earlier today", t0.Add(-3 * time.Hour), 0},
		{"past", t0.AddDate(0, 0, -2), -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DaysUntil(&tt.date, t0)
			if got == nil || *got != tt.want {
				t.Errorf("DaysUntil() = %v, want %d", got, tt.want)
			}
		})
	}
}

func intp(v int) *int { return &v }

func datep(days int) *time.Time {
	d := t0.AddDate(0, 0, days)
	return &d
}

func TestBuildPlan_NoGoal(t *testing.T) {
	e := newTestEngine(t)
	plan, ok := e.BuildPlan(PlanInputs{Snapshot: &Snapshot{}, Now: t0})
	if ok || plan != nil {
		t.Errorf("BuildPlan() = %+v, %v; want no plan", plan, ok)
	}
	if _, ok := e.BuildPlan(PlanInputs{Now: t0}); ok {
		t.Error("BuildPlan(nil snapshot) should not produce a plan")
	}
}

func TestBuildPlan(t *testing.T) {
	tests := []struct {
		name        string
		testDate    *time.Time
		target      *int
		wantTarget  int
		wantGap     int
		wantMinutes int
		wantTier    IntensityTier
		wantOnTrack bool
		wantMessage string
	}{
		{
			name:        "target only uses default horizon",
			target:      intp(1100),
			wantTarget:  1100,
			wantGap:     100,
			wantMinutes: 50,
			wantTier:    TierFocused,
			wantOnTrack: false,
			wantMessage: MessageConsistent,
		},
		{
			name:        "date only uses default target",
			testDate:    datep(5),
			wantTarget:  1400,
			wantGap:     400,
			wantMinutes: 120,
			wantTier:    TierMarathon,
			wantOnTrack: false,
			wantMessage: MessageFinalWeek,
		},
		{
			name:        "already on target",
			testDate:    datep(30),
			target:      intp(900),
			wantTarget:  900,
			wantGap:     0,
			wantMinutes: 15,
			wantTier:    TierLight,
			wantOnTrack: true,
			wantMessage: MessageOnTarget,
		},
		{
			name:        "two weeks out",
			testDate:    datep(10),
			target:      intp(1100),
			wantTarget:  1100,
			wantGap:     100,
			wantMinutes: 120,
			wantTier:    TierMarathon,
			wantOnTrack: false,
			wantMessage: MessageTwoWeeks,
		},
		{
			name:        "close to goal",
			testDate:    datep(100),
			target:      intp(1050),
			wantTarget:  1050,
			wantGap:     50,
			wantMinutes: 15,
			wantTier:    TierLight,
			wantOnTrack: true,
			wantMessage: MessageCloseToGoal,
		},
		{
			name:        "ambitious",
			testDate:    datep(30),
			target:      intp(1600),
			wantTarget:  1600,
			wantGap:     600,
			wantMinutes: 120,
			wantTier:    TierMarathon,
			wantOnTrack: false,
			wantMessage: MessageAmbitious,
		},
		{
			name:        "moderate and on track",
			testDate:    datep(100),
			target:      intp(1100),
			wantTarget:  1100,
			wantGap:     100,
			wantMinutes: 30,
			wantTier:    TierModerate,
			wantOnTrack: true,
			wantMessage: MessageConsistent,
		},
	}

	e := newTestEngine(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, ok := e.BuildPlan(PlanInputs{
				Snapshot: &Snapshot{TestDate: tt.testDate, TargetScore: tt.target},
				Now:      t0,
			})
			if !ok {
				t.Fatal("expected a plan")
			}
			if plan.CurrentEstimate.EstimatedTotal != 1000 {
				t.Errorf("EstimatedTotal = %d, want 1000", plan.CurrentEstimate.EstimatedTotal)
			}
			if plan.TargetScore != tt.wantTarget {
				t.Errorf("TargetScore = %d, want %d", plan.TargetScore, tt.wantTarget)
			}
			if plan.ScoreGap != tt.wantGap {
				t.Errorf("ScoreGap = %d, want %d", plan.ScoreGap, tt.wantGap)
			}
			if plan.DailyMinutes != tt.wantMinutes || plan.Intensity != tt.wantTier {
				t.Errorf("load = %d/%s, want %d/%s", plan.DailyMinutes, plan.Intensity, tt.wantMinutes, tt.wantTier)
			}
			if plan.OnTrack != tt.wantOnTrack {
				t.Errorf("OnTrack = %v, want %v", plan.OnTrack, tt.wantOnTrack)
			}
			if plan.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", plan.Message, tt.wantMessage)
			}
		})
	}
}

func TestBuildPlan_DaysAndWeeks(t *testing.T) {
	e := newTestEngine(t)
	plan, ok := e.BuildPlan(PlanInputs{
		Snapshot: &Snapshot{TestDate: datep(15), TargetScore: intp(1200)},
		Now:      t0,
	})
	if !ok {
		t.Fatal("expected a plan")
	}
	if plan.DaysLeft == nil || *plan.DaysLeft != 15 {
		t.Errorf("DaysLeft = %v, want 15", plan.DaysLeft)
	}
	if plan.WeeksLeft == nil || *plan.WeeksLeft != 3 {
		t.Errorf("WeeksLeft = %v, want 3", plan.WeeksLeft)
	}

	plan, _ = e.BuildPlan(PlanInputs{Snapshot: &Snapshot{TargetScore: intp(1200)}, Now: t0})
	if plan.DaysLeft != nil || plan.WeeksLeft != nil {
		t.Errorf("expected nil days/weeks without a test date, got %v/%v", plan.DaysLeft, plan.WeeksLeft)
	}
}

func TestBuildPlan_WeeklyFocusFromSnapshot(t *testing.T) {
	e := newTestEngine(t)
	snap := &Snapshot{
		TargetScore: intp(1400),
		Practice: map[SectionKey]PracticeRecord{
			sec("circles", "Area Problems"):  {BestScore: 1, TotalAttempts: 2},
			sec("linear-equations", "Slope"): {BestScore: 5, TotalAttempts: 3},
		},
		Reviews: []ReviewItem{
			{Key: qkey("q1"), NextReviewDate: t0.Add(-time.Hour)},
		},
	}
	plan, ok := e.BuildPlan(PlanInputs{Snapshot: snap, Now: t0})
	if !ok {
		t.Fatal("expected a plan")
	}
	if len(plan.WeeklyFocus) != 2 {
		t.Fatalf("WeeklyFocus = %+v, want review + 1 weak section", plan.WeeklyFocus)
	}
	if plan.WeeklyFocus[0].Type != TypeReview || plan.WeeklyFocus[1].SectionName != "Area Problems" {
		t.Errorf("WeeklyFocus = %+v", plan.WeeklyFocus)
	}
}
