package personalize

import (
	"strings"
	"testing"
	"time"
)

func TestOptimalDifficulty(t *testing.T) {
	tests := []struct {
		best *int
		want Difficulty
	}{
		{nil, DifficultyEasy},
		{intp(0), DifficultyEasy},
		{intp(2), DifficultyEasy},
		{intp(3), DifficultyMedium},
		{intp(4), DifficultyHard},
		{intp(5), DifficultyHard},
	}
	for _, tt := range tests {
		if got := OptimalDifficulty(tt.best); got != tt.want {
			t.Errorf("OptimalDifficulty(%v) = %q, want %q", tt.best, got, tt.want)
		}
	}
}

func TestWeakSections_Ordering(t *testing.T) {
	e := newTestEngine(t)
	progress := map[SectionKey]PracticeRecord{
		sec("circles", "Area Problems"):         {BestScore: 2, TotalAttempts: 4},
		sec("circles", "Arc Length"):            {BestScore: 2, TotalAttempts: 1},
		sec("linear-equations", "Slope"):        {BestScore: 3, TotalAttempts: 2},
		sec("linear-equations", "One-Variable"): {BestScore: 4, TotalAttempts: 2}, // not weak
		sec("stats-and-data", "Center"):         {BestScore: 0, TotalAttempts: 6},
		sec("linear-equations", "Systems"):      {BestScore: 3, TotalAttempts: 2},
		sec("right-triangles", "SOH-CAH-TOA"):   {BestScore: 5, TotalAttempts: 1}, // not weak
		sec("stats-and-data", "Spread"):         {BestScore: 2, TotalAttempts: 1},
	}

	got := e.WeakSections(progress)
	want := []SectionKey{
		sec("stats-and-data", "Center"),
		sec("circles", "Arc Length"),     // best 2, 1 attempt, circles before stats
		sec("stats-and-data", "Spread"),  // best 2, 1 attempt
		sec("circles", "Area Problems"),  // best 2, 4 attempts
		sec("linear-equations", "Slope"), // best 3, catalog order
		sec("linear-equations", "Systems"),
	}
	if len(got) != len(want) {
		t.Fatalf("WeakSections() returned %d sections, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i].Key != want[i] {
			t.Errorf("WeakSections()[%d] = %v, want %v", i, got[i].Key, want[i])
		}
	}
}

func TestUnpracticedSections(t *testing.T) {
	e := newTestEngine(t)
	snap := &Snapshot{
		Completed: map[LessonKey]LessonCompletion{
			lesson("linear-equations", "lin-1"): {Completed: true, CompletedAt: t0},
			lesson("circles", "circ-1"):         {Completed: false},
		},
		Practice: map[SectionKey]PracticeRecord{
			sec("linear-equations", "Slope"): {BestScore: 3, TotalAttempts: 1},
		},
	}

	got := e.UnpracticedSections(snap)
	want := []SectionKey{
		sec("linear-equations", "One-Variable"),
		sec("linear-equations", "Systems"),
	}
	if len(got) != len(want) {
		t.Fatalf("UnpracticedSections() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("UnpracticedSections()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestUnpracticedSections_Capped(t *testing.T) {
	e := newTestEngine(t)
	snap := &Snapshot{
		Completed: map[LessonKey]LessonCompletion{
			lesson("linear-equations", "lin-1"): {Completed: true},
			lesson("stats-and-data", "stat-1"):  {Completed: true},
		},
	}
	got := e.UnpracticedSections(snap)
	if len(got) != MaxUnpracticed {
		t.Fatalf("len = %d, want %d", len(got), MaxUnpracticed)
	}
	// Three linear-equations sections first, then stats in catalog order.
	if got[3] != sec("stats-and-data", "Center") || got[4] != sec("stats-and-data", "Spread") {
		t.Errorf("UnpracticedSections() = %v", got)
	}
}

func TestNextLessons(t *testing.T) {
	e := newTestEngine(t)
	snap := &Snapshot{
		Completed: map[LessonKey]LessonCompletion{
			lesson("linear-equations", "lin-1"): {Completed: true},
			lesson("linear-equations", "lin-3"): {Completed: true},
			lesson("stats-and-data", "stat-1"):  {Completed: true}, // module finished
			lesson("right-triangles", "tri-1"):  {Completed: true},
		},
	}
	got := e.NextLessons(snap)
	want := []LessonKey{
		lesson("linear-equations", "lin-2"),
		lesson("right-triangles", "tri-2"),
	}
	if len(got) != len(want) {
		t.Fatalf("NextLessons() = %+v, want %v", got, want)
	}
	for i := range want {
		if got[i].Key != want[i] {
			t.Errorf("NextLessons()[%d] = %v, want %v", i, got[i].Key, want[i])
		}
	}
	if got[0].Title != "Slope-Intercept Form" {
		t.Errorf("title = %q", got[0].Title)
	}
}

func TestNextLessons_Capped(t *testing.T) {
	e := newTestEngine(t)
	snap := &Snapshot{
		Completed: map[LessonKey]LessonCompletion{
			lesson("linear-equations", "lin-1"): {Completed: true},
			lesson("circles", "circ-1"):         {Completed: true},
			lesson("stats-and-data", "stat-0"):  {Completed: true}, // not a catalog lesson, still starts the module
			lesson("right-triangles", "tri-1"):  {Completed: true},
		},
	}
	got := e.NextLessons(snap)
	if len(got) != MaxNextLessons {
		t.Fatalf("len = %d, want %d: %+v", len(got), MaxNextLessons, got)
	}
	if got[2].Key != lesson("stats-and-data", "stat-1") {
		t.Errorf("third lesson = %v, want stats-and-data/stat-1", got[2].Key)
	}
}

func TestGenerate_FallbackWhenEmpty(t *testing.T) {
	e := newTestEngine(t)
	recs := e.Generate(RecommendInputs{Snapshot: &Snapshot{}, Now: t0})
	if len(recs) != 1 {
		t.Fatalf("len = %d, want 1", len(recs))
	}
	if recs[0].Priority != PriorityFallback || recs[0].Type != TypeBrowse {
		t.Errorf("fallback = %+v", recs[0])
	}
	if recs[0].Action.Label != "Browse modules" {
		t.Errorf("action = %+v", recs[0].Action)
	}

	if recs := e.Generate(RecommendInputs{Now: t0}); len(recs) != 1 {
		t.Errorf("Generate(nil snapshot) = %+v, want fallback", recs)
	}
}

func fullSnapshot() *Snapshot {
	return &Snapshot{
		Completed: map[LessonKey]LessonCompletion{
			lesson("circles", "circ-1"): {Completed: true},
		},
		Practice: map[SectionKey]PracticeRecord{
			sec("circles", "Area Problems"):  {BestScore: 1, TotalAttempts: 2},
			sec("linear-equations", "Slope"): {BestScore: 3, TotalAttempts: 1},
		},
		Reviews: []ReviewItem{
			{Key: qkey("q1"), WrongCount: 2, NextReviewDate: t0.Add(-time.Hour)},
			{Key: qkey("q2"), WrongCount: 1, NextReviewDate: t0.Add(-2 * time.Hour)},
			{Key: qkey("q3"), WrongCount: 1, NextReviewDate: t0.Add(time.Hour)},
		},
	}
}

func TestGenerate_BandsAndOrder(t *testing.T) {
	e := newTestEngine(t)
	recs := e.Generate(RecommendInputs{Snapshot: fullSnapshot(), Now: t0})

	type entry struct {
		typ      RecommendationType
		priority int
		title    string
	}
	want := []entry{
		{TypeReview, 1, "Review 2 missed questions"},
		{TypePractice, 2, "Area Problems"},
		{TypePractice, 3, "Slope"},
		{TypePractice, 10, "Arc Length"},
		{TypeLesson, 20, "Arcs"},
	}
	if len(recs) != len(want) {
		t.Fatalf("Generate() returned %d entries, want %d: %+v", len(recs), len(want), recs)
	}
	for i, w := range want {
		r := recs[i]
		if r.Type != w.typ || r.Priority != w.priority || r.Title != w.title {
			t.Errorf("recs[%d] = {%s %d %q}, want {%s %d %q}", i, r.Type, r.Priority, r.Title, w.typ, w.priority, w.title)
		}
	}

	if recs[1].Difficulty != DifficultyEasy || recs[2].Difficulty != DifficultyMedium {
		t.Errorf("weak difficulties = %q, %q", recs[1].Difficulty, recs[2].Difficulty)
	}
	if recs[3].Difficulty != DifficultyEasy {
		t.Errorf("unpracticed difficulty = %q, want easy", recs[3].Difficulty)
	}
	if recs[0].Urgency != UrgencyHigh {
		t.Errorf("review urgency = %q, want high", recs[0].Urgency)
	}
	if recs[1].Subtitle != "Circles" {
		t.Errorf("subtitle = %q, want module title", recs[1].Subtitle)
	}
}

func TestGenerate_ReviewAlwaysFirst(t *testing.T) {
	e := newTestEngine(t)
	recs := e.Generate(RecommendInputs{Snapshot: fullSnapshot(), Now: t0})
	var reviewPriority int
	for _, r := range recs {
		if r.Type == TypeReview {
			reviewPriority = r.Priority
		}
	}
	if reviewPriority == 0 {
		t.Fatal("expected a review entry")
	}
	for _, r := range recs {
		if r.Type == TypeReview {
			continue
		}
		if r.Priority <= reviewPriority {
			t.Errorf("%s entry %q has priority %d, not after review %d", r.Type, r.Title, r.Priority, reviewPriority)
		}
	}
}

func TestGenerate_TestSoonRaisesUrgency(t *testing.T) {
	e := newTestEngine(t)
	snap := fullSnapshot()
	snap.TestDate = datep(10)

	recs := e.Generate(RecommendInputs{Snapshot: snap, Now: t0})
	for _, r := range recs {
		switch r.Type {
		case TypeReview, TypePractice:
			if r.Urgency != UrgencyHigh {
				t.Errorf("%q urgency = %q, want high", r.Title, r.Urgency)
			}
			if !strings.Contains(r.Reason, "10 days until your test") {
				t.Errorf("%q reason = %q, want countdown note", r.Title, r.Reason)
			}
		case TypeLesson:
			if r.Urgency != UrgencyLow {
				t.Errorf("lesson urgency = %q, want low", r.Urgency)
			}
			if strings.Contains(r.Reason, "until your test") {
				t.Errorf("lesson reason should not carry countdown: %q", r.Reason)
			}
		}
	}
}

func TestGenerate_TestFarAwayLeavesUrgency(t *testing.T) {
	e := newTestEngine(t)
	snap := fullSnapshot()
	snap.TestDate = datep(30)

	recs := e.Generate(RecommendInputs{Snapshot: snap, Now: t0})
	for _, r := range recs {
		if strings.Contains(r.Reason, "until your test") {
			t.Errorf("%q reason = %q, want no countdown", r.Title, r.Reason)
		}
	}
	if recs[1].Urgency != UrgencyMedium {
		t.Errorf("weak urgency = %q, want medium", recs[1].Urgency)
	}
}

func TestGenerate_TestDayNote(t *testing.T) {
	e := newTestEngine(t)
	snap := &Snapshot{
		TestDate: datep(0),
		Reviews:  []ReviewItem{{Key: qkey("q1"), NextReviewDate: t0}},
	}
	recs := e.Generate(RecommendInputs{Snapshot: snap, Now: t0})
	if !strings.HasSuffix(recs[0].Reason, "(your test is today)") {
		t.Errorf("reason = %q", recs[0].Reason)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	e := newTestEngine(t)
	first := e.Generate(RecommendInputs{Snapshot: fullSnapshot(), Now: t0})
	for i := 0; i < 10; i++ {
		again := e.Generate(RecommendInputs{Snapshot: fullSnapshot(), Now: t0})
		if len(again) != len(first) {
			t.Fatalf("run %d: len %d != %d", i, len(again), len(first))
		}
		for j := range first {
			if again[j].Title != first[j].Title || again[j].Priority != first[j].Priority {
				t.Fatalf("run %d: entry %d differs: %+v vs %+v", i, j, again[j], first[j])
			}
		}
	}
}

func TestRecordPractice(t *testing.T) {
	rec := RecordPractice(nil, 2)
	if rec.BestScore != 2 || rec.TotalAttempts != 1 {
		t.Errorf("first = %+v, want {2 1}", rec)
	}
	rec = RecordPractice(&rec, 1)
	if rec.BestScore != 2 || rec.TotalAttempts != 2 {
		t.Errorf("lower score = %+v, want {2 2}", rec)
	}
	rec = RecordPractice(&rec, 4)
	if rec.BestScore != 4 || rec.TotalAttempts != 3 {
		t.Errorf("higher score = %+v, want {4 3}", rec)
	}
}
