package personalize

import (
	"fmt"
	"sort"
	"time"
)

// RecommendationType classifies a recommendation.
type RecommendationType string

const (
	TypeReview   RecommendationType = "review"
	TypePractice RecommendationType = "practice"
	TypeLesson   RecommendationType = "lesson"
	TypeBrowse   RecommendationType = "browse"
)

// Urgency is how strongly a recommendation should be surfaced.
type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

// Priority bands. Lower is more urgent.
const (
	PriorityReview      = 1
	PriorityWeakStart   = 2
	PriorityUnpracticed = 10
	PriorityLesson      = 20
	PriorityFallback    = 100
)

// Caps on how many entries some bands contribute.
const (
	MaxUnpracticed = 5
	MaxNextLessons = 3
	// WeakScoreThreshold is the highest best score still considered weak.
	WeakScoreThreshold = 3
	// UrgentWindowDays is how close the test must be before everything
	// review- or practice-related is marked urgent.
	UrgentWindowDays = 14
)

// Action tells the caller where a recommendation leads.
type Action struct {
	Kind        RecommendationType `json:"kind"`
	ModuleID    string             `json:"module_id,omitempty"`
	SectionName string             `json:"section_name,omitempty"`
	LessonID    string             `json:"lesson_id,omitempty"`
	Label       string             `json:"label"`
}

// Recommendation is one ranked "do this next" entry. It is recomputed on
// every call and never stored.
type Recommendation struct {
	Type       RecommendationType `json:"type"`
	Priority   int                `json:"priority"`
	Title      string             `json:"title"`
	Subtitle   string             `json:"subtitle"`
	Reason     string             `json:"reason"`
	Urgency    Urgency            `json:"urgency"`
	Difficulty Difficulty         `json:"difficulty,omitempty"`
	Action     Action             `json:"action"`
}

// SectionProgress pairs a section with its practice record.
type SectionProgress struct {
	Key    SectionKey     `json:"key"`
	Record PracticeRecord `json:"record"`
}

// LessonRef is a lesson the learner should take next.
type LessonRef struct {
	Key   LessonKey `json:"key"`
	Title string    `json:"title"`
}

// OptimalDifficulty picks the practice difficulty for a section given the
// learner's best score there. A nil score means the section is untried.
func OptimalDifficulty(bestScore *int) Difficulty {
	switch {
	case bestScore == nil || *bestScore <= 2:
		return DifficultyEasy
	case *bestScore <= 3:
		return DifficultyMedium
	default:
		return DifficultyHard
	}
}

// WeakSections returns sections with a best score at or below
// WeakScoreThreshold, lowest score first. Among equal scores, sections with
// fewer attempts come first so the learner tries them again before giving up
// on the pattern; remaining ties follow catalog order.
func (e *Engine) WeakSections(progress map[SectionKey]PracticeRecord) []SectionProgress {
	var weak []SectionProgress
	for key, rec := range progress {
		if rec.BestScore <= WeakScoreThreshold {
			weak = append(weak, SectionProgress{Key: key, Record: rec})
		}
	}

	sort.Slice(weak, func(i, j int) bool {
		a, b := weak[i], weak[j]
		if a.Record.BestScore != b.Record.BestScore {
			return a.Record.BestScore < b.Record.BestScore
		}
		if a.Record.TotalAttempts != b.Record.TotalAttempts {
			return a.Record.TotalAttempts < b.Record.TotalAttempts
		}
		return e.lessCatalog(a.Key, b.Key)
	})
	return weak
}

// lessCatalog orders sections by module position, then section position,
// then by name for sections the catalog does not know.
func (e *Engine) lessCatalog(a, b SectionKey) bool {
	mi, mj := e.catalog.ModuleIndex(a.ModuleID), e.catalog.ModuleIndex(b.ModuleID)
	if mi != mj {
		return mi < mj
	}
	if a.ModuleID != b.ModuleID {
		return a.ModuleID < b.ModuleID
	}
	si := e.catalog.SectionIndex(a.ModuleID, a.SectionName)
	sj := e.catalog.SectionIndex(b.ModuleID, b.SectionName)
	if si != sj {
		return si < sj
	}
	return a.SectionName < b.SectionName
}

// UnpracticedSections lists catalog sections the learner has never
// practiced, limited to modules where they have completed at least one lesson.
func (e *Engine) UnpracticedSections(snap *Snapshot) []SectionKey {
	if snap == nil {
		return nil
	}
	started := snap.completedModules()

	var out []SectionKey
	for _, m := range e.catalog.Modules() {
		if !started[m.ID] {
			continue
		}
		for _, section := range m.Sections {
			key := SectionKey{ModuleID: m.ID, SectionName: section}
			if _, practiced := snap.Practice[key]; practiced {
				continue
			}
			out = append(out, key)
			if len(out) == MaxUnpracticed {
				return out
			}
		}
	}
	return out
}

// NextLessons returns, for each module the learner has started, the first
// lesson they have not completed yet.
func (e *Engine) NextLessons(snap *Snapshot) []LessonRef {
	if snap == nil {
		return nil
	}
	started := snap.completedModules()

	var out []LessonRef
	for _, m := range e.catalog.Modules() {
		if !started[m.ID] {
			continue
		}
		for _, lesson := range m.Lessons {
			key := LessonKey{ModuleID: m.ID, LessonID: lesson.ID}
			if snap.Completed[key].Completed {
				continue
			}
			out = append(out, LessonRef{Key: key, Title: lesson.Title})
			break
		}
		if len(out) == MaxNextLessons {
			break
		}
	}
	return out
}

// RecommendInputs is the input to Generate.
type RecommendInputs struct {
	Snapshot *Snapshot
	Now      time.Time
}

// Generate merges due reviews, weak sections, unpracticed sections and next
// lessons into one ranked list. The list is never empty.
func (e *Engine) Generate(in RecommendInputs) []Recommendation {
	snap := in.Snapshot
	if snap == nil {
		snap = &Snapshot{}
	}

	var recs []Recommendation

	if due := DueCount(snap.Reviews, in.Now); due > 0 {
		recs = append(recs, Recommendation{
			Type:     TypeReview,
			Priority: PriorityReview,
			Title:    fmt.Sprintf("Review %d missed %s", due, plural(due, "question", "questions")),
			Subtitle: "Spaced repetition",
			Reason:   "These questions are due for review before they slip away",
			Urgency:  UrgencyHigh,
			Action:   Action{Kind: TypeReview, Label: "Start review"},
		})
	}

	for i, ws := range e.WeakSections(snap.Practice) {
		best := ws.Record.BestScore
		diff := OptimalDifficulty(&best)
		recs = append(recs, Recommendation{
			Type:       TypePractice,
			Priority:   PriorityWeakStart + i,
			Title:      ws.Key.SectionName,
			Subtitle:   e.catalog.Title(ws.Key.ModuleID),
			Reason:     fmt.Sprintf("Best score %d/%d after %d %s; practice at %s difficulty", best, MaxBestScore, ws.Record.TotalAttempts, plural(ws.Record.TotalAttempts, "attempt", "attempts"), diff),
			Urgency:    UrgencyMedium,
			Difficulty: diff,
			Action: Action{
				Kind:        TypePractice,
				ModuleID:    ws.Key.ModuleID,
				SectionName: ws.Key.SectionName,
				Label:       "Practice again",
			},
		})
	}

	for i, key := range e.UnpracticedSections(snap) {
		recs = append(recs, Recommendation{
			Type:       TypePractice,
			Priority:   PriorityUnpracticed + i,
			Title:      key.SectionName,
			Subtitle:   e.catalog.Title(key.ModuleID),
			Reason:     "You finished a lesson here but haven't practiced this section yet",
			Urgency:    UrgencyLow,
			Difficulty: DifficultyEasy,
			Action: Action{
				Kind:        TypePractice,
				ModuleID:    key.ModuleID,
				SectionName: key.SectionName,
				Label:       "Try it",
			},
		})
	}

	for i, lesson := range e.NextLessons(snap) {
		recs = append(recs, Recommendation{
			Type:     TypeLesson,
			Priority: PriorityLesson + i,
			Title:    lesson.Title,
			Subtitle: e.catalog.Title(lesson.Key.ModuleID),
			Reason:   "Next lesson in a module you've started",
			Urgency:  UrgencyLow,
			Action: Action{
				Kind:     TypeLesson,
				ModuleID: lesson.Key.ModuleID,
				LessonID: lesson.Key.LessonID,
				Label:    "Continue learning",
			},
		})
	}

	if len(recs) == 0 {
		recs = append(recs, Recommendation{
			Type:     TypeBrowse,
			Priority: PriorityFallback,
			Title:    "Pick a module to start",
			Subtitle: "Nothing pending",
			Reason:   "Complete a lesson to unlock personalized practice",
			Urgency:  UrgencyLow,
			Action:   Action{Kind: TypeBrowse, Label: "Browse modules"},
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority < recs[j].Priority
	})

	if days := DaysUntil(snap.TestDate, in.Now); days != nil && *days <= UrgentWindowDays {
		note := testCountdown(*days)
		for i := range recs {
			if recs[i].Type != TypeReview && recs[i].Type != TypePractice {
				continue
			}
			recs[i].Urgency = UrgencyHigh
			recs[i].Reason += " (" + note + ")"
		}
	}

	return recs
}

func testCountdown(days int) string {
	switch {
	case days <= 0:
		return "your test is today"
	case days == 1:
		return "1 day until your test"
	default:
		return fmt.Sprintf("%d days until your test", days)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
