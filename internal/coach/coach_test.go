package coach

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/satcoach/internal/catalog"
	"github.com/abhisek/satcoach/internal/personalize"
	"github.com/abhisek/satcoach/internal/store"
)

var (
	t0      = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	qSolve  = personalize.QuestionKey{ModuleID: "linear-equations", SectionName: "One-Variable Equations", QuestionID: "q1"}
	secOneV = personalize.SectionKey{ModuleID: "linear-equations", SectionName: "One-Variable Equations"}
)

// clock is a settable time source.
type clock struct{ now time.Time }

func (c *clock) Now() time.Time          { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fixture struct {
	svc     *Service
	repo    *store.Store
	clock   *clock
	learner string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo, err := store.Open("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	c := &clock{now: t0}
	svc := New(repo, catalog.Default(), WithClock(c.Now))

	l, err := svc.CreateLearner(context.Background(), "Ada")
	require.NoError(t, err)
	return &fixture{svc: svc, repo: repo, clock: c, learner: l.ID}
}

func requireInvalid(t *testing.T, err error, field string) {
	t.Helper()
	var inv *ErrInvalidInput
	require.True(t, errors.As(err, &inv), "want ErrInvalidInput, got %v", err)
	assert.Equal(t, field, inv.Field)
}

func TestCreateLearner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateLearner(ctx, "   ")
	requireInvalid(t, err, "name")

	l, err := f.svc.CreateLearner(ctx, " Grace ")
	require.NoError(t, err)
	assert.Equal(t, "Grace", l.Name)

	all, err := f.svc.Learners(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSubmitAnswer_WrongThenDue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.SubmitAnswer(ctx, f.learner, qSolve, false)
	require.NoError(t, err)
	assert.False(t, res.Mastered)
	assert.Equal(t, 1, res.Item.WrongCount)
	assert.Equal(t, t0.AddDate(0, 0, 1), res.Item.NextReviewDate)

	due, err := f.svc.DueReviews(ctx, f.learner)
	require.NoError(t, err)
	assert.Empty(t, due)

	f.clock.Advance(25 * time.Hour)
	due, err = f.svc.DueReviews(ctx, f.learner)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, qSolve, due[0].Key)
}

func TestSubmitAnswer_MasteryRemovesItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var res AnswerResult
	for i := 0; i < personalize.MasteryStreak; i++ {
		var err error
		res, err = f.svc.SubmitAnswer(ctx, f.learner, qSolve, true)
		require.NoError(t, err)
		if i < personalize.MasteryStreak-1 {
			assert.False(t, res.Mastered, "answer %d", i+1)
		}
		f.clock.Advance(24 * time.Hour)
	}
	assert.True(t, res.Mastered)

	snap, err := f.repo.LoadSnapshot(ctx, f.learner)
	require.NoError(t, err)
	assert.Empty(t, snap.Reviews)
}

func TestSubmitAnswer_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SubmitAnswer(ctx, f.learner, personalize.QuestionKey{ModuleID: "circles"}, true)
	requireInvalid(t, err, "question")

	_, err = f.svc.SubmitAnswer(ctx, "nobody", qSolve, true)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRecordPractice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, score := range []int{2, 4, 3} {
		_, err := f.svc.RecordPractice(ctx, f.learner, PracticeInput{Section: secOneV, Score: score})
		require.NoError(t, err)
		f.clock.Advance(time.Hour)
	}

	snap, err := f.repo.LoadSnapshot(ctx, f.learner)
	require.NoError(t, err)
	assert.Equal(t, personalize.PracticeRecord{BestScore: 4, TotalAttempts: 3}, snap.Practice[secOneV])

	history, err := f.repo.RecentSessions(ctx, f.learner, 10)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, 2, history[0].Score)
	assert.Equal(t, personalize.MaxBestScore, history[0].TotalQuestions)
	assert.Equal(t, t0, history[0].At.UTC())
}

// splitWriteRepo rejects the standalone practice writes, so only the
// combined RecordPractice path can store anything.
type splitWriteRepo struct {
	*store.Store
	failRecord bool
}

func (r *splitWriteRepo) MergePractice(context.Context, string, personalize.SectionKey, store.PracticeMergeFunc) (personalize.PracticeRecord, error) {
	return personalize.PracticeRecord{}, errors.New("merge practice unavailable")
}

func (r *splitWriteRepo) AppendSession(context.Context, string, personalize.SessionResult) error {
	return errors.New("append session unavailable")
}

func (r *splitWriteRepo) RecordPractice(ctx context.Context, learnerID string, key personalize.SectionKey, fn store.PracticeMergeFunc, session personalize.SessionResult) (personalize.PracticeRecord, error) {
	if r.failRecord {
		r.failRecord = false
		return personalize.PracticeRecord{}, errors.New("session write failed")
	}
	return r.Store.RecordPractice(ctx, learnerID, key, fn, session)
}

func TestRecordPractice_RetryAfterFailureCountsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	repo := &splitWriteRepo{Store: f.repo, failRecord: true}
	svc := New(repo, catalog.Default(), WithClock(f.clock.Now))

	in := PracticeInput{Section: secOneV, Score: 2}
	_, err := svc.RecordPractice(ctx, f.learner, in)
	require.Error(t, err)

	snap, err := f.repo.LoadSnapshot(ctx, f.learner)
	require.NoError(t, err)
	assert.NotContains(t, snap.Practice, secOneV)

	rec, err := svc.RecordPractice(ctx, f.learner, in)
	require.NoError(t, err)
	assert.Equal(t, personalize.PracticeRecord{BestScore: 2, TotalAttempts: 1}, rec)

	history, err := f.repo.RecentSessions(ctx, f.learner, 0)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestRecordPractice_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		in    PracticeInput
		field string
	}{
		{"no section", PracticeInput{Score: 3}, "section"},
		{"negative score", PracticeInput{Section: secOneV, Score: -1}, "score"},
		{"score above max", PracticeInput{Section: secOneV, Score: 6}, "score"},
		{"fewer questions than score", PracticeInput{Section: secOneV, Score: 4, TotalQuestions: 3}, "total_questions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.RecordPractice(context.Background(), f.learner, tt.in)
			requireInvalid(t, err, tt.field)
		})
	}
}

func TestReadiness(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r, err := f.svc.Readiness(ctx, f.learner)
	require.NoError(t, err)
	assert.Equal(t, personalize.ReadinessNeedMoreData, r.Recommendation)

	for i := 0; i < 6; i++ {
		_, err := f.svc.RecordPractice(ctx, f.learner, PracticeInput{Section: secOneV, Score: 5})
		require.NoError(t, err)
	}
	r, err = f.svc.Readiness(ctx, f.learner)
	require.NoError(t, err)
	assert.True(t, r.Ready)
	assert.Equal(t, 5, r.Sessions)
	assert.InDelta(t, 100, r.AverageScore, 0.001)
}

func TestCompleteLesson(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.svc.CompleteLesson(ctx, f.learner, personalize.LessonKey{ModuleID: "linear-equations", LessonID: "nope"})
	requireInvalid(t, err, "lesson")

	key := personalize.LessonKey{ModuleID: "linear-equations", LessonID: "solving-for-x"}
	require.NoError(t, f.svc.CompleteLesson(ctx, f.learner, key))

	snap, err := f.repo.LoadSnapshot(ctx, f.learner)
	require.NoError(t, err)
	assert.True(t, snap.Completed[key].Completed)
	assert.Equal(t, t0, snap.Completed[key].CompletedAt.UTC())

	err = f.svc.CompleteLesson(ctx, "nobody", key)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPlanAndGoal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, ok, err := f.svc.Plan(ctx, f.learner)
	require.NoError(t, err)
	assert.False(t, ok)

	bad := 0
	requireInvalid(t, f.svc.SetGoal(ctx, f.learner, nil, &bad), "target_score")

	date := t0.AddDate(0, 0, 30)
	target := 1400
	require.NoError(t, f.svc.SetGoal(ctx, f.learner, &date, &target))

	plan, ok, err := f.svc.Plan(ctx, f.learner)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, plan.DaysLeft)
	assert.Equal(t, 30, *plan.DaysLeft)
	assert.Equal(t, 1400, plan.TargetScore)
	assert.Equal(t, 400, plan.ScoreGap)
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SubmitAnswer(ctx, f.learner, qSolve, false)
	require.NoError(t, err)
	_, err = f.svc.RecordPractice(ctx, f.learner, PracticeInput{Section: secOneV, Score: 1})
	require.NoError(t, err)
	f.clock.Advance(48 * time.Hour)

	d, err := f.svc.Dashboard(ctx, f.learner)
	require.NoError(t, err)
	assert.Equal(t, f.learner, d.Learner.ID)
	assert.Equal(t, catalog.Default().Version(), d.CatalogVersion)
	assert.Nil(t, d.Plan)
	require.Len(t, d.DueReviews, 1)
	require.NotEmpty(t, d.Recommendations)
	assert.Equal(t, personalize.TypeReview, d.Recommendations[0].Type)
	assert.Equal(t, personalize.ReadinessNeedMoreData, d.Readiness.Recommendation)

	_, err = f.svc.Dashboard(ctx, "nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestEstimate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	est, err := f.svc.Estimate(ctx, f.learner)
	require.NoError(t, err)
	assert.Equal(t, personalize.ScoreEstimate{MathScore: 500, EstimatedTotal: 1000}, est)
}

func TestScoreSession(t *testing.T) {
	svc := New(nil, catalog.Default())

	got, err := svc.ScoreSession([]personalize.Answer{
		{Correct: true, Difficulty: personalize.DifficultyEasy},
		{Correct: true, Difficulty: personalize.DifficultyMedium},
		{Correct: true, Difficulty: personalize.DifficultyHard},
	})
	require.NoError(t, err)
	assert.Equal(t, 4.5, got.Score)
	assert.Equal(t, 100, got.Percentage)
	assert.Equal(t, personalize.DifficultyHard, got.NextDifficulty)

	empty, err := svc.ScoreSession(nil)
	require.NoError(t, err)
	assert.Equal(t, personalize.DifficultyMedium, empty.NextDifficulty)

	_, err = svc.ScoreSession([]personalize.Answer{{Correct: true, Difficulty: "brutal"}})
	requireInvalid(t, err, "difficulty")
}
