// Package coach loads a learner's state, runs the personalization engine
// over it and persists what the learner did. It is the only caller of the
// engine that touches storage.
package coach

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abhisek/satcoach/internal/catalog"
	"github.com/abhisek/satcoach/internal/logging"
	"github.com/abhisek/satcoach/internal/personalize"
	"github.com/abhisek/satcoach/internal/store"
)

// readinessHistory is how many recent sessions readiness looks at.
const readinessHistory = 5

// Service wires the catalog, the engine and a store.Repo together.
type Service struct {
	repo   store.Repo
	engine *personalize.Engine
	log    *slog.Logger
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New returns a Service over repo using cat for course structure.
func New(repo store.Repo, cat *catalog.Catalog, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		engine: personalize.NewEngine(cat),
		log:    logging.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the catalog the engine was built with.
func (s *Service) Catalog() *catalog.Catalog {
	return s.engine.Catalog()
}

// CreateLearner registers a new learner.
func (s *Service) CreateLearner(ctx context.Context, name string) (*store.Learner, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "must not be empty")
	}
	l, err := s.repo.CreateLearner(ctx, name)
	if err != nil {
		return nil, err
	}
	s.log.Info("learner created", "learner", l.ID, "name", l.Name)
	return l, nil
}

// Learner returns one learner.
func (s *Service) Learner(ctx context.Context, learnerID string) (*store.Learner, error) {
	return s.repo.GetLearner(ctx, learnerID)
}

// Learners returns every learner, oldest first.
func (s *Service) Learners(ctx context.Context) ([]store.Learner, error) {
	return s.repo.ListLearners(ctx)
}

// SetGoal replaces the learner's test date and target score.
func (s *Service) SetGoal(ctx context.Context, learnerID string, testDate *time.Time, targetScore *int) error {
	if targetScore != nil && *targetScore <= 0 {
		return invalid("target_score", "must be positive, got %d", *targetScore)
	}
	if err := s.repo.SetGoal(ctx, learnerID, testDate, targetScore); err != nil {
		return err
	}
	s.log.Info("goal set", "learner", learnerID, "test_date", testDate, "target_score", targetScore)
	return nil
}

// AnswerResult is the review state after an answer was recorded.
type AnswerResult struct {
	Item     personalize.ReviewItem `json:"item"`
	Mastered bool                   `json:"mastered"`
}

// SubmitAnswer schedules the question's next review. Reaching the mastery
// streak removes the item from the queue.
func (s *Service) SubmitAnswer(ctx context.Context, learnerID string, key personalize.QuestionKey, correct bool) (AnswerResult, error) {
	if key.ModuleID == "" || key.SectionName == "" || key.QuestionID == "" {
		return AnswerResult{}, invalid("question", "module, section and question id are required")
	}
	s.warnUnknownModule(key.ModuleID)

	now := s.now()
	var res AnswerResult
	err := s.repo.MergeReviewItem(ctx, learnerID, key, func(prev *personalize.ReviewItem) (personalize.ReviewItem, bool) {
		res.Item, res.Mastered = personalize.RecordAnswer(prev, key, correct, now)
		return res.Item, res.Mastered
	})
	if err != nil {
		return AnswerResult{}, fmt.Errorf("record answer %s: %w", key, err)
	}

	s.log.Debug("answer recorded",
		"learner", learnerID,
		"question", key.String(),
		"correct", correct,
		"streak", res.Item.CorrectStreak,
		"next_review", res.Item.NextReviewDate)
	if res.Mastered {
		s.log.Info("question mastered", "learner", learnerID, "question", key.String())
	}
	return res, nil
}

// PracticeInput is one finished practice session.
type PracticeInput struct {
	Section personalize.SectionKey
	Score   int
	// TotalQuestions defaults to personalize.MaxBestScore.
	TotalQuestions int
}

// RecordPractice updates the section's best score and appends the session
// to the learner's history. Both are stored or neither is.
func (s *Service) RecordPractice(ctx context.Context, learnerID string, in PracticeInput) (personalize.PracticeRecord, error) {
	if in.Section.ModuleID == "" || in.Section.SectionName == "" {
		return personalize.PracticeRecord{}, invalid("section", "module and section name are required")
	}
	if in.Score < 0 || in.Score > personalize.MaxBestScore {
		return personalize.PracticeRecord{}, invalid("score", "must be between 0 and %d, got %d", personalize.MaxBestScore, in.Score)
	}
	total := in.TotalQuestions
	if total == 0 {
		total = personalize.MaxBestScore
	}
	if total < in.Score {
		return personalize.PracticeRecord{}, invalid("total_questions", "%d is less than score %d", total, in.Score)
	}
	s.warnUnknownModule(in.Section.ModuleID)

	session := personalize.SessionResult{
		Section:        in.Section,
		Score:          in.Score,
		TotalQuestions: total,
		At:             s.now(),
	}
	rec, err := s.repo.RecordPractice(ctx, learnerID, in.Section, func(prev *personalize.PracticeRecord) personalize.PracticeRecord {
		return personalize.RecordPractice(prev, in.Score)
	}, session)
	if err != nil {
		return personalize.PracticeRecord{}, fmt.Errorf("record practice %s: %w", in.Section, err)
	}

	s.log.Info("practice recorded",
		"learner", learnerID,
		"section", in.Section.String(),
		"score", in.Score,
		"best", rec.BestScore,
		"attempts", rec.TotalAttempts)
	return rec, nil
}

// CompleteLesson marks a catalog lesson as done.
func (s *Service) CompleteLesson(ctx context.Context, learnerID string, key personalize.LessonKey) error {
	if !s.hasLesson(key) {
		return invalid("lesson", "%s is not in the catalog", key)
	}
	if err := s.repo.SetLessonCompleted(ctx, learnerID, key, s.now()); err != nil {
		return fmt.Errorf("complete lesson: %w", err)
	}
	s.log.Info("lesson completed", "learner", learnerID, "lesson", key.String())
	return nil
}

func (s *Service) hasLesson(key personalize.LessonKey) bool {
	for _, l := range s.Catalog().Lessons(key.ModuleID) {
		if l.ID == key.LessonID {
			return true
		}
	}
	return false
}

func (s *Service) warnUnknownModule(moduleID string) {
	if _, ok := s.Catalog().Module(moduleID); !ok {
		s.log.Warn("module not in catalog, using default weight", "module", moduleID)
	}
}

// DueReviews returns the learner's due review items, most-missed first.
func (s *Service) DueReviews(ctx context.Context, learnerID string) ([]personalize.ReviewItem, error) {
	snap, err := s.repo.LoadSnapshot(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	return personalize.DueItems(snap.Reviews, s.now()), nil
}

// Recommendations returns the ranked "do this next" list.
func (s *Service) Recommendations(ctx context.Context, learnerID string) ([]personalize.Recommendation, error) {
	snap, err := s.repo.LoadSnapshot(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	return s.engine.Generate(personalize.RecommendInputs{Snapshot: snap, Now: s.now()}), nil
}

// Plan returns the study plan. ok is false when the learner has no goal.
func (s *Service) Plan(ctx context.Context, learnerID string) (plan *personalize.StudyPlan, ok bool, err error) {
	snap, err := s.repo.LoadSnapshot(ctx, learnerID)
	if err != nil {
		return nil, false, err
	}
	plan, ok = s.engine.BuildPlan(personalize.PlanInputs{Snapshot: snap, Now: s.now()})
	return plan, ok, nil
}

// Estimate returns the projected test score.
func (s *Service) Estimate(ctx context.Context, learnerID string) (personalize.ScoreEstimate, error) {
	snap, err := s.repo.LoadSnapshot(ctx, learnerID)
	if err != nil {
		return personalize.ScoreEstimate{}, err
	}
	return s.engine.Estimate(snap.Practice), nil
}

// Readiness assesses the learner's recent practice sessions.
func (s *Service) Readiness(ctx context.Context, learnerID string) (personalize.Readiness, error) {
	history, err := s.repo.RecentSessions(ctx, learnerID, readinessHistory)
	if err != nil {
		return personalize.Readiness{}, err
	}
	return personalize.AssessReadiness(history), nil
}

// SessionScore is a graded set of answers.
type SessionScore struct {
	personalize.WeightedResult
	NextDifficulty personalize.Difficulty `json:"next_difficulty"`
}

// ScoreSession grades answers in order and picks the difficulty for the
// next question from them.
func (s *Service) ScoreSession(answers []personalize.Answer) (SessionScore, error) {
	recent := make([]bool, len(answers))
	for i, a := range answers {
		if _, ok := personalize.ParseDifficulty(string(a.Difficulty)); !ok {
			return SessionScore{}, invalid("difficulty", "answer %d: unknown difficulty %q", i+1, a.Difficulty)
		}
		recent[i] = a.Correct
	}
	return SessionScore{
		WeightedResult: personalize.WeightedScore(answers),
		NextDifficulty: personalize.NextDifficulty(recent),
	}, nil
}
