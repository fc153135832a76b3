package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/satcoach/internal/personalize"
)

var (
	// ErrNotFound is returned when a learner does not exist.
	ErrNotFound = errors.New("learner not found")

	// ErrConflict is returned when a merge keeps losing to concurrent writers.
	ErrConflict = errors.New("concurrent update conflict")

	// ErrStaleRevision signals that a record changed between read and write.
	// Backends return it from a single merge attempt; Retry turns repeated
	// stale attempts into ErrConflict.
	ErrStaleRevision = errors.New("stale revision")
)

// MaxMergeAttempts bounds how often a merge is retried on a stale revision.
const MaxMergeAttempts = 5

// Learner is a profile the engine computes recommendations for.
type Learner struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	CreatedAt   time.Time  `json:"created_at"`
	TestDate    *time.Time `json:"test_date,omitempty"`
	TargetScore *int       `json:"target_score,omitempty"`
}

// ReviewMergeFunc computes the next state of a review item from its current
// state (nil if the learner has never answered the question). Returning
// remove=true deletes the item.
type ReviewMergeFunc func(prev *personalize.ReviewItem) (next personalize.ReviewItem, remove bool)

// PracticeMergeFunc computes the next practice record from the current one
// (nil if the section was never practiced).
type PracticeMergeFunc func(prev *personalize.PracticeRecord) personalize.PracticeRecord

// Repo is the persistence collaborator of the coach. Every keyed write is an
// atomic merge: the read, the merge function and the write happen as one unit
// so two writers on the same key cannot lose each other's update.
type Repo interface {
	// CreateLearner stores a new learner and returns it with a fresh id.
	CreateLearner(ctx context.Context, name string) (*Learner, error)

	// GetLearner returns the learner or ErrNotFound.
	GetLearner(ctx context.Context, learnerID string) (*Learner, error)

	// ListLearners returns all learners, oldest first.
	ListLearners(ctx context.Context) ([]Learner, error)

	// SetGoal replaces the learner's test date and target score. Nil clears.
	SetGoal(ctx context.Context, learnerID string, testDate *time.Time, targetScore *int) error

	// LoadSnapshot reads everything the engine needs about one learner.
	LoadSnapshot(ctx context.Context, learnerID string) (*personalize.Snapshot, error)

	// MergeReviewItem applies fn to the stored review item for key.
	MergeReviewItem(ctx context.Context, learnerID string, key personalize.QuestionKey, fn ReviewMergeFunc) error

	// MergePractice applies fn to the stored practice record for key and
	// returns the record that was written.
	MergePractice(ctx context.Context, learnerID string, key personalize.SectionKey, fn PracticeMergeFunc) (personalize.PracticeRecord, error)

	// SetLessonCompleted marks a lesson done. Completing twice keeps the
	// latest timestamp.
	SetLessonCompleted(ctx context.Context, learnerID string, key personalize.LessonKey, at time.Time) error

	// AppendSession records a finished practice session.
	AppendSession(ctx context.Context, learnerID string, result personalize.SessionResult) error

	// RecordPractice applies fn to the practice record for key and appends
	// session as one unit: either both are stored or neither is.
	RecordPractice(ctx context.Context, learnerID string, key personalize.SectionKey, fn PracticeMergeFunc, session personalize.SessionResult) (personalize.PracticeRecord, error)

	// RecentSessions returns up to limit sessions, oldest first.
	RecentSessions(ctx context.Context, learnerID string, limit int) ([]personalize.SessionResult, error)

	// Close releases the backend's resources.
	Close() error
}

// Retry runs attempt until it returns something other than ErrStaleRevision,
// at most MaxMergeAttempts times.
func Retry(ctx context.Context, attempt func() error) error {
	for i := 0; i < MaxMergeAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := attempt()
		if !errors.Is(err, ErrStaleRevision) {
			return err
		}
	}
	return ErrConflict
}
