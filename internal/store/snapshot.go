package store

import (
	"context"
	"database/sql"

	"github.com/abhisek/satcoach/internal/personalize"
)

// LoadSnapshot reads the learner's goal, lessons, practice records and review
// queue in one transaction so the engine sees a consistent view.
func (s *Store) LoadSnapshot(ctx context.Context, learnerID string) (*personalize.Snapshot, error) {
	var snap *personalize.Snapshot
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		l, err := getLearner(ctx, tx, learnerID)
		if err != nil {
			return err
		}
		completed, err := loadLessons(ctx, tx, learnerID)
		if err != nil {
			return err
		}
		practice, err := loadPractice(ctx, tx, learnerID)
		if err != nil {
			return err
		}
		reviews, err := loadReviews(ctx, tx, learnerID)
		if err != nil {
			return err
		}
		snap = &personalize.Snapshot{
			Completed:   completed,
			Practice:    practice,
			Reviews:     reviews,
			TestDate:    l.TestDate,
			TargetScore: l.TargetScore,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}
