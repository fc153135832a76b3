package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"

	"github.com/abhisek/satcoach/internal/personalize"
)

type reviewRow struct {
	ID             int          `sql:"id"`
	ModuleID       string       `sql:"module_id"`
	SectionName    string       `sql:"section_name"`
	QuestionID     string       `sql:"question_id"`
	CorrectStreak  int          `sql:"correct_streak"`
	WrongCount     int          `sql:"wrong_count"`
	LastAttempt    sql.NullTime `sql:"last_attempt"`
	NextReviewDate sql.NullTime `sql:"next_review_date"`
	LastWasCorrect bool         `sql:"last_was_correct"`
	Revision       int          `sql:"revision"`
}

func (r reviewRow) item() personalize.ReviewItem {
	return personalize.ReviewItem{
		Key: personalize.QuestionKey{
			ModuleID:    r.ModuleID,
			SectionName: r.SectionName,
			QuestionID:  r.QuestionID,
		},
		CorrectStreak:  r.CorrectStreak,
		WrongCount:     r.WrongCount,
		LastAttempt:    r.LastAttempt.Time,
		NextReviewDate: r.NextReviewDate.Time,
		LastWasCorrect: r.LastWasCorrect,
	}
}

func selectReviews() *entsql.Selector {
	return builder.Select(
		"id", "module_id", "section_name", "question_id",
		"correct_streak", "wrong_count", "last_attempt", "next_review_date",
		"last_was_correct", "revision",
	).From(builder.Table(tableReviews))
}

func reviewKeyPredicate(learnerID string, key personalize.QuestionKey) *entsql.Predicate {
	return entsql.And(
		entsql.EQ("learner_id", learnerID),
		entsql.EQ("module_id", key.ModuleID),
		entsql.EQ("section_name", key.SectionName),
		entsql.EQ("question_id", key.QuestionID),
	)
}

func (s *Store) MergeReviewItem(ctx context.Context, learnerID string, key personalize.QuestionKey, fn ReviewMergeFunc) error {
	if key.IsZero() {
		return fmt.Errorf("merge review item: empty key")
	}
	err := Retry(ctx, func() error {
		return s.withTx(ctx, func(tx *sql.Tx) error {
			return mergeReviewOnce(ctx, tx, learnerID, key, fn)
		})
	})
	if err != nil {
		return fmt.Errorf("merge review item %s: %w", key, err)
	}
	return nil
}

func mergeReviewOnce(ctx context.Context, tx *sql.Tx, learnerID string, key personalize.QuestionKey, fn ReviewMergeFunc) error {
	if err := requireLearner(ctx, tx, learnerID); err != nil {
		return err
	}

	var rows []reviewRow
	if err := scanAll(ctx, tx, selectReviews().Where(reviewKeyPredicate(learnerID, key)), &rows); err != nil {
		return fmt.Errorf("query review item: %w", err)
	}

	var prev *personalize.ReviewItem
	revision := 0
	if len(rows) > 0 {
		item := rows[0].item()
		prev = &item
		revision = rows[0].Revision
	}

	next, remove := fn(prev)

	var (
		query string
		args  []any
	)
	switch {
	case remove && prev == nil:
		return nil
	case remove:
		query, args = builder.Delete(tableReviews).
			Where(entsql.And(reviewKeyPredicate(learnerID, key), entsql.EQ("revision", revision))).
			Query()
	case prev == nil:
		query, args = builder.Insert(tableReviews).
			Columns("learner_id", "module_id", "section_name", "question_id",
				"correct_streak", "wrong_count", "last_attempt", "next_review_date",
				"last_was_correct", "revision").
			Values(learnerID, key.ModuleID, key.SectionName, key.QuestionID,
				next.CorrectStreak, next.WrongCount, next.LastAttempt, next.NextReviewDate,
				next.LastWasCorrect, 1).
			Query()
	default:
		query, args = builder.Update(tableReviews).
			Set("correct_streak", next.CorrectStreak).
			Set("wrong_count", next.WrongCount).
			Set("last_attempt", next.LastAttempt).
			Set("next_review_date", next.NextReviewDate).
			Set("last_was_correct", next.LastWasCorrect).
			Set("revision", revision+1).
			Where(entsql.And(reviewKeyPredicate(learnerID, key), entsql.EQ("revision", revision))).
			Query()
	}
	return execMerge(ctx, tx, query, args)
}

// execMerge runs a revision-guarded write. An insert that hits the unique
// index, or a guarded update that matches nothing, means another writer got
// there first.
func execMerge(ctx context.Context, tx *sql.Tx, query string, args []any) error {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		if sqlgraph.IsUniqueConstraintError(err) {
			return ErrStaleRevision
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrStaleRevision
	}
	return nil
}

func loadReviews(ctx context.Context, q querier, learnerID string) ([]personalize.ReviewItem, error) {
	var rows []reviewRow
	sel := selectReviews().Where(entsql.EQ("learner_id", learnerID)).OrderBy("id")
	if err := scanAll(ctx, q, sel, &rows); err != nil {
		return nil, fmt.Errorf("query review items: %w", err)
	}
	items := make([]personalize.ReviewItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.item())
	}
	return items, nil
}
