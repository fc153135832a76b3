package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/satcoach/internal/personalize"
)

type lessonRow struct {
	ModuleID    string       `sql:"module_id"`
	LessonID    string       `sql:"lesson_id"`
	Completed   bool         `sql:"completed"`
	CompletedAt sql.NullTime `sql:"completed_at"`
}

func (s *Store) SetLessonCompleted(ctx context.Context, learnerID string, key personalize.LessonKey, at time.Time) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireLearner(ctx, tx, learnerID); err != nil {
			return err
		}
		query, args := builder.Insert(tableLessons).
			Columns("learner_id", "module_id", "lesson_id", "completed", "completed_at").
			Values(learnerID, key.ModuleID, key.LessonID, true, at).
			OnConflict(
				entsql.ConflictColumns("learner_id", "module_id", "lesson_id"),
				entsql.ResolveWithNewValues(),
			).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("complete lesson %s: %w", key, err)
		}
		return nil
	})
}

func loadLessons(ctx context.Context, q querier, learnerID string) (map[personalize.LessonKey]personalize.LessonCompletion, error) {
	var rows []lessonRow
	sel := builder.Select("module_id", "lesson_id", "completed", "completed_at").
		From(builder.Table(tableLessons)).
		Where(entsql.EQ("learner_id", learnerID))
	if err := scanAll(ctx, q, sel, &rows); err != nil {
		return nil, fmt.Errorf("query lesson completions: %w", err)
	}
	out := make(map[personalize.LessonKey]personalize.LessonCompletion, len(rows))
	for _, r := range rows {
		key := personalize.LessonKey{ModuleID: r.ModuleID, LessonID: r.LessonID}
		out[key] = personalize.LessonCompletion{Completed: r.Completed, CompletedAt: r.CompletedAt.Time}
	}
	return out, nil
}
