package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/satcoach/internal/personalize"
)

type practiceRow struct {
	ModuleID      string `sql:"module_id"`
	SectionName   string `sql:"section_name"`
	BestScore     int    `sql:"best_score"`
	TotalAttempts int    `sql:"total_attempts"`
	Revision      int    `sql:"revision"`
}

func selectPractice() *entsql.Selector {
	return builder.Select("module_id", "section_name", "best_score", "total_attempts", "revision").
		From(builder.Table(tablePractice))
}

func practiceKeyPredicate(learnerID string, key personalize.SectionKey) *entsql.Predicate {
	return entsql.And(
		entsql.EQ("learner_id", learnerID),
		entsql.EQ("module_id", key.ModuleID),
		entsql.EQ("section_name", key.SectionName),
	)
}

func (s *Store) MergePractice(ctx context.Context, learnerID string, key personalize.SectionKey, fn PracticeMergeFunc) (personalize.PracticeRecord, error) {
	var written personalize.PracticeRecord
	err := Retry(ctx, func() error {
		return s.withTx(ctx, func(tx *sql.Tx) error {
			rec, err := mergePracticeOnce(ctx, tx, learnerID, key, fn)
			written = rec
			return err
		})
	})
	if err != nil {
		return personalize.PracticeRecord{}, fmt.Errorf("merge practice %s: %w", key, err)
	}
	return written, nil
}

// RecordPractice merges the practice record and appends the session in one
// transaction. A failed session insert rolls the merge back.
func (s *Store) RecordPractice(ctx context.Context, learnerID string, key personalize.SectionKey, fn PracticeMergeFunc, session personalize.SessionResult) (personalize.PracticeRecord, error) {
	var written personalize.PracticeRecord
	err := Retry(ctx, func() error {
		return s.withTx(ctx, func(tx *sql.Tx) error {
			rec, err := mergePracticeOnce(ctx, tx, learnerID, key, fn)
			if err != nil {
				return err
			}
			if err := insertSession(ctx, tx, learnerID, session); err != nil {
				return err
			}
			written = rec
			return nil
		})
	})
	if err != nil {
		return personalize.PracticeRecord{}, fmt.Errorf("record practice %s: %w", key, err)
	}
	return written, nil
}

func mergePracticeOnce(ctx context.Context, tx *sql.Tx, learnerID string, key personalize.SectionKey, fn PracticeMergeFunc) (personalize.PracticeRecord, error) {
	if err := requireLearner(ctx, tx, learnerID); err != nil {
		return personalize.PracticeRecord{}, err
	}

	var rows []practiceRow
	if err := scanAll(ctx, tx, selectPractice().Where(practiceKeyPredicate(learnerID, key)), &rows); err != nil {
		return personalize.PracticeRecord{}, fmt.Errorf("query practice record: %w", err)
	}

	var prev *personalize.PracticeRecord
	revision := 0
	if len(rows) > 0 {
		prev = &personalize.PracticeRecord{BestScore: rows[0].BestScore, TotalAttempts: rows[0].TotalAttempts}
		revision = rows[0].Revision
	}

	next := fn(prev)

	var (
		query string
		args  []any
	)
	if prev == nil {
		query, args = builder.Insert(tablePractice).
			Columns("learner_id", "module_id", "section_name", "best_score", "total_attempts", "revision").
			Values(learnerID, key.ModuleID, key.SectionName, next.BestScore, next.TotalAttempts, 1).
			Query()
	} else {
		query, args = builder.Update(tablePractice).
			Set("best_score", next.BestScore).
			Set("total_attempts", next.TotalAttempts).
			Set("revision", revision+1).
			Where(entsql.And(practiceKeyPredicate(learnerID, key), entsql.EQ("revision", revision))).
			Query()
	}
	if err := execMerge(ctx, tx, query, args); err != nil {
		return personalize.PracticeRecord{}, err
	}
	return next, nil
}

func loadPractice(ctx context.Context, q querier, learnerID string) (map[personalize.SectionKey]personalize.PracticeRecord, error) {
	var rows []practiceRow
	if err := scanAll(ctx, q, selectPractice().Where(entsql.EQ("learner_id", learnerID)), &rows); err != nil {
		return nil, fmt.Errorf("query practice records: %w", err)
	}
	out := make(map[personalize.SectionKey]personalize.PracticeRecord, len(rows))
	for _, r := range rows {
		key := personalize.SectionKey{ModuleID: r.ModuleID, SectionName: r.SectionName}
		out[key] = personalize.PracticeRecord{BestScore: r.BestScore, TotalAttempts: r.TotalAttempts}
	}
	return out, nil
}
