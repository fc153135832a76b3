package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/satcoach/internal/personalize"
)

type sessionRow struct {
	ID             int          `sql:"id"`
	ModuleID       string       `sql:"module_id"`
	SectionName    string       `sql:"section_name"`
	Score          int          `sql:"score"`
	TotalQuestions int          `sql:"total_questions"`
	CreatedAt      sql.NullTime `sql:"created_at"`
}

func (s *Store) AppendSession(ctx context.Context, learnerID string, result personalize.SessionResult) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireLearner(ctx, tx, learnerID); err != nil {
			return err
		}
		return insertSession(ctx, tx, learnerID, result)
	})
}

func insertSession(ctx context.Context, tx *sql.Tx, learnerID string, result personalize.SessionResult) error {
	query, args := builder.Insert(tableSessions).
		Columns("learner_id", "module_id", "section_name", "score", "total_questions", "created_at").
		Values(learnerID, result.Section.ModuleID, result.Section.SectionName,
			result.Score, result.TotalQuestions, result.At).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save practice session: %w", err)
	}
	return nil
}

func (s *Store) RecentSessions(ctx context.Context, learnerID string, limit int) ([]personalize.SessionResult, error) {
	if err := requireLearner(ctx, s.db, learnerID); err != nil {
		return nil, err
	}

	sel := builder.Select("id", "module_id", "section_name", "score", "total_questions", "created_at").
		From(builder.Table(tableSessions)).
		Where(entsql.EQ("learner_id", learnerID)).
		OrderBy(entsql.Desc("id"))
	if limit > 0 {
		sel.Limit(limit)
	}

	var rows []sessionRow
	if err := scanAll(ctx, s.db, sel, &rows); err != nil {
		return nil, fmt.Errorf("query practice sessions: %w", err)
	}

	// Newest first from the query; callers want chronological order.
	out := make([]personalize.SessionResult, len(rows))
	for i, r := range rows {
		out[len(rows)-1-i] = personalize.SessionResult{
			Section:        personalize.SectionKey{ModuleID: r.ModuleID, SectionName: r.SectionName},
			Score:          r.Score,
			TotalQuestions: r.TotalQuestions,
			At:             r.CreatedAt.Time,
		}
	}
	return out, nil
}
