package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

type learnerRow struct {
	ID          string        `sql:"id"`
	Name        string        `sql:"name"`
	CreatedAt   sql.NullTime  `sql:"created_at"`
	TestDate    sql.NullTime  `sql:"test_date"`
	TargetScore sql.NullInt64 `sql:"target_score"`
}

func (r learnerRow) learner() Learner {
	l := Learner{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt.Time}
	if r.TestDate.Valid {
		d := r.TestDate.Time
		l.TestDate = &d
	}
	if r.TargetScore.Valid {
		t := int(r.TargetScore.Int64)
		l.TargetScore = &t
	}
	return l
}

func selectLearners() *entsql.Selector {
	return builder.Select("id", "name", "created_at", "test_date", "target_score").
		From(builder.Table(tableLearners))
}

func (s *Store) CreateLearner(ctx context.Context, name string) (*Learner, error) {
	l := &Learner{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	query, args := builder.Insert(tableLearners).
		Columns("id", "name", "created_at").
		Values(l.ID, l.Name, l.CreatedAt).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("create learner: %w", err)
	}
	return l, nil
}

func (s *Store) GetLearner(ctx context.Context, learnerID string) (*Learner, error) {
	return getLearner(ctx, s.db, learnerID)
}

func getLearner(ctx context.Context, q querier, learnerID string) (*Learner, error) {
	var rows []learnerRow
	if err := scanAll(ctx, q, selectLearners().Where(entsql.EQ("id", learnerID)), &rows); err != nil {
		return nil, fmt.Errorf("query learner: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, learnerID)
	}
	l := rows[0].learner()
	return &l, nil
}

func (s *Store) ListLearners(ctx context.Context) ([]Learner, error) {
	var rows []learnerRow
	if err := scanAll(ctx, s.db, selectLearners().OrderBy("created_at", "id"), &rows); err != nil {
		return nil, fmt.Errorf("list learners: %w", err)
	}
	out := make([]Learner, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.learner())
	}
	return out, nil
}

func (s *Store) SetGoal(ctx context.Context, learnerID string, testDate *time.Time, targetScore *int) error {
	upd := builder.Update(tableLearners).Where(entsql.EQ("id", learnerID))
	if testDate != nil {
		upd.Set("test_date", *testDate)
	} else {
		upd.SetNull("test_date")
	}
	if targetScore != nil {
		upd.Set("target_score", *targetScore)
	} else {
		upd.SetNull("target_score")
	}

	query, args := upd.Query()
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set goal: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, learnerID)
	}
	return nil
}

// requireLearner fails with ErrNotFound unless the learner exists.
func requireLearner(ctx context.Context, q querier, learnerID string) error {
	_, err := getLearner(ctx, q, learnerID)
	return err
}
