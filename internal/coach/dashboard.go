package coach

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/satcoach/internal/personalize"
	"github.com/abhisek/satcoach/internal/store"
)

// Dashboard is everything a learner's home view shows, computed from one
// snapshot.
type Dashboard struct {
	Learner         store.Learner                `json:"learner"`
	CatalogVersion  string                       `json:"catalog_version"`
	Estimate        personalize.ScoreEstimate    `json:"estimate"`
	Plan            *personalize.StudyPlan       `json:"plan,omitempty"`
	Recommendations []personalize.Recommendation `json:"recommendations"`
	DueReviews      []personalize.ReviewItem     `json:"due_reviews"`
	Readiness       personalize.Readiness        `json:"readiness"`
}

// Dashboard loads the learner, their snapshot and recent sessions in
// parallel and runs every engine component over them.
func (s *Service) Dashboard(ctx context.Context, learnerID string) (*Dashboard, error) {
	var (
		learner *store.Learner
		snap    *personalize.Snapshot
		history []personalize.SessionResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		learner, err = s.repo.GetLearner(gctx, learnerID)
		return err
	})
	g.Go(func() error {
		var err error
		snap, err = s.repo.LoadSnapshot(gctx, learnerID)
		return err
	})
	g.Go(func() error {
		var err error
		history, err = s.repo.RecentSessions(gctx, learnerID, readinessHistory)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.now()
	d := &Dashboard{
		Learner:         *learner,
		CatalogVersion:  s.Catalog().Version(),
		Estimate:        s.engine.Estimate(snap.Practice),
		Recommendations: s.engine.Generate(personalize.RecommendInputs{Snapshot: snap, Now: now}),
		DueReviews:      personalize.DueItems(snap.Reviews, now),
		Readiness:       personalize.AssessReadiness(history),
	}
	if plan, ok := s.engine.BuildPlan(personalize.PlanInputs{Snapshot: snap, Now: now}); ok {
		d.Plan = plan
	}

	s.log.Debug("dashboard built",
		"learner", learnerID,
		"due", len(d.DueReviews),
		"recommendations", len(d.Recommendations),
		"math_score", d.Estimate.MathScore)
	return d, nil
}
