// Package mongostore implements store.Repo on MongoDB. Each keyed record is
// its own document guarded by a revision field, so merges are atomic per key
// without multi-document transactions.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/abhisek/satcoach/internal/personalize"
	"github.com/abhisek/satcoach/internal/store"
)

// Config selects the MongoDB deployment and database.
type Config struct {
	URI      string
	Database string
	PoolSize uint64
}

// Store is the MongoDB-backed store.Repo.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ store.Repo = (*Store)(nil)

// Open connects, verifies the connection and ensures indexes exist.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.PoolSize > 0 {
		opts.SetMaxPoolSize(cfg.PoolSize)
	}
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	s := &Store{client: client, db: client.Database(cfg.Database)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	unique := func(keys ...string) mongo.IndexModel {
		d := bson.D{}
		for _, k := range keys {
			d = append(d, bson.E{Key: k, Value: 1})
		}
		return mongo.IndexModel{Keys: d, Options: options.Index().SetUnique(true)}
	}

	indexes := map[string][]mongo.IndexModel{
		collReviews: {
			unique("learner_id", "module_id", "section_name", "question_id"),
			{Keys: bson.D{{Key: "learner_id", Value: 1}, {Key: "next_review_date", Value: 1}}},
		},
		collPractice: {unique("learner_id", "module_id", "section_name")},
		collLessons:  {unique("learner_id", "module_id", "lesson_id")},
		collSessions: {{Keys: bson.D{{Key: "learner_id", Value: 1}, {Key: "_id", Value: -1}}}},
	}
	for coll, models := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", coll, err)
		}
	}
	return nil
}

// Close disconnects from the deployment.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) CreateLearner(ctx context.Context, name string) (*store.Learner, error) {
	doc := learnerDoc{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.db.Collection(collLearners).InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("create learner: %w", err)
	}
	l := doc.learner()
	return &l, nil
}

func (s *Store) GetLearner(ctx context.Context, learnerID string) (*store.Learner, error) {
	var doc learnerDoc
	err := s.db.Collection(collLearners).FindOne(ctx, bson.M{"_id": learnerID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", store.ErrNotFound, learnerID)
		}
		return nil, fmt.Errorf("get learner: %w", err)
	}
	l := doc.learner()
	return &l, nil
}

func (s *Store) ListLearners(ctx context.Context) ([]store.Learner, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.db.Collection(collLearners).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list learners: %w", err)
	}
	var docs []learnerDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode learners: %w", err)
	}
	out := make([]store.Learner, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.learner())
	}
	return out, nil
}

func (s *Store) SetGoal(ctx context.Context, learnerID string, testDate *time.Time, targetScore *int) error {
	res, err := s.db.Collection(collLearners).UpdateOne(ctx, bson.M{"_id": learnerID}, goalUpdate(testDate, targetScore))
	if err != nil {
		return fmt.Errorf("set goal: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", store.ErrNotFound, learnerID)
	}
	return nil
}

func (s *Store) requireLearner(ctx context.Context, learnerID string) error {
	n, err := s.db.Collection(collLearners).CountDocuments(ctx, bson.M{"_id": learnerID})
	if err != nil {
		return fmt.Errorf("check learner: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", store.ErrNotFound, learnerID)
	}
	return nil
}

func (s *Store) LoadSnapshot(ctx context.Context, learnerID string) (*personalize.Snapshot, error) {
	l, err := s.GetLearner(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	snap := &personalize.Snapshot{
		Completed:   make(map[personalize.LessonKey]personalize.LessonCompletion),
		Practice:    make(map[personalize.SectionKey]personalize.PracticeRecord),
		TestDate:    l.TestDate,
		TargetScore: l.TargetScore,
	}
	byLearner := bson.M{"learner_id": learnerID}

	var lessons []lessonDoc
	if err := s.findAll(ctx, collLessons, byLearner, nil, &lessons); err != nil {
		return nil, err
	}
	for _, d := range lessons {
		key := personalize.LessonKey{ModuleID: d.ModuleID, LessonID: d.LessonID}
		snap.Completed[key] = personalize.LessonCompletion{Completed: d.Completed, CompletedAt: d.CompletedAt}
	}

	var practice []practiceDoc
	if err := s.findAll(ctx, collPractice, byLearner, nil, &practice); err != nil {
		return nil, err
	}
	for _, d := range practice {
		key := personalize.SectionKey{ModuleID: d.ModuleID, SectionName: d.SectionName}
		snap.Practice[key] = personalize.PracticeRecord{BestScore: d.BestScore, TotalAttempts: d.TotalAttempts}
	}

	// ObjectIDs grow with insertion time, so _id order is encounter order.
	var reviews []reviewDoc
	if err := s.findAll(ctx, collReviews, byLearner, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}), &reviews); err != nil {
		return nil, err
	}
	for _, d := range reviews {
		snap.Reviews = append(snap.Reviews, d.item())
	}
	return snap, nil
}

func (s *Store) findAll(ctx context.Context, coll string, filter any, opts *options.FindOptionsBuilder, out any) error {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = s.db.Collection(coll).Find(ctx, filter, opts)
	} else {
		cursor, err = s.db.Collection(coll).Find(ctx, filter)
	}
	if err != nil {
		return fmt.Errorf("query %s: %w", coll, err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s: %w", coll, err)
	}
	return nil
}

// collection is the part of *mongo.Collection the keyed merges use.
type collection interface {
	FindOne(ctx context.Context, filter any, opts ...options.Lister[options.FindOneOptions]) *mongo.SingleResult
	InsertOne(ctx context.Context, document any, opts ...options.Lister[options.InsertOneOptions]) (*mongo.InsertOneResult, error)
	UpdateOne(ctx context.Context, filter any, update any, opts ...options.Lister[options.UpdateOneOptions]) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter any, opts ...options.Lister[options.DeleteOneOptions]) (*mongo.DeleteResult, error)
}

func (s *Store) MergeReviewItem(ctx context.Context, learnerID string, key personalize.QuestionKey, fn store.ReviewMergeFunc) error {
	if key.IsZero() {
		return errors.New("merge review item: empty key")
	}
	if err := s.requireLearner(ctx, learnerID); err != nil {
		return err
	}
	if err := mergeReview(ctx, s.db.Collection(collReviews), learnerID, key, fn); err != nil {
		return fmt.Errorf("merge review item %s: %w", key, err)
	}
	return nil
}

func mergeReview(ctx context.Context, coll collection, learnerID string, key personalize.QuestionKey, fn store.ReviewMergeFunc) error {
	filter := reviewFilter(learnerID, key)
	return store.Retry(ctx, func() error {
		var prevDoc reviewDoc
		var prev *personalize.ReviewItem
		err := coll.FindOne(ctx, filter).Decode(&prevDoc)
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
		case err != nil:
			return err
		default:
			item := prevDoc.item()
			prev = &item
		}

		next, remove := fn(prev)
		switch {
		case remove && prev == nil:
			return nil
		case remove:
			res, err := coll.DeleteOne(ctx, atRevision(filter, prevDoc.Revision))
			if err != nil {
				return err
			}
			if res.DeletedCount == 0 {
				return store.ErrStaleRevision
			}
			return nil
		case prev == nil:
			next.Key = key
			if _, err := coll.InsertOne(ctx, newReviewDoc(learnerID, next)); err != nil {
				if mongo.IsDuplicateKeyError(err) {
					return store.ErrStaleRevision
				}
				return err
			}
			return nil
		default:
			res, err := coll.UpdateOne(ctx, atRevision(filter, prevDoc.Revision), reviewUpdate(next, prevDoc.Revision))
			if err != nil {
				return err
			}
			if res.MatchedCount == 0 {
				return store.ErrStaleRevision
			}
			return nil
		}
	})
}

func (s *Store) MergePractice(ctx context.Context, learnerID string, key personalize.SectionKey, fn store.PracticeMergeFunc) (personalize.PracticeRecord, error) {
	if err := s.requireLearner(ctx, learnerID); err != nil {
		return personalize.PracticeRecord{}, err
	}
	rec, err := mergePractice(ctx, s.db.Collection(collPractice), learnerID, key, fn)
	if err != nil {
		return personalize.PracticeRecord{}, fmt.Errorf("merge practice %s: %w", key, err)
	}
	return rec, nil
}

func mergePractice(ctx context.Context, coll collection, learnerID string, key personalize.SectionKey, fn store.PracticeMergeFunc) (personalize.PracticeRecord, error) {
	filter := practiceFilter(learnerID, key)

	var written personalize.PracticeRecord
	err := store.Retry(ctx, func() error {
		var prevDoc practiceDoc
		var prev *personalize.PracticeRecord
		err := coll.FindOne(ctx, filter).Decode(&prevDoc)
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
		case err != nil:
			return err
		default:
			prev = &personalize.PracticeRecord{BestScore: prevDoc.BestScore, TotalAttempts: prevDoc.TotalAttempts}
		}

		next := fn(prev)
		if prev == nil {
			_, err := coll.InsertOne(ctx, practiceDoc{
				LearnerID:     learnerID,
				ModuleID:      key.ModuleID,
				SectionName:   key.SectionName,
				BestScore:     next.BestScore,
				TotalAttempts: next.TotalAttempts,
				Revision:      1,
			})
			if mongo.IsDuplicateKeyError(err) {
				return store.ErrStaleRevision
			}
			if err != nil {
				return err
			}
		} else {
			res, err := coll.UpdateOne(ctx, atRevision(filter, prevDoc.Revision), practiceUpdate(next, prevDoc.Revision))
			if err != nil {
				return err
			}
			if res.MatchedCount == 0 {
				return store.ErrStaleRevision
			}
		}
		written = next
		return nil
	})
	if err != nil {
		return personalize.PracticeRecord{}, err
	}
	return written, nil
}

// RecordPractice stores the session and merges the practice record. Without
// multi-document transactions on standalone servers, the session goes in
// first and is removed again when the merge fails.
func (s *Store) RecordPractice(ctx context.Context, learnerID string, key personalize.SectionKey, fn store.PracticeMergeFunc, session personalize.SessionResult) (personalize.PracticeRecord, error) {
	if err := s.requireLearner(ctx, learnerID); err != nil {
		return personalize.PracticeRecord{}, err
	}
	rec, err := recordPractice(ctx, s.db.Collection(collPractice), s.db.Collection(collSessions), learnerID, key, fn, session)
	if err != nil {
		return personalize.PracticeRecord{}, fmt.Errorf("record practice %s: %w", key, err)
	}
	return rec, nil
}

func recordPractice(ctx context.Context, practice, sessions collection, learnerID string, key personalize.SectionKey, fn store.PracticeMergeFunc, session personalize.SessionResult) (personalize.PracticeRecord, error) {
	doc := newSessionDoc(learnerID, session)
	doc.ID = bson.NewObjectID()
	if _, err := sessions.InsertOne(ctx, doc); err != nil {
		return personalize.PracticeRecord{}, fmt.Errorf("save practice session: %w", err)
	}

	rec, err := mergePractice(ctx, practice, learnerID, key, fn)
	if err != nil {
		if _, derr := sessions.DeleteOne(context.WithoutCancel(ctx), bson.D{{Key: "_id", Value: doc.ID}}); derr != nil {
			err = errors.Join(err, fmt.Errorf("remove practice session: %w", derr))
		}
		return personalize.PracticeRecord{}, err
	}
	return rec, nil
}

func (s *Store) SetLessonCompleted(ctx context.Context, learnerID string, key personalize.LessonKey, at time.Time) error {
	if err := s.requireLearner(ctx, learnerID); err != nil {
		return err
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "completed", Value: true},
		{Key: "completed_at", Value: at},
	}}}
	_, err := s.db.Collection(collLessons).UpdateOne(ctx, lessonFilter(learnerID, key), update, options.UpdateOne().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("complete lesson %s: %w", key, err)
	}
	return nil
}

func (s *Store) AppendSession(ctx context.Context, learnerID string, result personalize.SessionResult) error {
	if err := s.requireLearner(ctx, learnerID); err != nil {
		return err
	}
	_, err := s.db.Collection(collSessions).InsertOne(ctx, newSessionDoc(learnerID, result))
	if err != nil {
		return fmt.Errorf("save practice session: %w", err)
	}
	return nil
}

func (s *Store) RecentSessions(ctx context.Context, learnerID string, limit int) ([]personalize.SessionResult, error) {
	if err := s.requireLearner(ctx, learnerID); err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	var docs []sessionDoc
	if err := s.findAll(ctx, collSessions, bson.M{"learner_id": learnerID}, opts, &docs); err != nil {
		return nil, err
	}
	return chronological(docs), nil
}
