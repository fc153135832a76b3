package mongostore

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/abhisek/satcoach/internal/personalize"
	"github.com/abhisek/satcoach/internal/store"
)

const (
	collLearners = "learners"
	collReviews  = "review_items"
	collPractice = "practice_records"
	collLessons  = "lesson_completions"
	collSessions = "practice_sessions"
)

type learnerDoc struct {
	ID          string     `bson:"_id"`
	Name        string     `bson:"name"`
	CreatedAt   time.Time  `bson:"created_at"`
	TestDate    *time.Time `bson:"test_date,omitempty"`
	TargetScore *int       `bson:"target_score,omitempty"`
}

func (d learnerDoc) learner() store.Learner {
	return store.Learner{
		ID:          d.ID,
		Name:        d.Name,
		CreatedAt:   d.CreatedAt,
		TestDate:    d.TestDate,
		TargetScore: d.TargetScore,
	}
}

type reviewDoc struct {
	ID             bson.ObjectID `bson:"_id,omitempty"`
	LearnerID      string        `bson:"learner_id"`
	ModuleID       string        `bson:"module_id"`
	SectionName    string        `bson:"section_name"`
	QuestionID     string        `bson:"question_id"`
	CorrectStreak  int           `bson:"correct_streak"`
	WrongCount     int           `bson:"wrong_count"`
	LastAttempt    time.Time     `bson:"last_attempt"`
	NextReviewDate time.Time     `bson:"next_review_date"`
	LastWasCorrect bool          `bson:"last_was_correct"`
	Revision       int           `bson:"revision"`
}

func newReviewDoc(learnerID string, item personalize.ReviewItem) reviewDoc {
	return reviewDoc{
		LearnerID:      learnerID,
		ModuleID:       item.Key.ModuleID,
		SectionName:    item.Key.SectionName,
		QuestionID:     item.Key.QuestionID,
		CorrectStreak:  item.CorrectStreak,
		WrongCount:     item.WrongCount,
		LastAttempt:    item.LastAttempt,
		NextReviewDate: item.NextReviewDate,
		LastWasCorrect: item.LastWasCorrect,
		Revision:       1,
	}
}

func (d reviewDoc) item() personalize.ReviewItem {
	return personalize.ReviewItem{
		Key: personalize.QuestionKey{
			ModuleID:    d.ModuleID,
			SectionName: d.SectionName,
			QuestionID:  d.QuestionID,
		},
		CorrectStreak:  d.CorrectStreak,
		WrongCount:     d.WrongCount,
		LastAttempt:    d.LastAttempt,
		NextReviewDate: d.NextReviewDate,
		LastWasCorrect: d.LastWasCorrect,
	}
}

type practiceDoc struct {
	ID            bson.ObjectID `bson:"_id,omitempty"`
	LearnerID     string        `bson:"learner_id"`
	ModuleID      string        `bson:"module_id"`
	SectionName   string        `bson:"section_name"`
	BestScore     int           `bson:"best_score"`
	TotalAttempts int           `bson:"total_attempts"`
	Revision      int           `bson:"revision"`
}

type lessonDoc struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	LearnerID   string        `bson:"learner_id"`
	ModuleID    string        `bson:"module_id"`
	LessonID    string        `bson:"lesson_id"`
	Completed   bool          `bson:"completed"`
	CompletedAt time.Time     `bson:"completed_at"`
}

type sessionDoc struct {
	ID             bson.ObjectID `bson:"_id,omitempty"`
	LearnerID      string        `bson:"learner_id"`
	ModuleID       string        `bson:"module_id"`
	SectionName    string        `bson:"section_name"`
	Score          int           `bson:"score"`
	TotalQuestions int           `bson:"total_questions"`
	CreatedAt      time.Time     `bson:"created_at"`
}

func newSessionDoc(learnerID string, result personalize.SessionResult) sessionDoc {
	return sessionDoc{
		LearnerID:      learnerID,
		ModuleID:       result.Section.ModuleID,
		SectionName:    result.Section.SectionName,
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		CreatedAt:      result.At,
	}
}

func reviewFilter(learnerID string, key personalize.QuestionKey) bson.D {
	return bson.D{
		{Key: "learner_id", Value: learnerID},
		{Key: "module_id", Value: key.ModuleID},
		{Key: "section_name", Value: key.SectionName},
		{Key: "question_id", Value: key.QuestionID},
	}
}

func practiceFilter(learnerID string, key personalize.SectionKey) bson.D {
	return bson.D{
		{Key: "learner_id", Value: learnerID},
		{Key: "module_id", Value: key.ModuleID},
		{Key: "section_name", Value: key.SectionName},
	}
}

func lessonFilter(learnerID string, key personalize.LessonKey) bson.D {
	return bson.D{
		{Key: "learner_id", Value: learnerID},
		{Key: "module_id", Value: key.ModuleID},
		{Key: "lesson_id", Value: key.LessonID},
	}
}

// atRevision narrows a key filter to the revision the merge read.
func atRevision(filter bson.D, revision int) bson.D {
	out := make(bson.D, 0, len(filter)+1)
	out = append(out, filter...)
	return append(out, bson.E{Key: "revision", Value: revision})
}

func reviewUpdate(item personalize.ReviewItem, revision int) bson.D {
	return bson.D{{Key: "$set", Value: bson.D{
		{Key: "correct_streak", Value: item.CorrectStreak},
		{Key: "wrong_count", Value: item.WrongCount},
		{Key: "last_attempt", Value: item.LastAttempt},
		{Key: "next_review_date", Value: item.NextReviewDate},
		{Key: "last_was_correct", Value: item.LastWasCorrect},
		{Key: "revision", Value: revision + 1},
	}}}
}

func practiceUpdate(rec personalize.PracticeRecord, revision int) bson.D {
	return bson.D{{Key: "$set", Value: bson.D{
		{Key: "best_score", Value: rec.BestScore},
		{Key: "total_attempts", Value: rec.TotalAttempts},
		{Key: "revision", Value: revision + 1},
	}}}
}

// goalUpdate sets the fields that are present and unsets the others.
func goalUpdate(testDate *time.Time, targetScore *int) bson.D {
	set := bson.D{}
	unset := bson.D{}
	if testDate != nil {
		set = append(set, bson.E{Key: "test_date", Value: *testDate})
	} else {
		unset = append(unset, bson.E{Key: "test_date", Value: ""})
	}
	if targetScore != nil {
		set = append(set, bson.E{Key: "target_score", Value: *targetScore})
	} else {
		unset = append(unset, bson.E{Key: "target_score", Value: ""})
	}

	update := bson.D{}
	if len(set) > 0 {
		update = append(update, bson.E{Key: "$set", Value: set})
	}
	if len(unset) > 0 {
		update = append(update, bson.E{Key: "$unset", Value: unset})
	}
	return update
}

// chronological converts newest-first session docs to oldest-first results.
func chronological(docs []sessionDoc) []personalize.SessionResult {
	out := make([]personalize.SessionResult, len(docs))
	for i, d := range docs {
		out[len(docs)-1-i] = personalize.SessionResult{
			Section:        personalize.SectionKey{ModuleID: d.ModuleID, SectionName: d.SectionName},
			Score:          d.Score,
			TotalQuestions: d.TotalQuestions,
			At:             d.CreatedAt,
		}
	}
	return out
}
