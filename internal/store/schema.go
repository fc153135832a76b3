package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	tableLearners = "learners"
	tableReviews  = "review_items"
	tablePractice = "practice_records"
	tableLessons  = "lesson_completions"
	tableSessions = "practice_sessions"
)

var (
	learnersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "test_date", Type: field.TypeTime, Nullable: true},
		{Name: "target_score", Type: field.TypeInt, Nullable: true},
	}
	learnersTable = &schema.Table{
		Name:       tableLearners,
		Columns:    learnersColumns,
		PrimaryKey: []*schema.Column{learnersColumns[0]},
	}

	// Review items keep an autoincrement id so the queue can be read back
	// in encounter order.
	reviewsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "learner_id", Type: field.TypeString},
		{Name: "module_id", Type: field.TypeString},
		{Name: "section_name", Type: field.TypeString},
		{Name: "question_id", Type: field.TypeString},
		{Name: "correct_streak", Type: field.TypeInt, Default: 0},
		{Name: "wrong_count", Type: field.TypeInt, Default: 0},
		{Name: "last_attempt", Type: field.TypeTime},
		{Name: "next_review_date", Type: field.TypeTime},
		{Name: "last_was_correct", Type: field.TypeBool, Default: false},
		{Name: "revision", Type: field.TypeInt, Default: 1},
	}
	reviewsTable = &schema.Table{
		Name:       tableReviews,
		Columns:    reviewsColumns,
		PrimaryKey: []*schema.Column{reviewsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "reviewitem_learner_question",
				Unique:  true,
				Columns: []*schema.Column{reviewsColumns[1], reviewsColumns[2], reviewsColumns[3], reviewsColumns[4]},
			},
			{
				Name:    "reviewitem_next_review_date",
				Columns: []*schema.Column{reviewsColumns[1], reviewsColumns[8]},
			},
		},
	}

	practiceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "learner_id", Type: field.TypeString},
		{Name: "module_id", Type: field.TypeString},
		{Name: "section_name", Type: field.TypeString},
		{Name: "best_score", Type: field.TypeInt, Default: 0},
		{Name: "total_attempts", Type: field.TypeInt, Default: 0},
		{Name: "revision", Type: field.TypeInt, Default: 1},
	}
	practiceTable = &schema.Table{
		Name:       tablePractice,
		Columns:    practiceColumns,
		PrimaryKey: []*schema.Column{practiceColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "practicerecord_learner_section",
				Unique:  true,
				Columns: []*schema.Column{practiceColumns[1], practiceColumns[2], practiceColumns[3]},
			},
		},
	}

	lessonsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "learner_id", Type: field.TypeString},
		{Name: "module_id", Type: field.TypeString},
		{Name: "lesson_id", Type: field.TypeString},
		{Name: "completed", Type: field.TypeBool, Default: true},
		{Name: "completed_at", Type: field.TypeTime},
	}
	lessonsTable = &schema.Table{
		Name:       tableLessons,
		Columns:    lessonsColumns,
		PrimaryKey: []*schema.Column{lessonsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "lessoncompletion_learner_lesson",
				Unique:  true,
				Columns: []*schema.Column{lessonsColumns[1], lessonsColumns[2], lessonsColumns[3]},
			},
		},
	}

	sessionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "learner_id", Type: field.TypeString},
		{Name: "module_id", Type: field.TypeString},
		{Name: "section_name", Type: field.TypeString},
		{Name: "score", Type: field.TypeInt},
		{Name: "total_questions", Type: field.TypeInt},
		{Name: "created_at", Type: field.TypeTime},
	}
	sessionsTable = &schema.Table{
		Name:       tableSessions,
		Columns:    sessionsColumns,
		PrimaryKey: []*schema.Column{sessionsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "practicesession_learner",
				Columns: []*schema.Column{sessionsColumns[1]},
			},
		},
	}

	// Tables lists every table the store migrates on Open.
	Tables = []*schema.Table{
		learnersTable,
		reviewsTable,
		practiceTable,
		lessonsTable,
		sessionsTable,
	}
)
