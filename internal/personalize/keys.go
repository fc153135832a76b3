package personalize

import "fmt"

// SectionKey identifies a practice section within a module.
type SectionKey struct {
	ModuleID    string `json:"module_id"`
	SectionName string `json:"section_name"`
}

func (k SectionKey) String() string {
	return fmt.Sprintf("%s/%s", k.ModuleID, k.SectionName)
}

// IsZero reports whether the key is missing either component.
func (k SectionKey) IsZero() bool {
	return k.ModuleID == "" || k.SectionName == ""
}

// QuestionKey identifies a single question inside a practice section.
type QuestionKey struct {
	ModuleID    string `json:"module_id"`
	SectionName string `json:"section_name"`
	QuestionID  string `json:"question_id"`
}

// Section returns the section the question belongs to.
func (k QuestionKey) Section() SectionKey {
	return SectionKey{ModuleID: k.ModuleID, SectionName: k.SectionName}
}

func (k QuestionKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.ModuleID, k.SectionName, k.QuestionID)
}

// IsZero reports whether the key is missing any component.
func (k QuestionKey) IsZero() bool {
	return k.ModuleID == "" || k.SectionName == "" || k.QuestionID == ""
}

// LessonKey identifies a lesson within a module.
type LessonKey struct {
	ModuleID string `json:"module_id"`
	LessonID string `json:"lesson_id"`
}

func (k LessonKey) String() string {
	return fmt.Sprintf("%s/%s", k.ModuleID, k.LessonID)
}
