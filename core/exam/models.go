package exam

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/SamiSahil/edusysv1/core"
)

type Exam struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	SectionID  string    `json:"sectionId,omitempty"`
	SubjectID  string    `json:"subjectId,omitempty"`
	Date       string    `json:"date,omitempty"` // YYYY-MM-DD
	TotalMarks int       `json:"totalMarks"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Result is one student's marks for an exam.
// There is at most one result per (exam, student).
type Result struct {
	ID        string    `json:"id"`
	ExamID    string    `json:"examId"`
	StudentID string    `json:"studentId"`
	Marks     float64   `json:"marks"`
	Grade     string    `json:"grade,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type NewExam struct {
	Name       string `json:"name" validate:"required"`
	SectionID  string `json:"sectionId"`
	SubjectID  string `json:"subjectId"`
	Date       string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	TotalMarks int    `json:"totalMarks" validate:"required,gt=0"`
}

func (ne *NewExam) Validate(validate *validator.Validate) error {
	ne.Name = core.CleanString(ne.Name)
	return validate.Struct(ne)
}

type ResultEntry struct {
	StudentID string  `json:"studentId" validate:"required"`
	Marks     float64 `json:"marks" validate:"min=0"`
	Grade     string  `json:"grade"`
}

// NewResults is a full marks submission for one exam.
type NewResults struct {
	Entries []ResultEntry `json:"entries" validate:"required,min=1,dive"`
}

func (nr *NewResults) Validate(validate *validator.Validate) error {
	return validate.Struct(nr)
}
