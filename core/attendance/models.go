package attendance

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Attendance statuses
const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
	StatusLate    = "Late"
)

// Record is one student's attendance mark for a section on a date.
// There is at most one record per (section, student, date).
type Record struct {
	ID        string    `json:"id"`
	SectionID string    `json:"sectionId"`
	StudentID string    `json:"studentId"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Entry struct {
	StudentID string `json:"studentId" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=Present Absent Late"`
}

// NewSheet is a full attendance sheet submission for a section and date.
type NewSheet struct {
	SectionID string  `json:"sectionId" validate:"required"`
	Date      string  `json:"date" validate:"required,datetime=2006-01-02"`
	Entries   []Entry `json:"entries" validate:"required,min=1,dive"`
}

func (ns *NewSheet) Validate(validate *validator.Validate) error {
	return validate.Struct(ns)
}

// Report aggregates a student's attendance counts.
type Report struct {
	StudentID string   `json:"studentId"`
	Present   int      `json:"present"`
	Absent    int      `json:"absent"`
	Late      int      `json:"late"`
	Records   []Record `json:"records,omitempty"`
}
