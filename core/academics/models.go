package academics

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/SamiSahil/edusysv1/core"
)

// Department is a top-level academic unit. Subjects belong to a department,
// sections belong to a subject; student profiles point at a section.
type Department struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Head      string    `json:"head,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Subject struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Code         string    `json:"code,omitempty"`
	DepartmentID string    `json:"departmentId"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Section struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SubjectID string    `json:"subjectId"`
	TeacherID string    `json:"teacherId,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SectionInfo is a section expanded for display: its subject and the owning
// department's display name only.
type SectionInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Subject    string `json:"subject,omitempty"`
	Department string `json:"department,omitempty"`
}

type NewDepartment struct {
	Name string `json:"name" validate:"required"`
	Head string `json:"head"`
}

func (nd *NewDepartment) Validate(validate *validator.Validate) error {
	nd.Name = core.CleanString(nd.Name)
	nd.Head = core.CleanString(nd.Head)
	return validate.Struct(nd)
}

type NewSubject struct {
	Name         string `json:"name" validate:"required"`
	Code         string `json:"code"`
	DepartmentID string `json:"departmentId" validate:"required"`
}

func (ns *NewSubject) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	return validate.Struct(ns)
}

type NewSection struct {
	Name      string `json:"name" validate:"required"`
	SubjectID string `json:"subjectId" validate:"required"`
	TeacherID string `json:"teacherId"`
}

func (ns *NewSection) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	return validate.Struct(ns)
}
