package student

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/SamiSahil/edusysv1/core"
	"github.com/SamiSahil/edusysv1/core/academics"
)

// Student is a profile record, referenced from a credential record by
// User.StudentID.
type Student struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	RollNo    string    `json:"rollNo,omitempty"`
	Email     string    `json:"email,omitempty"`
	Guardian  string    `json:"guardian,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	SectionID string    `json:"sectionId,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile is a student expanded with its section display info
// (section -> subject -> department name).
type Profile struct {
	Student
	Section *academics.SectionInfo `json:"section,omitempty"`
}

type NewStudent struct {
	Name      string `json:"name" validate:"required"`
	RollNo    string `json:"rollNo"`
	Email     string `json:"email" validate:"omitempty,email"`
	Guardian  string `json:"guardian"`
	Phone     string `json:"phone"`
	SectionID string `json:"sectionId"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	return validate.Struct(ns)
}
