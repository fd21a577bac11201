package finance

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/SamiSahil/edusysv1/core"
)

// Fee statuses
const (
	FeeStatusPaid   = "Paid"
	FeeStatusUnpaid = "Unpaid"
)

type Fee struct {
	ID        string    `json:"id"`
	StudentID string    `json:"studentId"`
	FeeType   string    `json:"feeType"`
	Amount    float64   `json:"amount"`
	DueDate   string    `json:"dueDate"` // YYYY-MM-DD
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Expense struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	Amount    float64   `json:"amount"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type NewFee struct {
	StudentID string  `json:"studentId" validate:"required"`
	FeeType   string  `json:"feeType" validate:"required"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	DueDate   string  `json:"dueDate" validate:"required,datetime=2006-01-02"`
	Status    string  `json:"status" validate:"omitempty,oneof=Paid Unpaid"`
}

func (nf *NewFee) Validate(validate *validator.Validate) error {
	nf.FeeType = core.CleanString(nf.FeeType)
	return validate.Struct(nf)
}

type NewExpense struct {
	Category string  `json:"category" validate:"required"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Date     string  `json:"date" validate:"required,datetime=2006-01-02"`
	Note     string  `json:"note"`
}

func (ne *NewExpense) Validate(validate *validator.Validate) error {
	ne.Category = core.CleanString(ne.Category)
	ne.Note = core.CleanString(ne.Note)
	return validate.Struct(ne)
}

// GenerateFees is the request to generate one fee per student for a month.
type GenerateFees struct {
	FeeType string  `json:"feeType" validate:"required"`
	Amount  float64 `json:"amount" validate:"required,gt=0"`
	DueDate string  `json:"dueDate" validate:"required,datetime=2006-01-02"`
}

func (gf *GenerateFees) Validate(validate *validator.Validate) error {
	gf.FeeType = core.CleanString(gf.FeeType)
	return validate.Struct(gf)
}
