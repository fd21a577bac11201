package library

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/SamiSahil/edusysv1/core"
)

// Reservation statuses
const (
	ReservationPending   = "Pending"
	ReservationFulfilled = "Fulfilled"
	ReservationCancelled = "Cancelled"
)

type Book struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author,omitempty"`
	ISBN      string    `json:"isbn,omitempty"`
	Copies    int       `json:"copies"`
	Available int       `json:"available"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Loan tracks a checked-out copy. MemberID is the borrower's user id.
type Loan struct {
	ID         string     `json:"id"`
	BookID     string     `json:"bookId"`
	MemberID   string     `json:"memberId"`
	IssuedAt   time.Time  `json:"issued_at"`
	DueAt      time.Time  `json:"due_at"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
}

type Reservation struct {
	ID        string    `json:"id"`
	BookID    string    `json:"bookId"`
	MemberID  string    `json:"memberId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type NewBook struct {
	Title  string `json:"title" validate:"required"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
	Copies int    `json:"copies" validate:"required,gt=0"`
}

func (nb *NewBook) Validate(validate *validator.Validate) error {
	nb.Title = core.CleanString(nb.Title)
	nb.Author = core.CleanString(nb.Author)
	nb.ISBN = core.CleanString(nb.ISBN)
	return validate.Struct(nb)
}

type NewLoan struct {
	BookID   string `json:"bookId" validate:"required"`
	MemberID string `json:"memberId" validate:"required"`
	Days     int    `json:"days" validate:"omitempty,gt=0"`
}

func (nl *NewLoan) Validate(validate *validator.Validate) error {
	return validate.Struct(nl)
}

type NewReservation struct {
	BookID string `json:"bookId" validate:"required"`
}

func (nr *NewReservation) Validate(validate *validator.Validate) error {
	return validate.Struct(nr)
}

type UpdateReservation struct {
	Status string `json:"status" validate:"required,oneof=Pending Fulfilled Cancelled"`
}

func (ur *UpdateReservation) Validate(validate *validator.Validate) error {
	return validate.Struct(ur)
}
