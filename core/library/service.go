package library

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

const defaultLoanDays = 14

var (
	ErrBookNotFound        = errors.New("book not found")
	ErrLoanNotFound        = errors.New("loan not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrNoCopiesAvailable   = errors.New("no copies of this book are available")
	ErrAlreadyReturned     = errors.New("loan already returned")
)

type (
	Repository interface {
		CreateBook(ctx context.Context, b Book) (Book, error)
		QueryAllBooks(ctx context.Context) ([]Book, error)
		GetBookByID(ctx context.Context, id string) (Book, error)
		UpdateBook(ctx context.Context, b Book) (Book, error)
		DeleteBooksByID(ctx context.Context, ids ...string) error

		CreateLoan(ctx context.Context, l Loan) (Loan, error)
		QueryAllLoans(ctx context.Context) ([]Loan, error)
		GetLoanByID(ctx context.Context, id string) (Loan, error)
		UpdateLoan(ctx context.Context, l Loan) (Loan, error)

		CreateReservation(ctx context.Context, r Reservation) (Reservation, error)
		QueryAllReservations(ctx context.Context) ([]Reservation, error)
		GetReservationByID(ctx context.Context, id string) (Reservation, error)
		UpdateReservation(ctx context.Context, r Reservation) (Reservation, error)
		DeleteReservationsByID(ctx context.Context, ids ...string) error
	}

	ServiceInterface interface {
		CreateBook(ctx context.Context, nb NewBook) (Book, error)
		QueryBooks(ctx context.Context) ([]Book, error)
		UpdateBook(ctx context.Context, id string, nb NewBook) (Book, error)
		DeleteBooks(ctx context.Context, ids ...string) error

		// Checkout issues a copy to a member, decrementing availability.
		Checkout(ctx context.Context, nl NewLoan) (Loan, error)
		// Return closes a loan and returns its copy to the shelf.
		Return(ctx context.Context, loanID string) (Loan, error)
		QueryLoans(ctx context.Context) ([]Loan, error)

		Reserve(ctx context.Context, nr NewReservation, memberID string) (Reservation, error)
		QueryReservations(ctx context.Context) ([]Reservation, error)
		UpdateReservation(ctx context.Context, id string, ur UpdateReservation) (Reservation, error)
		DeleteReservations(ctx context.Context, ids ...string) error
	}

	service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository) *service {
	return &service{repo: repo}
}

func (svc *service) CreateBook(ctx context.Context, nb NewBook) (Book, error) {
	now := time.Now().UTC()
	return svc.repo.CreateBook(ctx, Book{
		Title:     nb.Title,
		Author:    nb.Author,
		ISBN:      nb.ISBN,
		Copies:    nb.Copies,
		Available: nb.Copies,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *service) QueryBooks(ctx context.Context) ([]Book, error) {
	return svc.repo.QueryAllBooks(ctx)
}

func (svc *service) UpdateBook(ctx context.Context, id string, nb NewBook) (Book, error) {
	b, err := svc.repo.GetBookByID(ctx, id)
	if err != nil {
		return Book{}, err
	}
	// keep outstanding loans consistent when the copy count changes
	out := b.Copies - b.Available
	b.Title = nb.Title
	b.Author = nb.Author
	b.ISBN = nb.ISBN
	b.Copies = nb.Copies
	b.Available = nb.Copies - out
	if b.Available < 0 {
		b.Available = 0
	}
	b.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateBook(ctx, b)
}

func (svc *service) DeleteBooks(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteBooksByID(ctx, ids...)
}

func (svc *service) Checkout(ctx context.Context, nl NewLoan) (Loan, error) {
	b, err := svc.repo.GetBookByID(ctx, nl.BookID)
	if err != nil {
		return Loan{}, err
	}
	if b.Available <= 0 {
		return Loan{}, ErrNoCopiesAvailable
	}

	days := nl.Days
	if days == 0 {
		days = defaultLoanDays
	}
	now := time.Now().UTC()
	loan, err := svc.repo.CreateLoan(ctx, Loan{
		BookID:   nl.BookID,
		MemberID: nl.MemberID,
		IssuedAt: now,
		DueAt:    now.AddDate(0, 0, days),
	})
	if err != nil {
		return Loan{}, err
	}

	b.Available--
	b.UpdatedAt = now
	if _, err := svc.repo.UpdateBook(ctx, b); err != nil {
		return loan, errors.Wrap(err, "updating book availability")
	}
	return loan, nil
}

func (svc *service) Return(ctx context.Context, loanID string) (Loan, error) {
	loan, err := svc.repo.GetLoanByID(ctx, loanID)
	if err != nil {
		return Loan{}, err
	}
	if loan.ReturnedAt != nil {
		return Loan{}, ErrAlreadyReturned
	}

	now := time.Now().UTC()
	loan.ReturnedAt = &now
	loan, err = svc.repo.UpdateLoan(ctx, loan)
	if err != nil {
		return Loan{}, err
	}

	if b, err := svc.repo.GetBookByID(ctx, loan.BookID); err == nil {
		if b.Available < b.Copies {
			b.Available++
			b.UpdatedAt = now
			if _, err := svc.repo.UpdateBook(ctx, b); err != nil {
				return loan, errors.Wrap(err, "updating book availability")
			}
		}
	}
	return loan, nil
}

func (svc *service) QueryLoans(ctx context.Context) ([]Loan, error) {
	return svc.repo.QueryAllLoans(ctx)
}

func (svc *service) Reserve(ctx context.Context, nr NewReservation, memberID string) (Reservation, error) {
	if _, err := svc.repo.GetBookByID(ctx, nr.BookID); err != nil {
		return Reservation{}, err
	}
	now := time.Now().UTC()
	return svc.repo.CreateReservation(ctx, Reservation{
		BookID:    nr.BookID,
		MemberID:  memberID,
		Status:    ReservationPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *service) QueryReservations(ctx context.Context) ([]Reservation, error) {
	return svc.repo.QueryAllReservations(ctx)
}

func (svc *service) UpdateReservation(ctx context.Context, id string, ur UpdateReservation) (Reservation, error) {
	r, err := svc.repo.GetReservationByID(ctx, id)
	if err != nil {
		return Reservation{}, err
	}
	r.Status = ur.Status
	r.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateReservation(ctx, r)
}

func (svc *service) DeleteReservations(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteReservationsByID(ctx, ids...)
}
