package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/SamiSahil/edusysv1/core/library"
)

type libraryRepository struct {
	books        collection
	loans        collection
	reservations collection
}

var _ library.Repository = (*libraryRepository)(nil)

func NewLibraryRepository(db *sqlx.DB) *libraryRepository {
	return &libraryRepository{
		books:        newCollection(db, "books"),
		loans:        newCollection(db, "loans"),
		reservations: newCollection(db, "reservations"),
	}
}

func (repo *libraryRepository) CreateBook(ctx context.Context, b library.Book) (library.Book, error) {
	b.ID = repo.books.newID()
	if err := repo.books.insert(ctx, b.ID, b); err != nil {
		return library.Book{}, errors.Wrap(err, "creating book")
	}
	return b, nil
}

func (repo *libraryRepository) QueryAllBooks(ctx context.Context) ([]library.Book, error) {
	docs, err := repo.books.find(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying books")
	}
	books := make([]library.Book, 0, len(docs))
	for _, data := range docs {
		var b library.Book
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, errors.Wrap(err, "unmarshaling book")
		}
		books = append(books, b)
	}
	return books, nil
}

func (repo *libraryRepository) GetBookByID(ctx context.Context, id string) (library.Book, error) {
	var b library.Book
	if err := repo.books.get(ctx, id, &b); err != nil {
		if err == sql.ErrNoRows {
			return library.Book{}, library.ErrBookNotFound
		}
		return library.Book{}, errors.Wrap(err, "getting book")
	}
	return b, nil
}

func (repo *libraryRepository) UpdateBook(ctx context.Context, b library.Book) (library.Book, error) {
	if err := repo.books.save(ctx, b.ID, b); err != nil {
		if err == sql.ErrNoRows {
			return library.Book{}, library.ErrBookNotFound
		}
		return library.Book{}, errors.Wrap(err, "updating book")
	}
	return b, nil
}

func (repo *libraryRepository) DeleteBooksByID(ctx context.Context, ids ...string) error {
	return errors.Wrap(repo.books.deleteMany(ctx, ids...), "deleting books")
}

func (repo *libraryRepository) CreateLoan(ctx context.Context, l library.Loan) (library.Loan, error) {
	l.ID = repo.loans.newID()
	if err := repo.loans.insert(ctx, l.ID, l); err != nil {
		return library.Loan{}, errors.Wrap(err, "creating loan")
	}
	return l, nil
}

func (repo *libraryRepository) QueryAllLoans(ctx context.Context) ([]library.Loan, error) {
	docs, err := repo.loans.find(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying loans")
	}
	loans := make([]library.Loan, 0, len(docs))
	for _, data := range docs {
		var l library.Loan
		if err := json.Unmarshal(data, &l); err != nil {
			return nil, errors.Wrap(err, "unmarshaling loan")
		}
		loans = append(loans, l)
	}
	return loans, nil
}

func (repo *libraryRepository) GetLoanByID(ctx context.Context, id string) (library.Loan, error) {
	var l library.Loan
	if err := repo.loans.get(ctx, id, &l); err != nil {
		if err == sql.ErrNoRows {
			return library.Loan{}, library.ErrLoanNotFound
		}
		return library.Loan{}, errors.Wrap(err, "getting loan")
	}
	return l, nil
}

func (repo *libraryRepository) UpdateLoan(ctx context.Context, l library.Loan) (library.Loan, error) {
	if err := repo.loans.save(ctx, l.ID, l); err != nil {
		if err == sql.ErrNoRows {
			return library.Loan{}, library.ErrLoanNotFound
		}
		return library.Loan{}, errors.Wrap(err, "updating loan")
	}
	return l, nil
}

func (repo *libraryRepository) CreateReservation(ctx context.Context, r library.Reservation) (library.Reservation, error) {
	r.ID = repo.reservations.newID()
	if err := repo.reservations.insert(ctx, r.ID, r); err != nil {
		return library.Reservation{}, errors.Wrap(err, "creating reservation")
	}
	return r, nil
}

func (repo *libraryRepository) QueryAllReservations(ctx context.Context) ([]library.Reservation, error) {
	docs, err := repo.reservations.find(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying reservations")
	}
	reservations := make([]library.Reservation, 0, len(docs))
	for _, data := range docs {
		var r library.Reservation
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, errors.Wrap(err, "unmarshaling reservation")
		}
		reservations = append(reservations, r)
	}
	return reservations, nil
}

func (repo *libraryRepository) GetReservationByID(ctx context.Context, id string) (library.Reservation, error) {
	var r library.Reservation
	if err := repo.reservations.get(ctx, id, &r); err != nil {
		if err == sql.ErrNoRows {
			return library.Reservation{}, library.ErrReservationNotFound
		}
		return library.Reservation{}, errors.Wrap(err, "getting reservation")
	}
	return r, nil
}

func (repo *libraryRepository) UpdateReservation(ctx context.Context, r library.Reservation) (library.Reservation, error) {
	if err := repo.reservations.save(ctx, r.ID, r); err != nil {
		if err == sql.ErrNoRows {
			return library.Reservation{}, library.ErrReservationNotFound
		}
		return library.Reservation{}, errors.Wrap(err, "updating reservation")
	}
	return r, nil
}

func (repo *libraryRepository) DeleteReservationsByID(ctx context.Context, ids ...string) error {
	return errors.Wrap(repo.reservations.deleteMany(ctx, ids...), "deleting reservations")
}
