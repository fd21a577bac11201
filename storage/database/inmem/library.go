package inmem

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/SamiSahil/edusysv1/core/library"
)

type libraryRepository struct {
	mu           sync.RWMutex
	books        map[string]library.Book
	loans        map[string]library.Loan
	reservations map[string]library.Reservation
}

var _ library.Repository = (*libraryRepository)(nil)

func NewLibraryRepository() *libraryRepository {
	return &libraryRepository{
		books:        make(map[string]library.Book),
		loans:        make(map[string]library.Loan),
		reservations: make(map[string]library.Reservation),
	}
}

func (repo *libraryRepository) CreateBook(ctx context.Context, b library.Book) (library.Book, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	b.ID = uuid.New().String()
	repo.books[b.ID] = b
	return b, nil
}

func (repo *libraryRepository) QueryAllBooks(ctx context.Context) ([]library.Book, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	books := make([]library.Book, 0, len(repo.books))
	for _, b := range repo.books {
		books = append(books, b)
	}
	sort.Slice(books, func(i, j int) bool {
		if books[i].CreatedAt.Equal(books[j].CreatedAt) {
			return books[i].ID < books[j].ID
		}
		return books[i].CreatedAt.Before(books[j].CreatedAt)
	})
	return books, nil
}

func (repo *libraryRepository) GetBookByID(ctx context.Context, id string) (library.Book, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	b, ok := repo.books[id]
	if !ok {
		return library.Book{}, library.ErrBookNotFound
	}
	return b, nil
}

func (repo *libraryRepository) UpdateBook(ctx context.Context, b library.Book) (library.Book, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.books[b.ID]; !ok {
		return library.Book{}, library.ErrBookNotFound
	}
	repo.books[b.ID] = b
	return b, nil
}

func (repo *libraryRepository) DeleteBooksByID(ctx context.Context, ids ...string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, id := range ids {
		delete(repo.books, id)
	}
	return nil
}

func (repo *libraryRepository) CreateLoan(ctx context.Context, l library.Loan) (library.Loan, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	l.ID = uuid.New().String()
	repo.loans[l.ID] = l
	return l, nil
}

func (repo *libraryRepository) QueryAllLoans(ctx context.Context) ([]library.Loan, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	loans := make([]library.Loan, 0, len(repo.loans))
	for _, l := range repo.loans {
		loans = append(loans, l)
	}
	sort.Slice(loans, func(i, j int) bool {
		if loans[i].IssuedAt.Equal(loans[j].IssuedAt) {
			return loans[i].ID < loans[j].ID
		}
		return loans[i].IssuedAt.Before(loans[j].IssuedAt)
	})
	return loans, nil
}

func (repo *libraryRepository) GetLoanByID(ctx context.Context, id string) (library.Loan, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	l, ok := repo.loans[id]
	if !ok {
		return library.Loan{}, library.ErrLoanNotFound
	}
	return l, nil
}

func (repo *libraryRepository) UpdateLoan(ctx context.Context, l library.Loan) (library.Loan, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.loans[l.ID]; !ok {
		return library.Loan{}, library.ErrLoanNotFound
	}
	repo.loans[l.ID] = l
	return l, nil
}

func (repo *libraryRepository) CreateReservation(ctx context.Context, r library.Reservation) (library.Reservation, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	r.ID = uuid.New().String()
	repo.reservations[r.ID] = r
	return r, nil
}

func (repo *libraryRepository) QueryAllReservations(ctx context.Context) ([]library.Reservation, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	reservations := make([]library.Reservation, 0, len(repo.reservations))
	for _, r := range repo.reservations {
		reservations = append(reservations, r)
	}
	sort.Slice(reservations, func(i, j int) bool {
		if reservations[i].CreatedAt.Equal(reservations[j].CreatedAt) {
			return reservations[i].ID < reservations[j].ID
		}
		return reservations[i].CreatedAt.Before(reservations[j].CreatedAt)
	})
	return reservations, nil
}

func (repo *libraryRepository) GetReservationByID(ctx context.Context, id string) (library.Reservation, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	r, ok := repo.reservations[id]
	if !ok {
		return library.Reservation{}, library.ErrReservationNotFound
	}
	return r, nil
}

func (repo *libraryRepository) UpdateReservation(ctx context.Context, r library.Reservation) (library.Reservation, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.reservations[r.ID]; !ok {
		return library.Reservation{}, library.ErrReservationNotFound
	}
	repo.reservations[r.ID] = r
	return r, nil
}

func (repo *libraryRepository) DeleteReservationsByID(ctx context.Context, ids ...string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, id := range ids {
		delete(repo.reservations, id)
	}
	return nil
}
