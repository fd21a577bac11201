package finance

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/SamiSahil/edusysv1/core/student"
)

var (
	ErrFeeNotFound     = errors.New("fee not found")
	ErrExpenseNotFound = errors.New("expense not found")
)

type (
	Repository interface {
		CreateFee(ctx context.Context, fee Fee) (Fee, error)
		QueryAllFees(ctx context.Context) ([]Fee, error)
		GetFeeByID(ctx context.Context, id string) (Fee, error)
		QueryFeesByStudent(ctx context.Context, studentID string) ([]Fee, error)
		// GetFee returns the fee matching (studentID, feeType, dueDate), if any.
		GetFee(ctx context.Context, studentID, feeType, dueDate string) (Fee, error)
		UpdateFee(ctx context.Context, fee Fee) (Fee, error)
		DeleteFeesByID(ctx context.Context, ids ...string) error

		CreateExpense(ctx context.Context, exp Expense) (Expense, error)
		QueryAllExpenses(ctx context.Context) ([]Expense, error)
		GetExpenseByID(ctx context.Context, id string) (Expense, error)
		UpdateExpense(ctx context.Context, exp Expense) (Expense, error)
		DeleteExpensesByID(ctx context.Context, ids ...string) error
	}

	ServiceInterface interface {
		CreateFee(ctx context.Context, nf NewFee) (Fee, error)
		QueryFees(ctx context.Context) ([]Fee, error)
		QueryFeesByStudent(ctx context.Context, studentID string) ([]Fee, error)
		UpdateFee(ctx context.Context, id string, nf NewFee) (Fee, error)
		DeleteFees(ctx context.Context, ids ...string) error
		// GenerateMonthlyFees creates one fee per student for (feeType, dueDate),
		// skipping students that already have one. Returns the number created.
		GenerateMonthlyFees(ctx context.Context, gf GenerateFees) (int, error)

		CreateExpense(ctx context.Context, ne NewExpense) (Expense, error)
		QueryExpenses(ctx context.Context) ([]Expense, error)
		UpdateExpense(ctx context.Context, id string, ne NewExpense) (Expense, error)
		DeleteExpenses(ctx context.Context, ids ...string) error
	}

	service struct {
		repo       Repository
		studentSvc student.ServiceInterface
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository, studentSvc student.ServiceInterface) *service {
	return &service{repo: repo, studentSvc: studentSvc}
}

func (svc *service) CreateFee(ctx context.Context, nf NewFee) (Fee, error) {
	status := nf.Status
	if status == "" {
		status = FeeStatusUnpaid
	}
	now := time.Now().UTC()
	return svc.repo.CreateFee(ctx, Fee{
		StudentID: nf.StudentID,
		FeeType:   nf.FeeType,
		Amount:    nf.Amount,
		DueDate:   nf.DueDate,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *service) QueryFees(ctx context.Context) ([]Fee, error) {
	return svc.repo.QueryAllFees(ctx)
}

func (svc *service) QueryFeesByStudent(ctx context.Context, studentID string) ([]Fee, error) {
	return svc.repo.QueryFeesByStudent(ctx, studentID)
}

func (svc *service) UpdateFee(ctx context.Context, id string, nf NewFee) (Fee, error) {
	fee, err := svc.repo.GetFeeByID(ctx, id)
	if err != nil {
		return Fee{}, err
	}
	fee.StudentID = nf.StudentID
	fee.FeeType = nf.FeeType
	fee.Amount = nf.Amount
	fee.DueDate = nf.DueDate
	if nf.Status != "" {
		fee.Status = nf.Status
	}
	fee.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateFee(ctx, fee)
}

func (svc *service) DeleteFees(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteFeesByID(ctx, ids...)
}

func (svc *service) GenerateMonthlyFees(ctx context.Context, gf GenerateFees) (int, error) {
	students, err := svc.studentSvc.QueryAll(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "querying students")
	}

	var created int
	now := time.Now().UTC()
	for _, st := range students {
		if _, err := svc.repo.GetFee(ctx, st.ID, gf.FeeType, gf.DueDate); err == nil {
			continue // already generated for this student
		} else if err != ErrFeeNotFound {
			return created, err
		}
		if _, err := svc.repo.CreateFee(ctx, Fee{
			StudentID: st.ID,
			FeeType:   gf.FeeType,
			Amount:    gf.Amount,
			DueDate:   gf.DueDate,
			Status:    FeeStatusUnpaid,
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func (svc *service) CreateExpense(ctx context.Context, ne NewExpense) (Expense, error) {
	now := time.Now().UTC()
	return svc.repo.CreateExpense(ctx, Expense{
		Category:  ne.Category,
		Amount:    ne.Amount,
		Date:      ne.Date,
		Note:      ne.Note,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *service) QueryExpenses(ctx context.Context) ([]Expense, error) {
	return svc.repo.QueryAllExpenses(ctx)
}

func (svc *service) UpdateExpense(ctx context.Context, id string, ne NewExpense) (Expense, error) {
	exp, err := svc.repo.GetExpenseByID(ctx, id)
	if err != nil {
		return Expense{}, err
	}
	exp.Category = ne.Category
	exp.Amount = ne.Amount
	exp.Date = ne.Date
	exp.Note = ne.Note
	exp.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateExpense(ctx, exp)
}

func (svc *service) DeleteExpenses(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteExpensesByID(ctx, ids...)
}
