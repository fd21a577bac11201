package inmem

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/SamiSahil/edusysv1/core/finance"
)

type financeRepository struct {
	mu       sync.RWMutex
	fees     map[string]finance.Fee
	expenses map[string]finance.Expense
}

var _ finance.Repository = (*financeRepository)(nil)

func NewFinanceRepository() *financeRepository {
	return &financeRepository{
		fees:     make(map[string]finance.Fee),
		expenses: make(map[string]finance.Expense),
	}
}

func (repo *financeRepository) CreateFee(ctx context.Context, fee finance.Fee) (finance.Fee, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	fee.ID = uuid.New().String()
	repo.fees[fee.ID] = fee
	return fee, nil
}

func (repo *financeRepository) QueryAllFees(ctx context.Context) ([]finance.Fee, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	fees := make([]finance.Fee, 0, len(repo.fees))
	for _, fee := range repo.fees {
		fees = append(fees, fee)
	}
	sortFees(fees)
	return fees, nil
}

func (repo *financeRepository) GetFeeByID(ctx context.Context, id string) (finance.Fee, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	fee, ok := repo.fees[id]
	if !ok {
		return finance.Fee{}, finance.ErrFeeNotFound
	}
	return fee, nil
}

func (repo *financeRepository) QueryFeesByStudent(ctx context.Context, studentID string) ([]finance.Fee, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	var fees []finance.Fee
	for _, fee := range repo.fees {
		if fee.StudentID == studentID {
			fees = append(fees, fee)
		}
	}
	sortFees(fees)
	return fees, nil
}

func (repo *financeRepository) GetFee(ctx context.Context, studentID, feeType, dueDate string) (finance.Fee, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, fee := range repo.fees {
		if fee.StudentID == studentID && fee.FeeType == feeType && fee.DueDate == dueDate {
			return fee, nil
		}
	}
	return finance.Fee{}, finance.ErrFeeNotFound
}

func (repo *financeRepository) UpdateFee(ctx context.Context, fee finance.Fee) (finance.Fee, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.fees[fee.ID]; !ok {
		return finance.Fee{}, finance.ErrFeeNotFound
	}
	repo.fees[fee.ID] = fee
	return fee, nil
}

func (repo *financeRepository) DeleteFeesByID(ctx context.Context, ids ...string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, id := range ids {
		delete(repo.fees, id)
	}
	return nil
}

func (repo *financeRepository) CreateExpense(ctx context.Context, exp finance.Expense) (finance.Expense, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	exp.ID = uuid.New().String()
	repo.expenses[exp.ID] = exp
	return exp, nil
}

func (repo *financeRepository) QueryAllExpenses(ctx context.Context) ([]finance.Expense, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	expenses := make([]finance.Expense, 0, len(repo.expenses))
	for _, exp := range repo.expenses {
		expenses = append(expenses, exp)
	}
	sort.Slice(expenses, func(i, j int) bool {
		if expenses[i].CreatedAt.Equal(expenses[j].CreatedAt) {
			return expenses[i].ID < expenses[j].ID
		}
		return expenses[i].CreatedAt.Before(expenses[j].CreatedAt)
	})
	return expenses, nil
}

func (repo *financeRepository) GetExpenseByID(ctx context.Context, id string) (finance.Expense, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	exp, ok := repo.expenses[id]
	if !ok {
		return finance.Expense{}, finance.ErrExpenseNotFound
	}
	return exp, nil
}

func (repo *financeRepository) UpdateExpense(ctx context.Context, exp finance.Expense) (finance.Expense, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.expenses[exp.ID]; !ok {
		return finance.Expense{}, finance.ErrExpenseNotFound
	}
	repo.expenses[exp.ID] = exp
	return exp, nil
}

func (repo *financeRepository) DeleteExpensesByID(ctx context.Context, ids ...string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, id := range ids {
		delete(repo.expenses, id)
	}
	return nil
}

func sortFees(fees []finance.Fee) {
	sort.Slice(fees, func(i, j int) bool {
		if fees[i].CreatedAt.Equal(fees[j].CreatedAt) {
			return fees[i].ID < fees[j].ID
		}
		return fees[i].CreatedAt.Before(fees[j].CreatedAt)
	})
}
