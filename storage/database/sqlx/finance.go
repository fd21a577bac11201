package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/SamiSahil/edusysv1/core/finance"
)

type financeRepository struct {
	fees     collection
	expenses collection
}

var _ finance.Repository = (*financeRepository)(nil)

func NewFinanceRepository(db *sqlx.DB) *financeRepository {
	return &financeRepository{
		fees:     newCollection(db, "fees"),
		expenses: newCollection(db, "expenses"),
	}
}

func (repo *financeRepository) CreateFee(ctx context.Context, fee finance.Fee) (finance.Fee, error) {
	fee.ID = repo.fees.newID()
	if err := repo.fees.insert(ctx, fee.ID, fee); err != nil {
		return finance.Fee{}, errors.Wrap(err, "creating fee")
	}
	return fee, nil
}

func (repo *financeRepository) QueryAllFees(ctx context.Context) ([]finance.Fee, error) {
	docs, err := repo.fees.find(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying fees")
	}
	return unmarshalFees(docs)
}

func (repo *financeRepository) GetFeeByID(ctx context.Context, id string) (finance.Fee, error) {
	var fee finance.Fee
	if err := repo.fees.get(ctx, id, &fee); err != nil {
		if err == sql.ErrNoRows {
			return finance.Fee{}, finance.ErrFeeNotFound
		}
		return finance.Fee{}, errors.Wrap(err, "getting fee")
	}
	return fee, nil
}

func (repo *financeRepository) QueryFeesByStudent(ctx context.Context, studentID string) ([]finance.Fee, error) {
	docs, err := repo.fees.find(ctx, map[string]interface{}{"studentId": studentID})
	if err != nil {
		return nil, errors.Wrap(err, "querying fees by student")
	}
	return unmarshalFees(docs)
}

func (repo *financeRepository) GetFee(ctx context.Context, studentID, feeType, dueDate string) (finance.Fee, error) {
	var fee finance.Fee
	filter := map[string]interface{}{"studentId": studentID, "feeType": feeType, "dueDate": dueDate}
	if err := repo.fees.findOne(ctx, filter, &fee); err != nil {
		if err == sql.ErrNoRows {
			return finance.Fee{}, finance.ErrFeeNotFound
		}
		return finance.Fee{}, errors.Wrap(err, "getting fee")
	}
	return fee, nil
}

func (repo *financeRepository) UpdateFee(ctx context.Context, fee finance.Fee) (finance.Fee, error) {
	if err := repo.fees.save(ctx, fee.ID, fee); err != nil {
		if err == sql.ErrNoRows {
			return finance.Fee{}, finance.ErrFeeNotFound
		}
		return finance.Fee{}, errors.Wrap(err, "updating fee")
	}
	return fee, nil
}

func (repo *financeRepository) DeleteFeesByID(ctx context.Context, ids ...string) error {
	return errors.Wrap(repo.fees.deleteMany(ctx, ids...), "deleting fees")
}

func (repo *financeRepository) CreateExpense(ctx context.Context, exp finance.Expense) (finance.Expense, error) {
	exp.ID = repo.expenses.newID()
	if err := repo.expenses.insert(ctx, exp.ID, exp); err != nil {
		return finance.Expense{}, errors.Wrap(err, "creating expense")
	}
	return exp, nil
}

func (repo *financeRepository) QueryAllExpenses(ctx context.Context) ([]finance.Expense, error) {
	docs, err := repo.expenses.find(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying expenses")
	}
	expenses := make([]finance.Expense, 0, len(docs))
	for _, data := range docs {
		var exp finance.Expense
		if err := json.Unmarshal(data, &exp); err != nil {
			return nil, errors.Wrap(err, "unmarshaling expense")
		}
		expenses = append(expenses, exp)
	}
	return expenses, nil
}

func (repo *financeRepository) GetExpenseByID(ctx context.Context, id string) (finance.Expense, error) {
	var exp finance.Expense
	if err := repo.expenses.get(ctx, id, &exp); err != nil {
		if err == sql.ErrNoRows {
			return finance.Expense{}, finance.ErrExpenseNotFound
		}
		return finance.Expense{}, errors.Wrap(err, "getting expense")
	}
	return exp, nil
}

func (repo *financeRepository) UpdateExpense(ctx context.Context, exp finance.Expense) (finance.Expense, error) {
	if err := repo.expenses.save(ctx, exp.ID, exp); err != nil {
		if err == sql.ErrNoRows {
			return finance.Expense{}, finance.ErrExpenseNotFound
		}
		return finance.Expense{}, errors.Wrap(err, "updating expense")
	}
	return exp, nil
}

func (repo *financeRepository) DeleteExpensesByID(ctx context.Context, ids ...string) error {
	return errors.Wrap(repo.expenses.deleteMany(ctx, ids...), "deleting expenses")
}

func unmarshalFees(docs []json.RawMessage) ([]finance.Fee, error) {
	fees := make([]finance.Fee, 0, len(docs))
	for _, data := range docs {
		var fee finance.Fee
		if err := json.Unmarshal(data, &fee); err != nil {
			return nil, errors.Wrap(err, "unmarshaling fee")
		}
		fees = append(fees, fee)
	}
	return fees, nil
}
