package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/SamiSahil/edusysv1/core/exam"
)

type examRepository struct {
	exams   collection
	results collection
}

var _ exam.Repository = (*examRepository)(nil)

func NewExamRepository(db *sqlx.DB) *examRepository {
	return &examRepository{
		exams:   newCollection(db, "exams"),
		results: newCollection(db, "results"),
	}
}

func (repo *examRepository) CreateExam(ctx context.Context, ex exam.Exam) (exam.Exam, error) {
	ex.ID = repo.exams.newID()
	if err := repo.exams.insert(ctx, ex.ID, ex); err != nil {
		return exam.Exam{}, errors.Wrap(err, "creating exam")
	}
	return ex, nil
}

func (repo *examRepository) QueryAllExams(ctx context.Context) ([]exam.Exam, error) {
	docs, err := repo.exams.find(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying exams")
	}
	exams := make([]exam.Exam, 0, len(docs))
	for _, data := range docs {
		var ex exam.Exam
		if err := json.Unmarshal(data, &ex); err != nil {
			return nil, errors.Wrap(err, "unmarshaling exam")
		}
		exams = append(exams, ex)
	}
	return exams, nil
}

func (repo *examRepository) GetExamByID(ctx context.Context, id string) (exam.Exam, error) {
	var ex exam.Exam
	if err := repo.exams.get(ctx, id, &ex); err != nil {
		if err == sql.ErrNoRows {
			return exam.Exam{}, exam.ErrExamNotFound
		}
		return exam.Exam{}, errors.Wrap(err, "getting exam")
	}
	return ex, nil
}

func (repo *examRepository) UpdateExam(ctx context.Context, ex exam.Exam) (exam.Exam, error) {
	if err := repo.exams.save(ctx, ex.ID, ex); err != nil {
		if err == sql.ErrNoRows {
			return exam.Exam{}, exam.ErrExamNotFound
		}
		return exam.Exam{}, errors.Wrap(err, "updating exam")
	}
	return ex, nil
}

func (repo *examRepository) DeleteExamsByID(ctx context.Context, ids ...string) error {
	return errors.Wrap(repo.exams.deleteMany(ctx, ids...), "deleting exams")
}

func (repo *examRepository) CreateResult(ctx context.Context, res exam.Result) (exam.Result, error) {
	res.ID = repo.results.newID()
	if err := repo.results.insert(ctx, res.ID, res); err != nil {
		return exam.Result{}, errors.Wrap(err, "creating result")
	}
	return res, nil
}

func (repo *examRepository) QueryAllResults(ctx context.Context) ([]exam.Result, error) {
	docs, err := repo.results.find(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying results")
	}
	return unmarshalResults(docs)
}

func (repo *examRepository) QueryResultsByExam(ctx context.Context, examID string) ([]exam.Result, error) {
	docs, err := repo.results.find(ctx, map[string]interface{}{"examId": examID})
	if err != nil {
		return nil, errors.Wrap(err, "querying results")
	}
	return unmarshalResults(docs)
}

func (repo *examRepository) GetResult(ctx context.Context, examID, studentID string) (exam.Result, error) {
	var res exam.Result
	filter := map[string]interface{}{"examId": examID, "studentId": studentID}
	if err := repo.results.findOne(ctx, filter, &res); err != nil {
		if err == sql.ErrNoRows {
			return exam.Result{}, exam.ErrResultNotFound
		}
		return exam.Result{}, errors.Wrap(err, "getting result")
	}
	return res, nil
}

func (repo *examRepository) UpdateResult(ctx context.Context, res exam.Result) (exam.Result, error) {
	if err := repo.results.save(ctx, res.ID, res); err != nil {
		if err == sql.ErrNoRows {
			return exam.Result{}, exam.ErrResultNotFound
		}
		return exam.Result{}, errors.Wrap(err, "updating result")
	}
	return res, nil
}

func (repo *examRepository) DeleteResultsByID(ctx context.Context, ids ...string) error {
	return errors.Wrap(repo.results.deleteMany(ctx, ids...), "deleting results")
}

func unmarshalResults(docs []json.RawMessage) ([]exam.Result, error) {
	results := make([]exam.Result, 0, len(docs))
	for _, data := range docs {
		var res exam.Result
		if err := json.Unmarshal(data, &res); err != nil {
			return nil, errors.Wrap(err, "unmarshaling result")
		}
		results = append(results, res)
	}
	return results, nil
}
