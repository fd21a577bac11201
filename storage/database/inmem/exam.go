package inmem

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/SamiSahil/edusysv1/core/exam"
)

type examRepository struct {
	mu      sync.RWMutex
	exams   map[string]exam.Exam
	results map[string]exam.Result
}

var _ exam.Repository = (*examRepository)(nil)

func NewExamRepository() *examRepository {
	return &examRepository{
		exams:   make(map[string]exam.Exam),
		results: make(map[string]exam.Result),
	}
}

func (repo *examRepository) CreateExam(ctx context.Context, ex exam.Exam) (exam.Exam, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	ex.ID = uuid.New().String()
	repo.exams[ex.ID] = ex
	return ex, nil
}

func (repo *examRepository) QueryAllExams(ctx context.Context) ([]exam.Exam, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	exams := make([]exam.Exam, 0, len(repo.exams))
	for _, ex := range repo.exams {
		exams = append(exams, ex)
	}
	sort.Slice(exams, func(i, j int) bool {
		if exams[i].CreatedAt.Equal(exams[j].CreatedAt) {
			return exams[i].ID < exams[j].ID
		}
		return exams[i].CreatedAt.Before(exams[j].CreatedAt)
	})
	return exams, nil
}

func (repo *examRepository) GetExamByID(ctx context.Context, id string) (exam.Exam, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	if ex, ok := repo.exams[id]; ok {
		return ex, nil
	}
	return exam.Exam{}, exam.ErrExamNotFound
}

func (repo *examRepository) UpdateExam(ctx context.Context, ex exam.Exam) (exam.Exam, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.exams[ex.ID]; !ok {
		return exam.Exam{}, exam.ErrExamNotFound
	}
	repo.exams[ex.ID] = ex
	return ex, nil
}

func (repo *examRepository) DeleteExamsByID(ctx context.Context, ids ...string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, id := range ids {
		delete(repo.exams, id)
	}
	return nil
}

func (repo *examRepository) CreateResult(ctx context.Context, res exam.Result) (exam.Result, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	res.ID = uuid.New().String()
	repo.results[res.ID] = res
	return res, nil
}

func (repo *examRepository) QueryAllResults(ctx context.Context) ([]exam.Result, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	results := make([]exam.Result, 0, len(repo.results))
	for _, res := range repo.results {
		results = append(results, res)
	}
	sortResults(results)
	return results, nil
}

func (repo *examRepository) QueryResultsByExam(ctx context.Context, examID string) ([]exam.Result, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	var results []exam.Result
	for _, res := range repo.results {
		if res.ExamID == examID {
			results = append(results, res)
		}
	}
	sortResults(results)
	return results, nil
}

func (repo *examRepository) GetResult(ctx context.Context, examID, studentID string) (exam.Result, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, res := range repo.results {
		if res.ExamID == examID && res.StudentID == studentID {
			return res, nil
		}
	}
	return exam.Result{}, exam.ErrResultNotFound
}

func (repo *examRepository) UpdateResult(ctx context.Context, res exam.Result) (exam.Result, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.results[res.ID]; !ok {
		return exam.Result{}, exam.ErrResultNotFound
	}
	repo.results[res.ID] = res
	return res, nil
}

func (repo *examRepository) DeleteResultsByID(ctx context.Context, ids ...string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, id := range ids {
		delete(repo.results, id)
	}
	return nil
}

func sortResults(results []exam.Result) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].ExamID == results[j].ExamID {
			return results[i].ID < results[j].ID
		}
		return results[i].ExamID < results[j].ExamID
	})
}
