package exam

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrExamNotFound   = errors.New("exam not found")
	ErrResultNotFound = errors.New("result not found")
)

type (
	Repository interface {
		CreateExam(ctx context.Context, ex Exam) (Exam, error)
		QueryAllExams(ctx context.Context) ([]Exam, error)
		GetExamByID(ctx context.Context, id string) (Exam, error)
		UpdateExam(ctx context.Context, ex Exam) (Exam, error)
		DeleteExamsByID(ctx context.Context, ids ...string) error

		CreateResult(ctx context.Context, res Result) (Result, error)
		QueryAllResults(ctx context.Context) ([]Result, error)
		QueryResultsByExam(ctx context.Context, examID string) ([]Result, error)
		// GetResult returns the result for (examID, studentID), if any.
		GetResult(ctx context.Context, examID, studentID string) (Result, error)
		UpdateResult(ctx context.Context, res Result) (Result, error)
		DeleteResultsByID(ctx context.Context, ids ...string) error
	}

	ServiceInterface interface {
		CreateExam(ctx context.Context, ne NewExam) (Exam, error)
		QueryExams(ctx context.Context) ([]Exam, error)
		UpdateExam(ctx context.Context, id string, ne NewExam) (Exam, error)
		DeleteExams(ctx context.Context, ids ...string) error

		// SaveResults upserts every entry of a marks submission; re-posting
		// results for the same exam overwrites marks and grades.
		SaveResults(ctx context.Context, examID string, nr NewResults) ([]Result, error)
		QueryResults(ctx context.Context) ([]Result, error)
		QueryResultsByExam(ctx context.Context, examID string) ([]Result, error)
		DeleteResults(ctx context.Context, ids ...string) error
	}

	service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository) *service {
	return &service{repo: repo}
}

func (svc *service) CreateExam(ctx context.Context, ne NewExam) (Exam, error) {
	now := time.Now().UTC()
	return svc.repo.CreateExam(ctx, Exam{
		Name:       ne.Name,
		SectionID:  ne.SectionID,
		SubjectID:  ne.SubjectID,
		Date:       ne.Date,
		TotalMarks: ne.TotalMarks,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

func (svc *service) QueryExams(ctx context.Context) ([]Exam, error) {
	return svc.repo.QueryAllExams(ctx)
}

func (svc *service) UpdateExam(ctx context.Context, id string, ne NewExam) (Exam, error) {
	ex, err := svc.repo.GetExamByID(ctx, id)
	if err != nil {
		return Exam{}, err
	}
	ex.Name = ne.Name
	ex.SectionID = ne.SectionID
	ex.SubjectID = ne.SubjectID
	ex.Date = ne.Date
	ex.TotalMarks = ne.TotalMarks
	ex.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateExam(ctx, ex)
}

func (svc *service) DeleteExams(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteExamsByID(ctx, ids...)
}

func (svc *service) SaveResults(ctx context.Context, examID string, nr NewResults) ([]Result, error) {
	if _, err := svc.repo.GetExamByID(ctx, examID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	results := make([]Result, 0, len(nr.Entries))
	for _, entry := range nr.Entries {
		res, err := svc.repo.GetResult(ctx, examID, entry.StudentID)
		switch err {
		case nil:
			res.Marks = entry.Marks
			res.Grade = entry.Grade
			res.UpdatedAt = now
			res, err = svc.repo.UpdateResult(ctx, res)
			if err != nil {
				return results, err
			}
		case ErrResultNotFound:
			res, err = svc.repo.CreateResult(ctx, Result{
				ExamID:    examID,
				StudentID: entry.StudentID,
				Marks:     entry.Marks,
				Grade:     entry.Grade,
				CreatedAt: now,
				UpdatedAt: now,
			})
			if err != nil {
				return results, err
			}
		default:
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (svc *service) QueryResults(ctx context.Context) ([]Result, error) {
	return svc.repo.QueryAllResults(ctx)
}

func (svc *service) QueryResultsByExam(ctx context.Context, examID string) ([]Result, error) {
	return svc.repo.QueryResultsByExam(ctx, examID)
}

func (svc *service) DeleteResults(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteResultsByID(ctx, ids...)
}
