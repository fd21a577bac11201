package teacher

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("teacher not found")

type (
	Repository interface {
		CreateTeacher(ctx context.Context, tc Teacher) (Teacher, error)
		QueryAllTeachers(ctx context.Context) ([]Teacher, error)
		GetTeacherByID(ctx context.Context, id string) (Teacher, error)
		UpdateTeacher(ctx context.Context, tc Teacher) (Teacher, error)
		DeleteTeachersByID(ctx context.Context, ids ...string) error
	}

	ServiceInterface interface {
		Create(ctx context.Context, nt NewTeacher) (Teacher, error)
		CreateMany(ctx context.Context, nts []NewTeacher) ([]Teacher, error)
		QueryAll(ctx context.Context) ([]Teacher, error)
		GetByID(ctx context.Context, id string) (Teacher, error)
		Update(ctx context.Context, id string, nt NewTeacher) (Teacher, error)
		Delete(ctx context.Context, ids ...string) error
	}

	service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository) *service {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, nt NewTeacher) (Teacher, error) {
	now := time.Now().UTC()
	return svc.repo.CreateTeacher(ctx, Teacher{
		Name:         nt.Name,
		Email:        nt.Email,
		Phone:        nt.Phone,
		DepartmentID: nt.DepartmentID,
		SubjectID:    nt.SubjectID,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func (svc *service) CreateMany(ctx context.Context, nts []NewTeacher) ([]Teacher, error) {
	teachers := make([]Teacher, 0, len(nts))
	for _, nt := range nts {
		tc, err := svc.Create(ctx, nt)
		if err != nil {
			return teachers, err
		}
		teachers = append(teachers, tc)
	}
	return teachers, nil
}

func (svc *service) QueryAll(ctx context.Context) ([]Teacher, error) {
	return svc.repo.QueryAllTeachers(ctx)
}

func (svc *service) GetByID(ctx context.Context, id string) (Teacher, error) {
	return svc.repo.GetTeacherByID(ctx, id)
}

func (svc *service) Update(ctx context.Context, id string, nt NewTeacher) (Teacher, error) {
	tc, err := svc.repo.GetTeacherByID(ctx, id)
	if err != nil {
		return Teacher{}, err
	}
	tc.Name = nt.Name
	tc.Email = nt.Email
	tc.Phone = nt.Phone
	tc.DepartmentID = nt.DepartmentID
	tc.SubjectID = nt.SubjectID
	tc.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateTeacher(ctx, tc)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteTeachersByID(ctx, ids...)
}
