package student

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/SamiSahil/edusysv1/core/academics"
)

var ErrNotFound = errors.New("student not found")

type (
	Repository interface {
		CreateStudent(ctx context.Context, st Student) (Student, error)
		QueryAllStudents(ctx context.Context) ([]Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		QueryStudentsBySection(ctx context.Context, sectionID string) ([]Student, error)
		UpdateStudent(ctx context.Context, st Student) (Student, error)
		DeleteStudentsByID(ctx context.Context, ids ...string) error
	}

	ServiceInterface interface {
		Create(ctx context.Context, ns NewStudent) (Student, error)
		CreateMany(ctx context.Context, nss []NewStudent) ([]Student, error)
		QueryAll(ctx context.Context) ([]Student, error)
		GetByID(ctx context.Context, id string) (Student, error)
		QueryBySection(ctx context.Context, sectionID string) ([]Student, error)
		Update(ctx context.Context, id string, ns NewStudent) (Student, error)
		Delete(ctx context.Context, ids ...string) error

		// GetProfile loads a student with its section expanded one level deep
		// (section name, subject name, department display name).
		GetProfile(ctx context.Context, id string) (Profile, error)
	}

	service struct {
		repo        Repository
		academicSvc academics.ServiceInterface
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository, academicSvc academics.ServiceInterface) *service {
	return &service{repo: repo, academicSvc: academicSvc}
}

func (svc *service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	return svc.repo.CreateStudent(ctx, Student{
		Name:      ns.Name,
		RollNo:    ns.RollNo,
		Email:     ns.Email,
		Guardian:  ns.Guardian,
		Phone:     ns.Phone,
		SectionID: ns.SectionID,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *service) CreateMany(ctx context.Context, nss []NewStudent) ([]Student, error) {
	students := make([]Student, 0, len(nss))
	for _, ns := range nss {
		st, err := svc.Create(ctx, ns)
		if err != nil {
			return students, err
		}
		students = append(students, st)
	}
	return students, nil
}

func (svc *service) QueryAll(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryAllStudents(ctx)
}

func (svc *service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *service) QueryBySection(ctx context.Context, sectionID string) ([]Student, error) {
	return svc.repo.QueryStudentsBySection(ctx, sectionID)
}

func (svc *service) Update(ctx context.Context, id string, ns NewStudent) (Student, error) {
	st, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	st.Name = ns.Name
	st.RollNo = ns.RollNo
	st.Email = ns.Email
	st.Guardian = ns.Guardian
	st.Phone = ns.Phone
	st.SectionID = ns.SectionID
	st.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(ctx, st)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteStudentsByID(ctx, ids...)
}

func (svc *service) GetProfile(ctx context.Context, id string) (Profile, error) {
	st, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	prof := Profile{Student: st}
	if st.SectionID == "" {
		return prof, nil
	}

	info, err := svc.academicSvc.ExpandSection(ctx, st.SectionID)
	if err != nil {
		if err == academics.ErrSectionNotFound {
			return prof, nil // dangling section ref; profile stays flat
		}
		return Profile{}, errors.Wrap(err, "expanding section")
	}
	prof.Section = &info
	return prof, nil
}
