package academics

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrDepartmentNotFound = errors.New("department not found")
	ErrSubjectNotFound    = errors.New("subject not found")
	ErrSectionNotFound    = errors.New("section not found")
)

type (
	Repository interface {
		CreateDepartment(ctx context.Context, dep Department) (Department, error)
		QueryAllDepartments(ctx context.Context) ([]Department, error)
		GetDepartmentByID(ctx context.Context, id string) (Department, error)
		UpdateDepartment(ctx context.Context, dep Department) (Department, error)
		DeleteDepartmentsByID(ctx context.Context, ids ...string) error

		CreateSubject(ctx context.Context, sub Subject) (Subject, error)
		QueryAllSubjects(ctx context.Context) ([]Subject, error)
		GetSubjectByID(ctx context.Context, id string) (Subject, error)
		UpdateSubject(ctx context.Context, sub Subject) (Subject, error)
		DeleteSubjectsByID(ctx context.Context, ids ...string) error

		CreateSection(ctx context.Context, sec Section) (Section, error)
		QueryAllSections(ctx context.Context) ([]Section, error)
		GetSectionByID(ctx context.Context, id string) (Section, error)
		UpdateSection(ctx context.Context, sec Section) (Section, error)
		DeleteSectionsByID(ctx context.Context, ids ...string) error
	}

	ServiceInterface interface {
		CreateDepartment(ctx context.Context, nd NewDepartment) (Department, error)
		QueryDepartments(ctx context.Context) ([]Department, error)
		UpdateDepartment(ctx context.Context, id string, nd NewDepartment) (Department, error)
		DeleteDepartments(ctx context.Context, ids ...string) error

		CreateSubject(ctx context.Context, ns NewSubject) (Subject, error)
		QuerySubjects(ctx context.Context) ([]Subject, error)
		UpdateSubject(ctx context.Context, id string, ns NewSubject) (Subject, error)
		DeleteSubjects(ctx context.Context, ids ...string) error

		CreateSection(ctx context.Context, ns NewSection) (Section, error)
		QuerySections(ctx context.Context) ([]Section, error)
		UpdateSection(ctx context.Context, id string, ns NewSection) (Section, error)
		DeleteSections(ctx context.Context, ids ...string) error

		// ExpandSection resolves a section into its display form:
		// section name, subject name and department name (one level each).
		ExpandSection(ctx context.Context, sectionID string) (SectionInfo, error)
	}

	service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository) *service {
	return &service{repo: repo}
}

func (svc *service) CreateDepartment(ctx context.Context, nd NewDepartment) (Department, error) {
	now := time.Now().UTC()
	return svc.repo.CreateDepartment(ctx, Department{
		Name:      nd.Name,
		Head:      nd.Head,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *service) QueryDepartments(ctx context.Context) ([]Department, error) {
	return svc.repo.QueryAllDepartments(ctx)
}

func (svc *service) UpdateDepartment(ctx context.Context, id string, nd NewDepartment) (Department, error) {
	dep, err := svc.repo.GetDepartmentByID(ctx, id)
	if err != nil {
		return Department{}, err
	}
	dep.Name = nd.Name
	dep.Head = nd.Head
	dep.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateDepartment(ctx, dep)
}

func (svc *service) DeleteDepartments(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteDepartmentsByID(ctx, ids...)
}

func (svc *service) CreateSubject(ctx context.Context, ns NewSubject) (Subject, error) {
	if _, err := svc.repo.GetDepartmentByID(ctx, ns.DepartmentID); err != nil {
		return Subject{}, err
	}
	now := time.Now().UTC()
	return svc.repo.CreateSubject(ctx, Subject{
		Name:         ns.Name,
		Code:         ns.Code,
		DepartmentID: ns.DepartmentID,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func (svc *service) QuerySubjects(ctx context.Context) ([]Subject, error) {
	return svc.repo.QueryAllSubjects(ctx)
}

func (svc *service) UpdateSubject(ctx context.Context, id string, ns NewSubject) (Subject, error) {
	sub, err := svc.repo.GetSubjectByID(ctx, id)
	if err != nil {
		return Subject{}, err
	}
	sub.Name = ns.Name
	sub.Code = ns.Code
	sub.DepartmentID = ns.DepartmentID
	sub.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateSubject(ctx, sub)
}

func (svc *service) DeleteSubjects(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteSubjectsByID(ctx, ids...)
}

func (svc *service) CreateSection(ctx context.Context, ns NewSection) (Section, error) {
	if _, err := svc.repo.GetSubjectByID(ctx, ns.SubjectID); err != nil {
		return Section{}, err
	}
	now := time.Now().UTC()
	return svc.repo.CreateSection(ctx, Section{
		Name:      ns.Name,
		SubjectID: ns.SubjectID,
		TeacherID: ns.TeacherID,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *service) QuerySections(ctx context.Context) ([]Section, error) {
	return svc.repo.QueryAllSections(ctx)
}

func (svc *service) UpdateSection(ctx context.Context, id string, ns NewSection) (Section, error) {
	sec, err := svc.repo.GetSectionByID(ctx, id)
	if err != nil {
		return Section{}, err
	}
	sec.Name = ns.Name
	sec.SubjectID = ns.SubjectID
	sec.TeacherID = ns.TeacherID
	sec.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateSection(ctx, sec)
}

func (svc *service) DeleteSections(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteSectionsByID(ctx, ids...)
}

func (svc *service) ExpandSection(ctx context.Context, sectionID string) (SectionInfo, error) {
	sec, err := svc.repo.GetSectionByID(ctx, sectionID)
	if err != nil {
		return SectionInfo{}, err
	}
	info := SectionInfo{ID: sec.ID, Name: sec.Name}

	sub, err := svc.repo.GetSubjectByID(ctx, sec.SubjectID)
	if err != nil {
		if err == ErrSubjectNotFound {
			return info, nil // dangling ref; expansion is best-effort
		}
		return SectionInfo{}, err
	}
	info.Subject = sub.Name

	dep, err := svc.repo.GetDepartmentByID(ctx, sub.DepartmentID)
	if err != nil {
		if err == ErrDepartmentNotFound {
			return info, nil
		}
		return SectionInfo{}, err
	}
	info.Department = dep.Name
	return info, nil
}
