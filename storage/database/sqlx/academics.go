package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/SamiSahil/edusysv1/core/academics"
)

type academicsRepository struct {
	departments collection
	subjects    collection
	sections    collection
}

var _ academics.Repository = (*academicsRepository)(nil)

func NewAcademicsRepository(db *sqlx.DB) *academicsRepository {
	return &academicsRepository{
		departments: newCollection(db, "departments"),
		subjects:    newCollection(db, "subjects"),
		sections:    newCollection(db, "sections"),
	}
}

func (repo *academicsRepository) CreateDepartment(ctx context.Context, dep academics.Department) (academics.Department, error) {
	dep.ID = repo.departments.newID()
	if err := repo.departments.insert(ctx, dep.ID, dep); err != nil {
		return academics.Department{}, errors.Wrap(err, "creating department")
	}
	return dep, nil
}

func (repo *academicsRepository) QueryAllDepartments(ctx context.Context) ([]academics.Department, error) {
	docs, err := repo.departments.find(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying departments")
	}
	deps := make([]academics.Department, 0, len(docs))
	for _, data := range docs {
		var dep academics.Department
		if err := json.Unmarshal(data, &dep); err != nil {
			return nil, errors.Wrap(err, "unmarshaling department")
		}
		deps = append(deps, dep)
	}
	return deps, nil
}

func (repo *academicsRepository) GetDepartmentByID(ctx context.Context, id string) (academics.Department, error) {
	var dep academics.Department
	if err := repo.departments.get(ctx, id, &dep); err != nil {
		if err == sql.ErrNoRows {
			return academics.Department{}, academics.ErrDepartmentNotFound
		}
		return academics.Department{}, errors.Wrap(err, "getting department")
	}
	return dep, nil
}

func (repo *academicsRepository) UpdateDepartment(ctx context.Context, dep academics.Department) (academics.Department, error) {
	if err := repo.departments.save(ctx, dep.ID, dep); err != nil {
		if err == sql.ErrNoRows {
			return academics.Department{}, academics.ErrDepartmentNotFound
		}
		return academics.Department{}, errors.Wrap(err, "updating department")
	}
	return dep, nil
}

func (repo *academicsRepository) DeleteDepartmentsByID(ctx context.Context, ids ...string) error {
	return errors.Wrap(repo.departments.deleteMany(ctx, ids...), "deleting departments")
}

func (repo *academicsRepository) CreateSubject(ctx context.Context, sub academics.Subject) (academics.Subject, error) {
	sub.ID = repo.subjects.newID()
	if err := repo.subjects.insert(ctx, sub.ID, sub); err != nil {
		return academics.Subject{}, errors.Wrap(err, "creating subject")
	}
	return sub, nil
}

func (repo *academicsRepository) QueryAllSubjects(ctx context.Context) ([]academics.Subject, error) {
	docs, err := repo.subjects.find(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}
	subs := make([]academics.Subject, 0, len(docs))
	for _, data := range docs {
		var sub academics.Subject
		if err := json.Unmarshal(data, &sub); err != nil {
			return nil, errors.Wrap(err, "unmarshaling subject")
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

func (repo *academicsRepository) GetSubjectByID(ctx context.Context, id string) (academics.Subject, error) {
	var sub academics.Subject
	if err := repo.subjects.get(ctx, id, &sub); err != nil {
		if err == sql.ErrNoRows {
			return academics.Subject{}, academics.ErrSubjectNotFound
		}
		return academics.Subject{}, errors.Wrap(err, "getting subject")
	}
	return sub, nil
}

func (repo *academicsRepository) UpdateSubject(ctx context.Context, sub academics.Subject) (academics.Subject, error) {
	if err := repo.subjects.save(ctx, sub.ID, sub); err != nil {
		if err == sql.ErrNoRows {
			return academics.Subject{}, academics.ErrSubjectNotFound
		}
		return academics.Subject{}, errors.Wrap(err, "updating subject")
	}
	return sub, nil
}

func (repo *academicsRepository) DeleteSubjectsByID(ctx context.Context, ids ...string) error {
	return errors.Wrap(repo.subjects.deleteMany(ctx, ids...), "deleting subjects")
}

func (repo *academicsRepository) CreateSection(ctx context.Context, sec academics.Section) (academics.Section, error) {
	sec.ID = repo.sections.newID()
	if err := repo.sections.insert(ctx, sec.ID, sec); err != nil {
		return academics.Section{}, errors.Wrap(err, "creating section")
	}
	return sec, nil
}

func (repo *academicsRepository) QueryAllSections(ctx context.Context) ([]academics.Section, error) {
	docs, err := repo.sections.find(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying sections")
	}
	secs := make([]academics.Section, 0, len(docs))
	for _, data := range docs {
		var sec academics.Section
		if err := json.Unmarshal(data, &sec); err != nil {
			return nil, errors.Wrap(err, "unmarshaling section")
		}
		secs = append(secs, sec)
	}
	return secs, nil
}

func (repo *academicsRepository) GetSectionByID(ctx context.Context, id string) (academics.Section, error) {
	var sec academics.Section
	if err := repo.sections.get(ctx, id, &sec); err != nil {
		if err == sql.ErrNoRows {
			return academics.Section{}, academics.ErrSectionNotFound
		}
		return academics.Section{}, errors.Wrap(err, "getting section")
	}
	return sec, nil
}

func (repo *academicsRepository) UpdateSection(ctx context.Context, sec academics.Section) (academics.Section, error) {
	if err := repo.sections.save(ctx, sec.ID, sec); err != nil {
		if err == sql.ErrNoRows {
			return academics.Section{}, academics.ErrSectionNotFound
		}
		return academics.Section{}, errors.Wrap(err, "updating section")
	}
	return sec, nil
}

func (repo *academicsRepository) DeleteSectionsByID(ctx context.Context, ids ...string) error {
	return errors.Wrap(repo.sections.deleteMany(ctx, ids...), "deleting sections")
}
