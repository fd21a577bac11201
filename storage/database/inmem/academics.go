package inmem

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/SamiSahil/edusysv1/core/academics"
)

type academicsRepository struct {
	mu          sync.RWMutex
	departments map[string]academics.Department
	subjects    map[string]academics.Subject
	sections    map[string]academics.Section
}

var _ academics.Repository = (*academicsRepository)(nil)

func NewAcademicsRepository() *academicsRepository {
	return &academicsRepository{
		departments: make(map[string]academics.Department),
		subjects:    make(map[string]academics.Subject),
		sections:    make(map[string]academics.Section),
	}
}

func (repo *academicsRepository) CreateDepartment(ctx context.Context, dep academics.Department) (academics.Department, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	dep.ID = uuid.New().String()
	repo.departments[dep.ID] = dep
	return dep, nil
}

func (repo *academicsRepository) QueryAllDepartments(ctx context.Context) ([]academics.Department, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	deps := make([]academics.Department, 0, len(repo.departments))
	for _, dep := range repo.departments {
		deps = append(deps, dep)
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i].CreatedAt.Before(deps[j].CreatedAt) })
	return deps, nil
}

func (repo *academicsRepository) GetDepartmentByID(ctx context.Context, id string) (academics.Department, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	dep, ok := repo.departments[id]
	if !ok {
		return academics.Department{}, academics.ErrDepartmentNotFound
	}
	return dep, nil
}

func (repo *academicsRepository) UpdateDepartment(ctx context.Context, dep academics.Department) (academics.Department, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.departments[dep.ID]; !ok {
		return academics.Department{}, academics.ErrDepartmentNotFound
	}
	repo.departments[dep.ID] = dep
	return dep, nil
}

func (repo *academicsRepository) DeleteDepartmentsByID(ctx context.Context, ids ...string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, id := range ids {
		delete(repo.departments, id)
	}
	return nil
}

func (repo *academicsRepository) CreateSubject(ctx context.Context, sub academics.Subject) (academics.Subject, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	sub.ID = uuid.New().String()
	repo.subjects[sub.ID] = sub
	return sub, nil
}

func (repo *academicsRepository) QueryAllSubjects(ctx context.Context) ([]academics.Subject, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	subs := make([]academics.Subject, 0, len(repo.subjects))
	for _, sub := range repo.subjects {
		subs = append(subs, sub)
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].CreatedAt.Before(subs[j].CreatedAt) })
	return subs, nil
}

func (repo *academicsRepository) GetSubjectByID(ctx context.Context, id string) (academics.Subject, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	sub, ok := repo.subjects[id]
	if !ok {
		return academics.Subject{}, academics.ErrSubjectNotFound
	}
	return sub, nil
}

func (repo *academicsRepository) UpdateSubject(ctx context.Context, sub academics.Subject) (academics.Subject, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.subjects[sub.ID]; !ok {
		return academics.Subject{}, academics.ErrSubjectNotFound
	}
	repo.subjects[sub.ID] = sub
	return sub, nil
}

func (repo *academicsRepository) DeleteSubjectsByID(ctx context.Context, ids ...string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, id := range ids {
		delete(repo.subjects, id)
	}
	return nil
}

func (repo *academicsRepository) CreateSection(ctx context.Context, sec academics.Section) (academics.Section, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	sec.ID = uuid.New().String()
	repo.sections[sec.ID] = sec
	return sec, nil
}

func (repo *academicsRepository) QueryAllSections(ctx context.Context) ([]academics.Section, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	secs := make([]academics.Section, 0, len(repo.sections))
	for _, sec := range repo.sections {
		secs = append(secs, sec)
	}
	sort.Slice(secs, func(i, j int) bool { return secs[i].CreatedAt.Before(secs[j].CreatedAt) })
	return secs, nil
}

func (repo *academicsRepository) GetSectionByID(ctx context.Context, id string) (academics.Section, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	sec, ok := repo.sections[id]
	if !ok {
		return academics.Section{}, academics.ErrSectionNotFound
	}
	return sec, nil
}

func (repo *academicsRepository) UpdateSection(ctx context.Context, sec academics.Section) (academics.Section, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.sections[sec.ID]; !ok {
		return academics.Section{}, academics.ErrSectionNotFound
	}
	repo.sections[sec.ID] = sec
	return sec, nil
}

func (repo *academicsRepository) DeleteSectionsByID(ctx context.Context, ids ...string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, id := range ids {
		delete(repo.sections, id)
	}
	return nil
}
