package inmem

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/SamiSahil/edusysv1/core/teacher"
)

type teacherRepository struct {
	mu       sync.RWMutex
	teachers map[string]teacher.Teacher
}

var _ teacher.Repository = (*teacherRepository)(nil)

func NewTeacherRepository() *teacherRepository {
	return &teacherRepository{teachers: make(map[string]teacher.Teacher)}
}

func (repo *teacherRepository) CreateTeacher(ctx context.Context, tc teacher.Teacher) (teacher.Teacher, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	tc.ID = uuid.New().String()
	repo.teachers[tc.ID] = tc
	return tc, nil
}

func (repo *teacherRepository) QueryAllTeachers(ctx context.Context) ([]teacher.Teacher, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	teachers := make([]teacher.Teacher, 0, len(repo.teachers))
	for _, tc := range repo.teachers {
		teachers = append(teachers, tc)
	}
	sort.Slice(teachers, func(i, j int) bool {
		if teachers[i].CreatedAt.Equal(teachers[j].CreatedAt) {
			return teachers[i].ID < teachers[j].ID
		}
		return teachers[i].CreatedAt.Before(teachers[j].CreatedAt)
	})
	return teachers, nil
}

func (repo *teacherRepository) GetTeacherByID(ctx context.Context, id string) (teacher.Teacher, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	tc, ok := repo.teachers[id]
	if !ok {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	return tc, nil
}

func (repo *teacherRepository) UpdateTeacher(ctx context.Context, tc teacher.Teacher) (teacher.Teacher, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.teachers[tc.ID]; !ok {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	repo.teachers[tc.ID] = tc
	return tc, nil
}

func (repo *teacherRepository) DeleteTeachersByID(ctx context.Context, ids ...string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, id := range ids {
		delete(repo.teachers, id)
	}
	return nil
}
