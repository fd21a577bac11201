package inmem

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/SamiSahil/edusysv1/core/student"
)

type studentRepository struct {
	mu       sync.RWMutex
	students map[string]student.Student
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository() *studentRepository {
	return &studentRepository{students: make(map[string]student.Student)}
}

func (repo *studentRepository) CreateStudent(ctx context.Context, st student.Student) (student.Student, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	st.ID = uuid.New().String()
	repo.students[st.ID] = st
	return st, nil
}

func (repo *studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	students := make([]student.Student, 0, len(repo.students))
	for _, st := range repo.students {
		students = append(students, st)
	}
	sortStudents(students)
	return students, nil
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	st, ok := repo.students[id]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	return st, nil
}

func (repo *studentRepository) QueryStudentsBySection(ctx context.Context, sectionID string) ([]student.Student, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	var students []student.Student
	for _, st := range repo.students {
		if st.SectionID == sectionID {
			students = append(students, st)
		}
	}
	sortStudents(students)
	return students, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, st student.Student) (student.Student, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.students[st.ID]; !ok {
		return student.Student{}, student.ErrNotFound
	}
	repo.students[st.ID] = st
	return st, nil
}

func (repo *studentRepository) DeleteStudentsByID(ctx context.Context, ids ...string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, id := range ids {
		delete(repo.students, id)
	}
	return nil
}

func sortStudents(students []student.Student) {
	sort.Slice(students, func(i, j int) bool {
		if students[i].CreatedAt.Equal(students[j].CreatedAt) {
			return students[i].ID < students[j].ID
		}
		return students[i].CreatedAt.Before(students[j].CreatedAt)
	})
}
