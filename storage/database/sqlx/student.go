package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/SamiSahil/edusysv1/core/student"
)

type studentRepository struct {
	coll collection
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{coll: newCollection(db, "students")}
}

func (repo *studentRepository) CreateStudent(ctx context.Context, st student.Student) (student.Student, error) {
	st.ID = repo.coll.newID()
	if err := repo.coll.insert(ctx, st.ID, st); err != nil {
		return student.Student{}, errors.Wrap(err, "creating student")
	}
	return st, nil
}

func (repo *studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	docs, err := repo.coll.find(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return unmarshalStudents(docs)
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	var st student.Student
	if err := repo.coll.get(ctx, id, &st); err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "getting student")
	}
	return st, nil
}

func (repo *studentRepository) QueryStudentsBySection(ctx context.Context, sectionID string) ([]student.Student, error) {
	docs, err := repo.coll.find(ctx, map[string]interface{}{"sectionId": sectionID})
	if err != nil {
		return nil, errors.Wrap(err, "querying students by section")
	}
	return unmarshalStudents(docs)
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, st student.Student) (student.Student, error) {
	if err := repo.coll.save(ctx, st.ID, st); err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	return st, nil
}

func (repo *studentRepository) DeleteStudentsByID(ctx context.Context, ids ...string) error {
	return errors.Wrap(repo.coll.deleteMany(ctx, ids...), "deleting students")
}

func unmarshalStudents(docs []json.RawMessage) ([]student.Student, error) {
	students := make([]student.Student, 0, len(docs))
	for _, data := range docs {
		var st student.Student
		if err := json.Unmarshal(data, &st); err != nil {
			return nil, errors.Wrap(err, "unmarshaling student")
		}
		students = append(students, st)
	}
	return students, nil
}
