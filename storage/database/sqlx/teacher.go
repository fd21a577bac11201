package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/SamiSahil/edusysv1/core/teacher"
)

type teacherRepository struct {
	coll collection
}

var _ teacher.Repository = (*teacherRepository)(nil)

func NewTeacherRepository(db *sqlx.DB) *teacherRepository {
	return &teacherRepository{coll: newCollection(db, "teachers")}
}

func (repo *teacherRepository) CreateTeacher(ctx context.Context, tc teacher.Teacher) (teacher.Teacher, error) {
	tc.ID = repo.coll.newID()
	if err := repo.coll.insert(ctx, tc.ID, tc); err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "creating teacher")
	}
	return tc, nil
}

func (repo *teacherRepository) QueryAllTeachers(ctx context.Context) ([]teacher.Teacher, error) {
	docs, err := repo.coll.find(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying teachers")
	}
	teachers := make([]teacher.Teacher, 0, len(docs))
	for _, data := range docs {
		var tc teacher.Teacher
		if err := json.Unmarshal(data, &tc); err != nil {
			return nil, errors.Wrap(err, "unmarshaling teacher")
		}
		teachers = append(teachers, tc)
	}
	return teachers, nil
}

func (repo *teacherRepository) GetTeacherByID(ctx context.Context, id string) (teacher.Teacher, error) {
	var tc teacher.Teacher
	if err := repo.coll.get(ctx, id, &tc); err != nil {
		if err == sql.ErrNoRows {
			return teacher.Teacher{}, teacher.ErrNotFound
		}
		return teacher.Teacher{}, errors.Wrap(err, "getting teacher")
	}
	return tc, nil
}

func (repo *teacherRepository) UpdateTeacher(ctx context.Context, tc teacher.Teacher) (teacher.Teacher, error) {
	if err := repo.coll.save(ctx, tc.ID, tc); err != nil {
		if err == sql.ErrNoRows {
			return teacher.Teacher{}, teacher.ErrNotFound
		}
		return teacher.Teacher{}, errors.Wrap(err, "updating teacher")
	}
	return tc, nil
}

func (repo *teacherRepository) DeleteTeachersByID(ctx context.Context, ids ...string) error {
	return errors.Wrap(repo.coll.deleteMany(ctx, ids...), "deleting teachers")
}
