package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/SamiSahil/edusysv1/core/attendance"
)

type attendanceRepository struct {
	coll collection
}

var _ attendance.Repository = (*attendanceRepository)(nil)

func NewAttendanceRepository(db *sqlx.DB) *attendanceRepository {
	return &attendanceRepository{coll: newCollection(db, "attendance")}
}

func (repo *attendanceRepository) CreateRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	rec.ID = repo.coll.newID()
	if err := repo.coll.insert(ctx, rec.ID, rec); err != nil {
		return attendance.Record{}, errors.Wrap(err, "creating attendance record")
	}
	return rec, nil
}

func (repo *attendanceRepository) GetRecord(ctx context.Context, sectionID, studentID, date string) (attendance.Record, error) {
	var rec attendance.Record
	filter := map[string]interface{}{"sectionId": sectionID, "studentId": studentID, "date": date}
	if err := repo.coll.findOne(ctx, filter, &rec); err != nil {
		if err == sql.ErrNoRows {
			return attendance.Record{}, attendance.ErrNotFound
		}
		return attendance.Record{}, errors.Wrap(err, "getting attendance record")
	}
	return rec, nil
}

func (repo *attendanceRepository) QueryRecordsBySectionAndDate(ctx context.Context, sectionID, date string) ([]attendance.Record, error) {
	docs, err := repo.coll.find(ctx, map[string]interface{}{"sectionId": sectionID, "date": date})
	if err != nil {
		return nil, errors.Wrap(err, "querying attendance records")
	}
	return unmarshalRecords(docs)
}

func (repo *attendanceRepository) QueryRecordsBySection(ctx context.Context, sectionID string) ([]attendance.Record, error) {
	docs, err := repo.coll.find(ctx, map[string]interface{}{"sectionId": sectionID})
	if err != nil {
		return nil, errors.Wrap(err, "querying attendance records")
	}
	return unmarshalRecords(docs)
}

func (repo *attendanceRepository) QueryRecordsByStudent(ctx context.Context, studentID string) ([]attendance.Record, error) {
	docs, err := repo.coll.find(ctx, map[string]interface{}{"studentId": studentID})
	if err != nil {
		return nil, errors.Wrap(err, "querying attendance records")
	}
	return unmarshalRecords(docs)
}

func (repo *attendanceRepository) UpdateRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	if err := repo.coll.save(ctx, rec.ID, rec); err != nil {
		if err == sql.ErrNoRows {
			return attendance.Record{}, attendance.ErrNotFound
		}
		return attendance.Record{}, errors.Wrap(err, "updating attendance record")
	}
	return rec, nil
}

func unmarshalRecords(docs []json.RawMessage) ([]attendance.Record, error) {
	records := make([]attendance.Record, 0, len(docs))
	for _, data := range docs {
		var rec attendance.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, errors.Wrap(err, "unmarshaling attendance record")
		}
		records = append(records, rec)
	}
	return records, nil
}
