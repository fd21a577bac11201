package inmem

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/SamiSahil/edusysv1/core/attendance"
)

type attendanceRepository struct {
	mu      sync.RWMutex
	records map[string]attendance.Record
}

var _ attendance.Repository = (*attendanceRepository)(nil)

func NewAttendanceRepository() *attendanceRepository {
	return &attendanceRepository{records: make(map[string]attendance.Record)}
}

func (repo *attendanceRepository) CreateRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	rec.ID = uuid.New().String()
	repo.records[rec.ID] = rec
	return rec, nil
}

func (repo *attendanceRepository) GetRecord(ctx context.Context, sectionID, studentID, date string) (attendance.Record, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, rec := range repo.records {
		if rec.SectionID == sectionID && rec.StudentID == studentID && rec.Date == date {
			return rec, nil
		}
	}
	return attendance.Record{}, attendance.ErrNotFound
}

func (repo *attendanceRepository) QueryRecordsBySectionAndDate(ctx context.Context, sectionID, date string) ([]attendance.Record, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	var records []attendance.Record
	for _, rec := range repo.records {
		if rec.SectionID == sectionID && rec.Date == date {
			records = append(records, rec)
		}
	}
	sortRecords(records)
	return records, nil
}

func (repo *attendanceRepository) QueryRecordsBySection(ctx context.Context, sectionID string) ([]attendance.Record, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	var records []attendance.Record
	for _, rec := range repo.records {
		if rec.SectionID == sectionID {
			records = append(records, rec)
		}
	}
	sortRecords(records)
	return records, nil
}

func (repo *attendanceRepository) QueryRecordsByStudent(ctx context.Context, studentID string) ([]attendance.Record, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	var records []attendance.Record
	for _, rec := range repo.records {
		if rec.StudentID == studentID {
			records = append(records, rec)
		}
	}
	sortRecords(records)
	return records, nil
}

func (repo *attendanceRepository) UpdateRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.records[rec.ID]; !ok {
		return attendance.Record{}, attendance.ErrNotFound
	}
	repo.records[rec.ID] = rec
	return rec, nil
}

func sortRecords(records []attendance.Record) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Date == records[j].Date {
			return records[i].ID < records[j].ID
		}
		return records[i].Date < records[j].Date
	})
}
