package attendance

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("attendance record not found")

type (
	Repository interface {
		CreateRecord(ctx context.Context, rec Record) (Record, error)
		// GetRecord returns the record for (sectionID, studentID, date), if any.
		GetRecord(ctx context.Context, sectionID, studentID, date string) (Record, error)
		QueryRecordsBySectionAndDate(ctx context.Context, sectionID, date string) ([]Record, error)
		QueryRecordsBySection(ctx context.Context, sectionID string) ([]Record, error)
		QueryRecordsByStudent(ctx context.Context, studentID string) ([]Record, error)
		UpdateRecord(ctx context.Context, rec Record) (Record, error)
	}

	ServiceInterface interface {
		// SaveSheet upserts every entry of a sheet; re-submitting a sheet for
		// the same section and date overwrites the statuses.
		SaveSheet(ctx context.Context, ns NewSheet) ([]Record, error)
		GetSheet(ctx context.Context, sectionID, date string) ([]Record, error)
		SectionReport(ctx context.Context, sectionID string) ([]Report, error)
		StudentReport(ctx context.Context, studentID string) (Report, error)
	}

	service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository) *service {
	return &service{repo: repo}
}

func (svc *service) SaveSheet(ctx context.Context, ns NewSheet) ([]Record, error) {
	now := time.Now().UTC()
	records := make([]Record, 0, len(ns.Entries))
	for _, entry := range ns.Entries {
		rec, err := svc.repo.GetRecord(ctx, ns.SectionID, entry.StudentID, ns.Date)
		switch err {
		case nil:
			rec.Status = entry.Status
			rec.UpdatedAt = now
			rec, err = svc.repo.UpdateRecord(ctx, rec)
			if err != nil {
				return records, err
			}
		case ErrNotFound:
			rec, err = svc.repo.CreateRecord(ctx, Record{
				SectionID: ns.SectionID,
				StudentID: entry.StudentID,
				Date:      ns.Date,
				Status:    entry.Status,
				CreatedAt: now,
				UpdatedAt: now,
			})
			if err != nil {
				return records, err
			}
		default:
			return records, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (svc *service) GetSheet(ctx context.Context, sectionID, date string) ([]Record, error) {
	return svc.repo.QueryRecordsBySectionAndDate(ctx, sectionID, date)
}

func (svc *service) SectionReport(ctx context.Context, sectionID string) ([]Report, error) {
	records, err := svc.repo.QueryRecordsBySection(ctx, sectionID)
	if err != nil {
		return nil, err
	}

	byStudent := make(map[string]*Report)
	order := make([]string, 0)
	for _, rec := range records {
		rep, ok := byStudent[rec.StudentID]
		if !ok {
			rep = &Report{StudentID: rec.StudentID}
			byStudent[rec.StudentID] = rep
			order = append(order, rec.StudentID)
		}
		rep.count(rec.Status)
	}

	reports := make([]Report, 0, len(order))
	for _, id := range order {
		reports = append(reports, *byStudent[id])
	}
	return reports, nil
}

func (svc *service) StudentReport(ctx context.Context, studentID string) (Report, error) {
	records, err := svc.repo.QueryRecordsByStudent(ctx, studentID)
	if err != nil {
		return Report{}, err
	}
	rep := Report{StudentID: studentID, Records: records}
	for _, rec := range records {
		rep.count(rec.Status)
	}
	return rep, nil
}

func (rep *Report) count(status string) {
	switch status {
	case StatusPresent:
		rep.Present++
	case StatusAbsent:
		rep.Absent++
	case StatusLate:
		rep.Late++
	}
}
