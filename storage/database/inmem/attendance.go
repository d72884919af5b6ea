package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
)

type attendanceRepository struct {
	db *attendanceTable
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.attendance}
}

func (repo *attendanceRepository) GetOutcomesInRange(ctx context.Context, userID string, start, end time.Time) ([]attendance.Outcome, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	start, end = core.DateOf(start), core.DateOf(end)
	outcomes := make([]attendance.Outcome, 0)
	for key, rec := range repo.db.outcomes {
		if key.userID != userID {
			continue
		}
		if key.date.Before(start) || key.date.After(end) {
			continue
		}
		outcomes = append(outcomes, *rec)
	}
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].Date.Before(outcomes[j].Date) })
	return outcomes, nil
}

func (repo *attendanceRepository) UpsertOutcome(ctx context.Context, o attendance.Outcome) (attendance.Outcome, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	o.Date = core.DateOf(o.Date)
	key := outcomeKey{userID: o.UserID, date: o.Date, subject: o.Subject, kind: o.Kind}
	if orig, ok := repo.db.outcomes[key]; ok {
		// last write wins; keep identity and creation time
		o.ID = orig.ID
		o.CreatedAt = orig.CreatedAt
	}
	repo.db.outcomes[key] = &o
	return o, nil
}

func (repo *attendanceRepository) GetImportedTotals(ctx context.Context, userID, subject string) (attendance.ImportedTotals, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if imp, ok := repo.db.imports[importKey{userID: userID, subject: subject}]; ok {
		return *imp, nil
	}
	return attendance.ImportedTotals{}, attendance.ErrImportNotFound
}

func (repo *attendanceRepository) UpsertImportedTotals(ctx context.Context, it attendance.ImportedTotals) (attendance.ImportedTotals, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := importKey{userID: it.UserID, subject: it.Subject}
	if orig, ok := repo.db.imports[key]; ok {
		it.CreatedAt = orig.CreatedAt
	}
	repo.db.imports[key] = &it
	return it, nil
}
