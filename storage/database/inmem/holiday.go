package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/holiday"
)

type holidayRepository struct {
	db *holidayTable
}

var _ holiday.Repository = (*holidayRepository)(nil) // interface compliance check

func NewHolidayRepository(db *DB) holiday.Repository {
	return &holidayRepository{db: db.holiday}
}

func (repo *holidayRepository) CreateHoliday(ctx context.Context, hol holiday.Holiday) (holiday.Holiday, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	hol.Date = core.DateOf(hol.Date)
	repo.db.table[hol.Date] = &hol
	return hol, nil
}

func (repo *holidayRepository) GetHolidaysInRange(ctx context.Context, start, end time.Time) ([]holiday.Holiday, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	start, end = core.DateOf(start), core.DateOf(end)
	holidays := make([]holiday.Holiday, 0)
	for date, hol := range repo.db.table {
		if date.Before(start) || date.After(end) {
			continue
		}
		holidays = append(holidays, *hol)
	}
	sort.Slice(holidays, func(i, j int) bool { return holidays[i].Date.Before(holidays[j].Date) })
	return holidays, nil
}
