package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/holiday"
)

type holidayRepository struct {
	db *sqlx.DB
}

var _ holiday.Repository = (*holidayRepository)(nil) // interface compliance check

func NewHolidayRepository(db *sqlx.DB) holiday.Repository {
	return &holidayRepository{db: db}
}

func (repo *holidayRepository) CreateHoliday(ctx context.Context, hol holiday.Holiday) (holiday.Holiday, error) {
	hol.Date = core.DateOf(hol.Date)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO holiday (date, name)
		VALUES (:date, :name)
		ON CONFLICT (date) DO UPDATE SET name = EXCLUDED.name`,
		hol)
	if err != nil {
		return holiday.Holiday{}, errors.Wrap(err, "creating holiday")
	}
	return hol, nil
}

func (repo *holidayRepository) GetHolidaysInRange(ctx context.Context, start, end time.Time) ([]holiday.Holiday, error) {
	var holidays []holiday.Holiday
	err := repo.db.SelectContext(ctx, &holidays, `
		SELECT * FROM holiday WHERE date BETWEEN $1 AND $2 ORDER BY date`,
		core.DateOf(start), core.DateOf(end))
	if err != nil {
		return nil, errors.Wrap(err, "querying holidays")
	}
	return holidays, nil
}
