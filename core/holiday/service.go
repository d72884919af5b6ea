package holiday

import (
	"context"
	"time"

	"github.com/trezcool/mahudhurio/core"
)

type (
	Repository interface {
		CreateHoliday(ctx context.Context, hol Holiday) (Holiday, error)
		// GetHolidaysInRange returns the holidays within [start, end], both inclusive.
		GetHolidaysInRange(ctx context.Context, start, end time.Time) ([]Holiday, error)
	}

	Service interface {
		// AddHoliday declares one validated non-instructional day; re-declaring
		// a date renames it.
		AddHoliday(ctx context.Context, nh NewHoliday) (Holiday, error)
		// CalendarFor returns the holiday set covering [start, end], both inclusive.
		CalendarFor(ctx context.Context, start, end time.Time) (Calendar, error)
		// IsHoliday reports whether `date` is a non-instructional day.
		IsHoliday(ctx context.Context, date time.Time) (bool, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) AddHoliday(ctx context.Context, nh NewHoliday) (Holiday, error) {
	if err := nh.Validate(); err != nil {
		return Holiday{}, err
	}
	date, err := core.ParseDate(nh.Date)
	if err != nil {
		return Holiday{}, core.NewValidationError(err, core.FieldError{Field: "date", Error: "invalid date"})
	}
	return svc.repo.CreateHoliday(ctx, Holiday{Date: date, Name: nh.Name})
}

func (svc *service) CalendarFor(ctx context.Context, start, end time.Time) (Calendar, error) {
	holidays, err := svc.repo.GetHolidaysInRange(ctx, core.DateOf(start), core.DateOf(end))
	if err != nil {
		return nil, err
	}
	cal := make(Calendar, len(holidays))
	for _, hol := range holidays {
		cal[core.DateOf(hol.Date)] = hol
	}
	return cal, nil
}

func (svc *service) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	date = core.DateOf(date)
	cal, err := svc.CalendarFor(ctx, date, date)
	if err != nil {
		return false, err
	}
	return cal.Contains(date), nil
}
