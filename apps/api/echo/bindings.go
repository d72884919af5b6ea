package echoapi

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
)

var (
	startParam = "start"
	endParam   = "end"
)

// DateRange binds the optional `start` and `end` date query params.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (dr *DateRange) Bind(ctx echo.Context) error {
	parse := func(param string, dst *time.Time) error {
		raw := ctx.QueryParam(param)
		if raw == "" {
			return nil
		}
		date, err := core.ParseDate(raw)
		if err != nil {
			return core.NewValidationError(err, core.FieldError{Field: param, Error: "invalid date, expected YYYY-MM-DD"})
		}
		*dst = date
		return nil
	}

	if err := parse(startParam, &dr.Start); err != nil {
		return err
	}
	return parse(endParam, &dr.End)
}

// WindowOr returns the bound range as a Window, keeping `win`'s bounds where
// the query left them out.
func (dr DateRange) WindowOr(win attendance.Window) attendance.Window {
	if !dr.Start.IsZero() {
		win.StartDate = dr.Start
	}
	if !dr.End.IsZero() {
		win.EndDate = dr.End
	}
	return win
}
