package echoapi

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/holiday"
)

type holidayApi struct {
	svc  holiday.Service
	conf core.Config
}

func registerHolidayAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := holidayApi{svc: deps.HolidaySvc, conf: deps.Conf}

	hg := g.Group("/holidays", jwt)
	hg.GET("", api.query)
	hg.POST("", api.create, adminMiddleware())
}

// Handlers

func (api *holidayApi) query(ctx echo.Context) error {
	var dr DateRange
	if err := dr.Bind(ctx); err != nil {
		return err
	}

	start, end := dr.Start, dr.End
	if start.IsZero() {
		start = api.conf.Semester.StartDate
	}
	if end.IsZero() {
		end = api.conf.Semester.EndDate
	}

	cal, err := api.svc.CalendarFor(ctx.Request().Context(), start, end)
	if err != nil {
		return errors.Wrap(err, "getting holiday calendar")
	}

	holidays := make([]holiday.Holiday, 0, len(cal))
	for _, hol := range cal {
		holidays = append(holidays, hol)
	}
	sortHolidays(holidays)
	return ctx.JSON(http.StatusOK, holidays)
}

func sortHolidays(holidays []holiday.Holiday) {
	sort.Slice(holidays, func(i, j int) bool { return holidays[i].Date.Before(holidays[j].Date) })
}

func (api *holidayApi) create(ctx echo.Context) error {
	var data holiday.NewHoliday
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewHoliday")
	}

	hol, err := api.svc.AddHoliday(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, hol)
}
