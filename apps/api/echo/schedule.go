package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/schedule"
	"github.com/trezcool/mahudhurio/core/user"
)

type scheduleApi struct {
	svc     schedule.Service
	userSvc user.Service
	conf    core.Config
}

func registerScheduleAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := scheduleApi{
		svc:     deps.ScheduleSvc,
		userSvc: deps.UserSvc,
		conf:    deps.Conf,
	}

	sg := g.Group("/schedule", jwt)
	sg.GET("", api.timetable)
	sg.POST("", api.create, adminMiddleware())
}

// Handlers

// timetable returns the caller's full Monday..Friday week.
func (api *scheduleApi) timetable(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	timetable, err := api.svc.WeekTimetable(ctx.Request().Context(), api.conf.Semester.TermID, usr.Division, usr.Batch)
	if err != nil {
		return errors.Wrap(err, "getting week timetable")
	}
	return ctx.JSON(http.StatusOK, timetable)
}

func (api *scheduleApi) create(ctx echo.Context) error {
	var data schedule.NewSession
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSession")
	}

	sess, err := api.svc.AddSession(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, sess)
}
