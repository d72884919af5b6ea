package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/user"
)

type attendanceApi struct {
	svc     attendance.Service
	userSvc user.Service
	conf    core.Config
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := attendanceApi{
		svc:     deps.AttendanceSvc,
		userSvc: deps.UserSvc,
		conf:    deps.Conf,
	}

	ag := g.Group("/attendance", jwt)
	ag.GET("/projection", api.projection)
	ag.GET("/summary", api.summary)
	ag.GET("/outcomes", api.queryOutcomes)
	ag.POST("/outcomes", api.markOutcome)
	ag.GET("/imports/:subject", api.retrieveImport)
	ag.PUT("/imports/:subject", api.setImport)
}

// semesterWindow is the configured default evaluation window.
func (api *attendanceApi) semesterWindow() attendance.Window {
	return attendance.Window{
		StartDate: api.conf.Semester.StartDate,
		EndDate:   api.conf.Semester.EndDate,
	}
}

// Handlers

func (api *attendanceApi) projection(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	subject := core.CleanString(ctx.QueryParam("subject"))
	if subject == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "subject", Error: "this field is required"})
	}

	evalDate := core.DateOf(time.Now().UTC())
	if raw := ctx.QueryParam("date"); raw != "" {
		if evalDate, err = core.ParseDate(raw); err != nil {
			return core.NewValidationError(err, core.FieldError{Field: "date", Error: "invalid date, expected YYYY-MM-DD"})
		}
	}

	proj, err := api.svc.Project(ctx.Request().Context(), usr, subject, api.conf.Semester.TermID, evalDate, api.semesterWindow())
	if err != nil {
		if errors.Cause(err) == attendance.ErrSubjectRequired {
			return core.NewValidationError(err, core.FieldError{Field: "subject", Error: "this field is required"})
		}
		return errors.Wrap(err, "projecting attendance")
	}
	return ctx.JSON(http.StatusOK, proj)
}

func (api *attendanceApi) summary(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var dr DateRange
	if err = dr.Bind(ctx); err != nil {
		return err
	}

	sum, err := api.svc.Summarize(ctx.Request().Context(), usr.ID, dr.WindowOr(api.semesterWindow()))
	if err != nil {
		return errors.Wrap(err, "summarizing attendance")
	}
	return ctx.JSON(http.StatusOK, sum)
}

func (api *attendanceApi) queryOutcomes(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var dr DateRange
	if err = dr.Bind(ctx); err != nil {
		return err
	}

	outcomes, err := api.svc.OutcomesInRange(ctx.Request().Context(), usr.ID, dr.WindowOr(api.semesterWindow()))
	if err != nil {
		return errors.Wrap(err, "querying outcomes")
	}
	if outcomes == nil {
		outcomes = []attendance.Outcome{}
	}
	return ctx.JSON(http.StatusOK, outcomes)
}

func (api *attendanceApi) markOutcome(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data attendance.NewOutcome
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewOutcome")
	}

	outcome, err := api.svc.Mark(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, outcome)
}

func (api *attendanceApi) retrieveImport(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	it, err := api.svc.ImportedTotals(ctx.Request().Context(), usr.ID, ctx.Param("subject"))
	if err != nil {
		if errors.Cause(err) == attendance.ErrImportNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting imported totals")
	}
	return ctx.JSON(http.StatusOK, it)
}

func (api *attendanceApi) setImport(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data attendance.NewImport
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewImport")
	}

	it, err := api.svc.SetImportedTotals(ctx.Request().Context(), usr.ID, ctx.Param("subject"), data)
	if err != nil {
		if errors.Cause(err) == attendance.ErrSubjectRequired {
			return core.NewValidationError(err, core.FieldError{Field: "subject", Error: "this field is required"})
		}
		return err
	}
	return ctx.JSON(http.StatusOK, it)
}
