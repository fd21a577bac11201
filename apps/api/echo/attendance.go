package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/SamiSahil/edusysv1/core"
	"github.com/SamiSahil/edusysv1/core/attendance"
)

type attendanceApi struct {
	svc      attendance.ServiceInterface
	validate *validator.Validate
}

func registerAttendanceAPI(g *echo.Group, protect []echo.MiddlewareFunc, svc attendance.ServiceInterface, validate *validator.Validate) {
	api := attendanceApi{svc: svc, validate: validate}

	ag := g.Group("/attendance", protect...)
	ag.POST("", api.saveSheet, guard(http.MethodPost, "/api/attendance"))
	ag.GET("", api.getSheet, guard(http.MethodGet, "/api/attendance"))
	ag.GET("/sections/:id/report", api.sectionReport, guard(http.MethodGet, "/api/attendance/sections/:id/report"))
	ag.GET("/students/:id/report", api.studentReport, guard(http.MethodGet, "/api/attendance/students/:id/report"))
}

// Handlers

func (api *attendanceApi) saveSheet(ctx echo.Context) error {
	var data attendance.NewSheet
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSheet")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	records, err := api.svc.SaveSheet(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "saving attendance sheet")
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *attendanceApi) getSheet(ctx echo.Context) error {
	sectionID := ctx.QueryParam("sectionId")
	date := ctx.QueryParam("date")
	if sectionID == "" || date == "" {
		return core.NewValidationError(errors.New("sectionId and date query params are required"))
	}

	records, err := api.svc.GetSheet(ctx.Request().Context(), sectionID, date)
	if err != nil {
		return errors.Wrap(err, "getting attendance sheet")
	}
	if records == nil {
		records = []attendance.Record{}
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *attendanceApi) sectionReport(ctx echo.Context) error {
	reports, err := api.svc.SectionReport(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "building section report")
	}
	if reports == nil {
		reports = []attendance.Report{}
	}
	return ctx.JSON(http.StatusOK, reports)
}

// studentReport returns one student's attendance summary. A student caller
// may only request their own.
func (api *attendanceApi) studentReport(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	if ctxUsr.IsStudent() && ctx.Param("id") != ctxUsr.StudentID {
		return errHttpForbidden
	}

	report, err := api.svc.StudentReport(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "building student report")
	}
	return ctx.JSON(http.StatusOK, report)
}
