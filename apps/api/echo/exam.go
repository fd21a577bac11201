package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/SamiSahil/edusysv1/core/exam"
)

type examApi struct {
	svc      exam.ServiceInterface
	validate *validator.Validate
}

func registerExamAPI(g *echo.Group, protect []echo.MiddlewareFunc, svc exam.ServiceInterface, validate *validator.Validate) {
	api := examApi{svc: svc, validate: validate}

	eg := g.Group("/exams", protect...)
	eg.GET("", api.queryExams, guard(http.MethodGet, "/api/exams"))
	eg.POST("", api.createExam, guard(http.MethodPost, "/api/exams"))
	eg.PUT("/:id", api.updateExam, guard(http.MethodPut, "/api/exams/:id"))
	eg.DELETE("/:id", api.destroyExam, guard(http.MethodDelete, "/api/exams/:id"))

	rg := g.Group("/results", protect...)
	rg.GET("", api.queryResults, guard(http.MethodGet, "/api/results"))
	rg.GET("/exam/:id", api.queryExamResults, guard(http.MethodGet, "/api/results/exam/:id"))
	rg.POST("/exam/:id", api.saveResults, guard(http.MethodPost, "/api/results/exam/:id"))
	rg.DELETE("/:id", api.destroyResult, guard(http.MethodDelete, "/api/results/:id"))
}

// Exam handlers

func (api *examApi) queryExams(ctx echo.Context) error {
	exams, err := api.svc.QueryExams(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying exams")
	}
	if exams == nil {
		exams = []exam.Exam{}
	}
	return ctx.JSON(http.StatusOK, exams)
}

func (api *examApi) createExam(ctx echo.Context) error {
	var data exam.NewExam
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewExam")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ex, err := api.svc.CreateExam(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating exam")
	}
	return ctx.JSON(http.StatusCreated, ex)
}

func (api *examApi) updateExam(ctx echo.Context) error {
	var data exam.NewExam
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewExam")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ex, err := api.svc.UpdateExam(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == exam.ErrExamNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating exam")
	}
	return ctx.JSON(http.StatusOK, ex)
}

func (api *examApi) destroyExam(ctx echo.Context) error {
	if err := api.svc.DeleteExams(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting exam")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Result handlers

func (api *examApi) queryResults(ctx echo.Context) error {
	results, err := api.svc.QueryResults(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying results")
	}
	if results == nil {
		results = []exam.Result{}
	}
	return ctx.JSON(http.StatusOK, results)
}

func (api *examApi) queryExamResults(ctx echo.Context) error {
	results, err := api.svc.QueryResultsByExam(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying results")
	}
	if results == nil {
		results = []exam.Result{}
	}
	return ctx.JSON(http.StatusOK, results)
}

func (api *examApi) saveResults(ctx echo.Context) error {
	var data exam.NewResults
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewResults")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	results, err := api.svc.SaveResults(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == exam.ErrExamNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "saving results")
	}
	return ctx.JSON(http.StatusOK, results)
}

func (api *examApi) destroyResult(ctx echo.Context) error {
	if err := api.svc.DeleteResults(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting result")
	}
	return ctx.NoContent(http.StatusNoContent)
}
