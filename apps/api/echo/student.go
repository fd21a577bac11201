package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/SamiSahil/edusysv1/core/student"
)

type studentApi struct {
	svc      student.ServiceInterface
	validate *validator.Validate
}

func registerStudentAPI(g *echo.Group, protect []echo.MiddlewareFunc, svc student.ServiceInterface, validate *validator.Validate) {
	api := studentApi{svc: svc, validate: validate}

	sg := g.Group("/students", protect...)
	sg.GET("", api.query, guard(http.MethodGet, "/api/students"))
	sg.GET("/:id", api.retrieve, guard(http.MethodGet, "/api/students/:id"))
	sg.POST("", api.create, guard(http.MethodPost, "/api/students"))
	sg.POST("/bulk", api.createBulk, guard(http.MethodPost, "/api/students/bulk"))
	sg.PUT("/:id", api.update, guard(http.MethodPut, "/api/students/:id"))
	sg.DELETE("/:id", api.destroy, guard(http.MethodDelete, "/api/students/:id"))
	sg.DELETE("", api.destroyMultiple, guard(http.MethodDelete, "/api/students"))
}

// Handlers

func (api *studentApi) query(ctx echo.Context) error {
	var (
		students []student.Student
		err      error
	)
	if sectionID := ctx.QueryParam("sectionId"); sectionID != "" {
		students, err = api.svc.QueryBySection(ctx.Request().Context(), sectionID)
	} else {
		students, err = api.svc.QueryAll(ctx.Request().Context())
	}
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

// retrieve returns the student with its section expanded one level deep.
func (api *studentApi) retrieve(ctx echo.Context) error {
	prof, err := api.svc.GetProfile(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting student profile")
	}
	return ctx.JSON(http.StatusOK, prof)
}

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	st, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, st)
}

func (api *studentApi) createBulk(ctx echo.Context) error {
	var data []student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to []NewStudent")
	}
	for i := range data {
		if err := data[i].Validate(api.validate); err != nil {
			return err
		}
	}

	students, err := api.svc.CreateMany(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating students")
	}
	return ctx.JSON(http.StatusCreated, students)
}

func (api *studentApi) update(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	st, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting students")
	}
	return ctx.NoContent(http.StatusNoContent)
}
