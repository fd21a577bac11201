package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/SamiSahil/edusysv1/core/academics"
)

type academicsApi struct {
	svc      academics.ServiceInterface
	validate *validator.Validate
}

func registerAcademicsAPI(g *echo.Group, protect []echo.MiddlewareFunc, svc academics.ServiceInterface, validate *validator.Validate) {
	api := academicsApi{svc: svc, validate: validate}

	dg := g.Group("/departments", protect...)
	dg.GET("", api.queryDepartments, guard(http.MethodGet, "/api/departments"))
	dg.POST("", api.createDepartment, guard(http.MethodPost, "/api/departments"))
	dg.PUT("/:id", api.updateDepartment, guard(http.MethodPut, "/api/departments/:id"))
	dg.DELETE("/:id", api.destroyDepartment, guard(http.MethodDelete, "/api/departments/:id"))
	dg.DELETE("", api.destroyDepartments, guard(http.MethodDelete, "/api/departments"))

	sg := g.Group("/subjects", protect...)
	sg.GET("", api.querySubjects, guard(http.MethodGet, "/api/subjects"))
	sg.POST("", api.createSubject, guard(http.MethodPost, "/api/subjects"))
	sg.PUT("/:id", api.updateSubject, guard(http.MethodPut, "/api/subjects/:id"))
	sg.DELETE("/:id", api.destroySubject, guard(http.MethodDelete, "/api/subjects/:id"))

	cg := g.Group("/sections", protect...)
	cg.GET("", api.querySections, guard(http.MethodGet, "/api/sections"))
	cg.POST("", api.createSection, guard(http.MethodPost, "/api/sections"))
	cg.PUT("/:id", api.updateSection, guard(http.MethodPut, "/api/sections/:id"))
	cg.DELETE("/:id", api.destroySection, guard(http.MethodDelete, "/api/sections/:id"))
}

// Department handlers

func (api *academicsApi) queryDepartments(ctx echo.Context) error {
	deps, err := api.svc.QueryDepartments(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying departments")
	}
	if deps == nil {
		deps = []academics.Department{}
	}
	return ctx.JSON(http.StatusOK, deps)
}

func (api *academicsApi) createDepartment(ctx echo.Context) error {
	var data academics.NewDepartment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDepartment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	dep, err := api.svc.CreateDepartment(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating department")
	}
	return ctx.JSON(http.StatusCreated, dep)
}

func (api *academicsApi) updateDepartment(ctx echo.Context) error {
	var data academics.NewDepartment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDepartment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	dep, err := api.svc.UpdateDepartment(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == academics.ErrDepartmentNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating department")
	}
	return ctx.JSON(http.StatusOK, dep)
}

func (api *academicsApi) destroyDepartment(ctx echo.Context) error {
	if err := api.svc.DeleteDepartments(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting department")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *academicsApi) destroyDepartments(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.svc.DeleteDepartments(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting departments")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Subject handlers

func (api *academicsApi) querySubjects(ctx echo.Context) error {
	subs, err := api.svc.QuerySubjects(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying subjects")
	}
	if subs == nil {
		subs = []academics.Subject{}
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *academicsApi) createSubject(ctx echo.Context) error {
	var data academics.NewSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sub, err := api.svc.CreateSubject(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == academics.ErrDepartmentNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "creating subject")
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *academicsApi) updateSubject(ctx echo.Context) error {
	var data academics.NewSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sub, err := api.svc.UpdateSubject(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == academics.ErrSubjectNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating subject")
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *academicsApi) destroySubject(ctx echo.Context) error {
	if err := api.svc.DeleteSubjects(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Section handlers

func (api *academicsApi) querySections(ctx echo.Context) error {
	secs, err := api.svc.QuerySections(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying sections")
	}
	if secs == nil {
		secs = []academics.Section{}
	}
	return ctx.JSON(http.StatusOK, secs)
}

func (api *academicsApi) createSection(ctx echo.Context) error {
	var data academics.NewSection
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSection")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sec, err := api.svc.CreateSection(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == academics.ErrSubjectNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "creating section")
	}
	return ctx.JSON(http.StatusCreated, sec)
}

func (api *academicsApi) updateSection(ctx echo.Context) error {
	var data academics.NewSection
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSection")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sec, err := api.svc.UpdateSection(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == academics.ErrSectionNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating section")
	}
	return ctx.JSON(http.StatusOK, sec)
}

func (api *academicsApi) destroySection(ctx echo.Context) error {
	if err := api.svc.DeleteSections(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting section")
	}
	return ctx.NoContent(http.StatusNoContent)
}
