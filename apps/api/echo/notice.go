package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/SamiSahil/edusysv1/core/notice"
)

type noticeApi struct {
	svc      notice.ServiceInterface
	validate *validator.Validate
}

func registerNoticeAPI(g *echo.Group, protect []echo.MiddlewareFunc, svc notice.ServiceInterface, validate *validator.Validate) {
	api := noticeApi{svc: svc, validate: validate}

	ng := g.Group("/notices", protect...)
	ng.GET("", api.query, guard(http.MethodGet, "/api/notices"))
	ng.POST("", api.create, guard(http.MethodPost, "/api/notices"))
	ng.POST("/:id/react", api.react, guard(http.MethodPost, "/api/notices/:id/react"))
	ng.DELETE("/:id", api.destroy, guard(http.MethodDelete, "/api/notices/:id"))
}

// Handlers

func (api *noticeApi) query(ctx echo.Context) error {
	notices, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying notices")
	}
	if notices == nil {
		notices = []notice.Notice{}
	}
	return ctx.JSON(http.StatusOK, notices)
}

func (api *noticeApi) create(ctx echo.Context) error {
	var data notice.NewNotice
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewNotice")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	n, err := api.svc.Create(ctx.Request().Context(), data, ctxUsr.ID, ctxUsr.Name)
	if err != nil {
		return errors.Wrap(err, "creating notice")
	}
	return ctx.JSON(http.StatusCreated, n)
}

func (api *noticeApi) react(ctx echo.Context) error {
	var data notice.Reaction
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Reaction")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	n, err := api.svc.React(ctx.Request().Context(), ctx.Param("id"), ctxUsr.ID, data.Emoji)
	if err != nil {
		if errors.Cause(err) == notice.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "reacting to notice")
	}
	return ctx.JSON(http.StatusOK, n)
}

// destroy removes a notice; only its author or an admin may do so.
func (api *noticeApi) destroy(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	n, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == notice.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding notice by ID")
	}
	if n.AuthorID != ctxUsr.ID && !ctxUsr.IsAdmin() {
		return errHttpForbidden
	}

	if err := api.svc.Delete(ctx.Request().Context(), n.ID); err != nil {
		return errors.Wrap(err, "deleting notice")
	}
	return ctx.NoContent(http.StatusNoContent)
}
