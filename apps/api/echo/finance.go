package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/SamiSahil/edusysv1/core/finance"
)

type financeApi struct {
	svc      finance.ServiceInterface
	validate *validator.Validate
}

func registerFinanceAPI(g *echo.Group, protect []echo.MiddlewareFunc, svc finance.ServiceInterface, validate *validator.Validate) {
	api := financeApi{svc: svc, validate: validate}

	fg := g.Group("/financial/fees", protect...)
	fg.GET("", api.queryFees, guard(http.MethodGet, "/api/financial/fees"))
	fg.POST("", api.createFee, guard(http.MethodPost, "/api/financial/fees"))
	fg.POST("/generate", api.generateFees, guard(http.MethodPost, "/api/financial/fees/generate"))
	fg.PUT("/:id", api.updateFee, guard(http.MethodPut, "/api/financial/fees/:id"))
	fg.DELETE("/:id", api.destroyFee, guard(http.MethodDelete, "/api/financial/fees/:id"))
	fg.DELETE("", api.destroyFees, guard(http.MethodDelete, "/api/financial/fees"))

	eg := g.Group("/financial/expenses", protect...)
	eg.GET("", api.queryExpenses, guard(http.MethodGet, "/api/financial/expenses"))
	eg.POST("", api.createExpense, guard(http.MethodPost, "/api/financial/expenses"))
	eg.PUT("/:id", api.updateExpense, guard(http.MethodPut, "/api/financial/expenses/:id"))
	eg.DELETE("/:id", api.destroyExpense, guard(http.MethodDelete, "/api/financial/expenses/:id"))
}

// Fee handlers

// queryFees lists fees. A student caller only ever sees their own records.
func (api *financeApi) queryFees(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var fees []finance.Fee
	if ctxUsr.IsStudent() {
		if ctxUsr.StudentID == "" {
			return ctx.JSON(http.StatusOK, []finance.Fee{})
		}
		fees, err = api.svc.QueryFeesByStudent(ctx.Request().Context(), ctxUsr.StudentID)
	} else if studentID := ctx.QueryParam("studentId"); studentID != "" {
		fees, err = api.svc.QueryFeesByStudent(ctx.Request().Context(), studentID)
	} else {
		fees, err = api.svc.QueryFees(ctx.Request().Context())
	}
	if err != nil {
		return errors.Wrap(err, "querying fees")
	}
	if fees == nil {
		fees = []finance.Fee{}
	}
	return ctx.JSON(http.StatusOK, fees)
}

func (api *financeApi) createFee(ctx echo.Context) error {
	var data finance.NewFee
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFee")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	fee, err := api.svc.CreateFee(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating fee")
	}
	return ctx.JSON(http.StatusCreated, fee)
}

func (api *financeApi) generateFees(ctx echo.Context) error {
	var data finance.GenerateFees
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GenerateFees")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	created, err := api.svc.GenerateMonthlyFees(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "generating fees")
	}
	return ctx.JSON(http.StatusCreated, GenerateFeesResponse{Success: true, Created: created})
}

func (api *financeApi) updateFee(ctx echo.Context) error {
	var data finance.NewFee
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFee")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	fee, err := api.svc.UpdateFee(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == finance.ErrFeeNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating fee")
	}
	return ctx.JSON(http.StatusOK, fee)
}

func (api *financeApi) destroyFee(ctx echo.Context) error {
	if err := api.svc.DeleteFees(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting fee")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *financeApi) destroyFees(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.svc.DeleteFees(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting fees")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Expense handlers

func (api *financeApi) queryExpenses(ctx echo.Context) error {
	expenses, err := api.svc.QueryExpenses(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying expenses")
	}
	if expenses == nil {
		expenses = []finance.Expense{}
	}
	return ctx.JSON(http.StatusOK, expenses)
}

func (api *financeApi) createExpense(ctx echo.Context) error {
	var data finance.NewExpense
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewExpense")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	exp, err := api.svc.CreateExpense(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating expense")
	}
	return ctx.JSON(http.StatusCreated, exp)
}

func (api *financeApi) updateExpense(ctx echo.Context) error {
	var data finance.NewExpense
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewExpense")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	exp, err := api.svc.UpdateExpense(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == finance.ErrExpenseNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating expense")
	}
	return ctx.JSON(http.StatusOK, exp)
}

func (api *financeApi) destroyExpense(ctx echo.Context) error {
	if err := api.svc.DeleteExpenses(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting expense")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type GenerateFeesResponse struct {
	Success bool `json:"success"`
	Created int  `json:"created"`
}
