package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/SamiSahil/edusysv1/core"
	"github.com/SamiSahil/edusysv1/core/library"
)

type libraryApi struct {
	svc      library.ServiceInterface
	validate *validator.Validate
}

func registerLibraryAPI(g *echo.Group, protect []echo.MiddlewareFunc, svc library.ServiceInterface, validate *validator.Validate) {
	api := libraryApi{svc: svc, validate: validate}

	bg := g.Group("/library/books", protect...)
	bg.GET("", api.queryBooks, guard(http.MethodGet, "/api/library/books"))
	bg.POST("", api.createBook, guard(http.MethodPost, "/api/library/books"))
	bg.PUT("/:id", api.updateBook, guard(http.MethodPut, "/api/library/books/:id"))
	bg.DELETE("/:id", api.destroyBook, guard(http.MethodDelete, "/api/library/books/:id"))
	bg.DELETE("", api.destroyBooks, guard(http.MethodDelete, "/api/library/books"))

	lg := g.Group("/library/loans", protect...)
	lg.GET("", api.queryLoans, guard(http.MethodGet, "/api/library/loans"))
	lg.POST("", api.checkout, guard(http.MethodPost, "/api/library/loans"))
	lg.POST("/:id/return", api.returnLoan, guard(http.MethodPost, "/api/library/loans/:id/return"))

	rg := g.Group("/library/reservations", protect...)
	rg.GET("", api.queryReservations, guard(http.MethodGet, "/api/library/reservations"))
	rg.POST("", api.reserve, guard(http.MethodPost, "/api/library/reservations"))
	rg.PUT("/:id", api.updateReservation, guard(http.MethodPut, "/api/library/reservations/:id"))
	rg.DELETE("/:id", api.destroyReservation, guard(http.MethodDelete, "/api/library/reservations/:id"))
}

// Book handlers

func (api *libraryApi) queryBooks(ctx echo.Context) error {
	books, err := api.svc.QueryBooks(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying books")
	}
	if books == nil {
		books = []library.Book{}
	}
	return ctx.JSON(http.StatusOK, books)
}

func (api *libraryApi) createBook(ctx echo.Context) error {
	var data library.NewBook
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewBook")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	b, err := api.svc.CreateBook(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating book")
	}
	return ctx.JSON(http.StatusCreated, b)
}

func (api *libraryApi) updateBook(ctx echo.Context) error {
	var data library.NewBook
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewBook")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	b, err := api.svc.UpdateBook(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == library.ErrBookNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating book")
	}
	return ctx.JSON(http.StatusOK, b)
}

func (api *libraryApi) destroyBook(ctx echo.Context) error {
	if err := api.svc.DeleteBooks(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting book")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *libraryApi) destroyBooks(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.svc.DeleteBooks(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting books")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Loan handlers

func (api *libraryApi) queryLoans(ctx echo.Context) error {
	loans, err := api.svc.QueryLoans(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying loans")
	}
	if loans == nil {
		loans = []library.Loan{}
	}
	return ctx.JSON(http.StatusOK, loans)
}

func (api *libraryApi) checkout(ctx echo.Context) error {
	var data library.NewLoan
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLoan")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	loan, err := api.svc.Checkout(ctx.Request().Context(), data)
	if err != nil {
		switch errors.Cause(err) {
		case library.ErrBookNotFound:
			return errHttpNotFound
		case library.ErrNoCopiesAvailable:
			return core.NewValidationError(library.ErrNoCopiesAvailable)
		}
		return errors.Wrap(err, "checking out book")
	}
	return ctx.JSON(http.StatusCreated, loan)
}

func (api *libraryApi) returnLoan(ctx echo.Context) error {
	loan, err := api.svc.Return(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		switch errors.Cause(err) {
		case library.ErrLoanNotFound:
			return errHttpNotFound
		case library.ErrAlreadyReturned:
			return core.NewValidationError(library.ErrAlreadyReturned)
		}
		return errors.Wrap(err, "returning loan")
	}
	return ctx.JSON(http.StatusOK, loan)
}

// Reservation handlers

func (api *libraryApi) queryReservations(ctx echo.Context) error {
	reservations, err := api.svc.QueryReservations(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying reservations")
	}
	if reservations == nil {
		reservations = []library.Reservation{}
	}
	return ctx.JSON(http.StatusOK, reservations)
}

func (api *libraryApi) reserve(ctx echo.Context) error {
	var data library.NewReservation
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewReservation")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	r, err := api.svc.Reserve(ctx.Request().Context(), data, ctxUsr.ID)
	if err != nil {
		if errors.Cause(err) == library.ErrBookNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "creating reservation")
	}
	return ctx.JSON(http.StatusCreated, r)
}

func (api *libraryApi) updateReservation(ctx echo.Context) error {
	var data library.UpdateReservation
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateReservation")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	r, err := api.svc.UpdateReservation(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == library.ErrReservationNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating reservation")
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *libraryApi) destroyReservation(ctx echo.Context) error {
	if err := api.svc.DeleteReservations(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting reservation")
	}
	return ctx.NoContent(http.StatusNoContent)
}
