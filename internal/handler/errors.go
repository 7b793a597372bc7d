package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Eursukkul/venue-booking/internal/middleware"
	"github.com/Eursukkul/venue-booking/internal/models"
	"github.com/Eursukkul/venue-booking/internal/service"
	"github.com/labstack/echo/v4"
)

const invalidLinkMessage = "invalid or expired link"

// httpError maps service errors onto HTTP responses. Persistence failures
// keep their detail out of the response body.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, service.ErrInvalidToken):
		return echo.NewHTTPError(http.StatusBadRequest, invalidLinkMessage)
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrBookingNotFound),
		errors.Is(err, service.ErrVenueNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrVenueExists),
		errors.Is(err, service.ErrUserExists):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrPersistence):
		return echo.NewHTTPError(http.StatusInternalServerError, service.ErrPersistence.Error()).SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error").SetInternal(err)
	}
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name+" id")
	}
	return uint(id), nil
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if c.Echo().Validator == nil {
		return nil
	}
	return c.Validate(req)
}

func actor(c echo.Context) (models.Actor, error) {
	a, ok := middleware.ActorFrom(c)
	if !ok {
		return models.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return a, nil
}
