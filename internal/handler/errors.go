package handler

import (
	"errors"
	"net/http"

	"github.com/Eursukkul/event-registration/internal/service"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// toHTTPError maps service sentinels to status codes. Only the sentinel's
// message is exposed; wrapped driver errors are logged instead.
func toHTTPError(err error, log *zap.Logger) *echo.HTTPError {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return echo.NewHTTPError(http.StatusUnauthorized, service.ErrUnauthenticated.Error())
	case errors.Is(err, service.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrEventNotFound),
		errors.Is(err, service.ErrRegistrationNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrRegistrationClosed),
		errors.Is(err, service.ErrAlreadyRegistered),
		errors.Is(err, service.ErrAlreadyPaid),
		errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrDependencyUnavailable):
		log.Error("dependency unavailable", zap.Error(err))
		return echo.NewHTTPError(http.StatusServiceUnavailable, service.ErrDependencyUnavailable.Error())
	default:
		log.Error("unhandled error", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
