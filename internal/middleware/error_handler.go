package middleware

import (
	"net/http"

	"github.com/Eursukkul/event-registration/internal/dto"
	"github.com/labstack/echo/v4"
)

// ErrorHandler renders every error as {success:false, message}. Errors that
// are not *echo.HTTPError are reported as a generic 500 so internal details
// do not reach the client.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		switch m := he.Message.(type) {
		case string:
			msg = m
		case error:
			msg = m.Error()
		default:
			msg = http.StatusText(code)
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, dto.Fail(msg))
}
