package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorHandler answers every failed request with a JSON body of the form
// {"detail": ...}. Server errors are logged; client errors are not.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	var body interface{} = map[string]interface{}{"detail": http.StatusText(code)}

	var verr *ValidationError
	var he *echo.HTTPError
	switch {
	case errors.As(err, &verr):
		code = http.StatusUnprocessableEntity
		body = verr
	case errors.As(err, &he):
		code = he.Code
		body = map[string]interface{}{"detail": he.Message}
	}
	if code >= http.StatusInternalServerError {
		c.Logger().Error(err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, body)
	}
	if err != nil {
		c.Logger().Error(err)
	}
}
