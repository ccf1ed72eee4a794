package api

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"grocery.GO/core/apperr"
)

// Fail writes err as {"error": {code, message, fields}} with the status apperr assigns to it.
// Unmapped errors are logged and reported as internal errors.
func Fail(c echo.Context, log *zap.Logger, err error) error {
	ae := apperr.From(err)
	if ae.HTTPStatus >= 500 && log != nil {
		log.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}
	return c.JSON(ae.HTTPStatus, echo.Map{"error": ae})
}

// BadRequest reports a malformed request body or parameter.
func BadRequest(c echo.Context, message string) error {
	ae := apperr.BadRequest(message)
	return c.JSON(ae.HTTPStatus, echo.Map{"error": ae})
}

// Duration sets X-Request-Duration-ms on every response.
func Duration() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			c.Response().Before(func() {
				c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(time.Since(start).Milliseconds(), 10))
			})
			return next(c)
		}
	}
}

// ParamID parses a numeric path parameter.
func ParamID(c echo.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
