// Package auth attaches the visitor's storefront session to each request and guards the
// account and admin routes.
package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"grocery.GO/config"
	"grocery.GO/core/apperr"
	"grocery.GO/service/session"
)

const (
	HeaderSessionID = "X-Session-ID"
	ctxStorefront   = "storefront"
)

// Session opens the storefront named by the X-Session-ID header. A missing or unknown id gets a
// fresh session; the id in use is always echoed back in the response header.
func Session(m *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sf, _ := m.Open(c.Request().Context(), c.Request().Header.Get(HeaderSessionID))
			c.Set(ctxStorefront, sf)
			c.Response().Header().Set(HeaderSessionID, sf.ID)
			return next(c)
		}
	}
}

// Storefront returns the session attached by Session, or nil outside it.
func Storefront(c echo.Context) *session.Storefront {
	sf, _ := c.Get(ctxStorefront).(*session.Storefront)
	return sf
}

// RequireLogin rejects requests to non-public paths whose session has no logged-in user.
func RequireLogin() echo.MiddlewareFunc {
	skipper := buildSkipper()
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipper(c) {
				return next(c)
			}
			sf := Storefront(c)
			if sf == nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": apperr.Unauthorized(session.ErrNotLoggedIn.Error())})
			}
			if _, ok := sf.Auth.CurrentUser(); !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": apperr.Unauthorized(session.ErrNotLoggedIn.Error())})
			}
			return next(c)
		}
	}
}

func buildSkipper() middleware.Skipper {
	return func(c echo.Context) bool {
		return config.IsPublicPath(c.Request().URL.Path)
	}
}

// Admin checks the Authorization: Bearer <API_KEY> header. With no key configured every
// request is refused.
func Admin(apiKey string) echo.MiddlewareFunc {
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		Validator: func(key string, c echo.Context) (bool, error) {
			return apiKey != "" && key == apiKey, nil
		},
	})
}
