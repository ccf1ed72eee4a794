// Package server assembles the storefront echo instance: middleware, the session-aware /api
// group, registered modules and routes, and GraphQL.
package server

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"grocery.GO/api"
	graphqlApi "grocery.GO/api/graphql"
	"grocery.GO/app"
	"grocery.GO/core/auth"

	_ "grocery.GO/api/account"
	_ "grocery.GO/api/admin"
	_ "grocery.GO/api/auth"
	_ "grocery.GO/api/cart"
	_ "grocery.GO/api/catalog"
	_ "grocery.GO/api/checkout"
	_ "grocery.GO/api/health"
)

// New builds the echo instance serving a.
func New(a *app.App) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(middleware.Decompress())
	if a.Config.Debug {
		e.Use(middleware.Logger())
	}
	e.Use(api.Duration())

	apiGroup := e.Group("/api")
	apiGroup.Use(auth.Session(a.Sessions))
	apiGroup.Use(auth.RequireLogin())

	api.ApplyModules(apiGroup, a)
	api.ApplyRoutes(e, a)
	graphqlApi.RegisterGraphQLRoutes(e, a)
	return e
}
