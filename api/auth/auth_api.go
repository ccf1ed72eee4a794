package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"grocery.GO/api"
	"grocery.GO/app"
	"grocery.GO/core/apperr"
	coreAuth "grocery.GO/core/auth"
	"grocery.GO/service/account"
	"grocery.GO/service/session"
)

func init() {
	apperr.Register(account.ErrInvalidCredentials, apperr.CodeUnauthorized, http.StatusUnauthorized)
	apperr.Register(account.ErrEmailTaken, apperr.CodeConflict, http.StatusConflict)
	apperr.Register(account.ErrUserNotFound, apperr.CodeNotFound, http.StatusNotFound)
	apperr.Register(account.ErrInvalidToken, apperr.CodeUnauthorized, http.StatusUnauthorized)
	apperr.Register(session.ErrNotLoggedIn, apperr.CodeUnauthorized, http.StatusUnauthorized)
	api.RegisterModule(RegisterAuthRoutes)
}

// RegisterAuthRoutes exposes login, registration and logout for the session.
func RegisterAuthRoutes(g *echo.Group, a *app.App) {
	log := a.Log.Named("api.auth")
	ag := g.Group("/auth")

	ag.GET("/me", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"auth": coreAuth.Storefront(c).Auth.State()})
	})

	// POST /api/auth/login {"email": "...", "password": "..."}
	ag.POST("/login", func(c echo.Context) error {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.Bind(&body); err != nil {
			return api.BadRequest(c, "invalid login request")
		}
		sf := coreAuth.Storefront(c)
		u, err := sf.Auth.Login(c.Request().Context(), body.Email, body.Password)
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"user": u, "auth": sf.Auth.State()})
	})

	ag.POST("/register", func(c echo.Context) error {
		var req account.RegisterRequest
		if err := c.Bind(&req); err != nil {
			return api.BadRequest(c, "invalid registration request")
		}
		sf := coreAuth.Storefront(c)
		u, err := sf.Auth.Register(c.Request().Context(), req)
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusCreated, echo.Map{"user": u, "auth": sf.Auth.State()})
	})

	ag.POST("/logout", func(c echo.Context) error {
		sf := coreAuth.Storefront(c)
		if err := sf.Auth.Logout(c.Request().Context()); err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"auth": sf.Auth.State()})
	})
}
