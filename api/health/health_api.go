package health

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"grocery.GO/api"
	"grocery.GO/app"
)

func init() {
	api.RegisterRoute(RegisterHealthRoutes)
}

// RegisterHealthRoutes adds GET /health reporting the database, redis and search index.
func RegisterHealthRoutes(e *echo.Echo, a *app.App) {
	e.GET("/health", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := echo.Map{"database": "ok", "redis": "disabled", "search": "disabled"}

		if sqlDB, err := a.DB.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			checks["database"] = "down"
			status = http.StatusServiceUnavailable
		}
		if a.Redis != nil {
			checks["redis"] = "ok"
			if err := a.Redis.Ping(ctx).Err(); err != nil {
				checks["redis"] = "down"
			}
		}
		if a.Catalog.HasIndex() {
			checks["search"] = "enabled"
		}
		return c.JSON(status, echo.Map{
			"status":   map[bool]string{true: "ok", false: "unavailable"}[status == http.StatusOK],
			"checks":   checks,
			"sessions": a.Sessions.Len(),
		})
	})
}
