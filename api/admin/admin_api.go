package admin

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"grocery.GO/api"
	"grocery.GO/app"
	"grocery.GO/core/auth"
	catalogService "grocery.GO/service/catalog"
)

func init() {
	api.RegisterRoute(RegisterAdminRoutes)
}

// RegisterAdminRoutes serves merchant maintenance behind the API key: product edits, index
// rebuilds, order fulfilment and return decisions. It sits outside the session-aware /api group.
func RegisterAdminRoutes(e *echo.Echo, a *app.App) {
	log := a.Log.Named("api.admin")
	ag := e.Group("/api/admin", auth.Admin(a.Config.APIKey))

	ag.POST("/products", func(c echo.Context) error {
		var in catalogService.ProductInput
		if err := c.Bind(&in); err != nil {
			return api.BadRequest(c, "invalid product")
		}
		p, err := a.Catalog.Create(c.Request().Context(), in)
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusCreated, p)
	})

	ag.PUT("/products/:id", func(c echo.Context) error {
		id, ok := api.ParamID(c, "id")
		if !ok {
			return api.BadRequest(c, "invalid product id")
		}
		var in catalogService.ProductInput
		if err := c.Bind(&in); err != nil {
			return api.BadRequest(c, "invalid product")
		}
		p, err := a.Catalog.Update(c.Request().Context(), id, in)
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, p)
	})

	ag.DELETE("/products/:id", func(c echo.Context) error {
		id, ok := api.ParamID(c, "id")
		if !ok {
			return api.BadRequest(c, "invalid product id")
		}
		if err := a.Catalog.Delete(c.Request().Context(), id); err != nil {
			return api.Fail(c, log, err)
		}
		return c.NoContent(http.StatusNoContent)
	})

	ag.POST("/catalog/reindex", func(c echo.Context) error {
		n, err := a.Catalog.Reindex(c.Request().Context())
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"indexed": n})
	})

	// POST /api/admin/brands/flush drops the cached brand list after a fixture import.
	ag.POST("/brands/flush", func(c echo.Context) error {
		a.Brands.Invalidate()
		return c.NoContent(http.StatusNoContent)
	})

	// PATCH /api/admin/orders/:id/status {"status": "delivered", "notes": "..."}
	ag.PATCH("/orders/:id/status", func(c echo.Context) error {
		var body struct {
			Status string `json:"status"`
			Notes  string `json:"notes"`
		}
		if err := c.Bind(&body); err != nil {
			return api.BadRequest(c, "invalid status")
		}
		o, err := a.Orders.UpdateStatus(c.Request().Context(), c.Param("id"), body.Status, body.Notes)
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, o)
	})

	ag.POST("/orders/:id/tracking", func(c echo.Context) error {
		var body struct {
			TrackingNumber string `json:"trackingNumber"`
		}
		if err := c.Bind(&body); err != nil || body.TrackingNumber == "" {
			return api.BadRequest(c, "trackingNumber is required")
		}
		o, err := a.Orders.AddTracking(c.Request().Context(), c.Param("id"), body.TrackingNumber)
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, o)
	})

	ag.GET("/returns/stats", func(c echo.Context) error {
		st, err := a.Returns.Stats(c.Request().Context())
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, st)
	})

	ag.PATCH("/returns/:id/status", func(c echo.Context) error {
		var body struct {
			Status string `json:"status"`
		}
		if err := c.Bind(&body); err != nil {
			return api.BadRequest(c, "invalid status")
		}
		rr, err := a.Returns.UpdateStatus(c.Request().Context(), c.Param("id"), body.Status)
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, rr)
	})

	ag.GET("/sessions", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"active": a.Sessions.Len()})
	})
}
