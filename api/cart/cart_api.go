package cart

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"grocery.GO/api"
	"grocery.GO/app"
	"grocery.GO/core/apperr"
	"grocery.GO/core/auth"
	cartService "grocery.GO/service/cart"
	"grocery.GO/service/promo"
)

func init() {
	apperr.Register(promo.ErrInvalidCode, apperr.CodeBadRequest, http.StatusBadRequest)
	apperr.Register(cartService.ErrOutOfStock, apperr.CodeConflict, http.StatusConflict)
	api.RegisterModule(RegisterCartRoutes)
}

// cartResponse is the cart snapshot plus its order summary.
func cartResponse(a *app.App, st cartService.State) echo.Map {
	return echo.Map{"cart": st, "summary": st.Summary(a.Pricing)}
}

// RegisterCartRoutes exposes the session cart and the promo code table.
func RegisterCartRoutes(g *echo.Group, a *app.App) {
	log := a.Log.Named("api.cart")

	g.GET("/promo-codes", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"promoCodes": a.Promos.Codes()})
	})

	cg := g.Group("/cart")

	cg.GET("", func(c echo.Context) error {
		return c.JSON(http.StatusOK, cartResponse(a, auth.Storefront(c).Cart.State()))
	})

	cg.DELETE("", func(c echo.Context) error {
		return c.JSON(http.StatusOK, cartResponse(a, auth.Storefront(c).Cart.Clear()))
	})

	// POST /api/cart/items {"productId": 3}
	cg.POST("/items", func(c echo.Context) error {
		var body struct {
			ProductID uint `json:"productId"`
		}
		if err := c.Bind(&body); err != nil || body.ProductID == 0 {
			return api.BadRequest(c, "productId is required")
		}
		p, err := a.Catalog.ByID(c.Request().Context(), body.ProductID)
		if err != nil {
			return api.Fail(c, log, err)
		}
		item, err := cartService.Purchasable(*p)
		if err != nil {
			return api.Fail(c, log, err)
		}
		st := auth.Storefront(c).Cart.AddItem(item)
		return c.JSON(http.StatusOK, cartResponse(a, st))
	})

	// PATCH /api/cart/items/:id {"quantity": 2}; a quantity below 1 removes the line.
	cg.PATCH("/items/:id", func(c echo.Context) error {
		id, ok := api.ParamID(c, "id")
		if !ok {
			return api.BadRequest(c, "invalid item id")
		}
		var body struct {
			Quantity *int `json:"quantity"`
		}
		if err := c.Bind(&body); err != nil || body.Quantity == nil {
			return api.BadRequest(c, "quantity is required")
		}
		st := auth.Storefront(c).Cart.SetQuantity(id, *body.Quantity)
		return c.JSON(http.StatusOK, cartResponse(a, st))
	})

	cg.DELETE("/items/:id", func(c echo.Context) error {
		id, ok := api.ParamID(c, "id")
		if !ok {
			return api.BadRequest(c, "invalid item id")
		}
		return c.JSON(http.StatusOK, cartResponse(a, auth.Storefront(c).Cart.RemoveItem(id)))
	})

	// POST /api/cart/promo {"code": "save10"}
	cg.POST("/promo", func(c echo.Context) error {
		var body struct {
			Code string `json:"code"`
		}
		if err := c.Bind(&body); err != nil || strings.TrimSpace(body.Code) == "" {
			return api.BadRequest(c, "code is required")
		}
		st, err := auth.Storefront(c).Cart.ApplyCode(body.Code)
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, cartResponse(a, st))
	})

	cg.DELETE("/promo", func(c echo.Context) error {
		return c.JSON(http.StatusOK, cartResponse(a, auth.Storefront(c).Cart.RemoveCode()))
	})
}
