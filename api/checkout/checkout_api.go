package checkout

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"grocery.GO/api"
	"grocery.GO/app"
	"grocery.GO/core/apperr"
	"grocery.GO/core/auth"
	checkoutService "grocery.GO/service/checkout"
	"grocery.GO/service/session"
)

func init() {
	apperr.Register(checkoutService.ErrAuthRequired, apperr.CodeUnauthorized, http.StatusUnauthorized)
	apperr.Register(checkoutService.ErrNotAtPayment, apperr.CodePrecondition, http.StatusConflict)
	apperr.Register(checkoutService.ErrEmptyCart, apperr.CodePrecondition, http.StatusConflict)
	apperr.Register(checkoutService.ErrOrderFailed, apperr.CodeUnavailable, http.StatusBadGateway)
	api.RegisterModule(RegisterCheckoutRoutes)
}

func stateResponse(a *app.App, sf *session.Storefront) echo.Map {
	cs := sf.Cart.State()
	return echo.Map{
		"checkout": sf.Checkout.State(),
		"cart":     cs,
		"summary":  cs.Summary(a.Pricing),
	}
}

// failure reports err together with the checkout state so clients can show the raised event.
func failure(c echo.Context, a *app.App, sf *session.Storefront, err error) error {
	ae := apperr.From(err)
	body := stateResponse(a, sf)
	body["error"] = ae
	if ae.HTTPStatus >= 500 {
		a.Log.Warn("checkout failed", zap.String("session_id", sf.ID), zap.Error(err))
	}
	return c.JSON(ae.HTTPStatus, body)
}

// RegisterCheckoutRoutes drives the checkout flow of the session.
func RegisterCheckoutRoutes(g *echo.Group, a *app.App) {
	cg := g.Group("/checkout")

	cg.GET("", func(c echo.Context) error {
		return c.JSON(http.StatusOK, stateResponse(a, auth.Storefront(c)))
	})

	cg.POST("/next", func(c echo.Context) error {
		sf := auth.Storefront(c)
		if _, err := sf.Checkout.Next(); err != nil {
			return failure(c, a, sf, err)
		}
		return c.JSON(http.StatusOK, stateResponse(a, sf))
	})

	cg.POST("/prev", func(c echo.Context) error {
		sf := auth.Storefront(c)
		sf.Checkout.Prev()
		return c.JSON(http.StatusOK, stateResponse(a, sf))
	})

	cg.PUT("/shipping", func(c echo.Context) error {
		var form checkoutService.ShippingForm
		if err := c.Bind(&form); err != nil {
			return api.BadRequest(c, "invalid shipping form")
		}
		sf := auth.Storefront(c)
		sf.Checkout.SetShipping(form)
		return c.JSON(http.StatusOK, stateResponse(a, sf))
	})

	cg.PUT("/payment", func(c echo.Context) error {
		var form checkoutService.PaymentForm
		if err := c.Bind(&form); err != nil {
			return api.BadRequest(c, "invalid payment form")
		}
		sf := auth.Storefront(c)
		sf.Checkout.SetPayment(form)
		return c.JSON(http.StatusOK, stateResponse(a, sf))
	})

	cg.POST("/order", func(c echo.Context) error {
		sf := auth.Storefront(c)
		placed, err := sf.Checkout.PlaceOrder(c.Request().Context())
		if err != nil {
			return failure(c, a, sf, err)
		}
		body := stateResponse(a, sf)
		body["order"] = placed
		body["message"] = checkoutService.MsgOrderPlaced
		return c.JSON(http.StatusCreated, body)
	})

	cg.POST("/reset", func(c echo.Context) error {
		sf := auth.Storefront(c)
		sf.Checkout.Reset()
		return c.JSON(http.StatusOK, stateResponse(a, sf))
	})

	// GET /api/checkout/card-format?number=4111111111111111
	cg.GET("/card-format", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"formatted": checkoutService.FormatCardNumber(c.QueryParam("number"))})
	})
}
