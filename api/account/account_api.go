package account

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"grocery.GO/api"
	"grocery.GO/app"
	"grocery.GO/core/apperr"
	"grocery.GO/core/auth"
	"grocery.GO/model/entity"
	accountService "grocery.GO/service/account"
	"grocery.GO/service/address"
	"grocery.GO/service/order"
	"grocery.GO/service/payment"
	"grocery.GO/service/returns"
	"grocery.GO/service/wishlist"
)

func init() {
	apperr.Register(order.ErrNotFound, apperr.CodeNotFound, http.StatusNotFound)
	apperr.Register(order.ErrItemNotFound, apperr.CodeNotFound, http.StatusNotFound)
	apperr.Register(order.ErrEmptyOrder, apperr.CodeValidation, http.StatusUnprocessableEntity)
	apperr.Register(order.ErrInvalidRating, apperr.CodeValidation, http.StatusUnprocessableEntity)
	apperr.Register(order.ErrInvalidStatus, apperr.CodeValidation, http.StatusUnprocessableEntity)
	apperr.Register(order.ErrCannotCancel, apperr.CodePrecondition, http.StatusConflict)
	apperr.Register(address.ErrNotFound, apperr.CodeNotFound, http.StatusNotFound)
	apperr.Register(payment.ErrNotFound, apperr.CodeNotFound, http.StatusNotFound)
	apperr.Register(wishlist.ErrNotFound, apperr.CodeNotFound, http.StatusNotFound)
	apperr.Register(wishlist.ErrAlreadyListed, apperr.CodeConflict, http.StatusConflict)
	apperr.Register(wishlist.ErrProductNotFound, apperr.CodeNotFound, http.StatusNotFound)
	apperr.Register(returns.ErrNotFound, apperr.CodeNotFound, http.StatusNotFound)
	apperr.Register(returns.ErrNotReturnable, apperr.CodePrecondition, http.StatusConflict)
	apperr.Register(returns.ErrProductNotInOrder, apperr.CodeValidation, http.StatusUnprocessableEntity)
	apperr.Register(returns.ErrAlreadyRequested, apperr.CodeConflict, http.StatusConflict)
	apperr.Register(returns.ErrInvalidStatus, apperr.CodeValidation, http.StatusUnprocessableEntity)
	api.RegisterModule(RegisterAccountRoutes)
}

// currentUser is the logged-in user; auth.RequireLogin guards every /account route.
func currentUser(c echo.Context) entity.User {
	u, _ := auth.Storefront(c).Auth.CurrentUser()
	return u
}

// orderView adds the per-order flags the account pages show.
type orderView struct {
	entity.Order
	StatusInfo order.StatusDetail `json:"statusInfo"`
	CanReturn  bool               `json:"canReturn"`
	CanCancel  bool               `json:"canCancel"`
}

func viewOrder(a *app.App, o entity.Order) orderView {
	return orderView{
		Order:      o,
		StatusInfo: order.StatusInfo(o.Status),
		CanReturn:  a.Orders.CanReturn(o),
		CanCancel:  order.CanCancel(o),
	}
}

func viewOrders(a *app.App, orders []entity.Order) []orderView {
	out := make([]orderView, len(orders))
	for i, o := range orders {
		out[i] = viewOrder(a, o)
	}
	return out
}

// RegisterAccountRoutes serves the profile, order history, address book, saved cards,
// wishlist and returns of the logged-in user.
func RegisterAccountRoutes(g *echo.Group, a *app.App) {
	log := a.Log.Named("api.account")
	ag := g.Group("/account")

	ag.GET("/profile", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"user": currentUser(c)})
	})

	ag.PUT("/profile", func(c echo.Context) error {
		var upd accountService.ProfileUpdate
		if err := c.Bind(&upd); err != nil {
			return api.BadRequest(c, "invalid profile")
		}
		u, err := auth.Storefront(c).Auth.UpdateProfile(c.Request().Context(), upd)
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"user": u})
	})

	ag.PUT("/settings", func(c echo.Context) error {
		var settings entity.Settings
		if err := c.Bind(&settings); err != nil {
			return api.BadRequest(c, "invalid settings")
		}
		saved, err := auth.Storefront(c).Auth.UpdateSettings(c.Request().Context(), settings)
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"settings": saved})
	})

	registerOrderRoutes(ag.Group("/orders"), a)
	registerAddressRoutes(ag.Group("/addresses"), a)
	registerCardRoutes(ag.Group("/cards"), a)
	registerWishlistRoutes(ag.Group("/wishlist"), a)
	registerReturnRoutes(ag.Group("/returns"), a)
}

func registerOrderRoutes(og *echo.Group, a *app.App) {
	log := a.Log.Named("api.orders")

	// GET /api/account/orders?status=delivered&q=apples
	og.GET("", func(c echo.Context) error {
		ctx := c.Request().Context()
		userID := currentUser(c).ID
		var (
			orders []entity.Order
			err    error
		)
		switch q, status := strings.TrimSpace(c.QueryParam("q")), c.QueryParam("status"); {
		case q != "":
			orders, err = a.Orders.Search(ctx, userID, q)
		case status != "":
			orders, err = a.Orders.ByStatus(ctx, userID, status)
		default:
			orders, err = a.Orders.ByUser(ctx, userID)
		}
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"orders": viewOrders(a, orders)})
	})

	og.GET("/stats", func(c echo.Context) error {
		st, err := a.Orders.Stats(c.Request().Context(), currentUser(c).ID)
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, st)
	})

	// GET /api/account/orders/recent?limit=3
	og.GET("/recent", func(c echo.Context) error {
		limit, _ := strconv.Atoi(c.QueryParam("limit"))
		orders, err := a.Orders.Recent(c.Request().Context(), currentUser(c).ID, limit)
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"orders": viewOrders(a, orders)})
	})

	og.GET("/:id", func(c echo.Context) error {
		o, err := a.Orders.ForUser(c.Request().Context(), currentUser(c).ID, c.Param("id"))
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, viewOrder(a, *o))
	})

	og.POST("/:id/cancel", func(c echo.Context) error {
		var body struct {
			Reason string `json:"reason"`
		}
		_ = c.Bind(&body)
		o, err := a.Orders.Cancel(c.Request().Context(), currentUser(c).ID, c.Param("id"), body.Reason)
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, viewOrder(a, *o))
	})

	// POST /api/account/orders/:id/items/:itemId/rating {"rating": 5, "review": "..."}
	og.POST("/:id/items/:itemId/rating", func(c echo.Context) error {
		itemID, ok := api.ParamID(c, "itemId")
		if !ok {
			return api.BadRequest(c, "invalid item id")
		}
		var body struct {
			Rating int    `json:"rating"`
			Review string `json:"review"`
		}
		if err := c.Bind(&body); err != nil {
			return api.BadRequest(c, "invalid rating")
		}
		o, err := a.Orders.RateItem(c.Request().Context(), currentUser(c).ID, c.Param("id"), itemID, body.Rating, body.Review)
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, viewOrder(a, *o))
	})
}

func registerAddressRoutes(rg *echo.Group, a *app.App) {
	log := a.Log.Named("api.addresses")

	rg.GET("", func(c echo.Context) error {
		list, err := a.Addresses.ByUser(c.Request().Context(), currentUser(c).ID)
		if err != nil {
			return api.Fail(c, log, err)
		}
		formatted := make(map[string]string, len(list))
		for _, addr := range list {
			formatted[addr.ID] = address.Format(addr)
		}
		return c.JSON(http.StatusOK, echo.Map{"addresses": list, "formatted": formatted})
	})

	rg.GET("/stats", func(c echo.Context) error {
		st, err := a.Addresses.Stats(c.Request().Context(), currentUser(c).ID)
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, st)
	})

	rg.GET("/default", func(c echo.Context) error {
		addr, err := a.Addresses.Default(c.Request().Context(), currentUser(c).ID)
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, addr)
	})

	rg.POST("", func(c echo.Context) error {
		var in address.Input
		if err := c.Bind(&in); err != nil {
			return api.BadRequest(c, "invalid address")
		}
		addr, err := a.Addresses.Add(c.Request().Context(), currentUser(c).ID, in)
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusCreated, addr)
	})

	rg.PUT("/:id", func(c echo.Context) error {
		var in address.Input
		if err := c.Bind(&in); err != nil {
			return api.BadRequest(c, "invalid address")
		}
		addr, err := a.Addresses.Update(c.Request().Context(), currentUser(c).ID, c.Param("id"), in)
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, addr)
	})

	rg.DELETE("/:id", func(c echo.Context) error {
		addr, err := a.Addresses.Delete(c.Request().Context(), currentUser(c).ID, c.Param("id"))
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, addr)
	})

	rg.POST("/:id/default", func(c echo.Context) error {
		addr, err := a.Addresses.SetDefault(c.Request().Context(), currentUser(c).ID, c.Param("id"))
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, addr)
	})
}

func registerCardRoutes(rg *echo.Group, a *app.App) {
	log := a.Log.Named("api.cards")

	rg.GET("", func(c echo.Context) error {
		cards, err := a.Payments.ByUser(c.Request().Context(), currentUser(c).ID)
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"cards": cards})
	})

	rg.GET("/stats", func(c echo.Context) error {
		st, err := a.Payments.Stats(c.Request().Context(), currentUser(c).ID)
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, st)
	})

	// GET /api/account/cards/detect?number=5555... identifies the brand while the number is typed.
	rg.GET("/detect", func(c echo.Context) error {
		number := c.QueryParam("number")
		return c.JSON(http.StatusOK, echo.Map{"cardType": payment.DetectCardType(number), "masked": payment.Mask(number)})
	})

	rg.POST("", func(c echo.Context) error {
		var in payment.Input
		if err := c.Bind(&in); err != nil {
			return api.BadRequest(c, "invalid card")
		}
		card, err := a.Payments.Add(c.Request().Context(), currentUser(c).ID, in)
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusCreated, card)
	})

	rg.PATCH("/:id", func(c echo.Context) error {
		var upd payment.Update
		if err := c.Bind(&upd); err != nil {
			return api.BadRequest(c, "invalid card")
		}
		card, err := a.Payments.Update(c.Request().Context(), currentUser(c).ID, c.Param("id"), upd)
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, card)
	})

	rg.DELETE("/:id", func(c echo.Context) error {
		card, err := a.Payments.Delete(c.Request().Context(), currentUser(c).ID, c.Param("id"))
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, card)
	})

	rg.POST("/:id/default", func(c echo.Context) error {
		card, err := a.Payments.SetDefault(c.Request().Context(), currentUser(c).ID, c.Param("id"))
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, card)
	})
}

func registerWishlistRoutes(rg *echo.Group, a *app.App) {
	log := a.Log.Named("api.wishlist")

	// GET /api/account/wishlist?category=Fruits&q=apple
	rg.GET("", func(c echo.Context) error {
		ctx := c.Request().Context()
		userID := currentUser(c).ID
		var (
			items []entity.WishlistItem
			err   error
		)
		switch q, category := strings.TrimSpace(c.QueryParam("q")), c.QueryParam("category"); {
		case q != "":
			items, err = a.Wishlist.Search(ctx, userID, q)
		case category != "":
			items, err = a.Wishlist.ByCategory(ctx, userID, category)
		default:
			items, err = a.Wishlist.ByUser(ctx, userID)
		}
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"items": items})
	})

	rg.GET("/stats", func(c echo.Context) error {
		st, err := a.Wishlist.Stats(c.Request().Context(), currentUser(c).ID)
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, st)
	})

	rg.GET("/recent", func(c echo.Context) error {
		limit, _ := strconv.Atoi(c.QueryParam("limit"))
		items, err := a.Wishlist.Recent(c.Request().Context(), currentUser(c).ID, limit)
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"items": items})
	})

	rg.GET("/:productId", func(c echo.Context) error {
		id, ok := api.ParamID(c, "productId")
		if !ok {
			return api.BadRequest(c, "invalid product id")
		}
		listed, err := a.Wishlist.IsInWishlist(c.Request().Context(), currentUser(c).ID, id)
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"productId": id, "inWishlist": listed})
	})

	// POST /api/account/wishlist {"productId": 3, "notes": "for the weekend"}
	rg.POST("", func(c echo.Context) error {
		var body struct {
			ProductID uint   `json:"productId"`
			Notes     string `json:"notes"`
		}
		if err := c.Bind(&body); err != nil || body.ProductID == 0 {
			return api.BadRequest(c, "productId is required")
		}
		item, err := a.Wishlist.Add(c.Request().Context(), currentUser(c).ID, body.ProductID, body.Notes)
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusCreated, item)
	})

	rg.DELETE("", func(c echo.Context) error {
		n, err := a.Wishlist.Clear(c.Request().Context(), currentUser(c).ID)
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"removed": n})
	})

	rg.DELETE("/:productId", func(c echo.Context) error {
		id, ok := api.ParamID(c, "productId")
		if !ok {
			return api.BadRequest(c, "invalid product id")
		}
		item, err := a.Wishlist.Remove(c.Request().Context(), currentUser(c).ID, id)
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, item)
	})

	// PATCH /api/account/wishlist/notes/:id {"notes": "..."}; :id is the wishlist entry id.
	rg.PATCH("/notes/:id", func(c echo.Context) error {
		var body struct {
			Notes string `json:"notes"`
		}
		if err := c.Bind(&body); err != nil {
			return api.BadRequest(c, "invalid notes")
		}
		item, err := a.Wishlist.UpdateNotes(c.Request().Context(), currentUser(c).ID, c.Param("id"), body.Notes)
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, item)
	})

	rg.POST("/:productId/move-to-cart", func(c echo.Context) error {
		id, ok := api.ParamID(c, "productId")
		if !ok {
			return api.BadRequest(c, "invalid product id")
		}
		line, err := a.Wishlist.MoveToCart(c.Request().Context(), currentUser(c).ID, id)
		if err != nil {
			return api.Fail(c, log, err)
		}
		st := auth.Storefront(c).Cart.AddItem(line)
		return c.JSON(http.StatusOK, echo.Map{"cart": st, "summary": st.Summary(a.Pricing)})
	})
}

func registerReturnRoutes(rg *echo.Group, a *app.App) {
	log := a.Log.Named("api.returns")

	rg.GET("", func(c echo.Context) error {
		list, err := a.Returns.ByUser(c.Request().Context(), currentUser(c).ID)
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"returns": list})
	})

	rg.GET("/reasons", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"reasons": returns.Reasons()})
	})

	rg.GET("/:id", func(c echo.Context) error {
		rr, err := a.Returns.ByID(c.Request().Context(), currentUser(c).ID, c.Param("id"))
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, rr)
	})

	rg.POST("", func(c echo.Context) error {
		var req returns.Request
		if err := c.Bind(&req); err != nil {
			return api.BadRequest(c, "invalid return request")
		}
		req.UserID = currentUser(c).ID
		rr, err := a.Returns.Create(c.Request().Context(), req)
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusCreated, rr)
	})
}
