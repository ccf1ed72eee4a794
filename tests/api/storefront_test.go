package apitest

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery.GO/model/entity"
	"grocery.GO/service/cart"
)

type cartBody struct {
	Cart struct {
		Items []struct {
			ID       uint `json:"id"`
			Quantity int  `json:"quantity"`
		} `json:"items"`
		ItemCount           int             `json:"itemCount"`
		Subtotal            decimal.Decimal `json:"subtotal"`
		Total               decimal.Decimal `json:"total"`
		PromoCode           string          `json:"promoCode"`
		PromoDiscountAmount decimal.Decimal `json:"promoDiscountAmount"`
		FreeShipping        bool            `json:"freeShipping"`
	} `json:"cart"`
	Summary struct {
		Tax        decimal.Decimal `json:"tax"`
		GrandTotal decimal.Decimal `json:"grandTotal"`
	} `json:"summary"`
}

func TestProducts_FilterByCategory(t *testing.T) {
	e, _ := newStorefront(t)
	rec := newClient(t, e).do(http.MethodGet, "/api/products?category=Fruits&availability=in-stock", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Products []entity.Product `json:"products"`
		Total    int              `json:"total"`
	}
	decode(t, rec, &body)
	assert.Equal(t, 3, body.Total)
	for _, p := range body.Products {
		assert.Equal(t, "Fruits", p.Category)
		assert.True(t, p.InStock)
	}
}

func TestProducts_UnknownID(t *testing.T) {
	e, _ := newStorefront(t)
	rec := newClient(t, e).do(http.MethodGet, "/api/products/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCategories_LiveCounts(t *testing.T) {
	e, _ := newStorefront(t)
	rec := newClient(t, e).do(http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Categories []entity.Category `json:"categories"`
	}
	decode(t, rec, &body)
	require.NotEmpty(t, body.Categories)
	for _, c := range body.Categories {
		if c.Name == "Fruits" {
			assert.Equal(t, 4, c.ItemCount)
		}
	}
}

func TestCart_SessionKeepsItems(t *testing.T) {
	e, _ := newStorefront(t)
	c := newClient(t, e)

	rec := c.do(http.MethodPost, "/api/cart/items", map[string]int{"productId": 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotEmpty(t, c.session)

	rec = c.do(http.MethodPost, "/api/cart/items", map[string]int{"productId": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	var body cartBody
	decode(t, rec, &body)
	require.Len(t, body.Cart.Items, 1)
	assert.Equal(t, 2, body.Cart.Items[0].Quantity)
	assert.Equal(t, 2, body.Cart.ItemCount)
	assert.Equal(t, "6.98", body.Cart.Subtotal.StringFixed(2))

	other := newClient(t, e)
	rec = other.do(http.MethodGet, "/api/cart", nil)
	var empty cartBody
	decode(t, rec, &empty)
	assert.Empty(t, empty.Cart.Items)
	assert.NotEqual(t, c.session, other.session)
}

func TestCart_PromoCode(t *testing.T) {
	e, _ := newStorefront(t)
	c := newClient(t, e)
	c.do(http.MethodPost, "/api/cart/items", map[string]int{"productId": 1})
	c.do(http.MethodPatch, "/api/cart/items/1", map[string]int{"quantity": 2})

	rec := c.do(http.MethodPost, "/api/cart/promo", map[string]string{"code": " first5 "})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body cartBody
	decode(t, rec, &body)
	assert.Equal(t, "FIRST5", body.Cart.PromoCode)
	assert.Equal(t, "5.00", body.Cart.PromoDiscountAmount.StringFixed(2))
	assert.Equal(t, "1.98", body.Cart.Total.StringFixed(2))
	assert.Equal(t, "0.20", body.Summary.Tax.StringFixed(2))
	assert.Equal(t, "2.18", body.Summary.GrandTotal.StringFixed(2))

	rec = c.do(http.MethodDelete, "/api/cart/promo", nil)
	decode(t, rec, &body)
	assert.Empty(t, body.Cart.PromoCode)
	assert.Equal(t, "6.98", body.Cart.Total.StringFixed(2))
}

func TestCart_Refusals(t *testing.T) {
	e, _ := newStorefront(t)
	c := newClient(t, e)

	rec := c.do(http.MethodPost, "/api/cart/promo", map[string]string{"code": "NOPE"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodPost, "/api/cart/items", map[string]int{"productId": 4})
	assert.Equal(t, http.StatusConflict, rec.Code)
	var eb errorBody
	decode(t, rec, &eb)
	assert.Equal(t, "Product is out of stock", eb.Error.Message)

	rec = c.do(http.MethodPost, "/api/cart/items", map[string]int{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPromoCodes_List(t *testing.T) {
	e, _ := newStorefront(t)
	rec := newClient(t, e).do(http.MethodGet, "/api/promo-codes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "SAVE10")
	assert.Contains(t, rec.Body.String(), "FREESHIP")
}

func TestHealth(t *testing.T) {
	e, _ := newStorefront(t)
	rec := newClient(t, e).do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	decode(t, rec, &body)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "ok", body.Checks["database"])
}

func TestCustomRoute_Ping(t *testing.T) {
	e, _ := newStorefront(t)
	rec := newClient(t, e).do(http.MethodGet, "/custom/ping", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"pong":"ok"}`, rec.Body.String())
}

func TestCart_QuantityIsCapped(t *testing.T) {
	e, _ := newStorefront(t)
	c := newClient(t, e)
	c.do(http.MethodPost, "/api/cart/items", map[string]int{"productId": 1})

	rec := c.do(http.MethodPatch, "/api/cart/items/1", map[string]int64{"quantity": 1 << 40})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body cartBody
	decode(t, rec, &body)
	require.Len(t, body.Cart.Items, 1)
	assert.Equal(t, cart.MaxQuantity, body.Cart.Items[0].Quantity)
	assert.Equal(t, cart.MaxQuantity, body.Cart.ItemCount)
}
