package cart

import (
	"github.com/shopspring/decimal"

	"grocery.GO/core/money"
	"grocery.GO/service/promo"
)

// State is the cart snapshot. Totals are always derived from Items and the active promo.
type State struct {
	Items         []LineItem      `json:"items"`
	ItemCount     int             `json:"itemCount"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Total         decimal.Decimal `json:"total"`
	OriginalTotal decimal.Decimal `json:"originalTotal"`
	TotalSavings  decimal.Decimal `json:"totalSavings"`

	PromoCode           string          `json:"promoCode,omitempty"`
	PromoDiscount       decimal.Decimal `json:"promoDiscount"`
	PromoDiscountAmount decimal.Decimal `json:"promoDiscountAmount"`
	FreeShipping        bool            `json:"freeShipping"`

	promo *promo.Code
}

// Empty is the initial cart.
func Empty() State {
	return State{Items: []LineItem{}}
}

// ActivePromo returns the applied code, if any.
func (s State) ActivePromo() (promo.Code, bool) {
	if s.promo == nil {
		return promo.Code{}, false
	}
	return *s.promo, true
}

func (s State) IsEmpty() bool {
	return len(s.Items) == 0
}

// Item returns the line item with id.
func (s State) Item(id uint) (LineItem, bool) {
	for _, it := range s.Items {
		if it.ID == id {
			return it, true
		}
	}
	return LineItem{}, false
}

// Pricing holds the storefront-wide tax and shipping settings.
type Pricing struct {
	TaxRate          decimal.Decimal
	ShippingFlatRate decimal.Decimal
}

// DefaultPricing is 10% tax and free shipping.
func DefaultPricing() Pricing {
	return Pricing{TaxRate: decimal.NewFromFloat(0.10), ShippingFlatRate: decimal.Zero}
}

// Summary is the order summary shown next to the cart.
type Summary struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	TotalSavings  decimal.Decimal `json:"totalSavings"`
	PromoDiscount decimal.Decimal `json:"promoDiscount"`
	Total         decimal.Decimal `json:"total"`
	Tax           decimal.Decimal `json:"tax"`
	Shipping      decimal.Decimal `json:"shipping"`
	GrandTotal    decimal.Decimal `json:"grandTotal"`
}

func (s State) Summary(p Pricing) Summary {
	shipping := p.ShippingFlatRate
	if s.FreeShipping || s.IsEmpty() {
		shipping = decimal.Zero
	}
	tax := money.Cents(s.Total.Mul(p.TaxRate))
	return Summary{
		Subtotal:      money.Cents(s.Subtotal),
		TotalSavings:  money.Cents(s.TotalSavings),
		PromoDiscount: money.Cents(s.PromoDiscountAmount),
		Total:         money.Cents(s.Total),
		Tax:           tax,
		Shipping:      money.Cents(shipping),
		GrandTotal:    money.Cents(s.Total).Add(tax).Add(shipping),
	}
}
