package cart

import (
	"errors"

	"github.com/shopspring/decimal"

	"grocery.GO/model/entity"
)

// LineItem is one product entry in the cart with its own quantity.
type LineItem struct {
	ID            uint            `json:"id"`
	Title         string          `json:"title"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"originalPrice,omitempty"`
	Discount      int             `json:"discount,omitempty"`
	Image         string          `json:"image,omitempty"`
	Category      string          `json:"category,omitempty"`
	Quantity      int             `json:"quantity"`
}

// UnitOriginalPrice falls back to Price when no original price is set.
func (l LineItem) UnitOriginalPrice() decimal.Decimal {
	if l.OriginalPrice.IsZero() {
		return l.Price
	}
	return l.OriginalPrice
}

func (l LineItem) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l LineItem) LineOriginalTotal() decimal.Decimal {
	return l.UnitOriginalPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// normalized raises an original price below the selling price to the selling price.
func (l LineItem) normalized() LineItem {
	if !l.OriginalPrice.IsZero() && l.OriginalPrice.LessThan(l.Price) {
		l.OriginalPrice = l.Price
	}
	return l
}

// ErrOutOfStock refuses adding a product the store page shows as unavailable.
var ErrOutOfStock = errors.New("Product is out of stock")

// Purchasable builds the line item for p, refusing products that are out of stock.
func Purchasable(p entity.Product) (LineItem, error) {
	if !p.InStock {
		return LineItem{}, ErrOutOfStock
	}
	return FromProduct(p), nil
}

// FromProduct builds a line item for p with quantity 1.
func FromProduct(p entity.Product) LineItem {
	return LineItem{
		ID:            p.ID,
		Title:         p.Title,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Discount:      p.Discount,
		Image:         p.Image,
		Category:      p.Category,
		Quantity:      1,
	}
}
