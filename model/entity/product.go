package entity

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Product is a catalog item ("glossary item" in the store page).
type Product struct {
	ID            uint            `gorm:"column:id;primaryKey;autoIncrement:false" json:"id" validate:"required"`
	Title         string          `gorm:"column:title;type:varchar(255);not null;index" json:"title" validate:"required"`
	Description   string          `gorm:"column:description;type:text" json:"description"`
	Category      string          `gorm:"column:category;type:varchar(64);not null;index" json:"category" validate:"required"`
	Brand         string          `gorm:"column:brand;type:varchar(128)" json:"brand,omitempty"`
	Price         decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null" json:"price" validate:"gt=0"`
	OriginalPrice decimal.Decimal `gorm:"column:original_price;type:decimal(10,2)" json:"originalPrice,omitempty" validate:"gte=0"`
	Discount      int             `gorm:"column:discount" json:"discount,omitempty" validate:"gte=0,lte=100"`
	Rating        float64         `gorm:"column:rating" json:"rating" validate:"gte=0,lte=5"`
	Reviews       int             `gorm:"column:reviews" json:"reviews" validate:"gte=0"`
	Image         string          `gorm:"column:image;type:varchar(255)" json:"image"`
	InStock       bool            `gorm:"column:in_stock;not null" json:"inStock"`
}

func (Product) TableName() string {
	return "catalog_product"
}

// BrandName returns the brand, "Generic" when unset.
func (p Product) BrandName() string {
	if strings.TrimSpace(p.Brand) == "" {
		return "Generic"
	}
	return p.Brand
}

// OnSale reports whether the product is priced below its original price.
func (p Product) OnSale() bool {
	return p.OriginalPrice.GreaterThan(p.Price)
}
