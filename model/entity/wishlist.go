package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// WishlistItem keeps a snapshot of the product at the time it was saved.
type WishlistItem struct {
	ID            string          `gorm:"column:id;primaryKey;type:varchar(32)" json:"id" validate:"required"`
	UserID        string          `gorm:"column:user_id;type:varchar(32);not null;index" json:"userId" validate:"required"`
	ItemID        uint            `gorm:"column:item_id;not null;index" json:"itemId" validate:"required"`
	Title         string          `gorm:"column:title;type:varchar(255)" json:"title" validate:"required"`
	Price         decimal.Decimal `gorm:"column:price;type:decimal(10,2)" json:"price" validate:"gte=0"`
	OriginalPrice decimal.Decimal `gorm:"column:original_price;type:decimal(10,2)" json:"originalPrice,omitempty"`
	Image         string          `gorm:"column:image;type:varchar(255)" json:"image"`
	Category      string          `gorm:"column:category;type:varchar(64)" json:"category"`
	InStock       bool            `gorm:"column:in_stock" json:"inStock"`
	Notes         string          `gorm:"column:notes;type:text" json:"notes,omitempty"`
	AddedDate     time.Time       `gorm:"column:added_date" json:"addedDate"`
}

func (WishlistItem) TableName() string {
	return "customer_wishlist"
}
