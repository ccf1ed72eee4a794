package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

type Order struct {
	ID                string                         `gorm:"column:id;primaryKey;type:varchar(32)" json:"id" validate:"required"`
	UserID            string                         `gorm:"column:user_id;type:varchar(32);not null;index" json:"userId" validate:"required"`
	OrderDate         time.Time                      `gorm:"column:order_date" json:"orderDate"`
	Status            string                         `gorm:"column:status;type:varchar(16);not null;index" json:"status" validate:"oneof=processing shipped delivered cancelled"`
	Total             decimal.Decimal                `gorm:"column:total;type:decimal(10,2)" json:"total" validate:"gte=0"`
	Items             datatypes.JSONSlice[OrderItem] `gorm:"column:items" json:"items" validate:"required,min=1,dive"`
	ShippingInfo      ShippingInfo                   `gorm:"embedded;embeddedPrefix:ship_" json:"shippingInfo"`
	PaymentInfo       PaymentInfo                    `gorm:"embedded;embeddedPrefix:pay_" json:"paymentInfo"`
	TrackingNumber    string                         `gorm:"column:tracking_number;type:varchar(64)" json:"trackingNumber,omitempty"`
	EstimatedDelivery *time.Time                     `gorm:"column:estimated_delivery" json:"estimatedDelivery,omitempty"`
	DeliveredDate     *time.Time                     `gorm:"column:delivered_date" json:"deliveredDate,omitempty"`
	Notes             string                         `gorm:"column:notes;type:text" json:"notes,omitempty"`
	IsRated           bool                           `gorm:"column:is_rated" json:"isRated"`
	CancelReason      string                         `gorm:"column:cancel_reason;type:text" json:"cancelReason,omitempty"`
	CancelledAt       *time.Time                     `gorm:"column:cancelled_at" json:"cancelledAt,omitempty"`
}

func (Order) TableName() string {
	return "sales_order"
}

type OrderItem struct {
	ID       uint            `json:"id" validate:"required"`
	Title    string          `json:"title" validate:"required"`
	Price    decimal.Decimal `json:"price" validate:"gte=0"`
	Quantity int             `json:"quantity" validate:"gt=0"`
	Image    string          `json:"image,omitempty"`
	Category string          `json:"category,omitempty"`
	Rating   int             `json:"rating,omitempty" validate:"gte=0,lte=5"`
	Review   string          `json:"review,omitempty"`
	IsRated  bool            `json:"isRated,omitempty"`
}

type ShippingInfo struct {
	FirstName string `gorm:"column:first_name;type:varchar(64)" json:"firstName"`
	LastName  string `gorm:"column:last_name;type:varchar(64)" json:"lastName"`
	Email     string `gorm:"column:email;type:varchar(128)" json:"email"`
	Phone     string `gorm:"column:phone;type:varchar(32)" json:"phone"`
	Address   string `gorm:"column:address;type:varchar(255)" json:"address"`
	City      string `gorm:"column:city;type:varchar(64)" json:"city"`
	State     string `gorm:"column:state;type:varchar(64)" json:"state"`
	ZipCode   string `gorm:"column:zip_code;type:varchar(16)" json:"zipCode"`
	Country   string `gorm:"column:country;type:varchar(64)" json:"country"`
}

// PaymentInfo never holds more than the last four card digits.
type PaymentInfo struct {
	CardNumber string `gorm:"column:card_number;type:varchar(4)" json:"cardNumber"`
	CardName   string `gorm:"column:card_name;type:varchar(128)" json:"cardName"`
}
