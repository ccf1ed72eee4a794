package entity

import "time"

const (
	CardStatusActive   = "active"
	CardStatusExpired  = "expired"
	CardStatusDeclined = "declined"
)

// PaymentCard is a saved card. Only the masked number and last four digits are stored.
type PaymentCard struct {
	ID         string     `gorm:"column:id;primaryKey;type:varchar(32)" json:"id" validate:"required"`
	UserID     string     `gorm:"column:user_id;type:varchar(32);not null;index" json:"userId" validate:"required"`
	CardType   string     `gorm:"column:card_type;type:varchar(32)" json:"cardType"`
	CardNumber string     `gorm:"column:card_number;type:varchar(32)" json:"cardNumber" validate:"required"`
	Last4      string     `gorm:"column:last4;type:varchar(4)" json:"last4" validate:"len=4,numeric"`
	CardName   string     `gorm:"column:card_name;type:varchar(128)" json:"cardName" validate:"required,min=2"`
	ExpiryDate string     `gorm:"column:expiry_date;type:varchar(5)" json:"expiryDate" validate:"expiry"`
	IsDefault  bool       `gorm:"column:is_default" json:"isDefault"`
	Status     string     `gorm:"column:status;type:varchar(16)" json:"status" validate:"oneof=active expired declined"`
	LastUsed   *time.Time `gorm:"column:last_used" json:"lastUsed,omitempty"`
}

func (PaymentCard) TableName() string {
	return "customer_payment_card"
}
