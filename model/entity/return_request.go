package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	ReturnStatusPending  = "pending"
	ReturnStatusApproved = "approved"
	ReturnStatusRejected = "rejected"
)

type ReturnRequest struct {
	ID             string                      `gorm:"column:id;primaryKey;type:varchar(32)" json:"id" validate:"required"`
	UserID         string                      `gorm:"column:user_id;type:varchar(32);not null;index" json:"userId" validate:"required"`
	OrderID        string                      `gorm:"column:order_id;type:varchar(32);not null;index" json:"orderId" validate:"required"`
	ProductID      uint                        `gorm:"column:product_id" json:"productId" validate:"required"`
	ProductName    string                      `gorm:"column:product_name;type:varchar(255)" json:"productName"`
	Reason         string                      `gorm:"column:reason;type:varchar(32)" json:"reason" validate:"required"`
	Description    string                      `gorm:"column:description;type:text" json:"description" validate:"min=10"`
	Status         string                      `gorm:"column:status;type:varchar(16)" json:"status" validate:"oneof=pending approved rejected"`
	RefundAmount   decimal.Decimal             `gorm:"column:refund_amount;type:decimal(10,2)" json:"refundAmount"`
	RequestDate    time.Time                   `gorm:"column:request_date" json:"requestDate"`
	ResolutionDate *time.Time                  `gorm:"column:resolution_date" json:"resolutionDate"`
	Attachments    datatypes.JSONSlice[string] `gorm:"column:attachments" json:"attachments"`
}

func (ReturnRequest) TableName() string {
	return "sales_return_request"
}
