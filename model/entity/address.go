package entity

import "time"

type Address struct {
	ID          string       `gorm:"column:id;primaryKey;type:varchar(32)" json:"id" validate:"required"`
	UserID      string       `gorm:"column:user_id;type:varchar(32);not null;index" json:"userId" validate:"required"`
	Type        string       `gorm:"column:type;type:varchar(16)" json:"type" validate:"omitempty,oneof=home work other"`
	Label       string       `gorm:"column:label;type:varchar(64)" json:"label,omitempty"`
	IsDefault   bool         `gorm:"column:is_default" json:"isDefault"`
	Address     AddressLines `gorm:"embedded;embeddedPrefix:addr_" json:"address"`
	ContactInfo ContactInfo  `gorm:"embedded;embeddedPrefix:contact_" json:"contactInfo"`
	CreatedAt   time.Time    `gorm:"column:created_at" json:"createdAt"`
	LastUsed    *time.Time   `gorm:"column:last_used" json:"lastUsed"`
}

func (Address) TableName() string {
	return "customer_address"
}

type AddressLines struct {
	Street    string `gorm:"column:street;type:varchar(255)" json:"street" validate:"required,min=5"`
	Apartment string `gorm:"column:apartment;type:varchar(64)" json:"apartment,omitempty"`
	City      string `gorm:"column:city;type:varchar(64)" json:"city" validate:"required,min=2"`
	State     string `gorm:"column:state;type:varchar(64)" json:"state" validate:"required,min=2"`
	ZipCode   string `gorm:"column:zip_code;type:varchar(16)" json:"zipCode" validate:"zipcode"`
	Country   string `gorm:"column:country;type:varchar(64)" json:"country"`
}

type ContactInfo struct {
	Name  string `gorm:"column:name;type:varchar(128)" json:"name" validate:"required,min=2"`
	Phone string `gorm:"column:phone;type:varchar(32)" json:"phone" validate:"phone"`
}
