package entity

type Category struct {
	ID          uint   `gorm:"column:id;primaryKey;autoIncrement:false" json:"id" validate:"required"`
	Name        string `gorm:"column:name;type:varchar(64);not null;uniqueIndex" json:"name" validate:"required"`
	Description string `gorm:"column:description;type:text" json:"description"`
	Image       string `gorm:"column:image;type:varchar(255)" json:"image"`
	Color       string `gorm:"column:color;type:varchar(64)" json:"color,omitempty"`
	ItemCount   int    `gorm:"column:item_count" json:"itemCount" validate:"gte=0"`
}

func (Category) TableName() string {
	return "catalog_category"
}
