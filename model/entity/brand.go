package entity

type Brand struct {
	ID          uint   `gorm:"column:id;primaryKey;autoIncrement:false" json:"id" validate:"required"`
	Name        string `gorm:"column:name;type:varchar(128);not null;uniqueIndex" json:"name" validate:"required"`
	Logo        string `gorm:"column:logo;type:varchar(255)" json:"logo"`
	Description string `gorm:"column:description;type:text" json:"description"`
	Category    string `gorm:"column:category;type:varchar(64);index" json:"category" validate:"required"`
	Country     string `gorm:"column:country;type:varchar(64)" json:"country,omitempty"`
	Founded     int    `gorm:"column:founded" json:"founded,omitempty"`
}

func (Brand) TableName() string {
	return "catalog_brand"
}
