package catalog

import (
	"context"

	"gorm.io/gorm"

	"grocery.GO/model/entity"
)

type BrandRepository struct {
	db *gorm.DB
}

func NewBrandRepository(db *gorm.DB) *BrandRepository {
	return &BrandRepository{db: db}
}

func (r *BrandRepository) FindAll(ctx context.Context) ([]entity.Brand, error) {
	var brands []entity.Brand
	err := r.db.WithContext(ctx).Order("id").Find(&brands).Error
	return brands, err
}
