package catalog

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"grocery.GO/model/entity"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) FindAll(ctx context.Context) ([]entity.Category, error) {
	var categories []entity.Category
	err := r.db.WithContext(ctx).Order("id").Find(&categories).Error
	return categories, err
}

// FindByName matches case-insensitively.
func (r *CategoryRepository) FindByName(ctx context.Context, name string) (*entity.Category, error) {
	var c entity.Category
	if err := r.db.WithContext(ctx).Where("LOWER(name) = ?", strings.ToLower(name)).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}
