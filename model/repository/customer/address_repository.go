package customer

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"grocery.GO/model/entity"
	"grocery.GO/model/repository"
)

type AddressRepository struct {
	db *gorm.DB
	mu sync.Mutex
}

func NewAddressRepository(db *gorm.DB) *AddressRepository {
	return &AddressRepository{db: db}
}

func (r *AddressRepository) FindByUser(ctx context.Context, userID string) ([]entity.Address, error) {
	var out []entity.Address
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&out).Error
	return out, err
}

func (r *AddressRepository) FindByID(ctx context.Context, id string) (*entity.Address, error) {
	var a entity.Address
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AddressRepository) FindDefault(ctx context.Context, userID string) (*entity.Address, error) {
	var a entity.Address
	if err := r.db.WithContext(ctx).Where("user_id = ? AND is_default = ?", userID, true).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// Create assigns the next ADDRnnn id. When a is the default, the user's other addresses lose it.
func (r *AddressRepository) Create(ctx context.Context, a *entity.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if a.ID == "" {
			id, err := repository.NextID(ctx, tx, &entity.Address{}, "ADDR")
			if err != nil {
				return err
			}
			a.ID = id
		}
		if a.IsDefault {
			if err := clearDefault(tx, &entity.Address{}, a.UserID, a.ID); err != nil {
				return err
			}
		}
		return tx.Create(a).Error
	})
}

// Save updates a; when a is the default, the user's other addresses lose it.
func (r *AddressRepository) Save(ctx context.Context, a *entity.Address) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if a.IsDefault {
			if err := clearDefault(tx, &entity.Address{}, a.UserID, a.ID); err != nil {
				return err
			}
		}
		return tx.Save(a).Error
	})
}

func (r *AddressRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&entity.Address{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func clearDefault(tx *gorm.DB, model interface{}, userID, exceptID string) error {
	return tx.Model(model).
		Where("user_id = ? AND id <> ? AND is_default = ?", userID, exceptID, true).
		Update("is_default", false).Error
}
