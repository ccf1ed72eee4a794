package customer

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"grocery.GO/model/entity"
	"grocery.GO/model/repository"
)

type PaymentCardRepository struct {
	db *gorm.DB
	mu sync.Mutex
}

func NewPaymentCardRepository(db *gorm.DB) *PaymentCardRepository {
	return &PaymentCardRepository{db: db}
}

func (r *PaymentCardRepository) FindByUser(ctx context.Context, userID string) ([]entity.PaymentCard, error) {
	var out []entity.PaymentCard
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&out).Error
	return out, err
}

func (r *PaymentCardRepository) FindByID(ctx context.Context, id string) (*entity.PaymentCard, error) {
	var c entity.PaymentCard
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PaymentCardRepository) FindDefault(ctx context.Context, userID string) (*entity.PaymentCard, error) {
	var c entity.PaymentCard
	if err := r.db.WithContext(ctx).Where("user_id = ? AND is_default = ?", userID, true).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// Create assigns the next CARDnnn id. When c is the default, the user's other cards lose it.
func (r *PaymentCardRepository) Create(ctx context.Context, c *entity.PaymentCard) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if c.ID == "" {
			id, err := repository.NextID(ctx, tx, &entity.PaymentCard{}, "CARD")
			if err != nil {
				return err
			}
			c.ID = id
		}
		if c.IsDefault {
			if err := clearDefault(tx, &entity.PaymentCard{}, c.UserID, c.ID); err != nil {
				return err
			}
		}
		return tx.Create(c).Error
	})
}

func (r *PaymentCardRepository) Save(ctx context.Context, c *entity.PaymentCard) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if c.IsDefault {
			if err := clearDefault(tx, &entity.PaymentCard{}, c.UserID, c.ID); err != nil {
				return err
			}
		}
		return tx.Save(c).Error
	})
}

func (r *PaymentCardRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&entity.PaymentCard{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
