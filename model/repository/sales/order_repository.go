package sales

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"grocery.GO/model/entity"
	"grocery.GO/model/repository"
)

type OrderRepository struct {
	db *gorm.DB
	mu sync.Mutex
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// FindByUser returns the user's orders, newest first.
func (r *OrderRepository) FindByUser(ctx context.Context, userID string) ([]entity.Order, error) {
	var orders []entity.Order
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("order_date DESC, id DESC").Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	var o entity.Order
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) FindAll(ctx context.Context) ([]entity.Order, error) {
	var orders []entity.Order
	err := r.db.WithContext(ctx).Order("order_date DESC, id DESC").Find(&orders).Error
	return orders, err
}

// Create assigns the next ORDnnn id when o.ID is empty.
func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.ID == "" {
		id, err := repository.NextID(ctx, r.db, &entity.Order{}, "ORD")
		if err != nil {
			return err
		}
		o.ID = id
	}
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *OrderRepository) Save(ctx context.Context, o *entity.Order) error {
	return r.db.WithContext(ctx).Save(o).Error
}
