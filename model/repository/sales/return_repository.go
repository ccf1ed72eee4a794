package sales

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"grocery.GO/model/entity"
	"grocery.GO/model/repository"
)

type ReturnRepository struct {
	db *gorm.DB
	mu sync.Mutex
}

func NewReturnRepository(db *gorm.DB) *ReturnRepository {
	return &ReturnRepository{db: db}
}

func (r *ReturnRepository) FindByUser(ctx context.Context, userID string) ([]entity.ReturnRequest, error) {
	var out []entity.ReturnRequest
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("request_date DESC, id DESC").Find(&out).Error
	return out, err
}

func (r *ReturnRepository) FindByID(ctx context.Context, id string) (*entity.ReturnRequest, error) {
	var rr entity.ReturnRequest
	if err := r.db.WithContext(ctx).First(&rr, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rr, nil
}

func (r *ReturnRepository) FindAll(ctx context.Context) ([]entity.ReturnRequest, error) {
	var out []entity.ReturnRequest
	err := r.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}

// Create assigns the next RRnnn id when rr.ID is empty.
func (r *ReturnRepository) Create(ctx context.Context, rr *entity.ReturnRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rr.ID == "" {
		id, err := repository.NextID(ctx, r.db, &entity.ReturnRequest{}, "RR")
		if err != nil {
			return err
		}
		rr.ID = id
	}
	return r.db.WithContext(ctx).Create(rr).Error
}

func (r *ReturnRepository) Save(ctx context.Context, rr *entity.ReturnRequest) error {
	return r.db.WithContext(ctx).Save(rr).Error
}
