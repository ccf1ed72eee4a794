package customer

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"grocery.GO/model/entity"
	"grocery.GO/model/repository"
)

type WishlistRepository struct {
	db *gorm.DB
	mu sync.Mutex
}

func NewWishlistRepository(db *gorm.DB) *WishlistRepository {
	return &WishlistRepository{db: db}
}

// FindByUser returns the user's entries, most recently added first.
func (r *WishlistRepository) FindByUser(ctx context.Context, userID string) ([]entity.WishlistItem, error) {
	var out []entity.WishlistItem
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("added_date DESC, id DESC").Find(&out).Error
	return out, err
}

func (r *WishlistRepository) FindByID(ctx context.Context, id string) (*entity.WishlistItem, error) {
	var w entity.WishlistItem
	if err := r.db.WithContext(ctx).First(&w, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WishlistRepository) FindByUserAndItem(ctx context.Context, userID string, itemID uint) (*entity.WishlistItem, error) {
	var w entity.WishlistItem
	if err := r.db.WithContext(ctx).Where("user_id = ? AND item_id = ?", userID, itemID).First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// Create assigns the next WISHnnn id when w.ID is empty.
func (r *WishlistRepository) Create(ctx context.Context, w *entity.WishlistItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w.ID == "" {
		id, err := repository.NextID(ctx, r.db, &entity.WishlistItem{}, "WISH")
		if err != nil {
			return err
		}
		w.ID = id
	}
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *WishlistRepository) Save(ctx context.Context, w *entity.WishlistItem) error {
	return r.db.WithContext(ctx).Save(w).Error
}

func (r *WishlistRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&entity.WishlistItem{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *WishlistRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entity.WishlistItem{})
	return res.RowsAffected, res.Error
}
