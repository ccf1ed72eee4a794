package user

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"gorm.io/gorm"

	"grocery.GO/model/entity"
	"grocery.GO/model/repository"
)

type UserRepository struct {
	db *gorm.DB
	mu sync.Mutex
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail matches case-insensitively.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	err := r.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// Create assigns a numeric string id ("1", "2", ...) when u.ID is empty.
func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == "" {
		id, err := repository.NextIDFunc(ctx, r.db, &entity.User{}, func(n int64) string {
			return strconv.FormatInt(n, 10)
		})
		if err != nil {
			return err
		}
		u.ID = id
	}
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) Save(ctx context.Context, u *entity.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

// FindActiveToken returns a non-revoked token by its token string.
func (r *UserRepository) FindActiveToken(ctx context.Context, token string) (*entity.AuthToken, error) {
	var t entity.AuthToken
	err := r.db.WithContext(ctx).Where("token = ? AND revoked = ?", token, false).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *UserRepository) CreateToken(ctx context.Context, t *entity.AuthToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// RevokeToken marks token revoked. Unknown tokens are ignored.
func (r *UserRepository) RevokeToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Model(&entity.AuthToken{}).Where("token = ?", token).Update("revoked", true).Error
}
