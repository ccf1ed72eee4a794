package catalog

import (
	"context"
	"strings"
	"sync"

	"gorm.io/gorm"

	"grocery.GO/core/cache"
	"grocery.GO/model/entity"
)

const cacheTag = "catalog"

type ProductRepository struct {
	db    *gorm.DB
	cache *cache.Cache
	mu    sync.Mutex
}

// NewProductRepository uses c for list reads; a nil cache gets a private one.
func NewProductRepository(db *gorm.DB, c *cache.Cache) *ProductRepository {
	if c == nil {
		c = cache.NewCache()
	}
	return &ProductRepository{db: db, cache: c}
}

// FindAll returns every product ordered by id. The result is a copy and may be modified.
func (r *ProductRepository) FindAll(ctx context.Context) ([]entity.Product, error) {
	products, err := cache.Remember(r.cache, "products:all", 0, []string{cacheTag}, func() ([]entity.Product, error) {
		var products []entity.Product
		err := r.db.WithContext(ctx).Order("id").Find(&products).Error
		return products, err
	})
	if err != nil {
		return nil, err
	}
	return append([]entity.Product(nil), products...), nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id uint) (*entity.Product, error) {
	var p entity.Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByIDs returns the products in the order of ids, skipping unknown ids.
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []uint) ([]entity.Product, error) {
	if len(ids) == 0 {
		return []entity.Product{}, nil
	}
	var found []entity.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]entity.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]entity.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *ProductRepository) FindByCategory(ctx context.Context, category string) ([]entity.Product, error) {
	var products []entity.Product
	err := r.db.WithContext(ctx).Where("LOWER(category) = ?", strings.ToLower(category)).Order("id").Find(&products).Error
	return products, err
}

// Create assigns the next id when p.ID is zero.
func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == 0 {
		var maxID int64
		if err := r.db.WithContext(ctx).Model(&entity.Product{}).Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
			return err
		}
		p.ID = uint(maxID) + 1
	}
	defer r.cache.DeleteByTag(cacheTag)
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProductRepository) Update(ctx context.Context, p *entity.Product) error {
	defer r.cache.DeleteByTag(cacheTag)
	res := r.db.WithContext(ctx).Save(p)
	return res.Error
}

func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	defer r.cache.DeleteByTag(cacheTag)
	res := r.db.WithContext(ctx).Delete(&entity.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByCategory returns the number of products per category name.
// Uses raw SQL for minimal overhead.
func (r *ProductRepository) CountByCategory(ctx context.Context) (map[string]int, error) {
	sqlDB, err := r.db.DB()
	if err != nil {
		return nil, err
	}
	const query = `SELECT category, COUNT(*) FROM catalog_product GROUP BY category`
	rows, err := sqlDB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[string]int)
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, err
		}
		counts[name] = n
	}
	return counts, rows.Err()
}
