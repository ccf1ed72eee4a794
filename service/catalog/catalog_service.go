// Package catalog serves the store page: product listing with filters and sorting,
// categories, brands and product maintenance, optionally backed by a search index.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"grocery.GO/core/validate"
	"grocery.GO/model/entity"
	"grocery.GO/model/repository"
	catalogRepo "grocery.GO/model/repository/catalog"
)

var (
	ErrNotFound        = errors.New("Product not found")
	ErrUnknownCategory = errors.New("Unknown category")
	ErrNoIndex         = errors.New("search index is not configured")
)

// ProductInput is a product as created or edited by a merchant.
type ProductInput struct {
	Title         string          `json:"title" validate:"required"`
	Description   string          `json:"description"`
	Category      string          `json:"category" validate:"required"`
	Brand         string          `json:"brand"`
	Price         decimal.Decimal `json:"price" validate:"gt=0"`
	OriginalPrice decimal.Decimal `json:"originalPrice" validate:"gte=0"`
	Discount      int             `json:"discount" validate:"gte=0,lte=100"`
	Rating        float64         `json:"rating" validate:"gte=0,lte=5"`
	Reviews       int             `json:"reviews" validate:"gte=0"`
	Image         string          `json:"image"`
	InStock       bool            `json:"inStock"`
}

var inputMessages = map[string]string{
	"title":    "Title is required",
	"category": "Category is required",
	"price":    "Price must be greater than 0",
}

func (in ProductInput) apply(p *entity.Product) {
	p.Title = strings.TrimSpace(in.Title)
	p.Description = in.Description
	p.Category = in.Category
	p.Brand = strings.TrimSpace(in.Brand)
	p.Price = in.Price
	p.OriginalPrice = in.OriginalPrice
	p.Discount = in.Discount
	p.Rating = in.Rating
	p.Reviews = in.Reviews
	p.Image = in.Image
	p.InStock = in.InStock
}

type Service struct {
	products   *catalogRepo.ProductRepository
	categories *catalogRepo.CategoryRepository
	index      Index
	log        *zap.Logger
}

// NewService wires the catalog. index may be nil, in which case text queries match in memory.
func NewService(products *catalogRepo.ProductRepository, categories *catalogRepo.CategoryRepository, index Index, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{products: products, categories: categories, index: index, log: log}
}

func (s *Service) HasIndex() bool { return s.index != nil }

// List returns the products passing f, sorted by f.Sort.
func (s *Service) List(ctx context.Context, f Filter) ([]entity.Product, error) {
	if strings.TrimSpace(f.Query) != "" && s.index != nil {
		ids, err := s.index.Search(ctx, f.Query)
		if err == nil {
			hits, err := s.products.FindByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			out := make([]entity.Product, 0, len(hits))
			for _, p := range hits {
				if f.Matches(p) {
					out = append(out, p)
				}
			}
			SortProducts(out, f.Sort)
			return out, nil
		}
		s.log.Warn("search index unavailable, matching in memory", zap.Error(err))
	}

	all, err := s.candidates(ctx, f)
	if err != nil {
		return nil, err
	}
	return Apply(all, f), nil
}

// candidates narrows the database read to one category when f names it.
func (s *Service) candidates(ctx context.Context, f Filter) ([]entity.Product, error) {
	if strings.TrimSpace(f.Category) != "" {
		return s.products.FindByCategory(ctx, strings.TrimSpace(f.Category))
	}
	return s.products.FindAll(ctx)
}

func (s *Service) ByID(ctx context.Context, id uint) (*entity.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if repository.IsNotFound(err) {
		return nil, ErrNotFound
	}
	return p, err
}

// Categories returns every category with its item count taken from the live catalog.
func (s *Service) Categories(ctx context.Context) ([]entity.Category, error) {
	categories, err := s.categories.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.products.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		categories[i].ItemCount = counts[categories[i].Name]
	}
	return categories, nil
}

func (s *Service) Brands(ctx context.Context) ([]string, error) {
	all, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return BrandNames(all), nil
}

func (s *Service) PriceRange(ctx context.Context) (PriceRange, error) {
	all, err := s.products.FindAll(ctx)
	if err != nil {
		return PriceRange{}, err
	}
	return PriceRangeOf(all), nil
}

func (s *Service) Create(ctx context.Context, in ProductInput) (*entity.Product, error) {
	if err := s.check(ctx, &in); err != nil {
		return nil, err
	}
	p := &entity.Product{}
	in.apply(p)
	if err := s.products.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.syncIndex(ctx, *p)
	s.log.Info("product created", zap.Uint("product_id", p.ID), zap.String("title", p.Title))
	return p, nil
}

func (s *Service) Update(ctx context.Context, id uint, in ProductInput) (*entity.Product, error) {
	p, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.check(ctx, &in); err != nil {
		return nil, err
	}
	in.apply(p)
	if err := s.products.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.syncIndex(ctx, *p)
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	if s.index != nil {
		if err := s.index.Remove(ctx, id); err != nil {
			s.log.Warn("search index remove failed", zap.Uint("product_id", id), zap.Error(err))
		}
	}
	s.log.Info("product deleted", zap.Uint("product_id", id))
	return nil
}

// Reindex rebuilds the search index from the database and returns the number of products indexed.
func (s *Service) Reindex(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, ErrNoIndex
	}
	all, err := s.products.FindAll(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.index.Reindex(ctx, all); err != nil {
		return 0, err
	}
	return len(all), nil
}

// check validates in and canonicalizes its category name.
func (s *Service) check(ctx context.Context, in *ProductInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)
	if err := validate.Struct(*in, inputMessages); err != nil {
		return err
	}
	c, err := s.categories.FindByName(ctx, in.Category)
	if repository.IsNotFound(err) {
		return ErrUnknownCategory
	}
	if err != nil {
		return err
	}
	in.Category = c.Name
	if in.OriginalPrice.IsPositive() && in.OriginalPrice.LessThan(in.Price) {
		in.OriginalPrice = in.Price
	}
	return nil
}

func (s *Service) syncIndex(ctx context.Context, p entity.Product) {
	if s.index == nil {
		return
	}
	if err := s.index.Put(ctx, p); err != nil {
		s.log.Warn("search index update failed", zap.Uint("product_id", p.ID), zap.Error(err))
	}
}
