// Package brand serves the read-only brand directory.
package brand

import (
	"context"
	"errors"
	"strings"

	"grocery.GO/core/cache"
	"grocery.GO/model/entity"
	"grocery.GO/model/repository/catalog"
)

var ErrNotFound = errors.New("Brand not found")

const (
	DefaultLogo        = "🏷️"
	DefaultDescription = "Quality products"
	PopularLimit       = 6

	cacheKey = "brands:all"
	cacheTag = "brand"
)

type Service struct {
	repo  *catalog.BrandRepository
	cache *cache.Cache
}

// NewService caches the brand list in c; a nil cache gets a private one.
func NewService(repo *catalog.BrandRepository, c *cache.Cache) *Service {
	if c == nil {
		c = cache.NewCache()
	}
	return &Service{repo: repo, cache: c}
}

// All returns brands ordered by id.
func (s *Service) All(ctx context.Context) ([]entity.Brand, error) {
	brands, err := cache.Remember(s.cache, cacheKey, 0, []string{cacheTag}, func() ([]entity.Brand, error) {
		return s.repo.FindAll(ctx)
	})
	if err != nil {
		return nil, err
	}
	return append([]entity.Brand(nil), brands...), nil
}

// Invalidate drops the cached list after an import.
func (s *Service) Invalidate() {
	s.cache.DeleteByTag(cacheTag)
}

func (s *Service) ByID(ctx context.Context, id uint) (*entity.Brand, error) {
	return s.find(ctx, func(b entity.Brand) bool { return b.ID == id })
}

// ByName matches case-insensitively.
func (s *Service) ByName(ctx context.Context, name string) (*entity.Brand, error) {
	name = strings.TrimSpace(name)
	return s.find(ctx, func(b entity.Brand) bool { return strings.EqualFold(b.Name, name) })
}

func (s *Service) ByCategory(ctx context.Context, category string) ([]entity.Brand, error) {
	return s.filter(ctx, func(b entity.Brand) bool { return strings.EqualFold(b.Category, category) })
}

// Logo returns the brand's logo, DefaultLogo for unknown brands or an empty logo.
func (s *Service) Logo(ctx context.Context, name string) string {
	b, err := s.ByName(ctx, name)
	if err != nil || b.Logo == "" {
		return DefaultLogo
	}
	return b.Logo
}

func (s *Service) Description(ctx context.Context, name string) string {
	b, err := s.ByName(ctx, name)
	if err != nil || b.Description == "" {
		return DefaultDescription
	}
	return b.Description
}

// Popular returns the first brand of each category, at most PopularLimit of them.
func (s *Service) Popular(ctx context.Context) ([]entity.Brand, error) {
	brands, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	out := make([]entity.Brand, 0, PopularLimit)
	for _, b := range brands {
		if seen[b.Category] {
			continue
		}
		seen[b.Category] = true
		out = append(out, b)
		if len(out) == PopularLimit {
			break
		}
	}
	return out, nil
}

// Search matches name or description, case-insensitively.
func (s *Service) Search(ctx context.Context, query string) ([]entity.Brand, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	return s.filter(ctx, func(b entity.Brand) bool {
		return strings.Contains(strings.ToLower(b.Name), q) || strings.Contains(strings.ToLower(b.Description), q)
	})
}

// Categories lists brand categories in first-seen order.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	brands, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var out []string
	for _, b := range brands {
		if !seen[b.Category] {
			seen[b.Category] = true
			out = append(out, b.Category)
		}
	}
	return out, nil
}

func (s *Service) find(ctx context.Context, match func(entity.Brand) bool) (*entity.Brand, error) {
	brands, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range brands {
		if match(brands[i]) {
			return &brands[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *Service) filter(ctx context.Context, keep func(entity.Brand) bool) ([]entity.Brand, error) {
	brands, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Brand, 0, len(brands))
	for _, b := range brands {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out, nil
}
