// Package wishlist keeps per-customer saved products as snapshots of the catalog item.
package wishlist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"grocery.GO/model/entity"
	"grocery.GO/model/repository"
	"grocery.GO/model/repository/catalog"
	"grocery.GO/model/repository/customer"
	"grocery.GO/service/cart"
)

var (
	ErrNotFound        = errors.New("Wishlist item not found")
	ErrAlreadyListed   = errors.New("Item is already in your wishlist")
	ErrProductNotFound = errors.New("Product not found")
)

const DefaultRecentLimit = 5

type Stats struct {
	TotalItems     int             `json:"totalItems"`
	AvailableItems int             `json:"availableItems"`
	OnSaleItems    int             `json:"onSaleItems"`
	TotalValue     decimal.Decimal `json:"totalValue"`
	Categories     []string        `json:"categories"`
}

type Service struct {
	repo     *customer.WishlistRepository
	products *catalog.ProductRepository
	log      *zap.Logger
	now      func() time.Time
}

func NewService(repo *customer.WishlistRepository, products *catalog.ProductRepository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, products: products, log: log, now: time.Now}
}

// ByUser lists the user's entries, most recently added first.
func (s *Service) ByUser(ctx context.Context, userID string) ([]entity.WishlistItem, error) {
	return s.repo.FindByUser(ctx, userID)
}

func (s *Service) IsInWishlist(ctx context.Context, userID string, itemID uint) (bool, error) {
	_, err := s.repo.FindByUserAndItem(ctx, userID, itemID)
	if repository.IsNotFound(err) {
		return false, nil
	}
	return err == nil, err
}

// Add saves a snapshot of product itemID for userID. Each product is listed at most once per user.
func (s *Service) Add(ctx context.Context, userID string, itemID uint, notes string) (*entity.WishlistItem, error) {
	listed, err := s.IsInWishlist(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if listed {
		return nil, ErrAlreadyListed
	}
	p, err := s.products.FindByID(ctx, itemID)
	if repository.IsNotFound(err) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	w := &entity.WishlistItem{
		UserID:        userID,
		ItemID:        p.ID,
		Title:         p.Title,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Image:         p.Image,
		Category:      p.Category,
		InStock:       p.InStock,
		Notes:         strings.TrimSpace(notes),
		AddedDate:     s.now(),
	}
	if err := s.repo.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("add to wishlist: %w", err)
	}
	s.log.Info("wishlist item added", zap.String("user_id", userID), zap.Uint("item_id", itemID))
	return w, nil
}

// Remove deletes the entry for product itemID.
func (s *Service) Remove(ctx context.Context, userID string, itemID uint) (*entity.WishlistItem, error) {
	w, err := s.repo.FindByUserAndItem(ctx, userID, itemID)
	if repository.IsNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, w.ID); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *Service) UpdateNotes(ctx context.Context, userID, id, notes string) (*entity.WishlistItem, error) {
	w, err := s.repo.FindByID(ctx, id)
	if repository.IsNotFound(err) || (err == nil && w.UserID != userID) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	w.Notes = strings.TrimSpace(notes)
	if err := s.repo.Save(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// Clear removes every entry of userID and returns how many were removed.
func (s *Service) Clear(ctx context.Context, userID string) (int, error) {
	n, err := s.repo.DeleteByUser(ctx, userID)
	return int(n), err
}

func (s *Service) Stats(ctx context.Context, userID string) (Stats, error) {
	items, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{TotalItems: len(items), TotalValue: decimal.Zero, Categories: []string{}}
	seen := map[string]bool{}
	for _, w := range items {
		if w.InStock {
			st.AvailableItems++
		}
		if w.OriginalPrice.GreaterThan(w.Price) {
			st.OnSaleItems++
		}
		st.TotalValue = st.TotalValue.Add(w.Price)
		if !seen[w.Category] {
			seen[w.Category] = true
			st.Categories = append(st.Categories, w.Category)
		}
	}
	return st, nil
}

func (s *Service) ByCategory(ctx context.Context, userID, category string) ([]entity.WishlistItem, error) {
	return s.filter(ctx, userID, func(w entity.WishlistItem) bool {
		return strings.EqualFold(w.Category, category)
	})
}

// Search matches title or category, case-insensitively.
func (s *Service) Search(ctx context.Context, userID, query string) ([]entity.WishlistItem, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	return s.filter(ctx, userID, func(w entity.WishlistItem) bool {
		return strings.Contains(strings.ToLower(w.Title), q) || strings.Contains(strings.ToLower(w.Category), q)
	})
}

// Recent returns the newest limit entries; limit <= 0 means DefaultRecentLimit.
func (s *Service) Recent(ctx context.Context, userID string, limit int) ([]entity.WishlistItem, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	items, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// MoveToCart removes the entry and returns it as a cart line with quantity 1.
func (s *Service) MoveToCart(ctx context.Context, userID string, itemID uint) (cart.LineItem, error) {
	w, err := s.Remove(ctx, userID, itemID)
	if err != nil {
		return cart.LineItem{}, err
	}
	s.log.Info("wishlist item moved to cart", zap.String("user_id", userID), zap.Uint("item_id", itemID))
	return cart.LineItem{
		ID:            w.ItemID,
		Title:         w.Title,
		Price:         w.Price,
		OriginalPrice: w.OriginalPrice,
		Image:         w.Image,
		Category:      w.Category,
		Quantity:      1,
	}, nil
}

func (s *Service) filter(ctx context.Context, userID string, keep func(entity.WishlistItem) bool) ([]entity.WishlistItem, error) {
	items, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]entity.WishlistItem, 0, len(items))
	for _, w := range items {
		if keep(w) {
			out = append(out, w)
		}
	}
	return out, nil
}
