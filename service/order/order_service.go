// Package order manages placed orders: creation, status changes, ratings, stats and search.
package order

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"grocery.GO/model/entity"
	"grocery.GO/model/repository"
	"grocery.GO/model/repository/sales"
)

var (
	ErrNotFound      = errors.New("Order not found")
	ErrItemNotFound  = errors.New("Order item not found")
	ErrEmptyOrder    = errors.New("Order has no items")
	ErrInvalidRating = errors.New("Rating must be between 1 and 5")
	ErrInvalidStatus = errors.New("Unknown order status")
	ErrCannotCancel  = errors.New("Order can no longer be cancelled")
)

const (
	ReturnWindow         = 30 * 24 * time.Hour
	DefaultCancelReason  = "Customer requested cancellation"
	placedNote           = "Order placed successfully"
	shippedNote          = "Package is on the way"
	estimatedDeliveryLag = 3 * 24 * time.Hour
)

// Request is the data needed to place an order.
type Request struct {
	Total        decimal.Decimal
	Items        []entity.OrderItem
	ShippingInfo entity.ShippingInfo
	PaymentInfo  entity.PaymentInfo
}

type Service struct {
	repo *sales.OrderRepository
	log  *zap.Logger
	now  func() time.Time
}

func NewService(repo *sales.OrderRepository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, log: log, now: time.Now}
}

// Create stores a new processing order for userID.
func (s *Service) Create(ctx context.Context, userID string, req Request) (*entity.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	now := s.now()
	eta := now.Add(estimatedDeliveryLag)
	o := &entity.Order{
		UserID:            userID,
		OrderDate:         now,
		Status:            entity.OrderStatusProcessing,
		Total:             req.Total,
		Items:             append([]entity.OrderItem(nil), req.Items...),
		ShippingInfo:      req.ShippingInfo,
		PaymentInfo:       req.PaymentInfo,
		EstimatedDelivery: &eta,
		Notes:             placedNote,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	s.log.Info("order created", zap.String("order_id", o.ID), zap.String("user_id", userID),
		zap.String("total", o.Total.StringFixed(2)), zap.Int("items", len(o.Items)))
	return o, nil
}

func (s *Service) ByUser(ctx context.Context, userID string) ([]entity.Order, error) {
	return s.repo.FindByUser(ctx, userID)
}

// ByStatus returns the user's orders in status.
func (s *Service) ByStatus(ctx context.Context, userID, status string) ([]entity.Order, error) {
	orders, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *Service) ByID(ctx context.Context, id string) (*entity.Order, error) {
	o, err := s.repo.FindByID(ctx, id)
	if repository.IsNotFound(err) {
		return nil, ErrNotFound
	}
	return o, err
}

// ForUser returns order id only when it belongs to userID.
func (s *Service) ForUser(ctx context.Context, userID, id string) (*entity.Order, error) {
	o, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, ErrNotFound
	}
	return o, nil
}

// UpdateStatus sets status and notes; delivered orders record the delivery time.
func (s *Service) UpdateStatus(ctx context.Context, id, status, notes string) (*entity.Order, error) {
	if _, ok := statusInfo[status]; !ok {
		return nil, ErrInvalidStatus
	}
	o, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Status = status
	o.Notes = notes
	if status == entity.OrderStatusDelivered {
		now := s.now()
		o.DeliveredDate = &now
	}
	if err := s.repo.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// AddTracking marks the order shipped.
func (s *Service) AddTracking(ctx context.Context, id, trackingNumber string) (*entity.Order, error) {
	o, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	o.TrackingNumber = trackingNumber
	o.Status = entity.OrderStatusShipped
	o.Notes = shippedNote
	if err := s.repo.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// RateItem stores a 1-5 rating; the order is rated once every item is.
func (s *Service) RateItem(ctx context.Context, userID, orderID string, itemID uint, rating int, review string) (*entity.Order, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	o, err := s.ForUser(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	found := false
	items := make([]entity.OrderItem, len(o.Items))
	copy(items, o.Items)
	allRated := true
	for i := range items {
		if items[i].ID == itemID {
			items[i].Rating = rating
			items[i].Review = review
			items[i].IsRated = true
			found = true
		}
		if items[i].Rating <= 0 {
			allRated = false
		}
	}
	if !found {
		return nil, ErrItemNotFound
	}
	o.Items = items
	o.IsRated = allRated
	if err := s.repo.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

type Stats struct {
	TotalOrders       int             `json:"totalOrders"`
	DeliveredOrders   int             `json:"deliveredOrders"`
	PendingOrders     int             `json:"pendingOrders"`
	TotalSpent        decimal.Decimal `json:"totalSpent"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
}

func (s *Service) Stats(ctx context.Context, userID string) (Stats, error) {
	orders, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{TotalOrders: len(orders), TotalSpent: decimal.Zero, AverageOrderValue: decimal.Zero}
	for _, o := range orders {
		switch o.Status {
		case entity.OrderStatusDelivered:
			st.DeliveredOrders++
		case entity.OrderStatusProcessing, entity.OrderStatusShipped:
			st.PendingOrders++
		}
		st.TotalSpent = st.TotalSpent.Add(o.Total)
	}
	if st.TotalOrders > 0 {
		st.AverageOrderValue = st.TotalSpent.Div(decimal.NewFromInt(int64(st.TotalOrders))).Round(2)
	}
	return st, nil
}

type StatusDetail struct {
	Label       string `json:"label"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

var statusInfo = map[string]StatusDetail{
	entity.OrderStatusProcessing: {Label: "Processing", Icon: "⏳", Description: "Your order is being prepared"},
	entity.OrderStatusShipped:    {Label: "Shipped", Icon: "🚚", Description: "Your order is on the way"},
	entity.OrderStatusDelivered:  {Label: "Delivered", Icon: "✅", Description: "Your order has been delivered"},
	entity.OrderStatusCancelled:  {Label: "Cancelled", Icon: "❌", Description: "Your order has been cancelled"},
}

// StatusInfo describes status; unknown statuses read as processing.
func StatusInfo(status string) StatusDetail {
	if d, ok := statusInfo[status]; ok {
		return d
	}
	return statusInfo[entity.OrderStatusProcessing]
}

// CanReturn reports whether o was delivered within the return window.
func (s *Service) CanReturn(o entity.Order) bool {
	return Returnable(o, s.now())
}

// Returnable is CanReturn evaluated at now.
func Returnable(o entity.Order, now time.Time) bool {
	if o.Status != entity.OrderStatusDelivered || o.DeliveredDate == nil {
		return false
	}
	return o.DeliveredDate.After(now.Add(-ReturnWindow))
}

// CanCancel reports whether o is neither delivered nor cancelled.
func CanCancel(o entity.Order) bool {
	return o.Status != entity.OrderStatusDelivered && o.Status != entity.OrderStatusCancelled
}

func (s *Service) Cancel(ctx context.Context, userID, id, reason string) (*entity.Order, error) {
	o, err := s.ForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !CanCancel(*o) {
		return nil, ErrCannotCancel
	}
	if strings.TrimSpace(reason) == "" {
		reason = DefaultCancelReason
	}
	now := s.now()
	o.Status = entity.OrderStatusCancelled
	o.Notes = reason
	o.CancelReason = reason
	o.CancelledAt = &now
	if err := s.repo.Save(ctx, o); err != nil {
		return nil, err
	}
	s.log.Info("order cancelled", zap.String("order_id", o.ID), zap.String("reason", reason))
	return o, nil
}

// Recent returns up to limit orders, newest first. limit <= 0 means 5.
func (s *Service) Recent(ctx context.Context, userID string, limit int) ([]entity.Order, error) {
	if limit <= 0 {
		limit = 5
	}
	orders, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].OrderDate.After(orders[j].OrderDate) })
	if len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

// Search matches the order id, any item title or the status, case-insensitively.
func (s *Service) Search(ctx context.Context, userID, query string) ([]entity.Order, error) {
	orders, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return orders, nil
	}
	out := make([]entity.Order, 0)
	for _, o := range orders {
		if matches(o, term) {
			out = append(out, o)
		}
	}
	return out, nil
}

func matches(o entity.Order, term string) bool {
	if strings.Contains(strings.ToLower(o.ID), term) || strings.Contains(o.Status, term) {
		return true
	}
	for _, it := range o.Items {
		if strings.Contains(strings.ToLower(it.Title), term) {
			return true
		}
	}
	return false
}
