// Package returns handles return requests for delivered order items.
package returns

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"grocery.GO/core/validate"
	"grocery.GO/model/entity"
	"grocery.GO/model/repository"
	"grocery.GO/model/repository/sales"
	"grocery.GO/service/order"
)

var (
	ErrNotFound          = errors.New("Return request not found")
	ErrNotReturnable     = errors.New("Order is not eligible for return")
	ErrProductNotInOrder = errors.New("Product is not part of this order")
	ErrAlreadyRequested  = errors.New("A return for this item is already open")
	ErrInvalidStatus     = errors.New("Unknown return status")
)

type Reason struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var reasons = []Reason{
	{"defective", "Product Defective/Damaged"},
	{"wrong_item", "Wrong Item Received"},
	{"not_as_described", "Not as Described"},
	{"quality_issue", "Quality Issue"},
	{"expired", "Product Expired"},
	{"size_issue", "Wrong Size"},
	{"other", "Other"},
}

// Reasons lists the accepted return reasons.
func Reasons() []Reason {
	return append([]Reason(nil), reasons...)
}

// Request is a return as submitted by the customer.
type Request struct {
	UserID      string   `json:"userId" validate:"required"`
	OrderID     string   `json:"orderId" validate:"required"`
	ProductID   uint     `json:"productId" validate:"required"`
	Reason      string   `json:"reason" validate:"required,oneof=defective wrong_item not_as_described quality_issue expired size_issue other"`
	Description string   `json:"description" validate:"min=10"`
	Attachments []string `json:"attachments"`
}

var messages = map[string]string{
	"userId":      "User ID is required",
	"orderId":     "Order ID is required",
	"productId":   "Product ID is required",
	"reason":      "Return reason is required",
	"description": "Description must be at least 10 characters",
}

func (r Request) Validate() error {
	r.Description = strings.TrimSpace(r.Description)
	return validate.Struct(r, messages)
}

type Stats struct {
	Total        int     `json:"total"`
	Pending      int     `json:"pending"`
	Approved     int     `json:"approved"`
	Rejected     int     `json:"rejected"`
	ApprovalRate float64 `json:"approvalRate"`
}

type Service struct {
	repo   *sales.ReturnRepository
	orders *order.Service
	log    *zap.Logger
	now    func() time.Time
}

func NewService(repo *sales.ReturnRepository, orders *order.Service, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, orders: orders, log: log, now: time.Now}
}

func (s *Service) ByUser(ctx context.Context, userID string) ([]entity.ReturnRequest, error) {
	return s.repo.FindByUser(ctx, userID)
}

func (s *Service) ByID(ctx context.Context, userID, id string) (*entity.ReturnRequest, error) {
	rr, err := s.repo.FindByID(ctx, id)
	if repository.IsNotFound(err) || (err == nil && rr.UserID != userID) {
		return nil, ErrNotFound
	}
	return rr, err
}

// Create opens a pending return for one item of a delivered order. The refund is
// the item's price times its ordered quantity.
func (s *Service) Create(ctx context.Context, req Request) (*entity.ReturnRequest, error) {
	req.Description = strings.TrimSpace(req.Description)
	if err := validate.Struct(req, messages); err != nil {
		return nil, err
	}
	o, err := s.orders.ForUser(ctx, req.UserID, req.OrderID)
	if err != nil {
		return nil, err
	}
	if !order.Returnable(*o, s.now()) {
		return nil, ErrNotReturnable
	}
	var item *entity.OrderItem
	for i := range o.Items {
		if o.Items[i].ID == req.ProductID {
			item = &o.Items[i]
			break
		}
	}
	if item == nil {
		return nil, ErrProductNotInOrder
	}
	existing, err := s.repo.FindByUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	for _, rr := range existing {
		if rr.OrderID == req.OrderID && rr.ProductID == req.ProductID && rr.Status != entity.ReturnStatusRejected {
			return nil, ErrAlreadyRequested
		}
	}

	attachments := req.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	rr := &entity.ReturnRequest{
		UserID:       req.UserID,
		OrderID:      req.OrderID,
		ProductID:    req.ProductID,
		ProductName:  item.Title,
		Reason:       req.Reason,
		Description:  req.Description,
		Status:       entity.ReturnStatusPending,
		RefundAmount: item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
		RequestDate:  s.now(),
		Attachments:  datatypes.NewJSONSlice(attachments),
	}
	if err := s.repo.Create(ctx, rr); err != nil {
		return nil, fmt.Errorf("create return request: %w", err)
	}
	s.log.Info("return requested", zap.String("return_id", rr.ID), zap.String("order_id", rr.OrderID),
		zap.Uint("product_id", rr.ProductID), zap.String("reason", rr.Reason))
	return rr, nil
}

// UpdateStatus moves a request to status. Approving or rejecting records the resolution date.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*entity.ReturnRequest, error) {
	switch status {
	case entity.ReturnStatusPending, entity.ReturnStatusApproved, entity.ReturnStatusRejected:
	default:
		return nil, ErrInvalidStatus
	}
	rr, err := s.repo.FindByID(ctx, id)
	if repository.IsNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rr.Status = status
	if status == entity.ReturnStatusPending {
		rr.ResolutionDate = nil
	} else {
		now := s.now()
		rr.ResolutionDate = &now
	}
	if err := s.repo.Save(ctx, rr); err != nil {
		return nil, err
	}
	s.log.Info("return status updated", zap.String("return_id", id), zap.String("status", status))
	return rr, nil
}

// Stats counts every request. ApprovalRate is a percentage rounded to two places.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{Total: len(all)}
	for _, rr := range all {
		switch rr.Status {
		case entity.ReturnStatusPending:
			st.Pending++
		case entity.ReturnStatusApproved:
			st.Approved++
		case entity.ReturnStatusRejected:
			st.Rejected++
		}
	}
	if st.Total > 0 {
		st.ApprovalRate = math.Round(float64(st.Approved)/float64(st.Total)*10000) / 100
	}
	return st, nil
}
