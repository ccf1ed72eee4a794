package returns

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery.GO/core/validate"
	"grocery.GO/model/entity"
	"grocery.GO/model/repository/sales"
	"grocery.GO/service/fixture"
	"grocery.GO/service/order"
)

var fixedNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T) *Service {
	t.Helper()
	db, err := fixture.OpenMemory(context.Background(), nil)
	require.NoError(t, err)
	s := NewService(sales.NewReturnRepository(db), order.NewService(sales.NewOrderRepository(db), nil), nil)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestReasons(t *testing.T) {
	r := Reasons()
	require.Len(t, r, 7)
	assert.Equal(t, Reason{"defective", "Product Defective/Damaged"}, r[0])
	r[0].Label = "changed"
	assert.Equal(t, "Product Defective/Damaged", Reasons()[0].Label)
}

func TestValidate(t *testing.T) {
	err := Request{Reason: "changed_my_mind", Description: "  short  "}.Validate()
	var verr *validate.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{
		"userId":      "User ID is required",
		"orderId":     "Order ID is required",
		"productId":   "Product ID is required",
		"reason":      "Return reason is required",
		"description": "Description must be at least 10 characters",
	}, verr.Map())
}

func TestCreate(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	rr, err := s.Create(ctx, Request{
		UserID: "1", OrderID: "ORD001", ProductID: 1, Reason: "quality_issue",
		Description: "Apples were bruised all over.",
	})
	require.NoError(t, err)
	assert.Equal(t, "RR003", rr.ID)
	assert.Equal(t, entity.ReturnStatusPending, rr.Status)
	assert.Equal(t, "Honeycrisp Apples", rr.ProductName)
	assert.True(t, rr.RefundAmount.Equal(decimal.RequireFromString("6.98")), "refund %s", rr.RefundAmount)
	assert.Nil(t, rr.ResolutionDate)
	assert.Empty(t, rr.Attachments)

	got, err := s.ByID(ctx, "1", "RR003")
	require.NoError(t, err)
	assert.Equal(t, fixedNow, got.RequestDate.UTC())
}

func TestCreate_Rejections(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	base := Request{UserID: "1", OrderID: "ORD001", ProductID: 5, Reason: "defective", Description: "Arrived damaged and soft."}

	_, err := s.Create(ctx, base)
	assert.ErrorIs(t, err, ErrAlreadyRequested)

	r := base
	r.ProductID = 14
	_, err = s.Create(ctx, r)
	assert.ErrorIs(t, err, ErrProductNotInOrder)

	r = base
	r.OrderID = "ORD002"
	r.ProductID = 14
	_, err = s.Create(ctx, r)
	assert.ErrorIs(t, err, ErrNotReturnable)

	r = base
	r.UserID = "2"
	_, err = s.Create(ctx, r)
	assert.ErrorIs(t, err, order.ErrNotFound)

	s.now = func() time.Time { return fixedNow.Add(30 * 24 * time.Hour) }
	r = base
	r.ProductID = 2
	_, err = s.Create(ctx, r)
	assert.ErrorIs(t, err, ErrNotReturnable)
}

func TestUpdateStatusAndStats(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Total: 2, Pending: 1, Approved: 1, ApprovalRate: 50}, st)

	rr, err := s.UpdateStatus(ctx, "RR002", entity.ReturnStatusRejected)
	require.NoError(t, err)
	require.NotNil(t, rr.ResolutionDate)

	_, err = s.UpdateStatus(ctx, "RR002", "lost")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = s.UpdateStatus(ctx, "RR999", entity.ReturnStatusApproved)
	assert.ErrorIs(t, err, ErrNotFound)

	st, err = s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Rejected)
	assert.Zero(t, st.Pending)

	_, err = s.Create(ctx, Request{UserID: "1", OrderID: "ORD001", ProductID: 5, Reason: "other", Description: "Trying again after rejection."})
	assert.NoError(t, err)
}

func TestByUser(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	list, err := s.ByUser(ctx, "1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "RR002", list[0].ID)

	_, err = s.ByID(ctx, "2", "RR001")
	assert.ErrorIs(t, err, ErrNotFound)
}
