// Package checkout drives the four-step checkout flow: cart review, shipping, payment and
// confirmation. Entering shipping and placing the order both require a logged-in user.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"grocery.GO/core/store"
	"grocery.GO/model/entity"
	"grocery.GO/service/cart"
	"grocery.GO/service/order"
)

var (
	ErrAuthRequired = errors.New("authentication required")
	ErrNotAtPayment = errors.New("Orders can only be placed from the payment step")
	ErrEmptyCart    = errors.New("Your cart is empty")
	ErrOrderFailed  = errors.New(MsgOrderFailed)
)

const (
	MsgLoginToContinue = "Please login to continue with checkout"
	MsgLoginToOrder    = "Please login to place your order"
	MsgOrderPlaced     = "Order placed successfully! Thank you for your purchase."
	MsgOrderFailed     = "Failed to place order. Please try again."
)

type EventKind string

const (
	EventAuthRequired EventKind = "auth_required"
	EventOrderPlaced  EventKind = "order_placed"
	EventOrderFailed  EventKind = "order_failed"
)

// Event is a user-facing notification raised by the controller.
type Event struct {
	Kind    EventKind `json:"kind"`
	Message string    `json:"message"`
	OrderID string    `json:"orderId,omitempty"`
}

// Authenticator reports the logged-in user of the session.
type Authenticator interface {
	CurrentUser() (entity.User, bool)
}

// OrderSubmitter accepts a finished order.
type OrderSubmitter interface {
	AddOrder(ctx context.Context, userID string, req order.Request) (*entity.Order, error)
}

type Controller struct {
	mu     sync.Mutex
	st     *store.Store[State]
	cart   *cart.Store
	auth   Authenticator
	orders OrderSubmitter
	log    *zap.Logger
}

func NewController(c *cart.Store, auth Authenticator, orders OrderSubmitter, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		st:     store.New(Initial(), reduce),
		cart:   c,
		auth:   auth,
		orders: orders,
		log:    log,
	}
}

// State returns the current checkout state with the card number reduced to its last four digits.
func (c *Controller) State() State {
	return c.st.State().public()
}

func (c *Controller) Step() Step {
	return c.st.State().Step
}

// Next advances one step. From CartReview it requires a logged-in user; otherwise it emits
// auth_required, closes the flow and returns ErrAuthRequired without moving.
func (c *Controller) Next() (Step, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.st.State()
	if st.Step == StepCartReview && !c.authenticated() {
		c.st.Dispatch(emit{Event{Kind: EventAuthRequired, Message: MsgLoginToContinue}})
		return st.Step, ErrAuthRequired
	}
	return c.st.Dispatch(goNext{}).Step, nil
}

// Prev moves back one step, stopping at CartReview.
func (c *Controller) Prev() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.Dispatch(goPrev{}).Step
}

// SetShipping replaces the shipping form. Validation happens when the order is placed.
func (c *Controller) SetShipping(f ShippingForm) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.Dispatch(setShipping{f}).public()
}

func (c *Controller) SetPayment(f PaymentForm) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.Dispatch(setPayment{f}).public()
}

// PlaceOrder submits the cart with the entered forms. On success the ordered lines leave the
// cart and the flow moves to Confirmation. A rejected submission leaves both cart and step untouched.
func (c *Controller) PlaceOrder(ctx context.Context) (*entity.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, ok := c.currentUser()
	if !ok {
		c.st.Dispatch(emit{Event{Kind: EventAuthRequired, Message: MsgLoginToOrder}})
		return nil, ErrAuthRequired
	}
	st := c.st.State()
	if st.Step != StepPayment {
		return nil, ErrNotAtPayment
	}
	cs := c.cart.State()
	if cs.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if err := validateForms(st.Shipping, st.Payment); err != nil {
		return nil, err
	}

	req := order.Request{
		Total:        cs.Total,
		Items:        orderItems(cs.Items),
		ShippingInfo: st.Shipping.toEntity(),
		PaymentInfo:  st.Payment.toEntity(),
	}
	placed, err := c.orders.AddOrder(ctx, user.ID, req)
	if err != nil {
		c.log.Warn("order submission failed", zap.String("user_id", user.ID), zap.Error(err))
		c.st.Dispatch(emit{Event{Kind: EventOrderFailed, Message: MsgOrderFailed}})
		return nil, fmt.Errorf("%w: %w", ErrOrderFailed, err)
	}

	c.cart.RemoveOrdered(cs.Items)
	c.st.Dispatch(orderPlaced{order: placed})
	c.log.Info("order placed",
		zap.String("user_id", user.ID),
		zap.String("order_id", placed.ID),
		zap.String("total", placed.Total.StringFixed(2)),
	)
	return placed, nil
}

// Reset reopens the flow at CartReview with empty forms.
func (c *Controller) Reset() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.Dispatch(reset{}).public()
}

// Subscribe registers fn for every state change.
func (c *Controller) Subscribe(fn func(State)) func() {
	return c.st.Subscribe(func(st State, _ store.Action) { fn(st.public()) })
}

// OnEvent registers fn for notifications. fn runs synchronously on the calling goroutine.
func (c *Controller) OnEvent(fn func(Event)) func() {
	return c.st.Subscribe(func(_ State, a store.Action) {
		switch a := a.(type) {
		case emit:
			fn(a.event)
		case orderPlaced:
			fn(Event{Kind: EventOrderPlaced, Message: MsgOrderPlaced, OrderID: a.order.ID})
		}
	})
}

func (c *Controller) currentUser() (entity.User, bool) {
	if c.auth == nil {
		return entity.User{}, false
	}
	return c.auth.CurrentUser()
}

func (c *Controller) authenticated() bool {
	_, ok := c.currentUser()
	return ok
}

func orderItems(items []cart.LineItem) []entity.OrderItem {
	out := make([]entity.OrderItem, len(items))
	for i, it := range items {
		out[i] = entity.OrderItem{
			ID:       it.ID,
			Title:    it.Title,
			Price:    it.Price,
			Quantity: it.Quantity,
			Image:    it.Image,
			Category: it.Category,
		}
	}
	return out
}
