// Package cart is the cart store: line items, derived totals and the active promo code.
package cart

import (
	"grocery.GO/core/store"
	"grocery.GO/service/promo"
)

// Store wraps the generic state container with cart operations.
type Store struct {
	st     *store.Store[State]
	promos *promo.Table
	policy PromoPolicy
}

// NewStore creates an empty cart. A nil table uses promo.DefaultTable.
func NewStore(policy PromoPolicy, promos *promo.Table) *Store {
	if promos == nil {
		promos = promo.DefaultTable()
	}
	return &Store{
		st:     store.New(Empty(), Reducer(policy)),
		promos: promos,
		policy: policy,
	}
}

func (s *Store) State() State {
	return s.st.State()
}

func (s *Store) Policy() PromoPolicy {
	return s.policy
}

// AddItem increments the quantity of an existing line or appends item with quantity 1.
func (s *Store) AddItem(item LineItem) State {
	return s.st.Dispatch(AddItem{Item: item})
}

func (s *Store) RemoveItem(id uint) State {
	return s.st.Dispatch(RemoveItem{ID: id})
}

func (s *Store) SetQuantity(id uint, qty int) State {
	return s.st.Dispatch(SetQuantity{ID: id, Quantity: qty})
}

func (s *Store) Clear() State {
	return s.st.Dispatch(Clear{})
}

// RemoveOrdered takes the ordered lines out of the cart, keeping anything added meanwhile.
func (s *Store) RemoveOrdered(items []LineItem) State {
	return s.st.Dispatch(Ordered{Items: items})
}

// ApplyCode looks code up and applies it, replacing any active promo. An unknown code
// returns promo.ErrInvalidCode and leaves the cart unchanged.
func (s *Store) ApplyCode(code string) (State, error) {
	c, err := s.promos.Lookup(code)
	if err != nil {
		return s.st.State(), err
	}
	return s.st.Dispatch(ApplyPromo{Code: c}), nil
}

func (s *Store) RemoveCode() State {
	return s.st.Dispatch(RemovePromo{})
}

// Subscribe registers fn for every cart change.
func (s *Store) Subscribe(fn store.Listener[State]) func() {
	return s.st.Subscribe(fn)
}
