// Package session holds per-visitor storefront state: the cart, the login and the checkout flow
// of one client, keyed by a session id.
package session

import (
	"sync"
	"time"

	"grocery.GO/service/cart"
	"grocery.GO/service/checkout"
)

// Storefront is everything one visitor has in flight.
type Storefront struct {
	ID       string
	Cart     *cart.Store
	Auth     *Auth
	Checkout *checkout.Controller

	ready    sync.Once
	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Storefront) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Storefront) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
