package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"grocery.GO/service/account"
	"grocery.GO/service/cart"
	"grocery.GO/service/checkout"
	"grocery.GO/service/promo"
)

type Options struct {
	Backend account.Backend
	Promos  *promo.Table
	Policy  cart.PromoPolicy
	// Storage returns the token storage of a session; nil means in-memory storage.
	Storage func(sessionID string) TokenStorage
	Log     *zap.Logger
}

// Manager owns every live Storefront.
type Manager struct {
	opts Options
	log  *zap.Logger
	now  func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Storefront
}

func NewManager(opts Options) *Manager {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Storage == nil {
		opts.Storage = func(string) TokenStorage { return NewMemoryStorage() }
	}
	return &Manager{
		opts:     opts,
		log:      opts.Log,
		now:      time.Now,
		sessions: make(map[string]*Storefront),
	}
}

// Open returns the storefront for id, creating it when id is unknown. Ids that are not UUIDs
// are replaced with a fresh one. A new storefront restores its login from token storage once.
func (m *Manager) Open(ctx context.Context, id string) (sf *Storefront, created bool) {
	now := m.now()
	m.mu.Lock()
	sf, ok := m.sessions[id]
	if !ok {
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		sf = m.newStorefront(id)
		m.sessions[id] = sf
		created = true
	}
	m.mu.Unlock()

	sf.touch(now)
	sf.ready.Do(func() {
		if err := sf.Auth.Rehydrate(ctx); err != nil {
			m.log.Warn("rehydrate session", zap.String("session_id", sf.ID), zap.Error(err))
		}
	})
	return sf, created
}

func (m *Manager) newStorefront(id string) *Storefront {
	log := m.log.With(zap.String("session_id", id))
	c := cart.NewStore(m.opts.Policy, m.opts.Promos)
	auth := NewAuth(m.opts.Backend, m.opts.Storage(id), log)
	return &Storefront{
		ID:       id,
		Cart:     c,
		Auth:     auth,
		Checkout: checkout.NewController(c, auth, m.opts.Backend, log),
	}
}

// Get returns a live storefront without creating one.
func (m *Manager) Get(id string) (*Storefront, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sf, ok := m.sessions[id]
	return sf, ok
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Prune drops storefronts idle for longer than maxIdle and returns how many were removed.
func (m *Manager) Prune(maxIdle time.Duration) int {
	cutoff := m.now().Add(-maxIdle)
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, sf := range m.sessions {
		if sf.LastSeen().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		m.log.Info("pruned idle sessions", zap.Int("removed", removed), zap.Int("remaining", len(m.sessions)))
	}
	return removed
}
