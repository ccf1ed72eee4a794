package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery.GO/config"
	"grocery.GO/service/catalog"
	"grocery.GO/service/fixture"
)

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	db, err := fixture.OpenMemory(context.Background(), nil)
	require.NoError(t, err)
	a, err := NewWithDB(cfg, db, nil, nil)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestNewWithDB_WiresServices(t *testing.T) {
	cfg := config.Default()
	cfg.FakeLatencyScale = 0
	cfg.TaxRate = 0.08
	cfg.ShippingFlatRate = 4.99
	a := newTestApp(t, cfg)

	assert.Equal(t, "0.08", a.Pricing.TaxRate.String())
	assert.Equal(t, "4.99", a.Pricing.ShippingFlatRate.String())
	assert.False(t, a.Catalog.HasIndex())
	assert.Nil(t, a.Redis)

	ctx := context.Background()
	products, err := a.Catalog.List(ctx, catalog.Filter{})
	require.NoError(t, err)
	assert.Len(t, products, 16)

	sf, created := a.Sessions.Open(ctx, "")
	assert.True(t, created)
	_, err = sf.Auth.Login(ctx, "jane.smith@example.com", "password456")
	require.NoError(t, err)
	again, created := a.Sessions.Open(ctx, sf.ID)
	assert.False(t, created)
	u, ok := again.Auth.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "jane.smith@example.com", u.Email)
}

func TestNewWithDB_StalePromoPolicy(t *testing.T) {
	cfg := config.Default()
	cfg.FakeLatencyScale = 0
	cfg.PromoPolicy = "stale"
	a := newTestApp(t, cfg)

	sf, _ := a.Sessions.Open(context.Background(), "")
	assert.Equal(t, "stale", sf.Cart.Policy().String())
}
