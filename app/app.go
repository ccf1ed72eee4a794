// Package app builds the storefront object graph from configuration: database, caches,
// repositories, domain services and the session manager.
package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"grocery.GO/config"
	"grocery.GO/core/cache"
	catalogRepo "grocery.GO/model/repository/catalog"
	"grocery.GO/model/repository/customer"
	"grocery.GO/model/repository/sales"
	"grocery.GO/model/repository/user"
	"grocery.GO/service/account"
	"grocery.GO/service/address"
	"grocery.GO/service/brand"
	"grocery.GO/service/cart"
	"grocery.GO/service/catalog"
	"grocery.GO/service/fixture"
	"grocery.GO/service/latency"
	"grocery.GO/service/order"
	"grocery.GO/service/payment"
	"grocery.GO/service/promo"
	"grocery.GO/service/returns"
	"grocery.GO/service/session"
	"grocery.GO/service/wishlist"
)

const sessionKeyPrefix = "grocery:session"

type App struct {
	Config *config.Config
	Log    *zap.Logger
	DB     *gorm.DB
	Cache  *cache.Cache
	// Redis is nil unless REDIS_ADDR is set and reachable.
	Redis *redis.Client

	Pricing cart.Pricing
	Promos  *promo.Table

	Catalog   *catalog.Service
	Brands    *brand.Service
	Orders    *order.Service
	Accounts  *account.Simulated
	Addresses *address.Service
	Payments  *payment.Service
	Wishlist  *wishlist.Service
	Returns   *returns.Service
	Sessions  *session.Manager
}

// New opens the configured database, seeds it with the embedded fixtures and wires every service.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := config.NewDB(cfg, log)
	if err != nil {
		return nil, err
	}
	res, err := fixture.Seed(ctx, db, log)
	if err != nil {
		return nil, fmt.Errorf("seed fixtures: %w", err)
	}
	log.Info("fixtures loaded",
		zap.Int("created", res.Created),
		zap.Int("existing", res.Existing),
		zap.Duration("took", res.TotalTime),
	)

	config.InitRedis(cfg)
	if err := config.PingRedis(ctx); err != nil {
		log.Warn("redis configured but not reachable, session tokens kept in memory", zap.Error(err))
		config.RedisClient = nil
	}
	return NewWithDB(cfg, db, config.RedisClient, log)
}

// NewWithDB wires services over an already prepared database. rdb may be nil.
func NewWithDB(cfg *config.Config, db *gorm.DB, rdb *redis.Client, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{
		Config: cfg,
		Log:    log,
		DB:     db,
		Cache:  cache.NewCache(),
		Redis:  rdb,
		Pricing: cart.Pricing{
			TaxRate:          decimal.NewFromFloat(cfg.TaxRate),
			ShippingFlatRate: decimal.NewFromFloat(cfg.ShippingFlatRate),
		},
		Promos: promo.DefaultTable(),
	}

	var index catalog.Index
	if cfg.ElasticsearchURL != "" {
		es, err := catalog.NewElasticIndex(cfg.ElasticsearchURL, "", log.Named("search"))
		if err != nil {
			return nil, err
		}
		index = es
	}

	products := catalogRepo.NewProductRepository(db, a.Cache)
	a.Catalog = catalog.NewService(products, catalogRepo.NewCategoryRepository(db), index, log.Named("catalog"))
	a.Brands = brand.NewService(catalogRepo.NewBrandRepository(db), a.Cache)
	a.Orders = order.NewService(sales.NewOrderRepository(db), log.Named("order"))
	a.Accounts = account.NewSimulated(user.NewUserRepository(db), a.Orders, latency.New(cfg.FakeLatencyScale), log.Named("account"))
	a.Addresses = address.NewService(customer.NewAddressRepository(db), log.Named("address"))
	a.Payments = payment.NewService(customer.NewPaymentCardRepository(db), log.Named("payment"))
	a.Wishlist = wishlist.NewService(customer.NewWishlistRepository(db), products, log.Named("wishlist"))
	a.Returns = returns.NewService(sales.NewReturnRepository(db), a.Orders, log.Named("returns"))

	opts := session.Options{
		Backend: a.Accounts,
		Promos:  a.Promos,
		Policy:  cart.ParsePromoPolicy(cfg.PromoPolicy),
		Log:     log.Named("session"),
	}
	if rdb != nil {
		ttl := cfg.SessionMaxIdle
		opts.Storage = func(id string) session.TokenStorage {
			return session.NewRedisStorage(rdb, sessionKeyPrefix, id, ttl)
		}
	}
	a.Sessions = session.NewManager(opts)
	return a, nil
}

// Close releases the database and redis connections.
func (a *App) Close() error {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Log.Warn("close redis", zap.Error(err))
		}
	}
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
