package fixture

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"grocery.GO/config"
)

// OpenMemory opens a private in-memory sqlite database seeded with the embedded data set.
func OpenMemory(ctx context.Context, log *zap.Logger) (*gorm.DB, error) {
	cfg := config.Default()
	cfg.DBDriver = "sqlite"
	cfg.DBDSN = ":memory:"
	db, err := config.NewDB(cfg, log)
	if err != nil {
		return nil, err
	}
	if _, err := Seed(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}
