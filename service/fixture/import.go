package fixture

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"grocery.GO/model/entity"
)

// ImportOptions configures a fixture import run.
type ImportOptions struct {
	BatchSize int
	// SkipInvalid imports the valid records of a set that failed Check instead of aborting.
	SkipInvalid bool
	// Replace deletes existing rows of every fixture table first.
	Replace bool
}

// ImportResult holds counters and timing from an import run.
type ImportResult struct {
	TotalRows int
	Created   int
	Updated   int
	Existing  int
	Skipped   int
	Counts    map[string]int
	Warnings  []string
	DBTime    time.Duration
	TotalTime time.Duration
}

func (r *ImportResult) warn(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Migrate creates or updates every storefront table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(entity.All()...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Import writes the set into db inside one transaction. Rows whose primary key already exists
// are left untouched and counted as Existing.
func Import(ctx context.Context, db *gorm.DB, s *Set, opts ImportOptions, log *zap.Logger) (*ImportResult, error) {
	startTotal := time.Now()
	if log == nil {
		log = zap.NewNop()
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}

	report := s.Check()
	if !report.OK() && !opts.SkipInvalid {
		return nil, report.Err()
	}

	result := &ImportResult{Counts: make(map[string]int)}
	for _, w := range report.Warnings {
		result.warn("%s", w)
	}
	for _, e := range report.Errors {
		result.warn("skipped %s", e)
	}

	startDB := time.Now()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if opts.Replace {
			for _, m := range entity.All() {
				if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
					return fmt.Errorf("clear %T: %w", m, err)
				}
			}
		}
		steps := []func(*gorm.DB) error{
			func(tx *gorm.DB) error {
				return insertAll(tx, result, report, opts, FileCategories, s.Categories, func(c entity.Category) string { return uintID(c.ID) })
			},
			func(tx *gorm.DB) error {
				return insertAll(tx, result, report, opts, FileBrands, s.Brands, func(b entity.Brand) string { return uintID(b.ID) })
			},
			func(tx *gorm.DB) error {
				return insertAll(tx, result, report, opts, FileItems, s.Products, func(p entity.Product) string { return uintID(p.ID) })
			},
			func(tx *gorm.DB) error {
				return insertAll(tx, result, report, opts, FileUsers, s.Users, func(u entity.User) string { return u.ID })
			},
			func(tx *gorm.DB) error {
				return insertAll(tx, result, report, opts, FileOrders, s.Orders, func(o entity.Order) string { return o.ID })
			},
			func(tx *gorm.DB) error {
				return insertAll(tx, result, report, opts, FileAddresses, s.Addresses, func(a entity.Address) string { return a.ID })
			},
			func(tx *gorm.DB) error {
				return insertAll(tx, result, report, opts, FilePaymentCards, s.PaymentCards, func(c entity.PaymentCard) string { return c.ID })
			},
			func(tx *gorm.DB) error {
				return insertAll(tx, result, report, opts, FileWishlist, s.Wishlist, func(w entity.WishlistItem) string { return w.ID })
			},
			func(tx *gorm.DB) error {
				return insertAll(tx, result, report, opts, FileReturnRequests, s.ReturnRequests, func(rr entity.ReturnRequest) string { return rr.ID })
			},
		}
		for _, step := range steps {
			if err := step(tx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.DBTime = time.Since(startDB)
	result.TotalTime = time.Since(startTotal)

	log.Info("fixtures imported",
		zap.Int("rows", result.TotalRows),
		zap.Int("created", result.Created),
		zap.Int("existing", result.Existing),
		zap.Int("skipped", result.Skipped),
		zap.Int("warnings", len(result.Warnings)),
		zap.Duration("took", result.TotalTime),
	)
	return result, nil
}

func insertAll[T any](tx *gorm.DB, result *ImportResult, report *Report, opts ImportOptions, file string, rows []T, id func(T) string) error {
	result.TotalRows += len(rows)
	valid := make([]T, 0, len(rows))
	for _, row := range rows {
		if report.Invalid(file, id(row)) {
			result.Skipped++
			continue
		}
		valid = append(valid, row)
	}
	if len(valid) == 0 {
		return nil
	}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&valid, opts.BatchSize)
	if res.Error != nil {
		return fmt.Errorf("import %s: %w", file, res.Error)
	}
	created := int(res.RowsAffected)
	result.Created += created
	result.Existing += len(valid) - created
	result.Counts[file] = created
	return nil
}

// Seed migrates db and imports the embedded data set.
func Seed(ctx context.Context, db *gorm.DB, log *zap.Logger) (*ImportResult, error) {
	if err := Migrate(db); err != nil {
		return nil, err
	}
	s, err := Load()
	if err != nil {
		return nil, err
	}
	return Import(ctx, db, s, ImportOptions{}, log)
}
