// Package repository holds helpers shared by the gorm repositories.
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// NextID returns the first free "<prefix>NNN" identifier, starting from row count + 1.
// Callers serialize creates per table.
func NextID(ctx context.Context, db *gorm.DB, model interface{}, prefix string) (string, error) {
	return NextIDFunc(ctx, db, model, func(n int64) string {
		return fmt.Sprintf("%s%03d", prefix, n)
	})
}

// NextIDFunc is NextID with a custom id format.
func NextIDFunc(ctx context.Context, db *gorm.DB, model interface{}, format func(n int64) string) (string, error) {
	var count int64
	if err := db.WithContext(ctx).Model(model).Count(&count).Error; err != nil {
		return "", err
	}
	for n := count + 1; ; n++ {
		id := format(n)
		var exists int64
		if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&exists).Error; err != nil {
			return "", err
		}
		if exists == 0 {
			return id, nil
		}
	}
}

// IsNotFound reports whether err is gorm's record-not-found.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
