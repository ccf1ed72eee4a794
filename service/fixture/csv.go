package fixture

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"grocery.GO/core/validate"
	"grocery.GO/model/entity"
)

var productColumns = map[string]bool{
	"id": true, "title": true, "description": true, "category": true, "brand": true,
	"price": true, "originalPrice": true, "discount": true, "rating": true, "reviews": true,
	"image": true, "inStock": true,
}

// ImportProductsCSV reads catalog items from CSV and upserts them by id. Rows without an id
// get the next free one. Bad rows are skipped with a warning.
func ImportProductsCSV(ctx context.Context, db *gorm.DB, r io.Reader, opts ImportOptions, log *zap.Logger) (*ImportResult, error) {
	startTotal := time.Now()
	if log == nil {
		log = zap.NewNop()
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}
	colIndex := make(map[string]int, len(headers))
	result := &ImportResult{Counts: make(map[string]int)}
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if !productColumns[h] {
			result.warn("column %q: unknown, skipping", h)
			continue
		}
		colIndex[h] = i
	}
	for _, required := range []string{"title", "category", "price"} {
		if _, ok := colIndex[required]; !ok {
			return nil, fmt.Errorf("CSV must contain a %q column", required)
		}
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV rows: %w", err)
	}
	result.TotalRows = len(rows)

	var existing []uint
	if err := db.WithContext(ctx).Model(&entity.Product{}).Pluck("id", &existing).Error; err != nil {
		return nil, fmt.Errorf("load product ids: %w", err)
	}
	known := make(map[uint]bool, len(existing))
	var maxID uint
	for _, id := range existing {
		known[id] = true
		if id > maxID {
			maxID = id
		}
	}

	var creates, updates []entity.Product
	for i, row := range rows {
		line := i + 2
		p, err := parseProductRow(row, colIndex)
		if err != nil {
			result.Skipped++
			result.warn("line %d: %v", line, err)
			continue
		}
		if p.ID == 0 {
			maxID++
			p.ID = maxID
		} else if p.ID > maxID {
			maxID = p.ID
		}
		if err := validate.Struct(p, nil); err != nil {
			result.Skipped++
			result.warn("line %d: %v", line, err)
			continue
		}
		if known[p.ID] {
			updates = append(updates, p)
		} else {
			known[p.ID] = true
			creates = append(creates, p)
		}
	}

	startDB := time.Now()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(creates) > 0 {
			if err := tx.CreateInBatches(&creates, opts.BatchSize).Error; err != nil {
				return fmt.Errorf("insert products: %w", err)
			}
		}
		for i := range updates {
			if err := tx.Save(&updates[i]).Error; err != nil {
				return fmt.Errorf("update product %d: %w", updates[i].ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Created = len(creates)
	result.Updated = len(updates)
	result.Counts[FileItems] = result.Created + result.Updated
	result.DBTime = time.Since(startDB)
	result.TotalTime = time.Since(startTotal)

	log.Info("catalog CSV imported",
		zap.Int("rows", result.TotalRows),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

func parseProductRow(row []string, colIndex map[string]int) (entity.Product, error) {
	get := func(col string) string {
		i, ok := colIndex[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	p := entity.Product{
		Title:       get("title"),
		Description: get("description"),
		Category:    get("category"),
		Brand:       get("brand"),
		Image:       get("image"),
		InStock:     true,
	}
	var err error
	if v := get("id"); v != "" {
		id, perr := strconv.ParseUint(v, 10, 32)
		if perr != nil {
			return p, fmt.Errorf("id %q: not a positive integer", v)
		}
		p.ID = uint(id)
	}
	if p.Price, err = decimal.NewFromString(get("price")); err != nil {
		return p, fmt.Errorf("price %q: %w", get("price"), err)
	}
	if v := get("originalPrice"); v != "" {
		if p.OriginalPrice, err = decimal.NewFromString(v); err != nil {
			return p, fmt.Errorf("originalPrice %q: %w", v, err)
		}
	}
	if v := get("discount"); v != "" {
		if p.Discount, err = strconv.Atoi(v); err != nil {
			return p, fmt.Errorf("discount %q: %w", v, err)
		}
	}
	if v := get("rating"); v != "" {
		if p.Rating, err = strconv.ParseFloat(v, 64); err != nil {
			return p, fmt.Errorf("rating %q: %w", v, err)
		}
	}
	if v := get("reviews"); v != "" {
		if p.Reviews, err = strconv.Atoi(v); err != nil {
			return p, fmt.Errorf("reviews %q: %w", v, err)
		}
	}
	if v := get("inStock"); v != "" {
		if p.InStock, err = strconv.ParseBool(v); err != nil {
			return p, fmt.Errorf("inStock %q: %w", v, err)
		}
	}
	return p, nil
}
