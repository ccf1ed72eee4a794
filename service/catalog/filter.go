package catalog

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"

	"grocery.GO/model/entity"
)

type Availability string

const (
	AvailabilityAll Availability = "all"
	InStock         Availability = "in-stock"
	OutOfStock      Availability = "out-of-stock"
)

type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortPriceLow  SortOrder = "price-low"
	SortPriceHigh SortOrder = "price-high"
	SortRating    SortOrder = "rating"
)

// Filter narrows the store page listing. Zero values disable a criterion.
type Filter struct {
	Query        string       `mapstructure:"query" json:"query"`
	Category     string       `mapstructure:"category" json:"category"`
	MinPrice     *float64     `mapstructure:"minPrice" json:"minPrice,omitempty"`
	MaxPrice     *float64     `mapstructure:"maxPrice" json:"maxPrice,omitempty"`
	Brands       []string     `mapstructure:"brands" json:"brands,omitempty"`
	Ratings      []int        `mapstructure:"ratings" json:"ratings,omitempty"`
	Availability Availability `mapstructure:"availability" json:"availability"`
	Sort         SortOrder    `mapstructure:"sort" json:"sort"`
}

// ParseFilter decodes URL query values. List criteria accept repeated keys as well as
// comma-separated values; empty values are ignored.
func ParseFilter(values map[string][]string) (Filter, error) {
	input := map[string]interface{}{}
	for key, vs := range values {
		var parts []string
		for _, v := range vs {
			for _, p := range strings.Split(v, ",") {
				if p = strings.TrimSpace(p); p != "" {
					parts = append(parts, p)
				}
			}
		}
		if len(parts) == 0 {
			continue
		}
		switch key {
		case "brands", "ratings":
			input[key] = parts
		case "q", "query":
			input["query"] = strings.Join(vs, " ")
		default:
			input[key] = parts[0]
		}
	}

	var f Filter
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &f,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Filter{}, err
	}
	if err := dec.Decode(input); err != nil {
		return Filter{}, fmt.Errorf("invalid filter: %w", err)
	}
	return f, nil
}

// Matches reports whether p passes every criterion except the text query.
func (f Filter) Matches(p entity.Product) bool {
	if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(decimal.NewFromFloat(*f.MinPrice)) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(decimal.NewFromFloat(*f.MaxPrice)) {
		return false
	}
	if len(f.Brands) > 0 && !containsFold(f.Brands, p.BrandName()) {
		return false
	}
	if len(f.Ratings) > 0 {
		floor := int(math.Floor(p.Rating))
		found := false
		for _, r := range f.Ratings {
			if r == floor {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	switch f.Availability {
	case InStock:
		return p.InStock
	case OutOfStock:
		return !p.InStock
	}
	return true
}

// MatchesQuery does the in-memory text match on title, description, category and brand.
func MatchesQuery(p entity.Product, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, field := range []string{p.Title, p.Description, p.Category, p.Brand} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Apply filters and sorts products in memory. The input slice is not modified.
func Apply(products []entity.Product, f Filter) []entity.Product {
	out := make([]entity.Product, 0, len(products))
	for _, p := range products {
		if MatchesQuery(p, f.Query) && f.Matches(p) {
			out = append(out, p)
		}
	}
	SortProducts(out, f.Sort)
	return out
}

// SortProducts orders in place; unknown orders fall back to newest (highest id first).
func SortProducts(products []entity.Product, order SortOrder) {
	var less func(a, b entity.Product) bool
	switch order {
	case SortPriceLow:
		less = func(a, b entity.Product) bool { return a.Price.LessThan(b.Price) }
	case SortPriceHigh:
		less = func(a, b entity.Product) bool { return a.Price.GreaterThan(b.Price) }
	case SortRating:
		less = func(a, b entity.Product) bool { return a.Rating > b.Rating }
	default:
		less = func(a, b entity.Product) bool { return a.ID > b.ID }
	}
	sort.SliceStable(products, func(i, j int) bool { return less(products[i], products[j]) })
}

// BrandNames returns the sorted distinct brands, "Generic" standing in for products without one.
func BrandNames(products []entity.Product) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, p := range products {
		name := p.BrandName()
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

func PriceRangeOf(products []entity.Product) PriceRange {
	if len(products) == 0 {
		return PriceRange{Min: decimal.Zero, Max: decimal.Zero}
	}
	r := PriceRange{Min: products[0].Price, Max: products[0].Price}
	for _, p := range products[1:] {
		r.Min = decimal.Min(r.Min, p.Price)
		r.Max = decimal.Max(r.Max, p.Price)
	}
	return r
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
