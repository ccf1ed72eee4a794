// Package promo holds the static promo code table and the discount each code grants.
package promo

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"grocery.GO/core/money"
)

type Kind string

const (
	KindPercentage   Kind = "percentage"
	KindFixed        Kind = "fixed"
	KindFreeShipping Kind = "free_shipping"
)

// ErrInvalidCode is returned for codes missing from the table.
var ErrInvalidCode = errors.New("Invalid promo code")

type Code struct {
	Code        string          `json:"code"`
	Kind        Kind            `json:"kind"`
	Value       decimal.Decimal `json:"value"`
	Description string          `json:"description"`
}

// Discount is the monetary discount the code grants on subtotal. Fixed amounts are not
// capped here; the cart floors its total at zero instead.
func (c Code) Discount(subtotal decimal.Decimal) decimal.Decimal {
	switch c.Kind {
	case KindPercentage:
		return money.Percent(subtotal, c.Value)
	case KindFixed:
		return c.Value
	default:
		return decimal.Zero
	}
}

// FreeShipping reports whether the code waives shipping.
func (c Code) FreeShipping() bool {
	return c.Kind == KindFreeShipping
}

// Table is an immutable code lookup.
type Table struct {
	codes map[string]Code
	order []string
}

func NewTable(codes ...Code) *Table {
	t := &Table{codes: make(map[string]Code, len(codes))}
	for _, c := range codes {
		key := normalize(c.Code)
		c.Code = key
		if _, dup := t.codes[key]; !dup {
			t.order = append(t.order, key)
		}
		t.codes[key] = c
	}
	return t
}

var defaultTable = NewTable(
	Code{Code: "SAVE10", Kind: KindPercentage, Value: decimal.NewFromInt(10), Description: "10% off your order"},
	Code{Code: "FIRST5", Kind: KindFixed, Value: decimal.NewFromInt(5), Description: "$5 off your first order"},
	Code{Code: "FREESHIP", Kind: KindFreeShipping, Value: decimal.Zero, Description: "Free shipping"},
)

// DefaultTable returns the storefront's built-in codes.
func DefaultTable() *Table {
	return defaultTable
}

// Lookup matches code case-insensitively, ignoring surrounding spaces.
func (t *Table) Lookup(code string) (Code, error) {
	c, ok := t.codes[normalize(code)]
	if !ok {
		return Code{}, ErrInvalidCode
	}
	return c, nil
}

// Codes returns the table in declaration order.
func (t *Table) Codes() []Code {
	out := make([]Code, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, t.codes[k])
	}
	return out
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
