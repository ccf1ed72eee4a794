package cart

import (
	"strings"

	"github.com/shopspring/decimal"

	"grocery.GO/core/money"
	"grocery.GO/core/store"
	"grocery.GO/service/promo"
)

type AddItem struct{ Item LineItem }

type RemoveItem struct{ ID uint }

// SetQuantity with Quantity <= 0 removes the item. Quantities above MaxQuantity are capped.
type SetQuantity struct {
	ID       uint
	Quantity int
}

type Clear struct{}

// Ordered takes the given lines out of the cart after they were ordered. Quantities added
// since the order was taken stay in the cart. The applied promo is spent with the order.
type Ordered struct{ Items []LineItem }

// MaxQuantity caps a single line.
const MaxQuantity = 999

type ApplyPromo struct{ Code promo.Code }

type RemovePromo struct{}

// PromoPolicy decides what happens to an applied promo when items change.
type PromoPolicy int

const (
	// RecomputePromo recalculates the discount from the new subtotal.
	RecomputePromo PromoPolicy = iota
	// StalePromo keeps the amount computed when the code was applied.
	StalePromo
)

func ParsePromoPolicy(s string) PromoPolicy {
	if strings.EqualFold(strings.TrimSpace(s), "stale") {
		return StalePromo
	}
	return RecomputePromo
}

func (p PromoPolicy) String() string {
	if p == StalePromo {
		return "stale"
	}
	return "recompute"
}

// Reducer returns the cart reducer for policy.
func Reducer(policy PromoPolicy) store.Reducer[State] {
	return func(prev State, action store.Action) State {
		return reduce(prev, action, policy)
	}
}

func reduce(prev State, action store.Action, policy PromoPolicy) State {
	switch a := action.(type) {
	case AddItem:
		return withItems(prev, addItem(prev.Items, a.Item), policy)
	case RemoveItem:
		if _, ok := prev.Item(a.ID); !ok {
			return prev
		}
		return withItems(prev, removeItem(prev.Items, a.ID), policy)
	case SetQuantity:
		if _, ok := prev.Item(a.ID); !ok {
			return prev
		}
		if a.Quantity <= 0 {
			return withItems(prev, removeItem(prev.Items, a.ID), policy)
		}
		return withItems(prev, setQuantity(prev.Items, a.ID, a.Quantity), policy)
	case Clear:
		return Empty()
	case Ordered:
		items := subtractOrdered(prev.Items, a.Items)
		if len(items) == 0 {
			return Empty()
		}
		return withItems(withoutPromo(prev), items, policy)
	case ApplyPromo:
		return applyPromo(prev, a.Code)
	case RemovePromo:
		return withoutPromo(prev)
	}
	return prev
}

func withoutPromo(prev State) State {
	next := prev
	next.promo = nil
	next.PromoCode = ""
	next.PromoDiscount = decimal.Zero
	next.PromoDiscountAmount = decimal.Zero
	next.FreeShipping = false
	next.Total = next.Subtotal
	return next
}

func addItem(items []LineItem, item LineItem) []LineItem {
	out := make([]LineItem, 0, len(items)+1)
	found := false
	for _, it := range items {
		if it.ID == item.ID {
			it.Quantity = min(it.Quantity+1, MaxQuantity)
			found = true
		}
		out = append(out, it)
	}
	if !found {
		item = item.normalized()
		item.Quantity = 1
		out = append(out, item)
	}
	return out
}

func removeItem(items []LineItem, id uint) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}

func setQuantity(items []LineItem, id uint, qty int) []LineItem {
	out := make([]LineItem, len(items))
	for i, it := range items {
		if it.ID == id {
			it.Quantity = min(qty, MaxQuantity)
		}
		out[i] = it
	}
	return out
}

// subtractOrdered lowers each line by the ordered quantity and drops lines that reach zero.
func subtractOrdered(items, ordered []LineItem) []LineItem {
	qty := make(map[uint]int, len(ordered))
	for _, it := range ordered {
		qty[it.ID] += it.Quantity
	}
	out := make([]LineItem, 0, len(items))
	for _, it := range items {
		it.Quantity -= qty[it.ID]
		if it.Quantity > 0 {
			out = append(out, it)
		}
	}
	return out
}

// withItems derives every total from items.
func withItems(prev State, items []LineItem, policy PromoPolicy) State {
	next := prev
	next.Items = items
	next.ItemCount = 0
	next.Subtotal = decimal.Zero
	next.OriginalTotal = decimal.Zero
	for _, it := range items {
		next.ItemCount += it.Quantity
		next.Subtotal = next.Subtotal.Add(it.LineTotal())
		next.OriginalTotal = next.OriginalTotal.Add(it.LineOriginalTotal())
	}
	next.TotalSavings = next.OriginalTotal.Sub(next.Subtotal)
	if next.promo != nil && policy == RecomputePromo {
		next.PromoDiscountAmount = next.promo.Discount(next.Subtotal)
	}
	next.Total = money.NonNegative(next.Subtotal.Sub(next.PromoDiscountAmount))
	return next
}

// applyPromo replaces any active promo.
func applyPromo(prev State, code promo.Code) State {
	next := prev
	next.promo = &code
	next.PromoCode = code.Code
	next.PromoDiscount = code.Value
	next.PromoDiscountAmount = code.Discount(prev.Subtotal)
	next.FreeShipping = code.FreeShipping()
	next.Total = money.NonNegative(next.Subtotal.Sub(next.PromoDiscountAmount))
	return next
}
