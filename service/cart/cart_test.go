package cart

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery.GO/model/entity"
	"grocery.GO/service/promo"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, got.Equal(d(want)), "%s = %s, want %s", field, got, want)
}

func item(id uint, price, original string) LineItem {
	li := LineItem{ID: id, Title: "item", Price: d(price)}
	if original != "" {
		li.OriginalPrice = d(original)
	}
	return li
}

func TestAddItem_IncrementsExisting(t *testing.T) {
	c := NewStore(RecomputePromo, nil)
	c.AddItem(item(1, "2.50", ""))
	c.AddItem(item(2, "1.00", ""))
	st := c.AddItem(item(1, "2.50", ""))

	require.Len(t, st.Items, 2)
	assert.Equal(t, 2, st.Items[0].Quantity)
	assert.Equal(t, 1, st.Items[1].Quantity)
	assert.Equal(t, 3, st.ItemCount)
	assertDec(t, "6", st.Subtotal, "subtotal")
	assertDec(t, "6", st.Total, "total")
}

func TestAddItem_IgnoresIncomingQuantity(t *testing.T) {
	c := NewStore(RecomputePromo, nil)
	li := item(1, "1", "")
	li.Quantity = 7
	st := c.AddItem(li)
	assert.Equal(t, 1, st.Items[0].Quantity)
}

func TestScenario_SavingsFromOriginalPrice(t *testing.T) {
	c := NewStore(RecomputePromo, nil)
	c.AddItem(item(1, "10", "20"))
	st := c.SetQuantity(1, 2)

	assertDec(t, "20", st.Subtotal, "subtotal")
	assertDec(t, "40", st.OriginalTotal, "originalTotal")
	assertDec(t, "20", st.TotalSavings, "totalSavings")
}

func TestOriginalPriceBelowPriceIsNormalized(t *testing.T) {
	c := NewStore(RecomputePromo, nil)
	st := c.AddItem(item(1, "5", "4"))
	assertDec(t, "5", st.OriginalTotal, "originalTotal")
	assertDec(t, "0", st.TotalSavings, "totalSavings")
}

func TestSetQuantity_ZeroEqualsRemove(t *testing.T) {
	a := NewStore(RecomputePromo, nil)
	b := NewStore(RecomputePromo, nil)
	for _, c := range []*Store{a, b} {
		c.AddItem(item(1, "3", "4"))
		c.AddItem(item(2, "1.25", ""))
	}
	got := a.SetQuantity(1, 0)
	want := b.RemoveItem(1)
	assert.Equal(t, want.Items, got.Items)
	assert.True(t, want.Subtotal.Equal(got.Subtotal))
	assert.True(t, want.OriginalTotal.Equal(got.OriginalTotal))

	got = a.SetQuantity(2, -3)
	assert.True(t, got.IsEmpty())
}

func TestUnknownIDIsNoop(t *testing.T) {
	c := NewStore(RecomputePromo, nil)
	c.AddItem(item(1, "3", ""))
	before := c.State()
	assert.Equal(t, before, c.RemoveItem(99))
	assert.Equal(t, before, c.SetQuantity(99, 4))
}

func TestReducerDoesNotMutatePrevious(t *testing.T) {
	reduce := Reducer(RecomputePromo)
	s1 := reduce(Empty(), AddItem{Item: item(1, "2", "")})
	s2 := reduce(s1, AddItem{Item: item(1, "2", "")})
	_ = reduce(s2, SetQuantity{ID: 1, Quantity: 9})

	assert.Equal(t, 1, s1.Items[0].Quantity)
	assert.Equal(t, 2, s2.Items[0].Quantity)
}

func TestClear_ResetsPromo(t *testing.T) {
	c := NewStore(RecomputePromo, nil)
	c.AddItem(item(1, "50", ""))
	_, err := c.ApplyCode("SAVE10")
	require.NoError(t, err)
	st := c.Clear()

	assert.True(t, st.IsEmpty())
	assert.Empty(t, st.PromoCode)
	assertDec(t, "0", st.PromoDiscountAmount, "promoDiscountAmount")
	assertDec(t, "0", st.Total, "total")
	_, ok := st.ActivePromo()
	assert.False(t, ok)
}

func TestScenario_PercentagePromo(t *testing.T) {
	c := NewStore(RecomputePromo, nil)
	c.AddItem(item(1, "100", ""))
	st, err := c.ApplyCode("save10")
	require.NoError(t, err)

	assert.Equal(t, "SAVE10", st.PromoCode)
	assertDec(t, "10", st.PromoDiscount, "promoDiscount")
	assertDec(t, "10", st.PromoDiscountAmount, "promoDiscountAmount")
	assertDec(t, "90", st.Total, "total")
}

func TestScenario_FixedPromoFloorsAtZero(t *testing.T) {
	c := NewStore(RecomputePromo, nil)
	c.AddItem(item(1, "3", ""))
	st, err := c.ApplyCode("FIRST5")
	require.NoError(t, err)

	assertDec(t, "5", st.PromoDiscountAmount, "promoDiscountAmount")
	assertDec(t, "0", st.Total, "total")
}

func TestFreeShippingPromo(t *testing.T) {
	c := NewStore(RecomputePromo, nil)
	c.AddItem(item(1, "20", ""))
	st, err := c.ApplyCode("FREESHIP")
	require.NoError(t, err)

	assert.True(t, st.FreeShipping)
	assertDec(t, "0", st.PromoDiscountAmount, "promoDiscountAmount")
	assertDec(t, "20", st.Total, "total")

	sum := st.Summary(Pricing{TaxRate: d("0.10"), ShippingFlatRate: d("4.99")})
	assertDec(t, "0", sum.Shipping, "shipping")
}

func TestInvalidCode_NoStateChange(t *testing.T) {
	c := NewStore(RecomputePromo, nil)
	c.AddItem(item(1, "20", ""))
	_, err := c.ApplyCode("SAVE10")
	require.NoError(t, err)
	before := c.State()

	st, err := c.ApplyCode("NOPE")
	assert.True(t, errors.Is(err, promo.ErrInvalidCode))
	assert.Equal(t, before, st)
	assert.Equal(t, before, c.State())
}

func TestApplyReplacesActivePromo(t *testing.T) {
	c := NewStore(RecomputePromo, nil)
	c.AddItem(item(1, "100", ""))
	c.ApplyCode("SAVE10")
	st, _ := c.ApplyCode("FIRST5")

	assert.Equal(t, "FIRST5", st.PromoCode)
	assertDec(t, "5", st.PromoDiscountAmount, "promoDiscountAmount")
	assertDec(t, "95", st.Total, "total")
}

func TestRemoveCode_RestoresSubtotal(t *testing.T) {
	c := NewStore(RecomputePromo, nil)
	c.AddItem(item(1, "40", ""))
	c.ApplyCode("SAVE10")
	st := c.RemoveCode()

	assert.Empty(t, st.PromoCode)
	assert.False(t, st.FreeShipping)
	assertDec(t, "40", st.Total, "total")
	assertDec(t, "0", st.PromoDiscountAmount, "promoDiscountAmount")

	// Removing with nothing applied is harmless.
	st = c.RemoveCode()
	assertDec(t, "40", st.Total, "total")
}

func TestPromoPolicy_Recompute(t *testing.T) {
	c := NewStore(RecomputePromo, nil)
	c.AddItem(item(1, "100", ""))
	c.ApplyCode("SAVE10")
	st := c.AddItem(item(2, "100", ""))

	assertDec(t, "20", st.PromoDiscountAmount, "promoDiscountAmount")
	assertDec(t, "180", st.Total, "total")
}

func TestPromoPolicy_Stale(t *testing.T) {
	c := NewStore(StalePromo, nil)
	c.AddItem(item(1, "100", ""))
	c.ApplyCode("SAVE10")
	st := c.AddItem(item(2, "100", ""))

	assertDec(t, "10", st.PromoDiscountAmount, "promoDiscountAmount")
	assertDec(t, "190", st.Total, "total")
}

func TestParsePromoPolicy(t *testing.T) {
	assert.Equal(t, StalePromo, ParsePromoPolicy("STALE"))
	assert.Equal(t, RecomputePromo, ParsePromoPolicy("recompute"))
	assert.Equal(t, RecomputePromo, ParsePromoPolicy(""))
	assert.Equal(t, "stale", StalePromo.String())
}

func TestSummary(t *testing.T) {
	c := NewStore(RecomputePromo, nil)
	c.AddItem(item(1, "12.50", ""))
	c.AddItem(item(1, "12.50", ""))
	sum := c.State().Summary(DefaultPricing())

	assertDec(t, "25", sum.Total, "total")
	assertDec(t, "2.5", sum.Tax, "tax")
	assertDec(t, "0", sum.Shipping, "shipping")
	assertDec(t, "27.5", sum.GrandTotal, "grandTotal")
}

func TestSubscribe(t *testing.T) {
	c := NewStore(RecomputePromo, nil)
	var counts []int
	stop := c.Subscribe(func(st State, _ interface{}) { counts = append(counts, st.ItemCount) })
	c.AddItem(item(1, "1", ""))
	c.AddItem(item(1, "1", ""))
	stop()
	c.Clear()
	assert.Equal(t, []int{1, 2}, counts)
}

func TestFromProduct(t *testing.T) {
	p := entity.Product{ID: 4, Title: "Bananas", Price: d("0.59"), OriginalPrice: d("0.79"), Discount: 25, Category: "Fruits"}
	li := FromProduct(p)
	assert.Equal(t, uint(4), li.ID)
	assert.Equal(t, 1, li.Quantity)
	assertDec(t, "0.79", li.OriginalPrice, "originalPrice")
}

// Totals must match a from-scratch recomputation after any mutation sequence.
func TestTotalsInvariant_RandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	prices := []LineItem{item(1, "1.99", "2.49"), item(2, "3.00", ""), item(3, "0.50", "1.00"), item(4, "10", "10")}

	for run := 0; run < 200; run++ {
		c := NewStore(RecomputePromo, nil)
		for step := 0; step < 25; step++ {
			li := prices[rng.Intn(len(prices))]
			switch rng.Intn(3) {
			case 0:
				c.AddItem(li)
			case 1:
				c.RemoveItem(li.ID)
			case 2:
				c.SetQuantity(li.ID, rng.Intn(5)-1)
			}
			st := c.State()
			sub, orig := decimal.Zero, decimal.Zero
			for _, it := range st.Items {
				require.Greater(t, it.Quantity, 0)
				sub = sub.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
				orig = orig.Add(it.UnitOriginalPrice().Mul(decimal.NewFromInt(int64(it.Quantity))))
			}
			require.True(t, st.Subtotal.Equal(sub))
			require.True(t, st.Total.Equal(sub))
			require.True(t, st.OriginalTotal.Equal(orig))
			require.True(t, st.OriginalTotal.GreaterThanOrEqual(st.Total))
			require.True(t, st.TotalSavings.Equal(orig.Sub(sub)))
		}
	}
}

func TestSetQuantity_Capped(t *testing.T) {
	c := NewStore(RecomputePromo, nil)
	c.AddItem(item(1, "1", ""))
	st := c.SetQuantity(1, 1<<40)
	assert.Equal(t, MaxQuantity, st.Items[0].Quantity)
	assert.Equal(t, MaxQuantity, st.ItemCount)

	st = c.AddItem(item(1, "1", ""))
	assert.Equal(t, MaxQuantity, st.Items[0].Quantity)
}

func TestRemoveOrdered(t *testing.T) {
	c := NewStore(RecomputePromo, nil)
	c.AddItem(item(1, "2", ""))
	c.AddItem(item(2, "5", ""))
	_, err := c.ApplyCode("save10")
	require.NoError(t, err)
	ordered := c.State().Items

	c.AddItem(item(1, "2", ""))
	c.AddItem(item(3, "1", ""))
	st := c.RemoveOrdered(ordered)

	require.Len(t, st.Items, 2)
	assert.Equal(t, uint(1), st.Items[0].ID)
	assert.Equal(t, 1, st.Items[0].Quantity)
	assert.Equal(t, uint(3), st.Items[1].ID)
	assertDec(t, "3", st.Subtotal, "subtotal")
	assertDec(t, "3", st.Total, "total")
	assert.Empty(t, st.PromoCode, "promo is spent with the order")

	st = c.RemoveOrdered(st.Items)
	assert.True(t, st.IsEmpty())
}
