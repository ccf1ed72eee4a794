package payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery.GO/core/validate"
	"grocery.GO/model/entity"
	"grocery.GO/model/repository/customer"
	"grocery.GO/service/fixture"
)

var fixedNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T) *Service {
	t.Helper()
	db, err := fixture.OpenMemory(context.Background(), nil)
	require.NoError(t, err)
	s := NewService(customer.NewPaymentCardRepository(db), nil)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestDetectCardType(t *testing.T) {
	tests := map[string]string{
		"4111 1111 1111 1111": "Visa",
		"5555 5555 5555 4444": "Mastercard",
		"3782 822463 10005":   "American Express",
		"6011 1111 1111 1117": "Discover",
		"6511 1111 1111 1111": "Discover",
		"3056 9309 0259 04":   "Diners Club",
		"3530 1113 3330 0000": "JCB",
		"2223 0000 0000 0001": "Unknown",
	}
	for number, want := range tests {
		assert.Equal(t, want, DetectCardType(number), number)
	}
}

func TestMask(t *testing.T) {
	assert.Equal(t, "**** **** **** 1111", Mask("4111 1111 1111 1111"))
	assert.Equal(t, "0005", Last4("3782-822463-10005"))
}

func TestExpired(t *testing.T) {
	assert.False(t, Expired("10/26", fixedNow), "valid through the expiry month")
	assert.True(t, Expired("09/26", fixedNow))
	assert.False(t, Expired("01/30", fixedNow))
	assert.False(t, Expired("garbage", fixedNow))
}

func TestValidate(t *testing.T) {
	s := newService(t)
	assert.NoError(t, s.Validate(Input{CardNumber: "4111 1111 1111 1111", CardName: "John Doe", ExpiryDate: "12/29", CVV: "123"}))

	err := s.Validate(Input{CardNumber: "4111", CardName: " J ", ExpiryDate: "2029-12", CVV: "12"})
	var verr *validate.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{
		"cardNumber": "Card number is required and must be at least 13 digits",
		"cardName":   "Cardholder name is required",
		"expiryDate": "Expiry date must be in MM/YY format",
		"cvv":        "CVV must be 3-4 digits",
	}, verr.Map())

	err = s.Validate(Input{CardNumber: "4111 1111 1111 1111", CardName: "John Doe", ExpiryDate: "01/24", CVV: "123"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{MsgCardExpired}, verr.Messages())
}

func TestAdd_StoresMaskedNumberOnly(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	c, err := s.Add(ctx, "1", Input{CardNumber: "5555 5555 5555 4444", CardName: "John Doe", ExpiryDate: "06/28", CVV: "321", IsDefault: true})
	require.NoError(t, err)
	assert.Equal(t, "CARD004", c.ID)
	assert.Equal(t, "Mastercard", c.CardType)
	assert.Equal(t, "**** **** **** 4444", c.CardNumber)
	assert.Equal(t, "4444", c.Last4)
	assert.Equal(t, entity.CardStatusActive, c.Status)

	def, err := s.Default(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "CARD004", def.ID)
	old, err := s.ByID(ctx, "1", "CARD001")
	require.NoError(t, err)
	assert.False(t, old.IsDefault)
}

func TestUpdate(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	expiry := "03/27"
	c, err := s.Update(ctx, "1", "CARD002", Update{ExpiryDate: &expiry})
	require.NoError(t, err)
	assert.Equal(t, entity.CardStatusActive, c.Status)
	assert.Equal(t, "03/27", c.ExpiryDate)

	past := "01/20"
	_, err = s.Update(ctx, "1", "CARD002", Update{ExpiryDate: &past})
	var verr *validate.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, MsgCardExpired, verr.Map()["expiryDate"])

	_, err = s.Update(ctx, "2", "CARD002", Update{ExpiryDate: &expiry})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetDefaultDeleteAndStats(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	st, err := s.Stats(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, Stats{TotalCards: 2, ActiveCards: 1, ExpiredCards: 1, HasDefaultCard: true}, st)

	_, err = s.SetDefault(ctx, "1", "CARD002")
	require.NoError(t, err)
	def, err := s.Default(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "CARD002", def.ID)

	_, err = s.Delete(ctx, "1", "CARD002")
	require.NoError(t, err)
	st, err = s.Stats(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, Stats{TotalCards: 1, ActiveCards: 1}, st)
}

func TestTestCardNumbers(t *testing.T) {
	cards := TestCardNumbers()
	assert.Equal(t, "Visa", DetectCardType(cards["visa"]["valid"]))
	assert.Equal(t, "American Express", DetectCardType(cards["amex"]["valid"]))
	assert.True(t, validate.IsCardNumber(cards["discover"]["valid"]))
}
