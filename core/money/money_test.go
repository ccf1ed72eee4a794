package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestPercent(t *testing.T) {
	got := Percent(New("100"), New("10"))
	if !got.Equal(New("10")) {
		t.Errorf("Percent = %s, want 10", got)
	}
	got = Cents(Percent(New("12.99"), New("10")))
	if !got.Equal(New("1.3")) {
		t.Errorf("Percent = %s, want 1.30", got)
	}
}

func TestNonNegative(t *testing.T) {
	if !NonNegative(New("-2")).IsZero() {
		t.Error("NonNegative(-2) should be 0")
	}
	if !NonNegative(New("2")).Equal(New("2")) {
		t.Error("NonNegative(2) should be 2")
	}
}

func TestFormat(t *testing.T) {
	if got := Format(New("4.5")); got != "$4.50" {
		t.Errorf("Format = %q, want $4.50", got)
	}
}

func TestJSONNumbers(t *testing.T) {
	b, err := json.Marshal(struct {
		Price decimal.Decimal `json:"price"`
	}{New("3.49")})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"price":3.49}` {
		t.Errorf("json = %s", b)
	}
}
