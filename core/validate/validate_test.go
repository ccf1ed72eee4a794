package validate

import (
	"errors"
	"testing"
)

type contact struct {
	Name  string `json:"name" validate:"required,min=2"`
	Phone string `json:"phone" validate:"required,phone"`
}

type form struct {
	Email   string  `json:"email" validate:"required,email"`
	Zip     string  `json:"zipCode" validate:"zipcode"`
	Expiry  string  `json:"expiryDate" validate:"expiry"`
	CVV     string  `json:"cvv" validate:"cvv"`
	Card    string  `json:"cardNumber" validate:"cardnumber"`
	Contact contact `json:"contactInfo"`
}

func validForm() form {
	return form{
		Email:   "jane@example.com",
		Zip:     "94107-1234",
		Expiry:  "12/29",
		CVV:     "123",
		Card:    "4111 1111 1111 1111",
		Contact: contact{Name: "Jane", Phone: "+1 (555) 010-2000"},
	}
}

func TestStruct_Valid(t *testing.T) {
	if err := Struct(validForm(), nil); err != nil {
		t.Fatalf("Struct: %v", err)
	}
}

func TestStruct_FieldMessages(t *testing.T) {
	f := validForm()
	f.Zip = "9410"
	f.Expiry = "13/29"
	f.CVV = "12"
	f.Card = "4111"
	f.Contact.Phone = "call me"
	f.Contact.Name = "J"

	err := Struct(f, map[string]string{"contactInfo.name": "Contact name is required"})
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *Error", err)
	}
	got := verr.Map()
	want := map[string]string{
		"zipCode":           "Valid ZIP code is required",
		"expiryDate":        "Expiry date must be in MM/YY format",
		"cvv":               "CVV must be 3-4 digits",
		"cardNumber":        "Card number is required and must be at least 13 digits",
		"contactInfo.phone": "Valid phone number is required",
		"contactInfo.name":  "Contact name is required",
	}
	for k, w := range want {
		if got[k] != w {
			t.Errorf("%s = %q, want %q", k, got[k], w)
		}
	}
}

func TestIsCardNumber(t *testing.T) {
	cases := map[string]bool{
		"4111 1111 1111 1111": true,
		"3782-822463-10005":   true,
		"411111111111":        false,
		"4111 abcd 1111 1111": false,
	}
	for in, want := range cases {
		if got := IsCardNumber(in); got != want {
			t.Errorf("IsCardNumber(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestErrorOrNil(t *testing.T) {
	e := &Error{}
	if e.OrNil() != nil {
		t.Error("empty Error should be nil")
	}
	e.Add("expiryDate", "Card has expired")
	if e.OrNil() == nil {
		t.Error("non-empty Error should not be nil")
	}
}
