package checkout

import (
	"strings"

	"grocery.GO/core/validate"
	"grocery.GO/model/entity"
)

const DefaultCountry = "United States"

type ShippingForm struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,phone"`
	Address   string `json:"address" validate:"required,min=5"`
	City      string `json:"city" validate:"required,min=2"`
	State     string `json:"state" validate:"required,min=2"`
	ZipCode   string `json:"zipCode" validate:"required,zipcode"`
	Country   string `json:"country"`
}

var shippingMessages = map[string]string{
	"firstName": "First name is required",
	"lastName":  "Last name is required",
	"email":     "Valid email is required",
	"address":   "Street address is required and must be at least 5 characters",
	"city":      "City is required",
	"state":     "State is required",
}

func (f ShippingForm) Validate() error {
	return validate.Struct(f, shippingMessages)
}

func (f ShippingForm) toEntity() entity.ShippingInfo {
	country := strings.TrimSpace(f.Country)
	if country == "" {
		country = DefaultCountry
	}
	return entity.ShippingInfo{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Phone:     f.Phone,
		Address:   f.Address,
		City:      f.City,
		State:     f.State,
		ZipCode:   f.ZipCode,
		Country:   country,
	}
}

type PaymentForm struct {
	CardNumber string `json:"cardNumber" validate:"required,cardnumber"`
	CardName   string `json:"cardName" validate:"required,min=2"`
	ExpiryDate string `json:"expiryDate" validate:"required,expiry"`
	CVV        string `json:"cvv" validate:"required,cvv"`
}

var paymentMessages = map[string]string{
	"cardName": "Cardholder name is required",
}

func (f PaymentForm) Validate() error {
	return validate.Struct(f, paymentMessages)
}

// Last4 returns the final four digits of the card number.
func (f PaymentForm) Last4() string {
	digits := validate.Digits(f.CardNumber)
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}

// Masked is the form with the card number reduced to its last four digits and no CVV.
func (f PaymentForm) Masked() PaymentForm {
	return PaymentForm{CardNumber: f.Last4(), CardName: f.CardName, ExpiryDate: f.ExpiryDate}
}

func (f PaymentForm) toEntity() entity.PaymentInfo {
	return entity.PaymentInfo{CardNumber: f.Last4(), CardName: f.CardName}
}

// FormatCardNumber groups digits in fours for display, e.g. "4111 1111 1111 1111".
// Digits past the sixteenth are dropped.
func FormatCardNumber(s string) string {
	digits := validate.Digits(s)
	if len(digits) > maxCardDigits {
		digits = digits[:maxCardDigits]
	}
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

const maxCardDigits = 16

// validateForms checks both forms, prefixing field paths with the form name.
func validateForms(shipping ShippingForm, payment PaymentForm) error {
	out := &validate.Error{}
	collect := func(prefix string, err error) error {
		if err == nil {
			return nil
		}
		ve, ok := err.(*validate.Error)
		if !ok {
			return err
		}
		for _, f := range ve.Fields {
			out.Add(prefix+"."+f.Field, f.Message)
		}
		return nil
	}
	if err := collect("shipping", shipping.Validate()); err != nil {
		return err
	}
	if err := collect("payment", payment.Validate()); err != nil {
		return err
	}
	return out.OrNil()
}
