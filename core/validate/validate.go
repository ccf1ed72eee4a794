// Package validate wraps go-playground/validator with the storefront's custom tags and
// human-readable field messages.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	once sync.Once
	v    *validator.Validate

	zipRe    = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	phoneRe  = regexp.MustCompile(`^\+?[\d\s\-()]+$`)
	expiryRe = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvRe    = regexp.MustCompile(`^\d{3,4}$`)
)

// Get returns the shared validator with custom tags registered.
func Get() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		v.RegisterCustomTypeFunc(func(f reflect.Value) interface{} {
			if d, ok := f.Interface().(decimal.Decimal); ok {
				return d.InexactFloat64()
			}
			return nil
		}, decimal.Decimal{})
		mustRegister("zipcode", func(fl validator.FieldLevel) bool { return zipRe.MatchString(fl.Field().String()) })
		mustRegister("phone", func(fl validator.FieldLevel) bool { return phoneRe.MatchString(fl.Field().String()) })
		mustRegister("expiry", func(fl validator.FieldLevel) bool { return expiryRe.MatchString(fl.Field().String()) })
		mustRegister("cvv", func(fl validator.FieldLevel) bool { return cvvRe.MatchString(fl.Field().String()) })
		mustRegister("cardnumber", func(fl validator.FieldLevel) bool { return IsCardNumber(fl.Field().String()) })
	})
	return v
}

func mustRegister(tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("validate: " + err.Error())
	}
}

// Digits strips everything but 0-9.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsCardNumber accepts 13 to 19 digits separated by optional spaces or dashes.
func IsCardNumber(s string) bool {
	for _, r := range s {
		if !(r >= '0' && r <= '9') && r != ' ' && r != '-' {
			return false
		}
	}
	n := len(Digits(s))
	return n >= 13 && n <= 19
}

// FieldError is one failed field, keyed by its JSON path.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error collects every failed field of one struct.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	return strings.Join(e.Messages(), "; ")
}

// Messages returns the field messages in validation order.
func (e *Error) Messages() []string {
	out := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		out[i] = f.Message
	}
	return out
}

// Map returns field path -> message.
func (e *Error) Map() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		out[f.Field] = f.Message
	}
	return out
}

// Add appends a field failure that validator tags cannot express.
func (e *Error) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// OrNil returns nil when no field failed.
func (e *Error) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Struct validates s. messages overrides the generated message per field path
// (e.g. "address.street"). The returned error is *Error for field failures.
func Struct(s interface{}, messages map[string]string) error {
	err := Get().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &Error{}
	seen := make(map[string]bool)
	for _, fe := range verrs {
		field := fieldPath(fe)
		if seen[field] {
			continue
		}
		seen[field] = true
		msg, ok := messages[field]
		if !ok {
			msg = message(field, fe)
		}
		out.Add(field, msg)
	}
	return out
}

// fieldPath drops the root struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func message(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "gt", "gte", "lt", "lte":
		return fmt.Sprintf("%s is out of range", field)
	case "zipcode":
		return "Valid ZIP code is required"
	case "phone":
		return "Valid phone number is required"
	case "expiry":
		return "Expiry date must be in MM/YY format"
	case "cvv":
		return "CVV must be 3-4 digits"
	case "cardnumber":
		return "Card number is required and must be at least 13 digits"
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
