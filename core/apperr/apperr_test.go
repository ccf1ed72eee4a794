package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"grocery.GO/core/validate"
)

var errGone = errors.New("Item is gone")

func init() {
	Register(errGone, CodeNotFound, http.StatusNotFound)
}

func TestFrom_Sentinel(t *testing.T) {
	got := From(fmt.Errorf("lookup 7: %w", errGone))
	if got.HTTPStatus != http.StatusNotFound || got.Code != CodeNotFound {
		t.Errorf("From = %+v", got)
	}
	if got.Message != "Item is gone" {
		t.Errorf("Message = %q", got.Message)
	}
}

func TestFrom_Validation(t *testing.T) {
	ve := &validate.Error{}
	ve.Add("cvv", "CVV must be 3-4 digits")
	got := From(ve)
	if got.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("HTTPStatus = %d", got.HTTPStatus)
	}
	if got.Fields["cvv"] != "CVV must be 3-4 digits" {
		t.Errorf("Fields = %v", got.Fields)
	}
}

func TestFrom_Passthrough(t *testing.T) {
	in := BadRequest("quantity must be a number")
	if From(in) != in {
		t.Error("From should return an *Error unchanged")
	}
	if From(nil) != nil {
		t.Error("From(nil) should be nil")
	}
	if From(errors.New("boom")).HTTPStatus != http.StatusInternalServerError {
		t.Error("unknown errors map to 500")
	}
}
