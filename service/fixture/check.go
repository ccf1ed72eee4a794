package fixture

import (
	"fmt"
	"strconv"
	"strings"

	"grocery.GO/core/validate"
)

// Issue is one problem found in a fixture record.
type Issue struct {
	File    string
	ID      string
	Message string
}

func (i Issue) String() string {
	if i.ID == "" {
		return fmt.Sprintf("%s: %s", i.File, i.Message)
	}
	return fmt.Sprintf("%s[%s]: %s", i.File, i.ID, i.Message)
}

// Report collects validation errors (records that must not be imported) and warnings.
type Report struct {
	Errors   []Issue
	Warnings []Issue
	invalid  map[string]bool
}

// OK reports whether the set has no errors.
func (r *Report) OK() bool { return len(r.Errors) == 0 }

// Err returns nil when the set is valid, otherwise an error listing every problem.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	lines := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		lines[i] = e.String()
	}
	return fmt.Errorf("fixture validation failed (%d errors):\n  %s", len(r.Errors), strings.Join(lines, "\n  "))
}

// Invalid reports whether the record was rejected.
func (r *Report) Invalid(file, id string) bool { return r.invalid[file+"\x00"+id] }

func (r *Report) fail(file, id, format string, args ...interface{}) {
	r.Errors = append(r.Errors, Issue{File: file, ID: id, Message: fmt.Sprintf(format, args...)})
	r.invalid[file+"\x00"+id] = true
}

func (r *Report) warn(file, id, format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, Issue{File: file, ID: id, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) check(file, id string, rec interface{}) {
	if err := validate.Struct(rec, nil); err != nil {
		if verr, ok := err.(*validate.Error); ok {
			for _, f := range verr.Fields {
				r.fail(file, id, "%s: %s", f.Field, f.Message)
			}
			return
		}
		r.fail(file, id, "%v", err)
	}
}

func (r *Report) unique(file string, seen map[string]bool, id string) {
	if seen[id] {
		r.fail(file, id, "duplicate id")
	}
	seen[id] = true
}

func uintID(id uint) string { return strconv.FormatUint(uint64(id), 10) }

// Check validates every record with its struct tags and verifies cross references between files.
func (s *Set) Check() *Report {
	r := &Report{invalid: map[string]bool{}}

	categories := map[string]bool{}
	seen := map[string]bool{}
	for _, c := range s.Categories {
		id := uintID(c.ID)
		r.unique(FileCategories, seen, id)
		r.check(FileCategories, id, c)
		categories[strings.ToLower(c.Name)] = true
	}

	brands := map[string]bool{}
	seen = map[string]bool{}
	for _, b := range s.Brands {
		id := uintID(b.ID)
		r.unique(FileBrands, seen, id)
		r.check(FileBrands, id, b)
		brands[strings.ToLower(b.Name)] = true
	}

	products := map[uint]bool{}
	perCategory := map[string]int{}
	seen = map[string]bool{}
	for _, p := range s.Products {
		id := uintID(p.ID)
		r.unique(FileItems, seen, id)
		r.check(FileItems, id, p)
		products[p.ID] = true
		perCategory[strings.ToLower(p.Category)]++
		if !categories[strings.ToLower(p.Category)] {
			r.fail(FileItems, id, "unknown category %q", p.Category)
		}
		if p.Brand != "" && !brands[strings.ToLower(p.Brand)] {
			r.warn(FileItems, id, "brand %q is not in %s", p.Brand, FileBrands)
		}
		if !p.OriginalPrice.IsZero() && p.OriginalPrice.LessThan(p.Price) {
			r.warn(FileItems, id, "originalPrice %s is below price %s", p.OriginalPrice, p.Price)
		}
	}
	for _, c := range s.Categories {
		if n := perCategory[strings.ToLower(c.Name)]; n != c.ItemCount {
			r.warn(FileCategories, uintID(c.ID), "itemCount %d, but %d items reference it", c.ItemCount, n)
		}
	}

	users := map[string]bool{}
	emails := map[string]bool{}
	seen = map[string]bool{}
	for _, u := range s.Users {
		r.unique(FileUsers, seen, u.ID)
		r.check(FileUsers, u.ID, u)
		users[u.ID] = true
		email := strings.ToLower(u.Email)
		if emails[email] {
			r.fail(FileUsers, u.ID, "duplicate email %q", u.Email)
		}
		emails[email] = true
	}

	orderItems := map[string]map[uint]bool{}
	orderOwner := map[string]string{}
	seen = map[string]bool{}
	for _, o := range s.Orders {
		r.unique(FileOrders, seen, o.ID)
		r.check(FileOrders, o.ID, o)
		if !users[o.UserID] {
			r.fail(FileOrders, o.ID, "unknown user %q", o.UserID)
		}
		if len(o.PaymentInfo.CardNumber) > 4 {
			r.fail(FileOrders, o.ID, "paymentInfo.cardNumber must hold the last four digits only")
		}
		items := map[uint]bool{}
		for _, it := range o.Items {
			items[it.ID] = true
		}
		orderItems[o.ID] = items
		orderOwner[o.ID] = o.UserID
	}

	seen = map[string]bool{}
	defaults := map[string]int{}
	for _, a := range s.Addresses {
		r.unique(FileAddresses, seen, a.ID)
		r.check(FileAddresses, a.ID, a)
		if !users[a.UserID] {
			r.fail(FileAddresses, a.ID, "unknown user %q", a.UserID)
		}
		if a.IsDefault {
			defaults[a.UserID]++
		}
	}
	for userID, n := range defaults {
		if n > 1 {
			r.warn(FileAddresses, "", "user %s has %d default addresses", userID, n)
		}
	}

	seen = map[string]bool{}
	for _, c := range s.PaymentCards {
		r.unique(FilePaymentCards, seen, c.ID)
		r.check(FilePaymentCards, c.ID, c)
		if !users[c.UserID] {
			r.fail(FilePaymentCards, c.ID, "unknown user %q", c.UserID)
		}
		if !strings.HasSuffix(c.CardNumber, c.Last4) || len(validate.Digits(c.CardNumber)) > 4 {
			r.fail(FilePaymentCards, c.ID, "cardNumber must be masked down to the last four digits")
		}
	}

	seen = map[string]bool{}
	for _, w := range s.Wishlist {
		r.unique(FileWishlist, seen, w.ID)
		r.check(FileWishlist, w.ID, w)
		if !users[w.UserID] {
			r.fail(FileWishlist, w.ID, "unknown user %q", w.UserID)
		}
		if !products[w.ItemID] {
			r.warn(FileWishlist, w.ID, "item %d is not in %s", w.ItemID, FileItems)
		}
	}

	seen = map[string]bool{}
	for _, rr := range s.ReturnRequests {
		r.unique(FileReturnRequests, seen, rr.ID)
		r.check(FileReturnRequests, rr.ID, rr)
		owner, ok := orderOwner[rr.OrderID]
		switch {
		case !ok:
			r.fail(FileReturnRequests, rr.ID, "unknown order %q", rr.OrderID)
		case owner != rr.UserID:
			r.fail(FileReturnRequests, rr.ID, "order %s belongs to another user", rr.OrderID)
		case !orderItems[rr.OrderID][rr.ProductID]:
			r.warn(FileReturnRequests, rr.ID, "product %d is not part of order %s", rr.ProductID, rr.OrderID)
		}
	}
	return r
}
