// Package fixture loads the storefront's seed data: typed JSON records embedded in the binary,
// validated on load and imported into the database.
package fixture

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"

	"grocery.GO/model/entity"
)

//go:embed data/*.json
var embedded embed.FS

const (
	FileCategories     = "categories.json"
	FileBrands         = "brands.json"
	FileItems          = "items.json"
	FileUsers          = "users.json"
	FileOrders         = "orders.json"
	FileAddresses      = "addresses.json"
	FilePaymentCards   = "payment-cards.json"
	FileWishlist       = "wishlist.json"
	FileReturnRequests = "return-requests.json"
)

// Set is one complete fixture data set.
type Set struct {
	Categories     []entity.Category
	Brands         []entity.Brand
	Products       []entity.Product
	Users          []entity.User
	Orders         []entity.Order
	Addresses      []entity.Address
	PaymentCards   []entity.PaymentCard
	Wishlist       []entity.WishlistItem
	ReturnRequests []entity.ReturnRequest
}

// Load decodes the embedded data set.
func Load() (*Set, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	return LoadFS(sub)
}

// MustLoad is Load for callers that treat broken embedded data as a programming error.
func MustLoad() *Set {
	s, err := Load()
	if err != nil {
		panic("fixture: " + err.Error())
	}
	return s
}

// LoadFS decodes a data set from the JSON files at the root of fsys. Every file must exist;
// unknown fields are rejected.
func LoadFS(fsys fs.FS) (*Set, error) {
	s := &Set{}
	targets := []struct {
		name string
		dst  interface{}
	}{
		{FileCategories, &s.Categories},
		{FileBrands, &s.Brands},
		{FileItems, &s.Products},
		{FileUsers, &s.Users},
		{FileOrders, &s.Orders},
		{FileAddresses, &s.Addresses},
		{FilePaymentCards, &s.PaymentCards},
		{FileWishlist, &s.Wishlist},
		{FileReturnRequests, &s.ReturnRequests},
	}
	for _, t := range targets {
		raw, err := fs.ReadFile(fsys, t.name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", t.name, err)
		}
		if err := decodeStrict(bytes.NewReader(raw), t.dst); err != nil {
			return nil, fmt.Errorf("decode %s: %w", t.name, err)
		}
	}
	return s, nil
}

func decodeStrict(r io.Reader, dst interface{}) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("trailing data after top-level array")
	}
	return nil
}

// ProductByID returns the fixture product with the given id.
func (s *Set) ProductByID(id uint) (entity.Product, bool) {
	for _, p := range s.Products {
		if p.ID == id {
			return p, true
		}
	}
	return entity.Product{}, false
}
