// Package entity holds the gorm models for the storefront catalog, customers and orders.
package entity

// All lists every model for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Product{},
		&Category{},
		&Brand{},
		&User{},
		&AuthToken{},
		&Order{},
		&Address{},
		&PaymentCard{},
		&WishlistItem{},
		&ReturnRequest{},
	}
}
