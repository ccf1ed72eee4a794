package models

import gql "github.com/graph-gophers/graphql-go"

type Product struct {
	ID            gql.ID
	Title         string
	Description   string
	Category      string
	Brand         string
	Price         float64
	OriginalPrice float64
	Discount      int32
	Rating        float64
	Reviews       int32
	Image         string
	InStock       bool
	OnSale        bool
}

// ProductFilter mirrors the ProductFilter input type.
type ProductFilter struct {
	Query        *string
	Category     *string
	MinPrice     *float64
	MaxPrice     *float64
	Brands       *[]string
	Ratings      *[]int32
	Availability *string
	Sort         *string
}
