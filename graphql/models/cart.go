package models

import gql "github.com/graph-gophers/graphql-go"

type CartItem struct {
	ID            gql.ID
	Title         string
	Price         float64
	OriginalPrice float64
	Discount      int32
	Image         string
	Category      string
	Quantity      int32
	LineTotal     float64
}

type CartSummary struct {
	Subtotal      float64
	TotalSavings  float64
	PromoDiscount float64
	Total         float64
	Tax           float64
	Shipping      float64
	GrandTotal    float64
}

type Cart struct {
	SessionID           string
	Items               []*CartItem
	ItemCount           int32
	Subtotal            float64
	Total               float64
	OriginalTotal       float64
	TotalSavings        float64
	PromoCode           *string
	PromoDiscount       float64
	PromoDiscountAmount float64
	FreeShipping        bool
	Summary             *CartSummary
}

type PromoCode struct {
	Code        string
	Kind        string
	Value       float64
	Description string
}
