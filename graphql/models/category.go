package models

import gql "github.com/graph-gophers/graphql-go"

type Category struct {
	ID          gql.ID
	Name        string
	Description string
	Image       string
	Color       *string
	ItemCount   int32
}

type Brand struct {
	ID          gql.ID
	Name        string
	Logo        string
	Description string
	Category    string
	Country     *string
}
