package resolvers

import (
	"context"
	"errors"

	gql "github.com/graph-gophers/graphql-go"

	gqlmodels "grocery.GO/graphql/models"
	"grocery.GO/service/catalog"
)

func (r *QueryResolver) Products(ctx context.Context, args struct {
	Filter *gqlmodels.ProductFilter
}) ([]*gqlmodels.Product, error) {
	products, err := r.app.Catalog.List(ctx, filterFromGraphQL(args.Filter))
	if err != nil {
		return nil, err
	}
	out := make([]*gqlmodels.Product, len(products))
	for i, p := range products {
		out[i] = productToGraphQL(p)
	}
	return out, nil
}

// Product returns nil for unknown or malformed ids.
func (r *QueryResolver) Product(ctx context.Context, args struct{ ID gql.ID }) (*gqlmodels.Product, error) {
	id, ok := parseID(args.ID)
	if !ok {
		return nil, nil
	}
	p, err := r.app.Catalog.ByID(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return productToGraphQL(*p), nil
}
