package resolvers

import (
	"context"
	"strings"

	"grocery.GO/model/entity"

	gqlmodels "grocery.GO/graphql/models"
)

// Categories returns all categories with live item counts.
func (r *QueryResolver) Categories(ctx context.Context) ([]*gqlmodels.Category, error) {
	cats, err := r.app.Catalog.Categories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*gqlmodels.Category, len(cats))
	for i, c := range cats {
		out[i] = categoryToGraphQL(c)
	}
	return out, nil
}

// Brands searches by name and optionally narrows to one category.
func (r *QueryResolver) Brands(ctx context.Context, args struct {
	Query    *string
	Category *string
}) ([]*gqlmodels.Brand, error) {
	var (
		bs  []entity.Brand
		err error
	)
	if args.Query != nil && strings.TrimSpace(*args.Query) != "" {
		bs, err = r.app.Brands.Search(ctx, *args.Query)
	} else {
		bs, err = r.app.Brands.All(ctx)
	}
	if err != nil {
		return nil, err
	}
	if args.Category != nil && *args.Category != "" {
		kept := bs[:0:0]
		for _, b := range bs {
			if strings.EqualFold(b.Category, *args.Category) {
				kept = append(kept, b)
			}
		}
		bs = kept
	}
	return brandsToGraphQL(bs), nil
}

func (r *QueryResolver) PopularBrands(ctx context.Context) ([]*gqlmodels.Brand, error) {
	bs, err := r.app.Brands.Popular(ctx)
	if err != nil {
		return nil, err
	}
	return brandsToGraphQL(bs), nil
}

func (r *QueryResolver) PromoCodes() []*gqlmodels.PromoCode {
	codes := r.app.Promos.Codes()
	out := make([]*gqlmodels.PromoCode, len(codes))
	for i, c := range codes {
		out[i] = promoToGraphQL(c)
	}
	return out
}
