package resolvers

import (
	"grocery.GO/core/money"
	gqlmodels "grocery.GO/graphql/models"
	"grocery.GO/model/entity"
	"grocery.GO/service/promo"
)

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func categoryToGraphQL(c entity.Category) *gqlmodels.Category {
	return &gqlmodels.Category{
		ID:          idOf(c.ID),
		Name:        c.Name,
		Description: c.Description,
		Image:       c.Image,
		Color:       optional(c.Color),
		ItemCount:   int32(c.ItemCount),
	}
}

func brandToGraphQL(b entity.Brand) *gqlmodels.Brand {
	return &gqlmodels.Brand{
		ID:          idOf(b.ID),
		Name:        b.Name,
		Logo:        b.Logo,
		Description: b.Description,
		Category:    b.Category,
		Country:     optional(b.Country),
	}
}

func brandsToGraphQL(bs []entity.Brand) []*gqlmodels.Brand {
	out := make([]*gqlmodels.Brand, len(bs))
	for i, b := range bs {
		out[i] = brandToGraphQL(b)
	}
	return out
}

func promoToGraphQL(c promo.Code) *gqlmodels.PromoCode {
	return &gqlmodels.PromoCode{
		Code:        c.Code,
		Kind:        string(c.Kind),
		Value:       money.Float(c.Value),
		Description: c.Description,
	}
}
