package resolvers

import (
	"strconv"

	gql "github.com/graph-gophers/graphql-go"

	"grocery.GO/core/money"
	gqlmodels "grocery.GO/graphql/models"
	"grocery.GO/model/entity"
	"grocery.GO/service/catalog"
)

func idOf(id uint) gql.ID {
	return gql.ID(strconv.FormatUint(uint64(id), 10))
}

func parseID(id gql.ID) (uint, bool) {
	n, err := strconv.ParseUint(string(id), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func productToGraphQL(p entity.Product) *gqlmodels.Product {
	orig := p.OriginalPrice
	if orig.IsZero() {
		orig = p.Price
	}
	return &gqlmodels.Product{
		ID:            idOf(p.ID),
		Title:         p.Title,
		Description:   p.Description,
		Category:      p.Category,
		Brand:         p.BrandName(),
		Price:         money.Float(p.Price),
		OriginalPrice: money.Float(orig),
		Discount:      int32(p.Discount),
		Rating:        p.Rating,
		Reviews:       int32(p.Reviews),
		Image:         p.Image,
		InStock:       p.InStock,
		OnSale:        p.OnSale(),
	}
}

func filterFromGraphQL(in *gqlmodels.ProductFilter) catalog.Filter {
	var f catalog.Filter
	if in == nil {
		return f
	}
	if in.Query != nil {
		f.Query = *in.Query
	}
	if in.Category != nil {
		f.Category = *in.Category
	}
	f.MinPrice = in.MinPrice
	f.MaxPrice = in.MaxPrice
	if in.Brands != nil {
		f.Brands = *in.Brands
	}
	if in.Ratings != nil {
		for _, r := range *in.Ratings {
			f.Ratings = append(f.Ratings, int(r))
		}
	}
	if in.Availability != nil {
		f.Availability = catalog.Availability(*in.Availability)
	}
	if in.Sort != nil {
		f.Sort = catalog.SortOrder(*in.Sort)
	}
	return f
}
