package resolvers

import (
	"context"

	gql "github.com/graph-gophers/graphql-go"

	"grocery.GO/core/money"
	gqlmodels "grocery.GO/graphql/models"
	cartService "grocery.GO/service/cart"
	"grocery.GO/service/catalog"
)

func (r *QueryResolver) Cart(ctx context.Context) (*gqlmodels.Cart, error) {
	sf, err := storefront(ctx)
	if err != nil {
		return nil, err
	}
	return cartToGraphQL(sf.ID, sf.Cart.State(), r.app.Pricing), nil
}

func (r *MutationResolver) AddToCart(ctx context.Context, args struct{ ProductID gql.ID }) (*gqlmodels.Cart, error) {
	sf, err := storefront(ctx)
	if err != nil {
		return nil, err
	}
	id, ok := parseID(args.ProductID)
	if !ok {
		return nil, catalog.ErrNotFound
	}
	p, err := r.app.Catalog.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	item, err := cartService.Purchasable(*p)
	if err != nil {
		return nil, err
	}
	return cartToGraphQL(sf.ID, sf.Cart.AddItem(item), r.app.Pricing), nil
}

// SetCartQuantity removes the line when quantity drops below 1.
func (r *MutationResolver) SetCartQuantity(ctx context.Context, args struct {
	ProductID gql.ID
	Quantity  int32
}) (*gqlmodels.Cart, error) {
	sf, err := storefront(ctx)
	if err != nil {
		return nil, err
	}
	id, _ := parseID(args.ProductID)
	return cartToGraphQL(sf.ID, sf.Cart.SetQuantity(id, int(args.Quantity)), r.app.Pricing), nil
}

func (r *MutationResolver) RemoveFromCart(ctx context.Context, args struct{ ProductID gql.ID }) (*gqlmodels.Cart, error) {
	sf, err := storefront(ctx)
	if err != nil {
		return nil, err
	}
	id, _ := parseID(args.ProductID)
	return cartToGraphQL(sf.ID, sf.Cart.RemoveItem(id), r.app.Pricing), nil
}

func (r *MutationResolver) ClearCart(ctx context.Context) (*gqlmodels.Cart, error) {
	sf, err := storefront(ctx)
	if err != nil {
		return nil, err
	}
	return cartToGraphQL(sf.ID, sf.Cart.Clear(), r.app.Pricing), nil
}

func (r *MutationResolver) ApplyPromoCode(ctx context.Context, args struct{ Code string }) (*gqlmodels.Cart, error) {
	sf, err := storefront(ctx)
	if err != nil {
		return nil, err
	}
	st, err := sf.Cart.ApplyCode(args.Code)
	if err != nil {
		return nil, err
	}
	return cartToGraphQL(sf.ID, st, r.app.Pricing), nil
}

func (r *MutationResolver) RemovePromoCode(ctx context.Context) (*gqlmodels.Cart, error) {
	sf, err := storefront(ctx)
	if err != nil {
		return nil, err
	}
	return cartToGraphQL(sf.ID, sf.Cart.RemoveCode(), r.app.Pricing), nil
}

func cartToGraphQL(sessionID string, st cartService.State, pricing cartService.Pricing) *gqlmodels.Cart {
	items := make([]*gqlmodels.CartItem, len(st.Items))
	for i, it := range st.Items {
		items[i] = &gqlmodels.CartItem{
			ID:            idOf(it.ID),
			Title:         it.Title,
			Price:         money.Float(it.Price),
			OriginalPrice: money.Float(it.UnitOriginalPrice()),
			Discount:      int32(it.Discount),
			Image:         it.Image,
			Category:      it.Category,
			Quantity:      int32(it.Quantity),
			LineTotal:     money.Float(it.LineTotal()),
		}
	}
	sum := st.Summary(pricing)
	return &gqlmodels.Cart{
		SessionID:           sessionID,
		Items:               items,
		ItemCount:           int32(st.ItemCount),
		Subtotal:            money.Float(st.Subtotal),
		Total:               money.Float(st.Total),
		OriginalTotal:       money.Float(st.OriginalTotal),
		TotalSavings:        money.Float(st.TotalSavings),
		PromoCode:           optional(st.PromoCode),
		PromoDiscount:       money.Float(st.PromoDiscount),
		PromoDiscountAmount: money.Float(st.PromoDiscountAmount),
		FreeShipping:        st.FreeShipping,
		Summary: &gqlmodels.CartSummary{
			Subtotal:      money.Float(sum.Subtotal),
			TotalSavings:  money.Float(sum.TotalSavings),
			PromoDiscount: money.Float(sum.PromoDiscount),
			Total:         money.Float(sum.Total),
			Tax:           money.Float(sum.Tax),
			Shipping:      money.Float(sum.Shipping),
			GrandTotal:    money.Float(sum.GrandTotal),
		},
	}
}
