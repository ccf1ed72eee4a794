package resolvers

import (
	"context"
	"encoding/json"
	"errors"

	"grocery.GO/app"
	"grocery.GO/graphql"
	gqlregistry "grocery.GO/graphql/registry"
	"grocery.GO/service/session"
)

// ErrNoSession is returned by cart fields when the request carried no storefront session.
var ErrNoSession = errors.New("no storefront session")

// QueryResolver implements every Query field. Methods live in product.go, category.go and cart.go.
// New Query fields: use RegisterSchemaExtension + add a method here, or use _extension for fully
// dynamic resolvers.
type QueryResolver struct {
	app *app.App
}

// MutationResolver implements the cart mutations.
type MutationResolver struct {
	app *app.App
}

func NewQueryResolver(a *app.App) *QueryResolver { return &QueryResolver{app: a} }

func NewMutationResolver(a *app.App) *MutationResolver { return &MutationResolver{app: a} }

func storefront(ctx context.Context) (*session.Storefront, error) {
	sf, ok := graphql.StorefrontFromContext(ctx)
	if !ok {
		return nil, ErrNoSession
	}
	return sf, nil
}

// Extension dispatches to registered custom resolvers.
func (r *QueryResolver) Extension(ctx context.Context, args struct {
	Name string
	Args *string
}) (*string, error) {
	m := make(map[string]interface{})
	if args.Args != nil && *args.Args != "" {
		if err := json.Unmarshal([]byte(*args.Args), &m); err != nil {
			return nil, err
		}
	}
	out, err := gqlregistry.Resolve(ctx, args.Name, m)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}
