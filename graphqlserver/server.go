package graphqlserver

import (
	gql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"

	"grocery.GO/app"
	"grocery.GO/graphql"
	"grocery.GO/graphql/resolvers"
)

// RootResolver is the root for graphql-go. The storefront session travels in the request
// context, so one resolver pair serves every request.
type RootResolver struct {
	App *app.App
}

func (r *RootResolver) Query() *resolvers.QueryResolver {
	return resolvers.NewQueryResolver(r.App)
}

func (r *RootResolver) Mutation() *resolvers.MutationResolver {
	return resolvers.NewMutationResolver(r.App)
}

// NewSchema parses the base schema plus registered extensions.
func NewSchema(a *app.App) (*gql.Schema, error) {
	return gql.ParseSchema(graphql.Schema(), &RootResolver{App: a}, gql.UseFieldResolvers())
}

// Handler returns an http.Handler for GraphQL (relay format).
func Handler(schema *gql.Schema) *relay.Handler {
	return &relay.Handler{Schema: schema}
}
