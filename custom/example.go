// Package custom shows how a deployment extends the storefront without touching core packages:
// a GraphQL extension, a CLI command, a cron job and an HTTP route, all registered from init().
package custom

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"grocery.GO/api"
	"grocery.GO/cmd"
	"grocery.GO/cron"
	gqlregistry "grocery.GO/graphql/registry"
	"grocery.GO/service/checkout"
	"grocery.GO/service/promo"
)

type promoLookupArgs struct {
	Code string `json:"code"`
}

func init() {
	// GraphQL extension: _extension(name: "promoLookup", args: "{\"code\":\"save10\"}")
	gqlregistry.Register("promoLookup", func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		in, err := gqlregistry.Args[promoLookupArgs](args)
		if err != nil {
			return nil, err
		}
		return promo.DefaultTable().Lookup(in.Code)
	})

	// CLI command
	cmd.Register(&cobra.Command{
		Use:   "card:format <number>",
		Short: "Print a card number grouped the way the checkout form shows it",
		Args:  cobra.ExactArgs(1),
		Run: func(c *cobra.Command, args []string) {
			fmt.Fprintln(c.OutOrStdout(), checkout.FormatCardNumber(args[0]))
		},
	})

	// Cron job
	cron.Register("custom:heartbeat", "@hourly", func(ctx context.Context, args ...string) error {
		fmt.Println("storefront heartbeat at", time.Now().Format(time.RFC3339))
		return nil
	})

	// HTTP route
	api.RegisterGET("/custom/ping", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"pong": "ok"})
	})
}
