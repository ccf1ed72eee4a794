package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"grocery.GO/service/promo"
)

var catalogReindexCmd = &cobra.Command{
	Use:   "catalog:reindex",
	Short: "Rebuild the Elasticsearch product index from the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		n, err := a.Catalog.Reindex(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Indexed %d products\n", n)
		return nil
	},
}

var promoListCmd = &cobra.Command{
	Use:   "promo:list",
	Short: "List the promo codes the cart accepts",
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tKIND\tVALUE\tDESCRIPTION")
		for _, c := range promo.DefaultTable().Codes() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Code, c.Kind, c.Value.StringFixed(2), c.Description)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(catalogReindexCmd)
	rootCmd.AddCommand(promoListCmd)
}
