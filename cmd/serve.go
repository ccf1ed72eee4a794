package cmd

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"grocery.GO/api/server"
	"grocery.GO/cron"
)

var (
	servePort   string
	serveNoCron bool
)

// Banner fonts; one is picked at random on each start.
var bannerFonts = []string{"banner", "big", "block", "slant", "standard", "small", "shadow", "speed", "doom", "larry3d", "puffy", "rectangles"}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the storefront HTTP server (REST + GraphQL) and the cron scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if !serveNoCron {
			c, err := cron.StartCron(a)
			if err != nil {
				return err
			}
			defer c.Stop()
		}

		port := servePort
		if port == "" {
			port = a.Config.Port
		}
		e := server.New(a)

		figure.NewFigure("grocery.GO", bannerFonts[rand.Intn(len(bannerFonts))], true).Print()
		fmt.Printf("\nREST at http://localhost:%s/api  GraphQL at http://localhost:%s/graphql  Playground at http://localhost:%s/playground\n\n", port, port, port)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			a.Log.Info("shutting down", zap.Int("sessions", a.Sessions.Len()))
			return e.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Listen port (default APP_PORT)")
	serveCmd.Flags().BoolVar(&serveNoCron, "no-cron", false, "Do not start the cron scheduler")
	rootCmd.AddCommand(serveCmd)
}
