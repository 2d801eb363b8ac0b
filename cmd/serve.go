package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/abhisek/goat/internal/admin"
	"github.com/abhisek/goat/internal/config"
	"github.com/abhisek/goat/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analytics ingest and admin API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.AdminAddr
		}

		shutdown, err := telemetry.Setup(ctx, cfg.OTelEndpoint, "goat-admin", version)
		if err != nil {
			return fmt.Errorf("setup tracing: %w", err)
		}
		defer shutdown(context.Background())

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		log.Printf("admin: listening on %s", addr)
		return admin.ListenAndServe(ctx, addr, admin.NewServer(s.EventRepo()).Routes())
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides GOAT_ADMIN_ADDR)")
}
