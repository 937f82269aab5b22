package main

import (
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status]",
	Short:     "Run database migrations",
	Long:      `Applies the embedded SQL migrations. After "up" the administrator from ADMIN_EMAIL and ADMIN_PASSWORD is created if missing.`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "status"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		a, err := newApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		command := args[0]
		if err := database.Migrate(ctx, a.db, command, cfg.Migrations.Table); err != nil {
			return err
		}
		if command != "up" {
			return nil
		}

		created, err := a.auth.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			return fmt.Errorf("failed to seed administrator: %w", err)
		}
		if created {
			slog.Info("Administrator created", "email", cfg.Admin.Email)
		}
		return nil
	},
}
