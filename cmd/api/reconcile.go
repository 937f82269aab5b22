package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Remove payslip documents that have no database record",
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

		removed, err := a.payslips.ReconcileDocuments(ctx)
		if err != nil {
			return err
		}
		slog.Info("Reconciliation finished", "removed", removed)
		return nil
	},
}
