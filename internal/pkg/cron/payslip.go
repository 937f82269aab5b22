package cron

import (
	"context"
	"log/slog"
	"time"
)

// Reconciler removes payslip documents that no record points to.
type Reconciler interface {
	ReconcileDocuments(ctx context.Context) (int, error)
}

// RegisterPayslipJobs adds the orphaned-document sweep.
func RegisterPayslipJobs(scheduler *Scheduler, reconciler Reconciler, interval time.Duration) {
	scheduler.AddJob(Job{
		Name:     "payslip-reconcile",
		Interval: interval,
		Fn: func(ctx context.Context) error {
			removed, err := reconciler.ReconcileDocuments(ctx)
			if err != nil {
				return err
			}
			if removed > 0 {
				slog.Info("Cron: removed orphaned payslip documents", "count", removed)
			}
			return nil
		},
	})
}
