package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/paydown/backend/internal/models"
)

// ReconcileReport counts the outcome of one reconciliation pass. Skipped
// counts repairs abandoned because the debt changed underneath them.
type ReconcileReport struct {
	Drifted  int
	Repaired int
	Skipped  int
}

// Reconciler compares stored balances with the balance implied by each
// debt's payment history.
type Reconciler struct {
	store  DriftStore
	audit  *AuditLogger
	repair bool
}

func NewReconciler(store DriftStore, repair bool) *Reconciler {
	return &Reconciler{
		store:  store,
		audit:  NewAuditLogger(),
		repair: repair,
	}
}

// Run reconciles every interval until ctx is cancelled. A non-positive
// interval returns immediately.
func (r *Reconciler) Run(ctx context.Context, every time.Duration) {
	if every <= 0 {
		log.Println("[RECONCILE] Background reconciliation disabled")
		return
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.ReconcileOnce(ctx); err != nil {
				log.Printf("[RECONCILE] Pass failed: %v", err)
			}
		}
	}
}

// ReconcileOnce runs a single pass. A repair that loses to a concurrent
// write is skipped; the next pass sees the fresh row.
func (r *Reconciler) ReconcileOnce(ctx context.Context) (ReconcileReport, error) {
	var report ReconcileReport

	drift, err := r.store.ListBalanceDrift(ctx)
	if err != nil {
		return report, err
	}

	for _, b := range drift {
		if !b.Drifted() {
			continue
		}
		report.Drifted++
		log.Printf("[RECONCILE] Debt %s balance %s, payments imply %s", b.DebtID, b.Balance, b.Expected())

		if !r.repair {
			r.audit.LogDrift(b, false)
			continue
		}

		if err := r.store.RepairBalance(ctx, b); err != nil {
			if errors.Is(err, models.ErrConflict) {
				log.Printf("[RECONCILE] Debt %s changed during repair, skipping", b.DebtID)
				report.Skipped++
				continue
			}
			return report, err
		}
		report.Repaired++
		r.audit.LogDrift(b, true)
	}

	if report.Drifted > 0 {
		log.Printf("[RECONCILE] Pass complete: %d drifted, %d repaired, %d skipped", report.Drifted, report.Repaired, report.Skipped)
	}
	return report, nil
}
