package jobs

import (
	"context"
	"time"

	"evstation-backend/internal/logger"
)

// ReconcilePendingPayments polls the gateway for rentals whose payment has
// been PENDING for a while. A webhook the service missed is applied exactly
// like a live one.
func (jr *JobRunner) ReconcilePendingPayments() {
	jr.runWithRecovery("ReconcilePendingPayments", func() {
		ctx := context.Background()

		olderThan := time.Now().Add(-2 * time.Minute)
		rentals, err := jr.store.RentalRepository.ListPendingPayment(ctx, olderThan)
		if err != nil {
			logger.Error("Failed to list pending payments", "error", err)
			return
		}

		reconciled := 0
		for _, rt := range rentals {
			view, err := jr.services.Payment.CheckStatus(ctx, rt.OrderCode)
			if err != nil {
				logger.Warn("Payment reconciliation failed", "order_code", rt.OrderCode, "error", err)
				continue
			}
			if view.PaymentStatus != rt.PaymentStatus {
				reconciled++
				logger.Info("Payment reconciled",
					"order_code", rt.OrderCode, "from", rt.PaymentStatus, "to", view.PaymentStatus)
			}
		}
		logger.Info("Pending payments reconciled", "checked", len(rentals), "changed", reconciled)
	})
}
