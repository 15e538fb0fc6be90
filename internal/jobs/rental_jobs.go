package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"evstation-backend/internal/domain"
	"evstation-backend/internal/logger"
)

// ExpireUnpaidReservations cancels reservations whose payment never
// arrived within the configured TTL and releases any held vehicle.
func (jr *JobRunner) ExpireUnpaidReservations() {
	jr.runWithRecovery("ExpireUnpaidReservations", func() {
		ctx := context.Background()

		ttl := time.Duration(jr.config.Rental.ReservationTTLMinutes) * time.Minute
		cutoff := time.Now().Add(-ttl)
		rentals, err := jr.store.RentalRepository.ListPendingPayment(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to list expired reservations", "error", err)
			return
		}

		expired := 0
		for _, rt := range rentals {
			// Expiry goes through the payment service so the gateway-side
			// link is cancelled with the reservation; a link left alive
			// could still be paid. A rental paid between the listing and
			// the cancel is refused and left alone.
			if _, err := jr.services.Payment.Cancel(ctx, rt.RenterID, domain.RoleAdmin, rt.ID,
				"reservation expired before payment"); err != nil {
				logger.Error("Failed to expire reservation", "rental_id", rt.ID, "error", err)
				continue
			}
			expired++
			logger.Info("Reservation expired", "rental_id", rt.ID, "order_code", rt.OrderCode)
		}
		logger.Info("Unpaid reservations expired", "count", expired)
	})
}

// MarkOverdueRentals flags ONGOING rentals past their scheduled return and
// notifies the renter.
func (jr *JobRunner) MarkOverdueRentals() {
	jr.runWithRecovery("MarkOverdueRentals", func() {
		ctx := context.Background()

		rentals, err := jr.store.RentalRepository.ListOverdue(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to list overdue rentals", "error", err)
			return
		}

		flagged := 0
		for _, rt := range rentals {
			rt := rt
			if strings.Contains(rt.Note, "overdue since") {
				continue
			}
			due := rt.ScheduledReturnDate + " " + rt.ScheduledReturnTime
			note := fmt.Sprintf("overdue since %s", due)
			if rt.Note != "" {
				note = rt.Note + "; " + note
			}
			rt.Note = note
			if err := jr.store.RentalRepository.Update(ctx, &rt); err != nil {
				logger.Error("Failed to flag overdue rental", "rental_id", rt.ID, "error", err)
				continue
			}
			flagged++
			logger.Debug("Rental flagged overdue", "rental_id", rt.ID, "due", due)

			renter, err := jr.store.UserRepository.GetByID(ctx, rt.RenterID)
			if err != nil {
				continue
			}
			vehicleName := ""
			if vehicle, err := jr.store.VehicleRepository.GetByID(ctx, rt.VehicleID); err == nil {
				vehicleName = vehicle.Name
			}
			if err := jr.services.Email.SendOverdueNotice(ctx, renter.Email, renter.FullName, vehicleName, due); err != nil {
				logger.Warn("Failed to send overdue notice", "rental_id", rt.ID, "error", err)
			}
		}
		logger.Info("Overdue rentals flagged", "count", flagged)
	})
}
