package service

import (
	"context"
	"fmt"
	"time"

	"evstation-backend/internal/domain"
	"evstation-backend/internal/logger"
	"evstation-backend/internal/payment"
	"evstation-backend/internal/repository"
)

// descriptionLimit is the gateway's hard cap on payment descriptions.
const descriptionLimit = 25

type paymentService struct {
	rentalRepo  repository.RentalRepository
	vehicleRepo repository.VehicleRepository
	userRepo    repository.UserRepository
	gateway     payment.Client
	emailSvc    EmailService
	checksumKey string
	frontendURL string
}

func NewPaymentService(
	rentalRepo repository.RentalRepository,
	vehicleRepo repository.VehicleRepository,
	userRepo repository.UserRepository,
	gateway payment.Client,
	emailSvc EmailService,
	checksumKey, frontendURL string,
) PaymentService {
	return &paymentService{
		rentalRepo:  rentalRepo,
		vehicleRepo: vehicleRepo,
		userRepo:    userRepo,
		gateway:     gateway,
		emailSvc:    emailSvc,
		checksumKey: checksumKey,
		frontendURL: frontendURL,
	}
}

func (s *paymentService) CreatePaymentLink(ctx context.Context, callerID int32, rentalID int32) (*domain.Rental, *payment.PaymentLink, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, nil, err
	}
	if rt.RenterID != callerID {
		return nil, nil, domain.PermissionError("rental belongs to another renter")
	}
	if rt.PaymentStatus == domain.PaymentStatusPaid {
		return nil, nil, domain.ConflictError("rental is already paid")
	}
	if rt.Status != domain.RentalStatusReserved {
		return nil, nil, domain.ConflictError("rental is not awaiting payment (status: %s)", rt.Status)
	}

	amount := rt.TotalAmount
	if amount <= 0 {
		amount = rt.DepositAmount
	}
	if amount <= 0 {
		return nil, nil, domain.ValidationError("rental has no payable amount")
	}

	desc := truncateRunes(fmt.Sprintf("Thue xe %d", rt.OrderCode), descriptionLimit)
	link, err := s.gateway.CreatePaymentLink(ctx, &payment.CreateLinkRequest{
		OrderCode:   rt.OrderCode,
		Amount:      amount,
		Description: desc,
		Items:       []payment.Item{{Name: desc, Quantity: 1, Price: amount}},
		ReturnURL:   s.frontendURL + "/payment/success",
		CancelURL:   s.frontendURL + "/payment/cancel",
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create payment link: %w", err)
	}

	rt.PaymentLink = link.CheckoutURL
	if err := s.rentalRepo.Update(ctx, rt); err != nil {
		return nil, nil, err
	}
	logger.Info("Payment link created", "rental_id", rt.ID, "order_code", rt.OrderCode, "amount", amount)
	return rt, link, nil
}

func (s *paymentService) HandleWebhook(ctx context.Context, raw []byte) error {
	payload, err := payment.VerifyWebhook(raw, s.checksumKey)
	if err != nil {
		logger.Warn("Webhook rejected", "error", err)
		return domain.ValidationError("webhook rejected: %v", err)
	}

	rt, err := s.rentalRepo.GetByOrderCode(ctx, payload.OrderCode)
	if err != nil {
		return err
	}

	if payload.Code == payment.CodeSuccess {
		return s.markPaid(ctx, rt)
	}

	if rt.PaymentStatus == domain.PaymentStatusPending {
		rt.PaymentStatus = domain.PaymentStatusFailed
		if err := s.rentalRepo.Update(ctx, rt); err != nil {
			return err
		}
		logger.Info("Payment failed", "order_code", payload.OrderCode, "code", payload.Code, "desc", payload.Desc)
	}
	return nil
}

// markPaid is the single paid transition. Replays are no-ops: a rental
// already PAID is left untouched, so payment time is stamped exactly once.
// A cancelled rental never becomes PAID; a link settled after cancellation
// must not resurrect the booking or re-hold the vehicle.
func (s *paymentService) markPaid(ctx context.Context, rt *domain.Rental) error {
	if rt.PaymentStatus == domain.PaymentStatusPaid {
		return nil
	}
	if rt.Status == domain.RentalStatusCancelled {
		logger.Warn("Payment received for cancelled rental",
			"rental_id", rt.ID, "order_code", rt.OrderCode)
		return nil
	}

	now := time.Now()
	rt.PaymentStatus = domain.PaymentStatusPaid
	rt.PaymentTime = &now

	// Payment confirmation hardens the soft hold: the rental stays
	// RESERVED, the vehicle is taken off the shelf.
	if err := s.rentalRepo.UpdateWithVehicle(ctx, rt, domain.VehicleStatusReserved, nil); err != nil {
		return err
	}
	logger.Info("Payment confirmed", "rental_id", rt.ID, "order_code", rt.OrderCode)

	if renter, err := s.userRepo.GetByID(ctx, rt.RenterID); err == nil {
		amount := rt.TotalAmount
		if amount <= 0 {
			amount = rt.DepositAmount
		}
		if err := s.emailSvc.SendPaymentReceipt(ctx, renter.Email, renter.FullName, rt.OrderCode, amount); err != nil {
			logger.Warn("Failed to send payment receipt", "rental_id", rt.ID, "error", err)
		}
	}
	return nil
}

func (s *paymentService) CheckStatus(ctx context.Context, orderCode int64) (*PaymentStatusView, error) {
	rt, err := s.rentalRepo.GetByOrderCode(ctx, orderCode)
	if err != nil {
		return nil, err
	}
	if rt.PaymentStatus == domain.PaymentStatusPaid {
		return &PaymentStatusView{OrderCode: orderCode, PaymentStatus: rt.PaymentStatus, RentalStatus: rt.Status}, nil
	}

	link, err := s.gateway.GetPaymentLink(ctx, orderCode)
	if err != nil {
		// Gateway hiccups leave the local state authoritative.
		logger.Warn("Gateway status query failed", "order_code", orderCode, "error", err)
		return &PaymentStatusView{OrderCode: orderCode, PaymentStatus: rt.PaymentStatus, RentalStatus: rt.Status}, nil
	}

	switch link.Status {
	case payment.LinkStatusPaid:
		if err := s.markPaid(ctx, rt); err != nil {
			return nil, err
		}
	case payment.LinkStatusCancelled, payment.LinkStatusExpired:
		if rt.PaymentStatus == domain.PaymentStatusPending {
			rt.PaymentStatus = domain.PaymentStatusCancelled
			if err := s.rentalRepo.Update(ctx, rt); err != nil {
				return nil, err
			}
		}
	}

	return &PaymentStatusView{
		OrderCode:     orderCode,
		PaymentStatus: rt.PaymentStatus,
		RentalStatus:  rt.Status,
		GatewayStatus: link.Status,
	}, nil
}

func (s *paymentService) Cancel(ctx context.Context, callerID int32, role domain.Role, rentalID int32, reason string) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.RenterID != callerID && role != domain.RoleStaff && role != domain.RoleAdmin {
		return nil, domain.PermissionError("rental belongs to another renter")
	}
	if rt.PaymentStatus == domain.PaymentStatusPaid {
		return nil, domain.ConflictError("paid rental cannot be cancelled")
	}
	if err := rt.CanTransitionTo(domain.RentalStatusCancelled); err != nil {
		return nil, err
	}

	rt.Status = domain.RentalStatusCancelled
	rt.PaymentStatus = domain.PaymentStatusCancelled
	if rt.Note == "" {
		rt.Note = reason
	}
	if err := s.rentalRepo.Update(ctx, rt); err != nil {
		return nil, err
	}

	// Release a hard hold if one was taken. The conditional update is a
	// no-op conflict when the vehicle was never flipped.
	if err := s.vehicleRepo.UpdateStatus(ctx, rt.VehicleID,
		[]domain.VehicleStatus{domain.VehicleStatusReserved}, domain.VehicleStatusAvailable); err != nil {
		logger.Debug("Vehicle release skipped", "vehicle_id", rt.VehicleID, "error", err)
	}

	if err := s.gateway.CancelPaymentLink(ctx, rt.OrderCode, reason); err != nil {
		logger.Warn("Gateway-side cancel failed", "order_code", rt.OrderCode, "error", err)
	}

	logger.Info("Rental cancelled", "rental_id", rt.ID, "order_code", rt.OrderCode, "reason", reason)
	return rt, nil
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
