package service

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"evstation-backend/internal/domain"
	"evstation-backend/internal/logger"
	"evstation-backend/internal/repository"
	"evstation-backend/internal/utils"
)

// orderCodeAttempts bounds the collision retry loop on reservation insert.
const orderCodeAttempts = 3

type rentalService struct {
	rentalRepo  repository.RentalRepository
	vehicleRepo repository.VehicleRepository
	stationRepo repository.StationRepository
	userRepo    repository.UserRepository
	emailSvc    EmailService
}

func NewRentalService(
	rentalRepo repository.RentalRepository,
	vehicleRepo repository.VehicleRepository,
	stationRepo repository.StationRepository,
	userRepo repository.UserRepository,
	emailSvc EmailService,
) RentalService {
	return &rentalService{
		rentalRepo:  rentalRepo,
		vehicleRepo: vehicleRepo,
		stationRepo: stationRepo,
		userRepo:    userRepo,
		emailSvc:    emailSvc,
	}
}

// newOrderCode derives the payment correlation key from the wall clock.
// Uniqueness is enforced by the database; collisions are retried with a
// jittered code.
func newOrderCode() int64 {
	return time.Now().UnixMilli()
}

func (s *rentalService) CreateReservation(ctx context.Context, renterID int32, in *ReservationInput) (*domain.Rental, error) {
	renter, err := s.userRepo.GetByID(ctx, renterID)
	if err != nil {
		return nil, err
	}
	if !renter.IsVerified {
		return nil, domain.PermissionError("account is not verified")
	}

	switch {
	case in.VehicleID == 0 || in.PickupStationID == 0:
		return nil, domain.ValidationError("vehicle and pickup station are required")
	case in.Mode != domain.RentalModeHour && in.Mode != domain.RentalModeDay:
		return nil, domain.ValidationError("rental mode must be %q or %q", domain.RentalModeHour, domain.RentalModeDay)
	case in.PickupDate == "" || in.ReturnDate == "" || in.PickupTime == "" || in.ReturnTime == "":
		return nil, domain.ValidationError("scheduled pickup and return date/time are required")
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, in.VehicleID)
	if err != nil {
		return nil, err
	}
	switch vehicle.Status {
	case domain.VehicleStatusAvailable:
	case domain.VehicleStatusOutOfStock:
		return nil, domain.ConflictError("vehicle is out of stock")
	default:
		return nil, domain.ConflictError("vehicle cannot be reserved (status: %s)", vehicle.Status)
	}

	if _, err := s.stationRepo.GetByID(ctx, in.PickupStationID); err != nil {
		return nil, err
	}

	total, err := utils.QuoteScheduled(in.Mode, in.PickupDate, in.ReturnDate, in.PickupTime, in.ReturnTime, vehicle.PricePerHour, vehicle.PricePerDay)
	if err != nil {
		return nil, domain.ValidationError("invalid rental period: %v", err)
	}

	now := time.Now()
	rental := &domain.Rental{
		RenterID:            renterID,
		VehicleID:           in.VehicleID,
		PickupStationID:     in.PickupStationID,
		ReturnStationID:     in.ReturnStationID,
		RentalMode:          in.Mode,
		ScheduledPickupDate: in.PickupDate,
		ScheduledReturnDate: in.ReturnDate,
		ScheduledPickupTime: in.PickupTime,
		ScheduledReturnTime: in.ReturnTime,
		ReservationTime:     &now,
		Status:              domain.RentalStatusReserved,
		PaymentStatus:       domain.PaymentStatusPending,
		PricePerHour:        vehicle.PricePerHour,
		PricePerDay:         vehicle.PricePerDay,
		DepositAmount:       in.DepositAmount,
		TotalAmount:         total,
		FullName:            in.FullName,
		Phone:               in.Phone,
		Email:               in.Email,
		Note:                in.Note,
	}

	// The vehicle row stays AVAILABLE until payment confirms; the insert
	// itself locks the row and rejects a second active rental.
	for attempt := 0; ; attempt++ {
		rental.OrderCode = newOrderCode()
		if attempt > 0 {
			rental.OrderCode += rand.Int63n(1000)
		}
		err = s.rentalRepo.CreateHold(ctx, rental, []domain.VehicleStatus{domain.VehicleStatusAvailable})
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrDuplicateOrderCode) && attempt < orderCodeAttempts-1 {
			continue
		}
		return nil, err
	}

	logger.Info("Reservation created",
		"rental_id", rental.ID, "renter_id", renterID, "vehicle_id", in.VehicleID, "order_code", rental.OrderCode)

	email := rental.Email
	if email == "" {
		email = renter.Email
	}
	if err := s.emailSvc.SendReservationConfirmation(ctx, email, renter.FullName, vehicle.Name, in.PickupDate, in.PickupTime); err != nil {
		logger.Warn("Failed to send reservation email", "rental_id", rental.ID, "error", err)
	}

	return rental, nil
}

func (s *rentalService) GetRental(ctx context.Context, callerID int32, role domain.Role, rentalID int32) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.RenterID != callerID && role != domain.RoleStaff && role != domain.RoleAdmin {
		return nil, domain.PermissionError("rental belongs to another renter")
	}
	return rt, nil
}

func (s *rentalService) ListMyRentals(ctx context.Context, renterID int32) ([]domain.Rental, error) {
	return s.rentalRepo.ListByRenter(ctx, renterID)
}

func (s *rentalService) ListRentals(ctx context.Context, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.rentalRepo.List(ctx, status, page, pageSize)
}

func (s *rentalService) Checkout(ctx context.Context, staffID int32, in *CheckoutInput) (*domain.Rental, error) {
	if in.RentalID != nil {
		return s.checkoutReserved(ctx, staffID, *in.RentalID, in.Condition)
	}
	return s.checkoutWalkIn(ctx, staffID, in)
}

func (s *rentalService) checkoutReserved(ctx context.Context, staffID, rentalID int32, cond *domain.ConditionSnapshot) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if err := rt.CanTransitionTo(domain.RentalStatusOngoing); err != nil {
		return nil, err
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, rt.VehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.StationID == nil || *vehicle.StationID != rt.PickupStationID {
		return nil, domain.ConflictError("vehicle is not at the pickup station")
	}
	if err := vehicle.CanTransitionTo(domain.VehicleStatusRented); err != nil {
		return nil, err
	}

	now := time.Now()
	rt.Status = domain.RentalStatusOngoing
	rt.CheckoutTime = &now
	rt.ConditionCheckout = cond

	if err := s.rentalRepo.UpdateWithVehicle(ctx, rt, domain.VehicleStatusRented, nil); err != nil {
		return nil, err
	}
	logger.Info("Rental checked out", "rental_id", rt.ID, "staff_id", staffID, "vehicle_id", rt.VehicleID)
	return rt, nil
}

func (s *rentalService) checkoutWalkIn(ctx context.Context, staffID int32, in *CheckoutInput) (*domain.Rental, error) {
	if in.VehicleID == 0 || in.RenterID == 0 || in.StationID == 0 {
		return nil, domain.ValidationError("vehicle, renter and station are required for walk-in checkout")
	}

	renter, err := s.userRepo.GetByID(ctx, in.RenterID)
	if err != nil {
		return nil, err
	}
	if !renter.IsVerified {
		return nil, domain.PermissionError("account is not verified")
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, in.VehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.StationID == nil || *vehicle.StationID != in.StationID {
		return nil, domain.ConflictError("vehicle is not at the pickup station")
	}
	if err := vehicle.CanTransitionTo(domain.VehicleStatusRented); err != nil {
		return nil, err
	}

	now := time.Now()
	rt := &domain.Rental{
		RenterID:            in.RenterID,
		VehicleID:           in.VehicleID,
		PickupStationID:     in.StationID,
		RentalMode:          domain.RentalModeHour,
		ScheduledPickupDate: now.Format("2006-01-02"),
		ScheduledReturnDate: now.Format("2006-01-02"),
		ScheduledPickupTime: now.Format("15:04"),
		ScheduledReturnTime: "23:59",
		Status:              domain.RentalStatusOngoing,
		PaymentStatus:       domain.PaymentStatusPending,
		CheckoutTime:        &now,
		PricePerHour:        vehicle.PricePerHour,
		PricePerDay:         vehicle.PricePerDay,
		ConditionCheckout:   in.Condition,
	}

	allowed := []domain.VehicleStatus{domain.VehicleStatusAvailable, domain.VehicleStatusReserved}
	for attempt := 0; ; attempt++ {
		rt.OrderCode = newOrderCode()
		if attempt > 0 {
			rt.OrderCode += rand.Int63n(1000)
		}
		err = s.rentalRepo.CreateHold(ctx, rt, allowed)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrDuplicateOrderCode) && attempt < orderCodeAttempts-1 {
			continue
		}
		return nil, err
	}

	if err := s.vehicleRepo.UpdateStatus(ctx, in.VehicleID, allowed, domain.VehicleStatusRented); err != nil {
		return nil, err
	}
	logger.Info("Walk-in rental checked out", "rental_id", rt.ID, "staff_id", staffID, "vehicle_id", in.VehicleID)
	return rt, nil
}

func (s *rentalService) Checkin(ctx context.Context, staffID int32, in *CheckinInput) (*domain.Rental, error) {
	if in.DropoffStationID == 0 {
		return nil, domain.ValidationError("dropoff station is required")
	}
	if _, err := s.stationRepo.GetByID(ctx, in.DropoffStationID); err != nil {
		return nil, err
	}

	rt, err := s.rentalRepo.GetByID(ctx, in.RentalID)
	if err != nil {
		return nil, err
	}
	if err := rt.CanTransitionTo(domain.RentalStatusCompleted); err != nil {
		return nil, err
	}

	now := time.Now()
	start := now
	switch {
	case rt.CheckoutTime != nil:
		start = *rt.CheckoutTime
	case rt.ReservationTime != nil:
		start = *rt.ReservationTime
	}
	rt.TotalAmount = utils.ComputeFare(start, now, rt.PricePerHour)

	rt.Status = domain.RentalStatusCompleted
	rt.CheckinTime = &now
	rt.ConditionCheckin = in.Condition
	rt.DistanceKm = in.DistanceKm
	rt.ReturnStationID = &in.DropoffStationID

	if err := s.rentalRepo.UpdateWithVehicle(ctx, rt, domain.VehicleStatusAvailable, &in.DropoffStationID); err != nil {
		return nil, err
	}
	logger.Info("Rental checked in",
		"rental_id", rt.ID, "staff_id", staffID, "total_amount", rt.TotalAmount, "distance_km", in.DistanceKm)

	if renter, err := s.userRepo.GetByID(ctx, rt.RenterID); err == nil {
		vehicleName := ""
		if vehicle, err := s.vehicleRepo.GetByID(ctx, rt.VehicleID); err == nil {
			vehicleName = vehicle.Name
		}
		if err := s.emailSvc.SendCheckinReceipt(ctx, renter.Email, renter.FullName, vehicleName, rt.TotalAmount); err != nil {
			logger.Warn("Failed to send checkin receipt", "rental_id", rt.ID, "error", err)
		}
	}

	return rt, nil
}
