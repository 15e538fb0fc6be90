package service

import (
	"context"
	"fmt"
	"time"

	"evstation-backend/internal/domain"
	"evstation-backend/internal/logger"
	"evstation-backend/internal/repository"
	"evstation-backend/internal/utils"
)

type contractService struct {
	rentalRepo  repository.RentalRepository
	vehicleRepo repository.VehicleRepository
	stationRepo repository.StationRepository
	userRepo    repository.UserRepository
	paymentSvc  PaymentService
}

func NewContractService(
	rentalRepo repository.RentalRepository,
	vehicleRepo repository.VehicleRepository,
	stationRepo repository.StationRepository,
	userRepo repository.UserRepository,
	paymentSvc PaymentService,
) ContractService {
	return &contractService{
		rentalRepo:  rentalRepo,
		vehicleRepo: vehicleRepo,
		stationRepo: stationRepo,
		userRepo:    userRepo,
		paymentSvc:  paymentSvc,
	}
}

func (s *contractService) Get(ctx context.Context, callerID int32, role domain.Role, rentalID int32) (*Contract, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.RenterID != callerID && role != domain.RoleStaff && role != domain.RoleAdmin {
		return nil, domain.PermissionError("contract belongs to another renter")
	}

	renter, err := s.userRepo.GetByID(ctx, rt.RenterID)
	if err != nil {
		return nil, err
	}
	vehicle, err := s.vehicleRepo.GetByID(ctx, rt.VehicleID)
	if err != nil {
		return nil, err
	}
	station, err := s.stationRepo.GetByID(ctx, rt.PickupStationID)
	if err != nil {
		return nil, err
	}

	unitPrice := rt.PricePerHour
	if rt.RentalMode == domain.RentalModeDay {
		unitPrice = rt.PricePerDay
	}

	renterName := rt.FullName
	if renterName == "" {
		renterName = renter.FullName
	}
	renterPhone := rt.Phone
	if renterPhone == "" {
		renterPhone = renter.Phone
	}
	renterEmail := rt.Email
	if renterEmail == "" {
		renterEmail = renter.Email
	}

	return &Contract{
		ContractNumber: fmt.Sprintf("EV-%d", rt.OrderCode),
		Status:         rt.Status,
		RenterName:     renterName,
		RenterEmail:    renterEmail,
		RenterPhone:    renterPhone,
		VehicleName:    vehicle.Name,
		LicensePlate:   vehicle.LicensePlate,
		StationName:    station.Name,
		PickupAt:       rt.ScheduledPickupDate + " " + rt.ScheduledPickupTime,
		ReturnAt:       rt.ScheduledReturnDate + " " + rt.ScheduledReturnTime,
		Duration:       utils.DurationLabel(rt.RentalMode, rt.ScheduledPickupDate, rt.ScheduledReturnDate, rt.ScheduledPickupTime, rt.ScheduledReturnTime),
		UnitPrice:      unitPrice,
		TotalAmount:    rt.TotalAmount,
		DepositAmount:  rt.DepositAmount,
		Terms: []string{
			"The renter must hold a valid driver license for the rented vehicle class.",
			"The vehicle is picked up and returned at the stations named in this contract.",
			fmt.Sprintf("The daily distance limit is %d km unless stated otherwise.", vehicle.DailyDistanceLimitKm),
			"The rental fee is settled through the platform payment gateway or at the counter.",
		},
		Responsibilities: []string{
			"Return the vehicle with the condition recorded at handover.",
			"Report accidents, damage or battery faults to station staff immediately.",
			"Charging during the rental period is the renter's responsibility.",
		},
		Penalties: []string{
			"Late return is billed at the hourly rate for the exceeded time.",
			"Damage beyond normal wear is charged against the deposit first.",
			"Traffic fines incurred during the rental period are borne by the renter.",
		},
		Signature: rt.ContractSignature,
	}, nil
}

func (s *contractService) Sign(ctx context.Context, callerID int32, rentalID int32, data, ipAddress, userAgent string) (*SignResult, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.RenterID != callerID {
		return nil, domain.PermissionError("only the renter can sign the contract")
	}

	// Write-once: a second signing attempt returns the stored signature.
	if rt.ContractSignature.Signed() {
		return &SignResult{Signature: rt.ContractSignature, AlreadySigned: true}, nil
	}

	if data == "" {
		return nil, domain.ValidationError("signature data is required")
	}

	now := time.Now()
	rt.ContractSignature = &domain.ContractSignature{
		Data:      data,
		SignedAt:  &now,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
	if err := s.rentalRepo.Update(ctx, rt); err != nil {
		return nil, err
	}

	logger.Info("Contract signed", "rental_id", rt.ID, "renter_id", callerID)
	return &SignResult{Signature: rt.ContractSignature, AlreadySigned: false}, nil
}

func (s *contractService) Cancel(ctx context.Context, callerID int32, rentalID int32) (*domain.Rental, error) {
	// Cancelling the contract cancels the booking; the payment service owns
	// the cancellation rules (paid rentals refuse, holds are released).
	return s.paymentSvc.Cancel(ctx, callerID, domain.RoleRenter, rentalID, "contract cancelled by renter")
}
