package service

import (
	"context"

	"evstation-backend/internal/domain"
	"evstation-backend/internal/logger"
	"evstation-backend/internal/repository"
)

// staffSettableStatuses are the statuses the maintenance path may assign.
// RESERVED and RENTED belong to the rental lifecycle only.
var staffSettableStatuses = map[domain.VehicleStatus]bool{
	domain.VehicleStatusAvailable:   true,
	domain.VehicleStatusOutOfStock:  true,
	domain.VehicleStatusMaintenance: true,
	domain.VehicleStatusOffline:     true,
}

type vehicleService struct {
	vehicleRepo repository.VehicleRepository
	stationRepo repository.StationRepository
	rentalRepo  repository.RentalRepository
}

func NewVehicleService(
	vehicleRepo repository.VehicleRepository,
	stationRepo repository.StationRepository,
	rentalRepo repository.RentalRepository,
) VehicleService {
	return &vehicleService{
		vehicleRepo: vehicleRepo,
		stationRepo: stationRepo,
		rentalRepo:  rentalRepo,
	}
}

func (s *vehicleService) Create(ctx context.Context, v *domain.Vehicle) error {
	if v.Name == "" || v.LicensePlate == "" {
		return domain.ValidationError("vehicle name and license plate are required")
	}
	if v.PricePerHour <= 0 && v.PricePerDay <= 0 {
		return domain.ValidationError("vehicle needs an hourly or daily price")
	}
	if v.StationID != nil {
		if _, err := s.stationRepo.GetByID(ctx, *v.StationID); err != nil {
			return err
		}
	}
	if v.Status == "" {
		v.Status = domain.VehicleStatusAvailable
	}
	return s.vehicleRepo.Create(ctx, v)
}

func (s *vehicleService) Get(ctx context.Context, id int32) (*domain.Vehicle, error) {
	return s.vehicleRepo.GetByID(ctx, id)
}

func (s *vehicleService) List(ctx context.Context, stationID *int32) ([]domain.Vehicle, error) {
	return s.vehicleRepo.List(ctx, stationID)
}

func (s *vehicleService) ListAvailable(ctx context.Context, stationID *int32) ([]domain.Vehicle, error) {
	return s.vehicleRepo.ListByStatus(ctx, domain.VehicleStatusAvailable, stationID)
}

// Update edits catalog fields. The status column is owned by the rental
// lifecycle and StaffStatusUpdate; the stored value is preserved here.
func (s *vehicleService) Update(ctx context.Context, v *domain.Vehicle) error {
	current, err := s.vehicleRepo.GetByID(ctx, v.ID)
	if err != nil {
		return err
	}
	if v.StationID != nil {
		if _, err := s.stationRepo.GetByID(ctx, *v.StationID); err != nil {
			return err
		}
	}
	v.Status = current.Status
	return s.vehicleRepo.Update(ctx, v)
}

func (s *vehicleService) Delete(ctx context.Context, id int32) error {
	active, err := s.rentalRepo.ExistsActiveByVehicle(ctx, id)
	if err != nil {
		return err
	}
	if active {
		return domain.ConflictError("vehicle %d has an active rental", id)
	}
	return s.vehicleRepo.Delete(ctx, id)
}

func (s *vehicleService) StaffStatusUpdate(ctx context.Context, id int32, upd *VehicleStatusUpdate) (*domain.Vehicle, error) {
	v, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Status != nil && *upd.Status != v.Status {
		if !staffSettableStatuses[*upd.Status] {
			return nil, domain.ValidationError("status %s cannot be set directly", *upd.Status)
		}
		active, err := s.rentalRepo.ExistsActiveByVehicle(ctx, id)
		if err != nil {
			return nil, err
		}
		if active {
			return nil, domain.ConflictError("vehicle %d has an active rental", id)
		}
		v.Status = *upd.Status
	}
	if upd.StateOfChargePct != nil {
		if *upd.StateOfChargePct < 0 || *upd.StateOfChargePct > 100 {
			return nil, domain.ValidationError("state of charge must be between 0 and 100")
		}
		v.StateOfChargePct = *upd.StateOfChargePct
	}
	if upd.OdometerKm != nil {
		if *upd.OdometerKm < v.OdometerKm {
			return nil, domain.ValidationError("odometer cannot decrease")
		}
		v.OdometerKm = *upd.OdometerKm
	}
	if len(upd.Notes) > 0 {
		v.Notes = append(v.Notes, upd.Notes...)
	}

	if err := s.vehicleRepo.Update(ctx, v); err != nil {
		return nil, err
	}
	logger.Info("Vehicle status updated by staff", "vehicle_id", id, "status", v.Status)
	return v, nil
}
