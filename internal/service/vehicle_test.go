package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"evstation-backend/internal/domain"
)

func newVehicleFixture() (*MockVehicleRepo, *MockStationRepo, *MockRentalRepo, VehicleService) {
	vehicleRepo := new(MockVehicleRepo)
	stationRepo := new(MockStationRepo)
	rentalRepo := new(MockRentalRepo)
	return vehicleRepo, stationRepo, rentalRepo, NewVehicleService(vehicleRepo, stationRepo, rentalRepo)
}

func statusPtr(s domain.VehicleStatus) *domain.VehicleStatus { return &s }

func TestVehicleService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Defaults to available", func(t *testing.T) {
		vehicleRepo, stationRepo, _, svc := newVehicleFixture()
		stationID := int32(3)
		stationRepo.On("GetByID", ctx, stationID).Return(&domain.Station{ID: stationID}, nil)
		vehicleRepo.On("Create", ctx, mock.AnythingOfType("*domain.Vehicle")).Return(nil)

		v := &domain.Vehicle{Name: "VF 5", LicensePlate: "51K-123.45", PricePerHour: 100000, StationID: &stationID}
		assert.NoError(t, svc.Create(ctx, v))
		assert.Equal(t, domain.VehicleStatusAvailable, v.Status)
	})

	t.Run("Requires a price", func(t *testing.T) {
		_, _, _, svc := newVehicleFixture()
		err := svc.Create(ctx, &domain.Vehicle{Name: "VF 5", LicensePlate: "51K-123.45"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("Unknown station rejected", func(t *testing.T) {
		vehicleRepo, stationRepo, _, svc := newVehicleFixture()
		stationID := int32(99)
		stationRepo.On("GetByID", ctx, stationID).Return(nil, domain.NotFoundError("station"))

		err := svc.Create(ctx, &domain.Vehicle{Name: "VF 5", LicensePlate: "51K-123.45", PricePerHour: 100000, StationID: &stationID})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		vehicleRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestVehicleService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Stored status survives catalog edits", func(t *testing.T) {
		vehicleRepo, _, _, svc := newVehicleFixture()
		vehicleRepo.On("GetByID", ctx, int32(2)).Return(&domain.Vehicle{
			ID: 2, Status: domain.VehicleStatusRented,
		}, nil)
		vehicleRepo.On("Update", ctx, mock.AnythingOfType("*domain.Vehicle")).Return(nil)

		v := &domain.Vehicle{ID: 2, Name: "VF 5 Plus", LicensePlate: "51K-123.45", Status: domain.VehicleStatusAvailable}
		assert.NoError(t, svc.Update(ctx, v))
		assert.Equal(t, domain.VehicleStatusRented, v.Status)
	})
}

func TestVehicleService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Active rental blocks deletion", func(t *testing.T) {
		vehicleRepo, _, rentalRepo, svc := newVehicleFixture()
		rentalRepo.On("ExistsActiveByVehicle", ctx, int32(2)).Return(true, nil)

		err := svc.Delete(ctx, 2)
		assert.ErrorIs(t, err, domain.ErrStateConflict)
		vehicleRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Idle vehicle removed", func(t *testing.T) {
		vehicleRepo, _, rentalRepo, svc := newVehicleFixture()
		rentalRepo.On("ExistsActiveByVehicle", ctx, int32(2)).Return(false, nil)
		vehicleRepo.On("Delete", ctx, int32(2)).Return(nil)

		assert.NoError(t, svc.Delete(ctx, 2))
	})
}

func TestVehicleService_StaffStatusUpdate(t *testing.T) {
	ctx := context.Background()

	idle := func() *domain.Vehicle {
		return &domain.Vehicle{ID: 2, Status: domain.VehicleStatusAvailable, StateOfChargePct: 80, OdometerKm: 1200}
	}

	t.Run("Maintenance parking allowed when idle", func(t *testing.T) {
		vehicleRepo, _, rentalRepo, svc := newVehicleFixture()
		vehicleRepo.On("GetByID", ctx, int32(2)).Return(idle(), nil)
		rentalRepo.On("ExistsActiveByVehicle", ctx, int32(2)).Return(false, nil)
		vehicleRepo.On("Update", ctx, mock.AnythingOfType("*domain.Vehicle")).Return(nil)

		v, err := svc.StaffStatusUpdate(ctx, 2, &VehicleStatusUpdate{Status: statusPtr(domain.VehicleStatusMaintenance)})
		assert.NoError(t, err)
		assert.Equal(t, domain.VehicleStatusMaintenance, v.Status)
	})

	t.Run("Lifecycle statuses cannot be set directly", func(t *testing.T) {
		vehicleRepo, _, _, svc := newVehicleFixture()
		vehicleRepo.On("GetByID", ctx, int32(2)).Return(idle(), nil)

		_, err := svc.StaffStatusUpdate(ctx, 2, &VehicleStatusUpdate{Status: statusPtr(domain.VehicleStatusRented)})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("Active rental blocks status change", func(t *testing.T) {
		vehicleRepo, _, rentalRepo, svc := newVehicleFixture()
		vehicleRepo.On("GetByID", ctx, int32(2)).Return(idle(), nil)
		rentalRepo.On("ExistsActiveByVehicle", ctx, int32(2)).Return(true, nil)

		_, err := svc.StaffStatusUpdate(ctx, 2, &VehicleStatusUpdate{Status: statusPtr(domain.VehicleStatusOffline)})
		assert.ErrorIs(t, err, domain.ErrStateConflict)
		vehicleRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Odometer cannot run backwards", func(t *testing.T) {
		vehicleRepo, _, _, svc := newVehicleFixture()
		vehicleRepo.On("GetByID", ctx, int32(2)).Return(idle(), nil)
		odo := 900.0

		_, err := svc.StaffStatusUpdate(ctx, 2, &VehicleStatusUpdate{OdometerKm: &odo})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("Charge must be a percentage", func(t *testing.T) {
		vehicleRepo, _, _, svc := newVehicleFixture()
		vehicleRepo.On("GetByID", ctx, int32(2)).Return(idle(), nil)
		soc := int32(120)

		_, err := svc.StaffStatusUpdate(ctx, 2, &VehicleStatusUpdate{StateOfChargePct: &soc})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("Notes are appended, not replaced", func(t *testing.T) {
		vehicleRepo, _, _, svc := newVehicleFixture()
		v := idle()
		v.Notes = []string{"scratch on left door"}
		vehicleRepo.On("GetByID", ctx, int32(2)).Return(v, nil)
		vehicleRepo.On("Update", ctx, mock.AnythingOfType("*domain.Vehicle")).Return(nil)

		got, err := svc.StaffStatusUpdate(ctx, 2, &VehicleStatusUpdate{Notes: []string{"tire pressure checked"}})
		assert.NoError(t, err)
		assert.Equal(t, []string{"scratch on left door", "tire pressure checked"}, got.Notes)
	})
}
