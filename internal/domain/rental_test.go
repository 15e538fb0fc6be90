package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRentalCanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    RentalStatus
		to      RentalStatus
		allowed bool
	}{
		{"Reserved to ongoing", RentalStatusReserved, RentalStatusOngoing, true},
		{"Reserved to cancelled", RentalStatusReserved, RentalStatusCancelled, true},
		{"Reserved to completed skips checkout", RentalStatusReserved, RentalStatusCompleted, false},
		{"Ongoing to completed", RentalStatusOngoing, RentalStatusCompleted, true},
		{"Ongoing cannot cancel", RentalStatusOngoing, RentalStatusCancelled, false},
		{"Completed is terminal", RentalStatusCompleted, RentalStatusOngoing, false},
		{"Cancelled is terminal", RentalStatusCancelled, RentalStatusReserved, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Rental{Status: tt.from}
			err := r.CanTransitionTo(tt.to)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrStateConflict)
				var ite *InvalidTransitionError
				assert.ErrorAs(t, err, &ite)
				assert.Equal(t, string(tt.from), ite.From)
			}
		})
	}
}

func TestRentalActive(t *testing.T) {
	assert.True(t, (&Rental{Status: RentalStatusReserved}).Active())
	assert.True(t, (&Rental{Status: RentalStatusOngoing}).Active())
	assert.False(t, (&Rental{Status: RentalStatusCompleted}).Active())
	assert.False(t, (&Rental{Status: RentalStatusCancelled}).Active())
}

func TestContractSignatureSigned(t *testing.T) {
	var nilSig *ContractSignature
	assert.False(t, nilSig.Signed())
	assert.False(t, (&ContractSignature{Data: "blob"}).Signed())

	now := time.Now()
	assert.True(t, (&ContractSignature{Data: "blob", SignedAt: &now}).Signed())
}

func TestVehicleCanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    VehicleStatus
		to      VehicleStatus
		allowed bool
	}{
		{"Available to reserved", VehicleStatusAvailable, VehicleStatusReserved, true},
		{"Available straight to rented", VehicleStatusAvailable, VehicleStatusRented, true},
		{"Reserved released", VehicleStatusReserved, VehicleStatusAvailable, true},
		{"Rented back to available", VehicleStatusRented, VehicleStatusAvailable, true},
		{"Rented cannot be re-reserved", VehicleStatusRented, VehicleStatusReserved, false},
		{"Maintenance is outside the lifecycle", VehicleStatusMaintenance, VehicleStatusRented, false},
		{"Out of stock is outside the lifecycle", VehicleStatusOutOfStock, VehicleStatusReserved, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &Vehicle{Status: tt.from}
			err := v.CanTransitionTo(tt.to)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrStateConflict)
			}
		})
	}
}

func TestUserKYCComplete(t *testing.T) {
	complete := User{
		Phone:              "0900000001",
		NationalID:         "079123456789",
		LicenseNumber:      "B2-123456",
		NationalIDImage:    "kyc/1/national-id.jpg",
		DriverLicenseImage: "kyc/1/license.jpg",
	}
	assert.True(t, complete.KYCComplete())

	missingImage := complete
	missingImage.DriverLicenseImage = ""
	assert.False(t, missingImage.KYCComplete())

	missingPhone := complete
	missingPhone.Phone = ""
	assert.False(t, missingPhone.KYCComplete())
}

func TestIsStaffOrAdmin(t *testing.T) {
	assert.True(t, (&User{Role: RoleStaff}).IsStaffOrAdmin())
	assert.True(t, (&User{Role: RoleAdmin}).IsStaffOrAdmin())
	assert.False(t, (&User{Role: RoleRenter}).IsStaffOrAdmin())
}
