package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"evstation-backend/internal/domain"
)

func newUserFixture() (*MockUserRepo, *MockEmailService, UserService) {
	userRepo := new(MockUserRepo)
	emailSvc := new(MockEmailService)
	return userRepo, emailSvc, NewUserService(userRepo, emailSvc)
}

func kycCompleteRenter() *domain.User {
	return &domain.User{
		ID:                 1,
		Email:              "renter@test.com",
		FullName:           "Renter",
		Phone:              "0900000001",
		NationalID:         "079123456789",
		LicenseNumber:      "B2-123456",
		NationalIDImage:    "kyc/1/national-id.jpg",
		DriverLicenseImage: "kyc/1/license.jpg",
		Role:               domain.RoleRenter,
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("Documents frozen after verification", func(t *testing.T) {
		userRepo, _, svc := newUserFixture()
		verified := kycCompleteRenter()
		verified.IsVerified = true
		userRepo.On("GetByID", ctx, int32(1)).Return(verified, nil)

		_, err := svc.UpdateProfile(ctx, 1, &ProfileUpdate{NationalID: "099999999999"})
		assert.ErrorIs(t, err, domain.ErrStateConflict)
		userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Verified renter may still fix contact details", func(t *testing.T) {
		userRepo, _, svc := newUserFixture()
		verified := kycCompleteRenter()
		verified.IsVerified = true
		userRepo.On("GetByID", ctx, int32(1)).Return(verified, nil)
		userRepo.On("Update", ctx, verified).Return(nil)

		got, err := svc.UpdateProfile(ctx, 1, &ProfileUpdate{Phone: "0911111111", Address: "2 Le Loi"})
		assert.NoError(t, err)
		assert.Equal(t, "0911111111", got.Phone)
		assert.Equal(t, "2 Le Loi", got.Address)
		assert.Equal(t, "079123456789", got.NationalID)
	})

	t.Run("Unverified renter replaces documents", func(t *testing.T) {
		userRepo, _, svc := newUserFixture()
		pending := kycCompleteRenter()
		userRepo.On("GetByID", ctx, int32(1)).Return(pending, nil)
		userRepo.On("Update", ctx, pending).Return(nil)

		got, err := svc.UpdateProfile(ctx, 1, &ProfileUpdate{LicenseNumber: "B2-654321"})
		assert.NoError(t, err)
		assert.Equal(t, "B2-654321", got.LicenseNumber)
	})

	t.Run("Empty fields leave the profile untouched", func(t *testing.T) {
		userRepo, _, svc := newUserFixture()
		pending := kycCompleteRenter()
		userRepo.On("GetByID", ctx, int32(1)).Return(pending, nil)
		userRepo.On("Update", ctx, pending).Return(nil)

		got, err := svc.UpdateProfile(ctx, 1, &ProfileUpdate{})
		assert.NoError(t, err)
		assert.Equal(t, "Renter", got.FullName)
		assert.Equal(t, "0900000001", got.Phone)
	})
}

func TestUserService_VerifyUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Complete profile approved", func(t *testing.T) {
		userRepo, emailSvc, svc := newUserFixture()
		renter := kycCompleteRenter()
		userRepo.On("GetByID", ctx, int32(1)).Return(renter, nil)
		userRepo.On("Update", ctx, renter).Return(nil)
		emailSvc.On("SendVerificationResult", ctx, "renter@test.com", "Renter", true, "looks good").Return(nil)

		got, err := svc.VerifyUser(ctx, 1, true, "looks good")
		assert.NoError(t, err)
		assert.True(t, got.IsVerified)
		assert.Equal(t, "looks good", got.VerifyNote)
	})

	t.Run("Incomplete profile cannot be approved", func(t *testing.T) {
		userRepo, _, svc := newUserFixture()
		renter := kycCompleteRenter()
		renter.DriverLicenseImage = ""
		userRepo.On("GetByID", ctx, int32(1)).Return(renter, nil)

		_, err := svc.VerifyUser(ctx, 1, true, "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Rejection records the note", func(t *testing.T) {
		userRepo, emailSvc, svc := newUserFixture()
		renter := kycCompleteRenter()
		userRepo.On("GetByID", ctx, int32(1)).Return(renter, nil)
		userRepo.On("Update", ctx, renter).Return(nil)
		emailSvc.On("SendVerificationResult", ctx, mock.Anything, mock.Anything, false, "blurry license photo").Return(nil)

		got, err := svc.VerifyUser(ctx, 1, false, "blurry license photo")
		assert.NoError(t, err)
		assert.False(t, got.IsVerified)
		assert.Equal(t, "blurry license photo", got.VerifyNote)
	})

	t.Run("Staff accounts are not KYC subjects", func(t *testing.T) {
		userRepo, _, svc := newUserFixture()
		userRepo.On("GetByID", ctx, int32(20)).Return(&domain.User{ID: 20, Role: domain.RoleStaff}, nil)

		_, err := svc.VerifyUser(ctx, 20, true, "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("Email failure does not fail the verification", func(t *testing.T) {
		userRepo, emailSvc, svc := newUserFixture()
		renter := kycCompleteRenter()
		userRepo.On("GetByID", ctx, int32(1)).Return(renter, nil)
		userRepo.On("Update", ctx, renter).Return(nil)
		emailSvc.On("SendVerificationResult", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

		got, err := svc.VerifyUser(ctx, 1, true, "")
		assert.NoError(t, err)
		assert.True(t, got.IsVerified)
	})
}

func TestUserService_CreateStaff(t *testing.T) {
	ctx := context.Background()

	t.Run("Staff skips KYC", func(t *testing.T) {
		userRepo, _, svc := newUserFixture()
		stationID := int32(3)
		userRepo.On("GetByEmail", ctx, "staff@test.com").Return(nil, domain.NotFoundError("user"))
		userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

		user, err := svc.CreateStaff(ctx, "staff@test.com", "s3cret-pass", "Station Staff", "0900000002", &stationID)
		assert.NoError(t, err)
		assert.Equal(t, domain.RoleStaff, user.Role)
		assert.True(t, user.IsVerified)
		assert.Equal(t, stationID, *user.StationID)
	})

	t.Run("Duplicate email refused", func(t *testing.T) {
		userRepo, _, svc := newUserFixture()
		userRepo.On("GetByEmail", ctx, "staff@test.com").Return(&domain.User{ID: 20}, nil)

		_, err := svc.CreateStaff(ctx, "staff@test.com", "s3cret-pass", "Station Staff", "", nil)
		assert.ErrorIs(t, err, domain.ErrStateConflict)
	})
}

func TestUserService_SetRisky(t *testing.T) {
	ctx := context.Background()

	userRepo, _, svc := newUserFixture()
	renter := kycCompleteRenter()
	userRepo.On("GetByID", ctx, int32(1)).Return(renter, nil)
	userRepo.On("Update", ctx, renter).Return(nil)

	assert.NoError(t, svc.SetRisky(ctx, 1, true))
	assert.True(t, renter.Risky)
}
