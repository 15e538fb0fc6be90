package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"evstation-backend/internal/domain"
	"evstation-backend/internal/security"
)

func newAuthFixture() (*MockUserRepo, security.TokenManager, AuthService) {
	userRepo := new(MockUserRepo)
	tokens := security.NewTokenManager("unit-test-signing-secret-0123456789abcdef", 15, 60*24*7)
	return userRepo, tokens, NewAuthService(userRepo, tokens)
}

func validRegisterInput() *RegisterInput {
	return &RegisterInput{
		Email:              "new@test.com",
		Password:           "s3cret-pass",
		FullName:           "New Renter",
		Phone:              "0900000001",
		NationalID:         "079123456789",
		LicenseNumber:      "B2-123456",
		NationalIDImage:    "kyc/new/national-id.jpg",
		DriverLicenseImage: "kyc/new/license.jpg",
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("New renter starts unverified", func(t *testing.T) {
		userRepo, _, svc := newAuthFixture()
		userRepo.On("GetByEmail", ctx, "new@test.com").Return(nil, domain.NotFoundError("user"))
		userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

		user, err := svc.Register(ctx, validRegisterInput())
		assert.NoError(t, err)
		assert.Equal(t, domain.RoleRenter, user.Role)
		assert.False(t, user.IsVerified)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass")))
	})

	t.Run("Duplicate email refused", func(t *testing.T) {
		userRepo, _, svc := newAuthFixture()
		userRepo.On("GetByEmail", ctx, "new@test.com").Return(&domain.User{ID: 1, Email: "new@test.com"}, nil)

		_, err := svc.Register(ctx, validRegisterInput())
		assert.ErrorIs(t, err, domain.ErrStateConflict)
		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Short password refused", func(t *testing.T) {
		userRepo, _, svc := newAuthFixture()
		in := validRegisterInput()
		in.Password = "short"

		_, err := svc.Register(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		userRepo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	})

	t.Run("Missing document image refused", func(t *testing.T) {
		_, _, svc := newAuthFixture()
		in := validRegisterInput()
		in.DriverLicenseImage = ""

		_, err := svc.Register(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	user := &domain.User{ID: 1, Email: "renter@test.com", PasswordHash: string(hash), Role: domain.RoleRenter}

	t.Run("Valid credentials issue both tokens", func(t *testing.T) {
		userRepo, tokens, svc := newAuthFixture()
		userRepo.On("GetByEmail", ctx, "renter@test.com").Return(user, nil)

		access, refresh, got, err := svc.Login(ctx, "renter@test.com", "s3cret-pass")
		assert.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		claims, err := tokens.ValidateToken(access)
		assert.NoError(t, err)
		assert.Equal(t, security.TokenTypeAccess, claims.Type)
		assert.Equal(t, domain.RoleRenter, claims.Role)

		claims, err = tokens.ValidateToken(refresh)
		assert.NoError(t, err)
		assert.Equal(t, security.TokenTypeRefresh, claims.Type)
	})

	t.Run("Wrong password and unknown email fail the same way", func(t *testing.T) {
		userRepo, _, svc := newAuthFixture()
		userRepo.On("GetByEmail", ctx, "renter@test.com").Return(user, nil)
		userRepo.On("GetByEmail", ctx, "ghost@test.com").Return(nil, domain.NotFoundError("user"))

		_, _, _, err := svc.Login(ctx, "renter@test.com", "wrong")
		assert.ErrorIs(t, err, domain.ErrPermissionDenied)

		_, _, _, err2 := svc.Login(ctx, "ghost@test.com", "s3cret-pass")
		assert.ErrorIs(t, err2, domain.ErrPermissionDenied)
		assert.Equal(t, err.Error(), err2.Error())
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("Refresh token picks up the current role", func(t *testing.T) {
		userRepo, tokens, svc := newAuthFixture()
		refresh, err := tokens.GenerateRefreshToken(1, "renter@test.com")
		assert.NoError(t, err)

		// Promoted since the refresh token was issued.
		userRepo.On("GetByID", ctx, int32(1)).Return(&domain.User{
			ID: 1, Email: "renter@test.com", Role: domain.RoleStaff,
		}, nil)

		access, err := svc.Refresh(ctx, refresh)
		assert.NoError(t, err)

		claims, err := tokens.ValidateToken(access)
		assert.NoError(t, err)
		assert.Equal(t, domain.RoleStaff, claims.Role)
	})

	t.Run("Access token cannot be used to refresh", func(t *testing.T) {
		userRepo, tokens, svc := newAuthFixture()
		access, err := tokens.GenerateAccessToken(1, "renter@test.com", domain.RoleRenter)
		assert.NoError(t, err)

		_, err = svc.Refresh(ctx, access)
		assert.ErrorIs(t, err, domain.ErrPermissionDenied)
		userRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("Garbage token rejected", func(t *testing.T) {
		_, _, svc := newAuthFixture()
		_, err := svc.Refresh(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	})
}
