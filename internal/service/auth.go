package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"evstation-backend/internal/domain"
	"evstation-backend/internal/logger"
	"evstation-backend/internal/repository"
	"evstation-backend/internal/security"
)

type authService struct {
	userRepo repository.UserRepository
	tokens   security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, in *RegisterInput) (*domain.User, error) {
	switch {
	case in.Email == "" || in.Password == "" || in.FullName == "":
		return nil, domain.ValidationError("email, password and full name are required")
	case in.LicenseNumber == "" || in.NationalID == "":
		return nil, domain.ValidationError("license number and national id are required")
	case in.NationalIDImage == "" || in.DriverLicenseImage == "":
		return nil, domain.ValidationError("national id and driver license images are required")
	}
	if len(in.Password) < 8 {
		return nil, domain.ValidationError("password must be at least 8 characters")
	}

	if _, err := s.userRepo.GetByEmail(ctx, in.Email); err == nil {
		return nil, domain.ConflictError("email %s is already registered", in.Email)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:              in.Email,
		PasswordHash:       string(hash),
		FullName:           in.FullName,
		Phone:              in.Phone,
		DOB:                in.DOB,
		Address:            in.Address,
		NationalID:         in.NationalID,
		LicenseNumber:      in.LicenseNumber,
		NationalIDImage:    in.NationalIDImage,
		DriverLicenseImage: in.DriverLicenseImage,
		IsVerified:         false,
		Role:               domain.RoleRenter,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("User registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, string, *domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", "", nil, domain.PermissionError("invalid email or password")
		}
		return "", "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", nil, domain.PermissionError("invalid email or password")
	}

	access, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return "", "", nil, err
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return "", "", nil, err
	}

	logger.Info("User logged in", "user_id", user.ID, "role", user.Role)
	return access, refresh, user, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil {
		return "", domain.PermissionError("invalid refresh token")
	}
	if claims.Type != security.TokenTypeRefresh {
		return "", domain.PermissionError("not a refresh token")
	}

	// The refresh token carries no role claim; read the current one so a
	// role change takes effect on the next refresh.
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return "", err
	}
	return s.tokens.GenerateAccessToken(user.ID, user.Email, user.Role)
}
