package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"evstation-backend/internal/domain"
	"evstation-backend/internal/logger"
	"evstation-backend/internal/repository"
)

type userService struct {
	userRepo repository.UserRepository
	emailSvc EmailService
}

func NewUserService(userRepo repository.UserRepository, emailSvc EmailService) UserService {
	return &userService{userRepo: userRepo, emailSvc: emailSvc}
}

func (s *userService) GetProfile(ctx context.Context, userID int32) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *userService) UpdateProfile(ctx context.Context, userID int32, upd *ProfileUpdate) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Document fields are frozen after verification; staff checked them
	// against the uploaded images.
	if user.IsVerified && documentsChanged(user, upd) {
		return nil, domain.ConflictError("verified profile documents cannot be changed")
	}

	if upd.FullName != "" {
		user.FullName = upd.FullName
	}
	if upd.Phone != "" {
		user.Phone = upd.Phone
	}
	if upd.DOB != "" {
		user.DOB = upd.DOB
	}
	if upd.Address != "" {
		user.Address = upd.Address
	}
	if !user.IsVerified {
		if upd.NationalID != "" {
			user.NationalID = upd.NationalID
		}
		if upd.LicenseNumber != "" {
			user.LicenseNumber = upd.LicenseNumber
		}
		if upd.NationalIDImage != "" {
			user.NationalIDImage = upd.NationalIDImage
		}
		if upd.DriverLicenseImage != "" {
			user.DriverLicenseImage = upd.DriverLicenseImage
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func documentsChanged(user *domain.User, upd *ProfileUpdate) bool {
	return (upd.NationalID != "" && upd.NationalID != user.NationalID) ||
		(upd.LicenseNumber != "" && upd.LicenseNumber != user.LicenseNumber) ||
		(upd.NationalIDImage != "" && upd.NationalIDImage != user.NationalIDImage) ||
		(upd.DriverLicenseImage != "" && upd.DriverLicenseImage != user.DriverLicenseImage)
}

func (s *userService) ListPendingVerification(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.ListPendingVerification(ctx)
}

func (s *userService) VerifyUser(ctx context.Context, userID int32, approve bool, note string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RoleRenter {
		return nil, domain.ValidationError("only renter accounts are verified")
	}

	if approve {
		if !user.KYCComplete() {
			return nil, domain.ValidationError("profile is missing phone, document numbers or images")
		}
		user.IsVerified = true
	} else {
		user.IsVerified = false
	}
	user.VerifyNote = note

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if err := s.emailSvc.SendVerificationResult(ctx, user.Email, user.FullName, approve, note); err != nil {
		logger.Warn("Failed to send verification email", "user_id", user.ID, "error", err)
	}
	logger.Info("User verification updated", "user_id", user.ID, "approved", approve)
	return user, nil
}

func (s *userService) SetRisky(ctx context.Context, userID int32, risky bool) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.Risky = risky
	return s.userRepo.Update(ctx, user)
}

func (s *userService) ListRenters(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.ListByRole(ctx, domain.RoleRenter)
}

func (s *userService) CreateStaff(ctx context.Context, email, password, fullName, phone string, stationID *int32) (*domain.User, error) {
	if email == "" || password == "" || fullName == "" {
		return nil, domain.ValidationError("email, password and full name are required")
	}
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, domain.ConflictError("email %s is already registered", email)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		Phone:        phone,
		Role:         domain.RoleStaff,
		StationID:    stationID,
		// Staff accounts skip KYC.
		IsVerified: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	logger.Info("Staff account created", "user_id", user.ID, "station_id", stationID)
	return user, nil
}
