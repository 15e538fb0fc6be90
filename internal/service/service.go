package service

import (
	"context"
	"time"

	"evstation-backend/internal/domain"
	"evstation-backend/internal/payment"
	"evstation-backend/internal/repository"
)

// RegisterInput carries everything a renter signup needs, including the KYC
// documents collected up front.
type RegisterInput struct {
	Email              string
	Password           string
	FullName           string
	Phone              string
	DOB                string
	Address            string
	NationalID         string
	LicenseNumber      string
	NationalIDImage    string
	DriverLicenseImage string
}

type AuthService interface {
	Register(ctx context.Context, in *RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, string, *domain.User, error) // access, refresh, user
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

// ProfileUpdate holds the fields a renter may edit. Document fields are
// locked once the account is verified.
type ProfileUpdate struct {
	FullName           string
	Phone              string
	DOB                string
	Address            string
	NationalID         string
	LicenseNumber      string
	NationalIDImage    string
	DriverLicenseImage string
}

type UserService interface {
	GetProfile(ctx context.Context, userID int32) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int32, upd *ProfileUpdate) (*domain.User, error)
	ListPendingVerification(ctx context.Context) ([]domain.User, error)
	VerifyUser(ctx context.Context, userID int32, approve bool, note string) (*domain.User, error)
	SetRisky(ctx context.Context, userID int32, risky bool) error
	ListRenters(ctx context.Context) ([]domain.User, error)
	CreateStaff(ctx context.Context, email, password, fullName, phone string, stationID *int32) (*domain.User, error)
}

// StationDistance is a station annotated with its distance from a search
// point.
type StationDistance struct {
	domain.Station
	DistanceKm float64 `json:"distance_km"`
}

type StationService interface {
	Create(ctx context.Context, st *domain.Station) error
	Get(ctx context.Context, id int32) (*domain.Station, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Station, error)
	Update(ctx context.Context, st *domain.Station) error
	Delete(ctx context.Context, id int32) error
	Nearby(ctx context.Context, longitude, latitude, radiusKm float64) ([]StationDistance, error)
}

// VehicleStatusUpdate is the staff maintenance update. Nil pointers leave
// the field unchanged.
type VehicleStatusUpdate struct {
	Status           *domain.VehicleStatus
	StateOfChargePct *int32
	OdometerKm       *float64
	Notes            []string
}

type VehicleService interface {
	Create(ctx context.Context, v *domain.Vehicle) error
	Get(ctx context.Context, id int32) (*domain.Vehicle, error)
	List(ctx context.Context, stationID *int32) ([]domain.Vehicle, error)
	ListAvailable(ctx context.Context, stationID *int32) ([]domain.Vehicle, error)
	Update(ctx context.Context, v *domain.Vehicle) error
	Delete(ctx context.Context, id int32) error
	StaffStatusUpdate(ctx context.Context, id int32, upd *VehicleStatusUpdate) (*domain.Vehicle, error)
}

// ReservationInput is the renter's booking request.
type ReservationInput struct {
	VehicleID       int32
	PickupStationID int32
	ReturnStationID *int32
	Mode            domain.RentalMode
	PickupDate      string
	ReturnDate      string
	PickupTime      string
	ReturnTime      string
	DepositAmount   float64
	FullName        string
	Phone           string
	Email           string
	Note            string
}

// CheckoutInput starts a rental at the counter. RentalID set: hand over a
// reserved booking. RentalID nil: walk-in, a new rental is created on the
// spot for VehicleID/RenterID at StationID.
type CheckoutInput struct {
	RentalID  *int32
	VehicleID int32
	RenterID  int32
	StationID int32
	Condition *domain.ConditionSnapshot
}

type CheckinInput struct {
	RentalID         int32
	DropoffStationID int32
	DistanceKm       float64
	Condition        *domain.ConditionSnapshot
}

type RentalService interface {
	CreateReservation(ctx context.Context, renterID int32, in *ReservationInput) (*domain.Rental, error)
	GetRental(ctx context.Context, callerID int32, role domain.Role, rentalID int32) (*domain.Rental, error)
	ListMyRentals(ctx context.Context, renterID int32) ([]domain.Rental, error)
	ListRentals(ctx context.Context, status string, page, pageSize int32) ([]domain.Rental, int32, error)
	Checkout(ctx context.Context, staffID int32, in *CheckoutInput) (*domain.Rental, error)
	Checkin(ctx context.Context, staffID int32, in *CheckinInput) (*domain.Rental, error)
}

// PaymentStatusView is the status-poll response.
type PaymentStatusView struct {
	OrderCode     int64                `json:"order_code"`
	PaymentStatus domain.PaymentStatus `json:"payment_status"`
	RentalStatus  domain.RentalStatus  `json:"rental_status"`
	GatewayStatus string               `json:"gateway_status,omitempty"`
}

type PaymentService interface {
	CreatePaymentLink(ctx context.Context, callerID int32, rentalID int32) (*domain.Rental, *payment.PaymentLink, error)
	HandleWebhook(ctx context.Context, raw []byte) error
	CheckStatus(ctx context.Context, orderCode int64) (*PaymentStatusView, error)
	Cancel(ctx context.Context, callerID int32, role domain.Role, rentalID int32, reason string) (*domain.Rental, error)
}

// Contract is the rendered e-contract for a rental.
type Contract struct {
	ContractNumber   string                    `json:"contract_number"`
	Status           domain.RentalStatus       `json:"status"`
	RenterName       string                    `json:"renter_name"`
	RenterEmail      string                    `json:"renter_email"`
	RenterPhone      string                    `json:"renter_phone"`
	VehicleName      string                    `json:"vehicle_name"`
	LicensePlate     string                    `json:"license_plate"`
	StationName      string                    `json:"station_name"`
	PickupAt         string                    `json:"pickup_at"`
	ReturnAt         string                    `json:"return_at"`
	Duration         string                    `json:"duration"`
	UnitPrice        float64                   `json:"unit_price"`
	TotalAmount      float64                   `json:"total_amount"`
	DepositAmount    float64                   `json:"deposit_amount"`
	Terms            []string                  `json:"terms"`
	Responsibilities []string                  `json:"responsibilities"`
	Penalties        []string                  `json:"penalties"`
	Signature        *domain.ContractSignature `json:"signature,omitempty"`
}

// SignResult reports the outcome of a signing attempt. AlreadySigned means
// the stored signature was returned untouched.
type SignResult struct {
	Signature     *domain.ContractSignature `json:"signature"`
	AlreadySigned bool                      `json:"already_signed"`
}

type ContractService interface {
	Get(ctx context.Context, callerID int32, role domain.Role, rentalID int32) (*Contract, error)
	Sign(ctx context.Context, callerID int32, rentalID int32, data, ipAddress, userAgent string) (*SignResult, error)
	Cancel(ctx context.Context, callerID int32, rentalID int32) (*domain.Rental, error)
}

// UtilizationReport is fleet usage over a window.
type UtilizationReport struct {
	WindowHours    float64 `json:"window_hours"`
	VehicleCount   int32   `json:"vehicle_count"`
	RentedHours    float64 `json:"rented_hours"`
	UtilizationPct float64 `json:"utilization_pct"`
}

// RenterAnalytics is a renter's self-service usage report.
type RenterAnalytics struct {
	repository.RenterSummary
	PeakHours []repository.HourCount `json:"peak_hours"`
}

type ReportService interface {
	RevenueByStation(ctx context.Context, start, end time.Time) ([]repository.StationRevenue, error)
	Utilization(ctx context.Context, start, end time.Time, stationID *int32) (*UtilizationReport, error)
	PeakHours(ctx context.Context, start, end time.Time) ([]repository.HourCount, error)
	RenterAnalytics(ctx context.Context, renterID int32) (*RenterAnalytics, error)
}

type AssistantService interface {
	Chat(ctx context.Context, userID int32, message string) (string, error)
}

type EmailService interface {
	SendVerificationResult(ctx context.Context, email, name string, approved bool, note string) error
	SendReservationConfirmation(ctx context.Context, email, name, vehicleName, pickupDate, pickupTime string) error
	SendPaymentReceipt(ctx context.Context, email, name string, orderCode int64, amount float64) error
	SendCheckinReceipt(ctx context.Context, email, name, vehicleName string, totalAmount float64) error
	SendOverdueNotice(ctx context.Context, email, name, vehicleName, dueDate string) error
}
