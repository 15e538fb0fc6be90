package repository

import (
	"context"
	"errors"
	"time"

	"evstation-backend/internal/domain"
)

// ErrDuplicateOrderCode signals an order code collision on insert; callers
// regenerate the code and retry.
var ErrDuplicateOrderCode = errors.New("duplicate order code")

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int32, role domain.Role) error
	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
	ListPendingVerification(ctx context.Context) ([]domain.User, error)
}

type StationRepository interface {
	Create(ctx context.Context, station *domain.Station) error
	GetByID(ctx context.Context, id int32) (*domain.Station, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Station, error)
	Update(ctx context.Context, station *domain.Station) error
	Delete(ctx context.Context, id int32) error
}

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *domain.Vehicle) error
	GetByID(ctx context.Context, id int32) (*domain.Vehicle, error)
	Update(ctx context.Context, vehicle *domain.Vehicle) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, stationID *int32) ([]domain.Vehicle, error)
	ListByStatus(ctx context.Context, status domain.VehicleStatus, stationID *int32) ([]domain.Vehicle, error)
	CountByStation(ctx context.Context, stationID int32) (int32, error)
	Count(ctx context.Context, stationID *int32) (int32, error)

	// UpdateStatus flips vehicle status only when the current status is one
	// of from; reports domain.ErrStateConflict otherwise. Single round trip.
	UpdateStatus(ctx context.Context, id int32, from []domain.VehicleStatus, to domain.VehicleStatus) error
}

type RentalRepository interface {
	// CreateHold inserts the rental inside a transaction that locks the
	// vehicle row, asserts its status is one of allowed, and asserts no
	// other active rental references the vehicle. The vehicle status itself
	// is left untouched (soft hold until payment confirmation).
	CreateHold(ctx context.Context, rental *domain.Rental, allowed []domain.VehicleStatus) error

	GetByID(ctx context.Context, id int32) (*domain.Rental, error)
	GetByOrderCode(ctx context.Context, orderCode int64) (*domain.Rental, error)

	// Update persists mutable rental fields. The order code is never part
	// of the UPDATE statement.
	Update(ctx context.Context, rental *domain.Rental) error

	// UpdateWithVehicle writes the rental and the vehicle status change in
	// one transaction. vehicleStationID, when non-nil, also moves the
	// vehicle (checkin at the dropoff station).
	UpdateWithVehicle(ctx context.Context, rental *domain.Rental, vehicleStatus domain.VehicleStatus, vehicleStationID *int32) error

	ListByRenter(ctx context.Context, renterID int32) ([]domain.Rental, error)
	List(ctx context.Context, status string, page, pageSize int32) ([]domain.Rental, int32, error)
	ExistsActiveByVehicle(ctx context.Context, vehicleID int32) (bool, error)
	ListPendingPayment(ctx context.Context, olderThan time.Time) ([]domain.Rental, error)
	ListOverdue(ctx context.Context, now time.Time) ([]domain.Rental, error)
}

// StationRevenue is one row of the revenue-by-station report.
type StationRevenue struct {
	StationID   int32   `json:"station_id"`
	StationName string  `json:"station_name"`
	Revenue     float64 `json:"revenue"`
	Rentals     int32   `json:"rentals"`
}

// HourCount is one bucket of the peak-hours histogram.
type HourCount struct {
	Hour  int32 `json:"hour"`
	Count int32 `json:"count"`
}

// RentalWindow is the slice of a rental needed for utilization math.
type RentalWindow struct {
	CheckoutTime *time.Time
	CheckinTime  *time.Time
	Status       domain.RentalStatus
}

// RenterSummary aggregates a renter's history.
type RenterSummary struct {
	Trips           int32   `json:"trips"`
	TotalSpent      float64 `json:"total_spent"`
	TotalDistanceKm float64 `json:"total_distance_km"`
}

type ReportRepository interface {
	RevenueByStation(ctx context.Context, start, end time.Time) ([]StationRevenue, error)
	RentalWindows(ctx context.Context, start, end time.Time, stationID *int32) ([]RentalWindow, error)
	PeakHours(ctx context.Context, start, end time.Time) ([]HourCount, error)
	RenterSummary(ctx context.Context, renterID int32) (*RenterSummary, error)
	RenterPeakHours(ctx context.Context, renterID int32) ([]HourCount, error)
}
