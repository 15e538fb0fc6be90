package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"evstation-backend/internal/domain"
	"evstation-backend/internal/payment"
	"evstation-backend/internal/repository"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) Delete(ctx context.Context, id int32, role domain.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}
func (m *MockUserRepo) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepo) ListPendingVerification(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

// MockStationRepo
type MockStationRepo struct {
	mock.Mock
}

func (m *MockStationRepo) Create(ctx context.Context, station *domain.Station) error {
	args := m.Called(ctx, station)
	return args.Error(0)
}
func (m *MockStationRepo) GetByID(ctx context.Context, id int32) (*domain.Station, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Station), args.Error(1)
}
func (m *MockStationRepo) List(ctx context.Context, activeOnly bool) ([]domain.Station, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]domain.Station), args.Error(1)
}
func (m *MockStationRepo) Update(ctx context.Context, station *domain.Station) error {
	args := m.Called(ctx, station)
	return args.Error(0)
}
func (m *MockStationRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockVehicleRepo
type MockVehicleRepo struct {
	mock.Mock
}

func (m *MockVehicleRepo) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}
func (m *MockVehicleRepo) GetByID(ctx context.Context, id int32) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepo) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}
func (m *MockVehicleRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockVehicleRepo) List(ctx context.Context, stationID *int32) ([]domain.Vehicle, error) {
	args := m.Called(ctx, stationID)
	return args.Get(0).([]domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepo) ListByStatus(ctx context.Context, status domain.VehicleStatus, stationID *int32) ([]domain.Vehicle, error) {
	args := m.Called(ctx, status, stationID)
	return args.Get(0).([]domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepo) CountByStation(ctx context.Context, stationID int32) (int32, error) {
	args := m.Called(ctx, stationID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockVehicleRepo) Count(ctx context.Context, stationID *int32) (int32, error) {
	args := m.Called(ctx, stationID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockVehicleRepo) UpdateStatus(ctx context.Context, id int32, from []domain.VehicleStatus, to domain.VehicleStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

// MockRentalRepo
type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) CreateHold(ctx context.Context, rental *domain.Rental, allowed []domain.VehicleStatus) error {
	args := m.Called(ctx, rental, allowed)
	return args.Error(0)
}
func (m *MockRentalRepo) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) GetByOrderCode(ctx context.Context, orderCode int64) (*domain.Rental, error) {
	args := m.Called(ctx, orderCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) Update(ctx context.Context, rental *domain.Rental) error {
	args := m.Called(ctx, rental)
	return args.Error(0)
}
func (m *MockRentalRepo) UpdateWithVehicle(ctx context.Context, rental *domain.Rental, vehicleStatus domain.VehicleStatus, vehicleStationID *int32) error {
	args := m.Called(ctx, rental, vehicleStatus, vehicleStationID)
	return args.Error(0)
}
func (m *MockRentalRepo) ListByRenter(ctx context.Context, renterID int32) ([]domain.Rental, error) {
	args := m.Called(ctx, renterID)
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) List(ctx context.Context, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, status, page, pageSize)
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalRepo) ExistsActiveByVehicle(ctx context.Context, vehicleID int32) (bool, error) {
	args := m.Called(ctx, vehicleID)
	return args.Bool(0), args.Error(1)
}
func (m *MockRentalRepo) ListPendingPayment(ctx context.Context, olderThan time.Time) ([]domain.Rental, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) ListOverdue(ctx context.Context, now time.Time) ([]domain.Rental, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]domain.Rental), args.Error(1)
}

// MockReportRepo
type MockReportRepo struct {
	mock.Mock
}

func (m *MockReportRepo) RevenueByStation(ctx context.Context, start, end time.Time) ([]repository.StationRevenue, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).([]repository.StationRevenue), args.Error(1)
}
func (m *MockReportRepo) RentalWindows(ctx context.Context, start, end time.Time, stationID *int32) ([]repository.RentalWindow, error) {
	args := m.Called(ctx, start, end, stationID)
	return args.Get(0).([]repository.RentalWindow), args.Error(1)
}
func (m *MockReportRepo) PeakHours(ctx context.Context, start, end time.Time) ([]repository.HourCount, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).([]repository.HourCount), args.Error(1)
}
func (m *MockReportRepo) RenterSummary(ctx context.Context, renterID int32) (*repository.RenterSummary, error) {
	args := m.Called(ctx, renterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.RenterSummary), args.Error(1)
}
func (m *MockReportRepo) RenterPeakHours(ctx context.Context, renterID int32) ([]repository.HourCount, error) {
	args := m.Called(ctx, renterID)
	return args.Get(0).([]repository.HourCount), args.Error(1)
}

// MockGateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreatePaymentLink(ctx context.Context, req *payment.CreateLinkRequest) (*payment.PaymentLink, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.PaymentLink), args.Error(1)
}
func (m *MockGateway) GetPaymentLink(ctx context.Context, orderCode int64) (*payment.PaymentLink, error) {
	args := m.Called(ctx, orderCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.PaymentLink), args.Error(1)
}
func (m *MockGateway) CancelPaymentLink(ctx context.Context, orderCode int64, reason string) error {
	args := m.Called(ctx, orderCode, reason)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendVerificationResult(ctx context.Context, email, name string, approved bool, note string) error {
	args := m.Called(ctx, email, name, approved, note)
	return args.Error(0)
}
func (m *MockEmailService) SendReservationConfirmation(ctx context.Context, email, name, vehicleName, pickupDate, pickupTime string) error {
	args := m.Called(ctx, email, name, vehicleName, pickupDate, pickupTime)
	return args.Error(0)
}
func (m *MockEmailService) SendPaymentReceipt(ctx context.Context, email, name string, orderCode int64, amount float64) error {
	args := m.Called(ctx, email, name, orderCode, amount)
	return args.Error(0)
}
func (m *MockEmailService) SendCheckinReceipt(ctx context.Context, email, name, vehicleName string, totalAmount float64) error {
	args := m.Called(ctx, email, name, vehicleName, totalAmount)
	return args.Error(0)
}
func (m *MockEmailService) SendOverdueNotice(ctx context.Context, email, name, vehicleName, dueDate string) error {
	args := m.Called(ctx, email, name, vehicleName, dueDate)
	return args.Error(0)
}

// MockModelClient
type MockModelClient struct {
	mock.Mock
}

func (m *MockModelClient) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}
