package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"evstation-backend/internal/domain"
	"evstation-backend/internal/repository"
)

func newReportFixture() (*MockReportRepo, *MockVehicleRepo, ReportService) {
	reportRepo := new(MockReportRepo)
	vehicleRepo := new(MockVehicleRepo)
	return reportRepo, vehicleRepo, NewReportService(reportRepo, vehicleRepo)
}

func TestReportService_Utilization(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	timeAt := func(h int) *time.Time {
		ts := start.Add(time.Duration(h) * time.Hour)
		return &ts
	}

	t.Run("Rented hours clamped to the window", func(t *testing.T) {
		reportRepo, vehicleRepo, svc := newReportFixture()
		before := start.Add(-2 * time.Hour)
		reportRepo.On("RentalWindows", ctx, start, end, (*int32)(nil)).Return([]repository.RentalWindow{
			// 8h fully inside the window.
			{CheckoutTime: timeAt(8), CheckinTime: timeAt(16), Status: domain.RentalStatusCompleted},
			// Started before the window; only the 4 in-window hours count.
			{CheckoutTime: &before, CheckinTime: timeAt(4), Status: domain.RentalStatusCompleted},
			// Never checked out; contributes nothing.
			{Status: domain.RentalStatusCancelled},
		}, nil)
		vehicleRepo.On("Count", ctx, (*int32)(nil)).Return(int32(4), nil)

		report, err := svc.Utilization(ctx, start, end, nil)
		assert.NoError(t, err)
		assert.Equal(t, 24.0, report.WindowHours)
		assert.Equal(t, int32(4), report.VehicleCount)
		assert.Equal(t, 12.0, report.RentedHours)
		// 12 rented hours over 4 vehicles * 24 hours.
		assert.Equal(t, 12.5, report.UtilizationPct)
	})

	t.Run("Ongoing rental in a past window bills to the window end", func(t *testing.T) {
		reportRepo, vehicleRepo, svc := newReportFixture()
		reportRepo.On("RentalWindows", ctx, start, end, (*int32)(nil)).Return([]repository.RentalWindow{
			{CheckoutTime: timeAt(20), Status: domain.RentalStatusOngoing},
		}, nil)
		vehicleRepo.On("Count", ctx, (*int32)(nil)).Return(int32(1), nil)

		report, err := svc.Utilization(ctx, start, end, nil)
		assert.NoError(t, err)
		assert.Equal(t, 4.0, report.RentedHours)
	})

	t.Run("Empty fleet yields zero percent", func(t *testing.T) {
		reportRepo, vehicleRepo, svc := newReportFixture()
		reportRepo.On("RentalWindows", ctx, start, end, (*int32)(nil)).Return([]repository.RentalWindow{}, nil)
		vehicleRepo.On("Count", ctx, (*int32)(nil)).Return(int32(0), nil)

		report, err := svc.Utilization(ctx, start, end, nil)
		assert.NoError(t, err)
		assert.Equal(t, 0.0, report.UtilizationPct)
	})

	t.Run("Inverted window rejected", func(t *testing.T) {
		_, _, svc := newReportFixture()
		_, err := svc.Utilization(ctx, end, start, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestReportService_RevenueByStation(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(30 * 24 * time.Hour)

	reportRepo, _, svc := newReportFixture()
	reportRepo.On("RevenueByStation", ctx, start, end).Return([]repository.StationRevenue{
		{StationID: 1, StationName: "District 1 Hub", Revenue: 4500000, Rentals: 30},
	}, nil)

	rows, err := svc.RevenueByStation(ctx, start, end)
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, 4500000.0, rows[0].Revenue)
}

func TestReportService_RenterAnalytics(t *testing.T) {
	ctx := context.Background()

	reportRepo, _, svc := newReportFixture()
	reportRepo.On("RenterSummary", ctx, int32(1)).Return(&repository.RenterSummary{
		Trips: 12, TotalSpent: 1800000, TotalDistanceKm: 240,
	}, nil)
	reportRepo.On("RenterPeakHours", ctx, int32(1)).Return([]repository.HourCount{
		{Hour: 8, Count: 5}, {Hour: 18, Count: 4},
	}, nil)

	analytics, err := svc.RenterAnalytics(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, int32(12), analytics.Trips)
	assert.Len(t, analytics.PeakHours, 2)
}
