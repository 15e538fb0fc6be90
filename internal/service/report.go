package service

import (
	"context"
	"time"

	"evstation-backend/internal/domain"
	"evstation-backend/internal/repository"
	"evstation-backend/internal/utils"
)

type reportService struct {
	reportRepo  repository.ReportRepository
	vehicleRepo repository.VehicleRepository
}

func NewReportService(reportRepo repository.ReportRepository, vehicleRepo repository.VehicleRepository) ReportService {
	return &reportService{reportRepo: reportRepo, vehicleRepo: vehicleRepo}
}

func (s *reportService) RevenueByStation(ctx context.Context, start, end time.Time) ([]repository.StationRevenue, error) {
	if !end.After(start) {
		return nil, domain.ValidationError("report window end must be after start")
	}
	return s.reportRepo.RevenueByStation(ctx, start, end)
}

// Utilization sums rented hours clamped to the window and divides by the
// fleet's capacity hours over the same window.
func (s *reportService) Utilization(ctx context.Context, start, end time.Time, stationID *int32) (*UtilizationReport, error) {
	if !end.After(start) {
		return nil, domain.ValidationError("report window end must be after start")
	}

	windows, err := s.reportRepo.RentalWindows(ctx, start, end, stationID)
	if err != nil {
		return nil, err
	}
	vehicles, err := s.vehicleRepo.Count(ctx, stationID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var rentedHours float64
	for _, w := range windows {
		if w.CheckoutTime == nil {
			continue
		}
		from := *w.CheckoutTime
		if from.Before(start) {
			from = start
		}
		to := end
		switch {
		case w.CheckinTime != nil:
			to = *w.CheckinTime
		case w.Status == domain.RentalStatusOngoing && now.Before(end):
			to = now
		}
		if to.After(end) {
			to = end
		}
		if to.After(from) {
			rentedHours += to.Sub(from).Hours()
		}
	}

	windowHours := end.Sub(start).Hours()
	report := &UtilizationReport{
		WindowHours:  utils.Round2(windowHours),
		VehicleCount: vehicles,
		RentedHours:  utils.Round2(rentedHours),
	}
	if vehicles > 0 && windowHours > 0 {
		report.UtilizationPct = utils.Round2(rentedHours / (float64(vehicles) * windowHours) * 100)
	}
	return report, nil
}

func (s *reportService) PeakHours(ctx context.Context, start, end time.Time) ([]repository.HourCount, error) {
	if !end.After(start) {
		return nil, domain.ValidationError("report window end must be after start")
	}
	return s.reportRepo.PeakHours(ctx, start, end)
}

func (s *reportService) RenterAnalytics(ctx context.Context, renterID int32) (*RenterAnalytics, error) {
	summary, err := s.reportRepo.RenterSummary(ctx, renterID)
	if err != nil {
		return nil, err
	}
	hours, err := s.reportRepo.RenterPeakHours(ctx, renterID)
	if err != nil {
		return nil, err
	}
	return &RenterAnalytics{RenterSummary: *summary, PeakHours: hours}, nil
}
