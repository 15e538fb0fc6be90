package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"evstation-backend/internal/domain"
	"evstation-backend/internal/repository"
)

type reportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) repository.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) RevenueByStation(ctx context.Context, start, end time.Time) ([]repository.StationRevenue, error) {
	query := `SELECT s.id, s.name, COALESCE(SUM(rt.total_amount), 0), COUNT(rt.id)
	          FROM rentals rt
	          JOIN stations s ON s.id = COALESCE(rt.return_station_id, rt.pickup_station_id)
	          WHERE rt.checkin_time BETWEEN $1 AND $2
	          GROUP BY s.id, s.name
	          ORDER BY 3 DESC`
	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.StationRevenue
	for rows.Next() {
		var sr repository.StationRevenue
		if err := rows.Scan(&sr.StationID, &sr.StationName, &sr.Revenue, &sr.Rentals); err != nil {
			return nil, err
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}

func (r *reportRepository) RentalWindows(ctx context.Context, start, end time.Time, stationID *int32) ([]repository.RentalWindow, error) {
	query := `SELECT checkout_time, checkin_time, status FROM rentals
	          WHERE ((checkout_time <= $2 AND checkin_time >= $1) OR status IN ($3, $4))`
	args := []any{start, end, domain.RentalStatusReserved, domain.RentalStatusOngoing}
	if stationID != nil {
		query += ` AND pickup_station_id = $5`
		args = append(args, *stationID)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.RentalWindow
	for rows.Next() {
		var w repository.RentalWindow
		if err := rows.Scan(&w.CheckoutTime, &w.CheckinTime, &w.Status); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *reportRepository) PeakHours(ctx context.Context, start, end time.Time) ([]repository.HourCount, error) {
	query := `SELECT EXTRACT(HOUR FROM checkout_time)::int, COUNT(*)
	          FROM rentals
	          WHERE checkout_time BETWEEN $1 AND $2
	          GROUP BY 1 ORDER BY 1`
	return r.hourCounts(ctx, query, start, end)
}

func (r *reportRepository) RenterSummary(ctx context.Context, renterID int32) (*repository.RenterSummary, error) {
	s := &repository.RenterSummary{}
	query := `SELECT COUNT(*), COALESCE(SUM(total_amount), 0), COALESCE(SUM(distance_km), 0)
	          FROM rentals WHERE renter_id = $1`
	err := r.db.QueryRowContext(ctx, query, renterID).Scan(&s.Trips, &s.TotalSpent, &s.TotalDistanceKm)
	if errors.Is(err, sql.ErrNoRows) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *reportRepository) RenterPeakHours(ctx context.Context, renterID int32) ([]repository.HourCount, error) {
	query := `SELECT EXTRACT(HOUR FROM checkout_time)::int, COUNT(*)
	          FROM rentals
	          WHERE renter_id = $1 AND checkout_time IS NOT NULL
	          GROUP BY 1 ORDER BY 1`
	return r.hourCounts(ctx, query, renterID)
}

func (r *reportRepository) hourCounts(ctx context.Context, query string, args ...any) ([]repository.HourCount, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.HourCount
	for rows.Next() {
		var hc repository.HourCount
		if err := rows.Scan(&hc.Hour, &hc.Count); err != nil {
			return nil, err
		}
		out = append(out, hc)
	}
	return out, rows.Err()
}
