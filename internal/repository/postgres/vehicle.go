package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"evstation-backend/internal/domain"
	"evstation-backend/internal/repository"

	"github.com/lib/pq"
)

type vehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(db *sql.DB) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

const vehicleColumns = `id, name, brand, model, type, year, color, license_plate,
	price_per_hour, price_per_day, price_per_month, status, station_id,
	seating_capacity, range_km, battery_capacity_kwh, state_of_charge_pct,
	odometer_km, daily_distance_limit_km, features, description, notes,
	created_on, updated_on`

func scanVehicle(row interface{ Scan(...any) error }) (*domain.Vehicle, error) {
	v := &domain.Vehicle{}
	var description sql.NullString
	var rangeKm sql.NullInt32
	var batteryKWh sql.NullFloat64
	err := row.Scan(&v.ID, &v.Name, &v.Brand, &v.Model, &v.Type, &v.Year, &v.Color, &v.LicensePlate,
		&v.PricePerHour, &v.PricePerDay, &v.PricePerMonth, &v.Status, &v.StationID,
		&v.SeatingCapacity, &rangeKm, &batteryKWh, &v.StateOfChargePct,
		&v.OdometerKm, &v.DailyDistanceLimitKm, pq.Array(&v.Features), &description, pq.Array(&v.Notes),
		&v.CreatedOn, &v.UpdatedOn)
	if err != nil {
		return nil, err
	}
	v.RangeKm = rangeKm.Int32
	v.BatteryCapacityKWh = batteryKWh.Float64
	v.Description = description.String
	return v, nil
}

func (r *vehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	query := `INSERT INTO vehicles (name, brand, model, type, year, color, license_plate,
	            price_per_hour, price_per_day, price_per_month, status, station_id,
	            seating_capacity, range_km, battery_capacity_kwh, state_of_charge_pct,
	            odometer_km, daily_distance_limit_km, features, description, notes,
	            created_on, updated_on)
	          VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)
	          RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		v.Name, v.Brand, v.Model, v.Type, v.Year, v.Color, v.LicensePlate,
		v.PricePerHour, v.PricePerDay, v.PricePerMonth, v.Status, v.StationID,
		v.SeatingCapacity, v.RangeKm, v.BatteryCapacityKWh, v.StateOfChargePct,
		v.OdometerKm, v.DailyDistanceLimitKm, pq.Array(v.Features), nullStr(v.Description), pq.Array(v.Notes),
		time.Now(), time.Now()).Scan(&v.ID)
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int32) (*domain.Vehicle, error) {
	v, err := scanVehicle(r.db.QueryRowContext(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundError("vehicle")
	}
	return v, err
}

func (r *vehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	query := `UPDATE vehicles SET name=$1, brand=$2, model=$3, type=$4, year=$5, color=$6,
	            license_plate=$7, price_per_hour=$8, price_per_day=$9, price_per_month=$10,
	            status=$11, station_id=$12, seating_capacity=$13, range_km=$14,
	            battery_capacity_kwh=$15, state_of_charge_pct=$16, odometer_km=$17,
	            daily_distance_limit_km=$18, features=$19, description=$20, notes=$21, updated_on=$22
	          WHERE id=$23`
	res, err := r.db.ExecContext(ctx, query,
		v.Name, v.Brand, v.Model, v.Type, v.Year, v.Color,
		v.LicensePlate, v.PricePerHour, v.PricePerDay, v.PricePerMonth,
		v.Status, v.StationID, v.SeatingCapacity, v.RangeKm,
		v.BatteryCapacityKWh, v.StateOfChargePct, v.OdometerKm,
		v.DailyDistanceLimitKm, pq.Array(v.Features), nullStr(v.Description), pq.Array(v.Notes),
		time.Now(), v.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError("vehicle")
	}
	return nil
}

func (r *vehicleRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError("vehicle")
	}
	return nil
}

func (r *vehicleRepository) List(ctx context.Context, stationID *int32) ([]domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles`
	var args []any
	if stationID != nil {
		query += ` WHERE station_id = $1`
		args = append(args, *stationID)
	}
	query += ` ORDER BY id`
	return r.list(ctx, query, args...)
}

func (r *vehicleRepository) ListByStatus(ctx context.Context, status domain.VehicleStatus, stationID *int32) ([]domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE status = $1`
	args := []any{status}
	if stationID != nil {
		query += ` AND station_id = $2`
		args = append(args, *stationID)
	}
	query += ` ORDER BY id`
	return r.list(ctx, query, args...)
}

func (r *vehicleRepository) list(ctx context.Context, query string, args ...any) ([]domain.Vehicle, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, *v)
	}
	return vehicles, rows.Err()
}

func (r *vehicleRepository) CountByStation(ctx context.Context, stationID int32) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM vehicles WHERE station_id = $1`, stationID).Scan(&count)
	return count, err
}

func (r *vehicleRepository) Count(ctx context.Context, stationID *int32) (int32, error) {
	query := `SELECT count(*) FROM vehicles`
	var args []any
	if stationID != nil {
		query += ` WHERE station_id = $1`
		args = append(args, *stationID)
	}
	var count int32
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

// UpdateStatus is a conditional update: it asserts and mutates the status in
// one statement so concurrent lifecycle transitions cannot interleave.
func (r *vehicleRepository) UpdateStatus(ctx context.Context, id int32, from []domain.VehicleStatus, to domain.VehicleStatus) error {
	states := make([]string, len(from))
	for i, s := range from {
		states[i] = string(s)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE vehicles SET status = $1, updated_on = $2 WHERE id = $3 AND status = ANY($4)`,
		to, time.Now(), id, pq.Array(states))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ConflictError("vehicle %d is not in an eligible status for %s", id, to)
	}
	return nil
}
