package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"evstation-backend/internal/domain"
	"evstation-backend/internal/repository"
)

type stationRepository struct {
	db *sql.DB
}

func NewStationRepository(db *sql.DB) repository.StationRepository {
	return &stationRepository{db: db}
}

const stationColumns = `id, name, address, longitude, latitude, phone, capacity, active, created_on, updated_on`

func scanStation(row interface{ Scan(...any) error }) (*domain.Station, error) {
	s := &domain.Station{}
	var phone sql.NullString
	err := row.Scan(&s.ID, &s.Name, &s.Address, &s.Longitude, &s.Latitude,
		&phone, &s.Capacity, &s.Active, &s.CreatedOn, &s.UpdatedOn)
	if err != nil {
		return nil, err
	}
	s.Phone = phone.String
	return s, nil
}

func (r *stationRepository) Create(ctx context.Context, s *domain.Station) error {
	query := `INSERT INTO stations (name, address, longitude, latitude, phone, capacity, active, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	return r.db.QueryRowContext(ctx, query, s.Name, s.Address, s.Longitude, s.Latitude,
		nullStr(s.Phone), s.Capacity, s.Active, time.Now(), time.Now()).Scan(&s.ID)
}

func (r *stationRepository) GetByID(ctx context.Context, id int32) (*domain.Station, error) {
	s, err := scanStation(r.db.QueryRowContext(ctx, `SELECT `+stationColumns+` FROM stations WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundError("station")
	}
	return s, err
}

func (r *stationRepository) List(ctx context.Context, activeOnly bool) ([]domain.Station, error) {
	query := `SELECT ` + stationColumns + ` FROM stations`
	if activeOnly {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []domain.Station
	for rows.Next() {
		s, err := scanStation(rows)
		if err != nil {
			return nil, err
		}
		stations = append(stations, *s)
	}
	return stations, rows.Err()
}

func (r *stationRepository) Update(ctx context.Context, s *domain.Station) error {
	query := `UPDATE stations SET name=$1, address=$2, longitude=$3, latitude=$4,
	            phone=$5, capacity=$6, active=$7, updated_on=$8 WHERE id=$9`
	res, err := r.db.ExecContext(ctx, query, s.Name, s.Address, s.Longitude, s.Latitude,
		nullStr(s.Phone), s.Capacity, s.Active, time.Now(), s.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError("station")
	}
	return nil
}

func (r *stationRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM stations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError("station")
	}
	return nil
}
