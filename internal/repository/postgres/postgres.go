package postgres

import (
	"database/sql"

	"evstation-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.StationRepository
	repository.VehicleRepository
	repository.RentalRepository
	repository.ReportRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                db,
		UserRepository:    NewUserRepository(db),
		StationRepository: NewStationRepository(db),
		VehicleRepository: NewVehicleRepository(db),
		RentalRepository:  NewRentalRepository(db),
		ReportRepository:  NewReportRepository(db),
	}
}
