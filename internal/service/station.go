package service

import (
	"context"
	"math"
	"sort"

	"evstation-backend/internal/domain"
	"evstation-backend/internal/repository"
)

type stationService struct {
	stationRepo repository.StationRepository
	vehicleRepo repository.VehicleRepository
}

func NewStationService(stationRepo repository.StationRepository, vehicleRepo repository.VehicleRepository) StationService {
	return &stationService{stationRepo: stationRepo, vehicleRepo: vehicleRepo}
}

func (s *stationService) Create(ctx context.Context, st *domain.Station) error {
	if st.Name == "" || st.Address == "" {
		return domain.ValidationError("station name and address are required")
	}
	st.Active = true
	return s.stationRepo.Create(ctx, st)
}

func (s *stationService) Get(ctx context.Context, id int32) (*domain.Station, error) {
	return s.stationRepo.GetByID(ctx, id)
}

func (s *stationService) List(ctx context.Context, activeOnly bool) ([]domain.Station, error) {
	return s.stationRepo.List(ctx, activeOnly)
}

func (s *stationService) Update(ctx context.Context, st *domain.Station) error {
	if st.Name == "" || st.Address == "" {
		return domain.ValidationError("station name and address are required")
	}
	return s.stationRepo.Update(ctx, st)
}

func (s *stationService) Delete(ctx context.Context, id int32) error {
	count, err := s.vehicleRepo.CountByStation(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ConflictError("station still has %d vehicles assigned", count)
	}
	return s.stationRepo.Delete(ctx, id)
}

func (s *stationService) Nearby(ctx context.Context, longitude, latitude, radiusKm float64) ([]StationDistance, error) {
	if radiusKm <= 0 {
		radiusKm = 10
	}
	stations, err := s.stationRepo.List(ctx, true)
	if err != nil {
		return nil, err
	}

	result := make([]StationDistance, 0, len(stations))
	for _, st := range stations {
		d := haversineKm(latitude, longitude, st.Latitude, st.Longitude)
		if d <= radiusKm {
			result = append(result, StationDistance{Station: st, DistanceKm: d})
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DistanceKm < result[j].DistanceKm })
	return result, nil
}

const earthRadiusKm = 6371.0

func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
