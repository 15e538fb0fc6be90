package http

import "evstation-backend/internal/domain"

// vehicleView is the catalog wire shape. Older clients still read
// plateNumber and seats; both spellings are emitted here and nowhere else.
type vehicleView struct {
	ID           int32  `json:"id"`
	Name         string `json:"name"`
	Brand        string `json:"brand,omitempty"`
	Model        string `json:"model,omitempty"`
	Type         string `json:"type,omitempty"`
	Year         int32  `json:"year,omitempty"`
	Color        string `json:"color,omitempty"`
	LicensePlate string `json:"licensePlate"`
	PlateNumber  string `json:"plateNumber"`

	PricePerHour  float64 `json:"pricePerHour"`
	PricePerDay   float64 `json:"pricePerDay"`
	PricePerMonth float64 `json:"pricePerMonth,omitempty"`

	Status    domain.VehicleStatus `json:"status"`
	StationID *int32               `json:"stationId,omitempty"`

	SeatingCapacity      int32    `json:"seatingCapacity"`
	Seats                int32    `json:"seats"`
	RangeKm              int32    `json:"rangeKm,omitempty"`
	BatteryCapacityKWh   float64  `json:"batteryCapacityKwh,omitempty"`
	StateOfChargePct     int32    `json:"stateOfChargePct"`
	OdometerKm           float64  `json:"odometerKm"`
	DailyDistanceLimitKm int32    `json:"dailyDistanceLimitKm,omitempty"`
	Features             []string `json:"features,omitempty"`
	Description          string   `json:"description,omitempty"`
	Notes                []string `json:"notes,omitempty"`

	CreatedOn string `json:"createdOn,omitempty"`
	UpdatedOn string `json:"updatedOn,omitempty"`
}

func toVehicleView(v *domain.Vehicle) vehicleView {
	return vehicleView{
		ID:                   v.ID,
		Name:                 v.Name,
		Brand:                v.Brand,
		Model:                v.Model,
		Type:                 v.Type,
		Year:                 v.Year,
		Color:                v.Color,
		LicensePlate:         v.LicensePlate,
		PlateNumber:          v.LicensePlate,
		PricePerHour:         v.PricePerHour,
		PricePerDay:          v.PricePerDay,
		PricePerMonth:        v.PricePerMonth,
		Status:               v.Status,
		StationID:            v.StationID,
		SeatingCapacity:      v.SeatingCapacity,
		Seats:                v.SeatingCapacity,
		RangeKm:              v.RangeKm,
		BatteryCapacityKWh:   v.BatteryCapacityKWh,
		StateOfChargePct:     v.StateOfChargePct,
		OdometerKm:           v.OdometerKm,
		DailyDistanceLimitKm: v.DailyDistanceLimitKm,
		Features:             v.Features,
		Description:          v.Description,
		Notes:                v.Notes,
		CreatedOn:            v.CreatedOn,
		UpdatedOn:            v.UpdatedOn,
	}
}

func toVehicleViews(vehicles []domain.Vehicle) []vehicleView {
	views := make([]vehicleView, len(vehicles))
	for i := range vehicles {
		views[i] = toVehicleView(&vehicles[i])
	}
	return views
}

// vehicleInput accepts both field spellings on writes; canonical wins when
// both are present.
type vehicleInput struct {
	Name         string `json:"name"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	Type         string `json:"type"`
	Year         int32  `json:"year"`
	Color        string `json:"color"`
	LicensePlate string `json:"licensePlate"`
	PlateNumber  string `json:"plateNumber"`

	PricePerHour  float64 `json:"pricePerHour"`
	PricePerDay   float64 `json:"pricePerDay"`
	PricePerMonth float64 `json:"pricePerMonth"`

	StationID *int32 `json:"stationId"`

	SeatingCapacity      int32    `json:"seatingCapacity"`
	Seats                int32    `json:"seats"`
	RangeKm              int32    `json:"rangeKm"`
	BatteryCapacityKWh   float64  `json:"batteryCapacityKwh"`
	StateOfChargePct     int32    `json:"stateOfChargePct"`
	OdometerKm           float64  `json:"odometerKm"`
	DailyDistanceLimitKm int32    `json:"dailyDistanceLimitKm"`
	Features             []string `json:"features"`
	Description          string   `json:"description"`
}

func (in *vehicleInput) toDomain() *domain.Vehicle {
	plate := in.LicensePlate
	if plate == "" {
		plate = in.PlateNumber
	}
	seats := in.SeatingCapacity
	if seats == 0 {
		seats = in.Seats
	}
	return &domain.Vehicle{
		Name:                 in.Name,
		Brand:                in.Brand,
		Model:                in.Model,
		Type:                 in.Type,
		Year:                 in.Year,
		Color:                in.Color,
		LicensePlate:         plate,
		PricePerHour:         in.PricePerHour,
		PricePerDay:          in.PricePerDay,
		PricePerMonth:        in.PricePerMonth,
		StationID:            in.StationID,
		SeatingCapacity:      seats,
		RangeKm:              in.RangeKm,
		BatteryCapacityKWh:   in.BatteryCapacityKWh,
		StateOfChargePct:     in.StateOfChargePct,
		OdometerKm:           in.OdometerKm,
		DailyDistanceLimitKm: in.DailyDistanceLimitKm,
		Features:             in.Features,
		Description:          in.Description,
	}
}
