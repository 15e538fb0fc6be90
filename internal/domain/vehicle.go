package domain

type VehicleStatus string

const (
	VehicleStatusAvailable   VehicleStatus = "AVAILABLE"
	VehicleStatusOutOfStock  VehicleStatus = "OUT_OF_STOCK"
	VehicleStatusReserved    VehicleStatus = "RESERVED"
	VehicleStatusRented      VehicleStatus = "RENTED"
	VehicleStatusMaintenance VehicleStatus = "MAINTENANCE"
	VehicleStatusOffline     VehicleStatus = "OFFLINE"
)

type Vehicle struct {
	ID           int32  `json:"id"`
	Name         string `json:"name"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	Type         string `json:"type"`
	Year         int32  `json:"year"`
	Color        string `json:"color"`
	LicensePlate string `json:"license_plate"`

	PricePerHour  float64 `json:"price_per_hour"`
	PricePerDay   float64 `json:"price_per_day"`
	PricePerMonth float64 `json:"price_per_month"`

	Status    VehicleStatus `json:"status"`
	StationID *int32        `json:"station_id,omitempty"`

	SeatingCapacity      int32    `json:"seating_capacity"`
	RangeKm              int32    `json:"range_km,omitempty"`
	BatteryCapacityKWh   float64  `json:"battery_capacity_kwh,omitempty"`
	StateOfChargePct     int32    `json:"state_of_charge_pct"`
	OdometerKm           float64  `json:"odometer_km"`
	DailyDistanceLimitKm int32    `json:"daily_distance_limit_km"`
	Features             []string `json:"features,omitempty"`
	Description          string   `json:"description,omitempty"`
	Notes                []string `json:"notes,omitempty"`

	CreatedOn string `json:"created_on"`
	UpdatedOn string `json:"updated_on"`
}

// lifecycleTransitions enumerates the status changes the rental lifecycle is
// allowed to drive. Staff maintenance updates go through a separate guarded
// path and may park a vehicle in MAINTENANCE, OFFLINE or OUT_OF_STOCK.
var lifecycleTransitions = map[VehicleStatus][]VehicleStatus{
	VehicleStatusAvailable: {VehicleStatusReserved, VehicleStatusRented},
	VehicleStatusReserved:  {VehicleStatusRented, VehicleStatusAvailable},
	VehicleStatusRented:    {VehicleStatusAvailable},
}

// CanTransitionTo validates a lifecycle-driven status change.
func (v *Vehicle) CanTransitionTo(target VehicleStatus) error {
	for _, t := range lifecycleTransitions[v.Status] {
		if t == target {
			return nil
		}
	}
	return &InvalidTransitionError{Entity: "vehicle", From: string(v.Status), To: string(target)}
}
