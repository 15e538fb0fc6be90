package domain

import "time"

type RentalStatus string

const (
	RentalStatusReserved  RentalStatus = "RESERVED"
	RentalStatusOngoing   RentalStatus = "ONGOING"
	RentalStatusCompleted RentalStatus = "COMPLETED"
	RentalStatusCancelled RentalStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusPaid      PaymentStatus = "PAID"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

type RentalMode string

const (
	RentalModeHour RentalMode = "hour"
	RentalModeDay  RentalMode = "day"
)

// ConditionSnapshot captures vehicle condition at handover or return.
type ConditionSnapshot struct {
	Photos     []string `json:"photos,omitempty"`
	Note       string   `json:"note,omitempty"`
	BatteryPct int32    `json:"battery_pct,omitempty"`
}

// ContractSignature is the renter's e-signature blob. Once SignedAt is set
// the signature is immutable; re-signing returns the stored value.
type ContractSignature struct {
	Data      string     `json:"data"`
	SignedAt  *time.Time `json:"signed_at,omitempty"`
	IPAddress string     `json:"ip_address,omitempty"`
	UserAgent string     `json:"user_agent,omitempty"`
}

func (s *ContractSignature) Signed() bool {
	return s != nil && s.SignedAt != nil
}

type Rental struct {
	ID              int32  `json:"id"`
	RenterID        int32  `json:"renter_id"`
	VehicleID       int32  `json:"vehicle_id"`
	PickupStationID int32  `json:"pickup_station_id"`
	ReturnStationID *int32 `json:"return_station_id,omitempty"`

	RentalMode           RentalMode `json:"rental_mode"`
	ScheduledPickupDate  string     `json:"scheduled_pickup_date"`
	ScheduledReturnDate  string     `json:"scheduled_return_date"`
	ScheduledPickupTime  string     `json:"scheduled_pickup_time"`
	ScheduledReturnTime  string     `json:"scheduled_return_time"`

	ReservationTime *time.Time `json:"reservation_time,omitempty"`
	CheckoutTime    *time.Time `json:"checkout_time,omitempty"`
	CheckinTime     *time.Time `json:"checkin_time,omitempty"`

	Status RentalStatus `json:"status"`

	// OrderCode correlates this rental with the payment gateway. Unique,
	// assigned at creation and never updated afterwards.
	OrderCode     int64         `json:"order_code"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	PaymentTime   *time.Time    `json:"payment_time,omitempty"`
	PaymentLink   string        `json:"payment_link,omitempty"`

	PricePerHour  float64 `json:"price_per_hour"`
	PricePerDay   float64 `json:"price_per_day"`
	DepositAmount float64 `json:"deposit_amount"`
	TotalAmount   float64 `json:"total_amount"`
	DistanceKm    float64 `json:"distance_km"`

	ConditionCheckout *ConditionSnapshot `json:"condition_checkout,omitempty"`
	ConditionCheckin  *ConditionSnapshot `json:"condition_checkin,omitempty"`

	// Contact overrides supplied at reservation time; fall back to the
	// renter's profile when empty.
	FullName string `json:"full_name,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Note     string `json:"note,omitempty"`

	ContractSignature *ContractSignature `json:"contract_signature,omitempty"`

	CreatedOn string `json:"created_on"`
	UpdatedOn string `json:"updated_on"`
}

var rentalTransitions = map[RentalStatus][]RentalStatus{
	RentalStatusReserved: {RentalStatusOngoing, RentalStatusCancelled},
	RentalStatusOngoing:  {RentalStatusCompleted},
}

// CanTransitionTo validates a rental status change. COMPLETED and CANCELLED
// are terminal.
func (r *Rental) CanTransitionTo(target RentalStatus) error {
	for _, t := range rentalTransitions[r.Status] {
		if t == target {
			return nil
		}
	}
	return &InvalidTransitionError{Entity: "rental", From: string(r.Status), To: string(target)}
}

// Active reports whether the rental still holds its vehicle.
func (r *Rental) Active() bool {
	return r.Status == RentalStatusReserved || r.Status == RentalStatusOngoing
}
