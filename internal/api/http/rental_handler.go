package http

import (
	"net/http"
	"strconv"

	"evstation-backend/internal/domain"
	"evstation-backend/internal/service"
)

type RentalHandler struct {
	rentalSvc service.RentalService
}

func NewRentalHandler(rentalSvc service.RentalService) *RentalHandler {
	return &RentalHandler{rentalSvc: rentalSvc}
}

type reservationRequest struct {
	VehicleID       int32             `json:"vehicleId"`
	PickupStationID int32             `json:"pickupStationId"`
	ReturnStationID *int32            `json:"returnStationId"`
	Mode            domain.RentalMode `json:"mode"`
	PickupDate      string            `json:"pickupDate"`
	ReturnDate      string            `json:"returnDate"`
	PickupTime      string            `json:"pickupTime"`
	ReturnTime      string            `json:"returnTime"`
	DepositAmount   float64           `json:"depositAmount"`
	FullName        string            `json:"fullName"`
	Phone           string            `json:"phone"`
	Email           string            `json:"email"`
	Note            string            `json:"note"`
}

func (h *RentalHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req reservationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	claims := claimsFrom(r)
	rental, err := h.rentalSvc.CreateReservation(r.Context(), claims.UserID, &service.ReservationInput{
		VehicleID:       req.VehicleID,
		PickupStationID: req.PickupStationID,
		ReturnStationID: req.ReturnStationID,
		Mode:            req.Mode,
		PickupDate:      req.PickupDate,
		ReturnDate:      req.ReturnDate,
		PickupTime:      req.PickupTime,
		ReturnTime:      req.ReturnTime,
		DepositAmount:   req.DepositAmount,
		FullName:        req.FullName,
		Phone:           req.Phone,
		Email:           req.Email,
		Note:            req.Note,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rental)
}

func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	claims := claimsFrom(r)
	rental, err := h.rentalSvc.GetRental(r.Context(), claims.UserID, claims.Role, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	rentals, err := h.rentalSvc.ListMyRentals(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rentals)
}

type rentalListResponse struct {
	Rentals []domain.Rental `json:"rentals"`
	Total   int32           `json:"total"`
	Page    int32           `json:"page"`
}

func (h *RentalHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.ParseInt(q.Get("page"), 10, 32)
	pageSize, _ := strconv.ParseInt(q.Get("pageSize"), 10, 32)

	rentals, total, err := h.rentalSvc.ListRentals(r.Context(), q.Get("status"), int32(page), int32(pageSize))
	if err != nil {
		writeError(w, err)
		return
	}
	if page < 1 {
		page = 1
	}
	writeJSON(w, http.StatusOK, rentalListResponse{Rentals: rentals, Total: total, Page: int32(page)})
}

type conditionRequest struct {
	Photos     []string `json:"photos"`
	Note       string   `json:"note"`
	BatteryPct int32    `json:"batteryPct"`
}

func (c *conditionRequest) toDomain() *domain.ConditionSnapshot {
	if c == nil {
		return nil
	}
	return &domain.ConditionSnapshot{Photos: c.Photos, Note: c.Note, BatteryPct: c.BatteryPct}
}

type checkoutRequest struct {
	RentalID  *int32            `json:"rentalId"`
	VehicleID int32             `json:"vehicleId"`
	RenterID  int32             `json:"renterId"`
	StationID int32             `json:"stationId"`
	Condition *conditionRequest `json:"condition"`
}

func (h *RentalHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	claims := claimsFrom(r)
	rental, err := h.rentalSvc.Checkout(r.Context(), claims.UserID, &service.CheckoutInput{
		RentalID:  req.RentalID,
		VehicleID: req.VehicleID,
		RenterID:  req.RenterID,
		StationID: req.StationID,
		Condition: req.Condition.toDomain(),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

type checkinRequest struct {
	DropoffStationID int32             `json:"dropoffStationId"`
	DistanceKm       float64           `json:"distanceKm"`
	Condition        *conditionRequest `json:"condition"`
}

func (h *RentalHandler) Checkin(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req checkinRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	claims := claimsFrom(r)
	rental, err := h.rentalSvc.Checkin(r.Context(), claims.UserID, &service.CheckinInput{
		RentalID:         id,
		DropoffStationID: req.DropoffStationID,
		DistanceKm:       req.DistanceKm,
		Condition:        req.Condition.toDomain(),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}
