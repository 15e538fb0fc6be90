package http

import (
	"net/http"
	"strconv"

	"evstation-backend/internal/domain"
	"evstation-backend/internal/service"
)

type VehicleHandler struct {
	vehicleSvc service.VehicleService
}

func NewVehicleHandler(vehicleSvc service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleSvc: vehicleSvc}
}

func stationIDQuery(r *http.Request) *int32 {
	raw := r.URL.Query().Get("stationId")
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return nil
	}
	v := int32(id)
	return &v
}

func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req vehicleInput
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	v := req.toDomain()
	if err := h.vehicleSvc.Create(r.Context(), v); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toVehicleView(v))
}

func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	v, err := h.vehicleSvc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVehicleView(v))
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.vehicleSvc.List(r.Context(), stationIDQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVehicleViews(vehicles))
}

func (h *VehicleHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.vehicleSvc.ListAvailable(r.Context(), stationIDQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVehicleViews(vehicles))
}

func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req vehicleInput
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	v := req.toDomain()
	v.ID = id
	if err := h.vehicleSvc.Update(r.Context(), v); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVehicleView(v))
}

func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.vehicleSvc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type vehicleStatusRequest struct {
	Status           *domain.VehicleStatus `json:"status"`
	StateOfChargePct *int32                `json:"stateOfChargePct"`
	OdometerKm       *float64              `json:"odometerKm"`
	Notes            []string              `json:"notes"`
}

func (h *VehicleHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req vehicleStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	v, err := h.vehicleSvc.StaffStatusUpdate(r.Context(), id, &service.VehicleStatusUpdate{
		Status:           req.Status,
		StateOfChargePct: req.StateOfChargePct,
		OdometerKm:       req.OdometerKm,
		Notes:            req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVehicleView(v))
}
