package http

import (
	"net/http"
	"strconv"

	"evstation-backend/internal/domain"
	"evstation-backend/internal/service"
)

type StationHandler struct {
	stationSvc service.StationService
}

func NewStationHandler(stationSvc service.StationService) *StationHandler {
	return &StationHandler{stationSvc: stationSvc}
}

type stationRequest struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Phone     string  `json:"phone"`
	Capacity  int32   `json:"capacity"`
	Active    *bool   `json:"active"`
}

func (h *StationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req stationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	st := &domain.Station{
		Name:      req.Name,
		Address:   req.Address,
		Longitude: req.Longitude,
		Latitude:  req.Latitude,
		Phone:     req.Phone,
		Capacity:  req.Capacity,
	}
	if err := h.stationSvc.Create(r.Context(), st); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

func (h *StationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	st, err := h.stationSvc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *StationHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	stations, err := h.stationSvc.List(r.Context(), activeOnly)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stations)
}

func (h *StationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req stationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	st, err := h.stationSvc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	st.Name = req.Name
	st.Address = req.Address
	st.Longitude = req.Longitude
	st.Latitude = req.Latitude
	st.Phone = req.Phone
	st.Capacity = req.Capacity
	if req.Active != nil {
		st.Active = *req.Active
	}

	if err := h.stationSvc.Update(r.Context(), st); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *StationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.stationSvc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *StationHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lng, errLng := strconv.ParseFloat(q.Get("lng"), 64)
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	if errLng != nil || errLat != nil {
		writeError(w, domain.ValidationError("lng and lat query parameters are required"))
		return
	}
	radius, _ := strconv.ParseFloat(q.Get("radius"), 64)

	stations, err := h.stationSvc.Nearby(r.Context(), lng, lat, radius)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stations)
}
