package http

import (
	"net/http"

	"evstation-backend/internal/service"
)

type UserHandler struct {
	userSvc service.UserService
}

func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	user, err := h.userSvc.GetProfile(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type profileUpdateRequest struct {
	FullName           string `json:"fullName"`
	Phone              string `json:"phone"`
	DOB                string `json:"dob"`
	Address            string `json:"address"`
	NationalID         string `json:"nationalId"`
	LicenseNumber      string `json:"licenseNumber"`
	NationalIDImage    string `json:"nationalIdImage"`
	DriverLicenseImage string `json:"driverLicenseImage"`
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	claims := claimsFrom(r)
	user, err := h.userSvc.UpdateProfile(r.Context(), claims.UserID, &service.ProfileUpdate{
		FullName:           req.FullName,
		Phone:              req.Phone,
		DOB:                req.DOB,
		Address:            req.Address,
		NationalID:         req.NationalID,
		LicenseNumber:      req.LicenseNumber,
		NationalIDImage:    req.NationalIDImage,
		DriverLicenseImage: req.DriverLicenseImage,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) ListPendingVerification(w http.ResponseWriter, r *http.Request) {
	users, err := h.userSvc.ListPendingVerification(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

type verifyRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note"`
}

func (h *UserHandler) VerifyUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req verifyRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.userSvc.VerifyUser(r.Context(), id, req.Approve, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type riskyRequest struct {
	Risky bool `json:"risky"`
}

func (h *UserHandler) SetRisky(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req riskyRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.userSvc.SetRisky(r.Context(), id, req.Risky); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"risky": req.Risky})
}

func (h *UserHandler) ListRenters(w http.ResponseWriter, r *http.Request) {
	users, err := h.userSvc.ListRenters(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

type createStaffRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FullName  string `json:"fullName"`
	Phone     string `json:"phone"`
	StationID *int32 `json:"stationId"`
}

func (h *UserHandler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req createStaffRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.userSvc.CreateStaff(r.Context(), req.Email, req.Password, req.FullName, req.Phone, req.StationID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}
