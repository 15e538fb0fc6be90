package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"evstation-backend/internal/domain"
	"evstation-backend/internal/payment"
	"evstation-backend/internal/service"
)

type PaymentHandler struct {
	paymentSvc service.PaymentService
}

func NewPaymentHandler(paymentSvc service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc}
}

type createLinkResponse struct {
	Rental *domain.Rental       `json:"rental"`
	Link   *payment.PaymentLink `json:"link"`
}

func (h *PaymentHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	claims := claimsFrom(r)
	rental, link, err := h.paymentSvc.CreatePaymentLink(r.Context(), claims.UserID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, createLinkResponse{Rental: rental, Link: link})
}

// Webhook is unauthenticated; the HMAC signature is the credential. The
// gateway probes with synthetic order codes, so an unknown code is
// acknowledged rather than erroring into a retry loop.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, domain.ValidationError("unreadable webhook body"))
		return
	}

	if err := h.paymentSvc.HandleWebhook(r.Context(), raw); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *PaymentHandler) CheckStatus(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["orderCode"]
	orderCode, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || orderCode <= 0 {
		writeError(w, domain.ValidationError("invalid order code %q", raw))
		return
	}

	view, err := h.paymentSvc.CheckStatus(r.Context(), orderCode)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *PaymentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req cancelRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	claims := claimsFrom(r)
	rental, err := h.paymentSvc.Cancel(r.Context(), claims.UserID, claims.Role, id, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}
