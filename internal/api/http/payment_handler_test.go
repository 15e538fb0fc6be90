package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"evstation-backend/internal/domain"
	"evstation-backend/internal/payment"
	"evstation-backend/internal/service"
)

type mockPaymentService struct {
	mock.Mock
}

func (m *mockPaymentService) CreatePaymentLink(ctx context.Context, callerID, rentalID int32) (*domain.Rental, *payment.PaymentLink, error) {
	args := m.Called(ctx, callerID, rentalID)
	var rt *domain.Rental
	if args.Get(0) != nil {
		rt = args.Get(0).(*domain.Rental)
	}
	var link *payment.PaymentLink
	if args.Get(1) != nil {
		link = args.Get(1).(*payment.PaymentLink)
	}
	return rt, link, args.Error(2)
}

func (m *mockPaymentService) HandleWebhook(ctx context.Context, raw []byte) error {
	args := m.Called(ctx, raw)
	return args.Error(0)
}

func (m *mockPaymentService) CheckStatus(ctx context.Context, orderCode int64) (*service.PaymentStatusView, error) {
	args := m.Called(ctx, orderCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PaymentStatusView), args.Error(1)
}

func (m *mockPaymentService) Cancel(ctx context.Context, callerID int32, role domain.Role, rentalID int32, reason string) (*domain.Rental, error) {
	args := m.Called(ctx, callerID, role, rentalID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

func postWebhook(handler *PaymentHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	handler.Webhook(rec, req)
	return rec
}

func TestPaymentHandler_Webhook(t *testing.T) {
	t.Run("Valid webhook acknowledged", func(t *testing.T) {
		svc := new(mockPaymentService)
		svc.On("HandleWebhook", mock.Anything, mock.Anything).Return(nil)

		rec := postWebhook(NewPaymentHandler(svc), `{"orderCode":123,"code":"00","signature":"abc"}`)
		assert.Equal(t, http.StatusOK, rec.Code)

		var body map[string]string
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "ok", body["status"])
	})

	t.Run("Unknown order code still gets 200", func(t *testing.T) {
		// The gateway verifies the endpoint with synthetic order codes; an
		// error response would put it into a retry loop.
		svc := new(mockPaymentService)
		svc.On("HandleWebhook", mock.Anything, mock.Anything).Return(domain.NotFoundError("rental"))

		rec := postWebhook(NewPaymentHandler(svc), `{"orderCode":999,"code":"00","signature":"abc"}`)
		assert.Equal(t, http.StatusOK, rec.Code)

		var body map[string]string
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "ignored", body["status"])
	})

	t.Run("Rejected signature is a client error", func(t *testing.T) {
		svc := new(mockPaymentService)
		svc.On("HandleWebhook", mock.Anything, mock.Anything).Return(domain.ValidationError("webhook rejected"))

		rec := postWebhook(NewPaymentHandler(svc), `{"orderCode":123,"code":"00"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPaymentHandler_CheckStatus(t *testing.T) {
	t.Run("Returns the reconciled view", func(t *testing.T) {
		svc := new(mockPaymentService)
		svc.On("CheckStatus", mock.Anything, int64(1756400000123)).Return(&service.PaymentStatusView{
			OrderCode:     1756400000123,
			PaymentStatus: domain.PaymentStatusPaid,
			RentalStatus:  domain.RentalStatusReserved,
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/1756400000123/status", nil)
		req = mux.SetURLVars(req, map[string]string{"orderCode": "1756400000123"})
		rec := httptest.NewRecorder()
		NewPaymentHandler(svc).CheckStatus(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var view service.PaymentStatusView
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
		assert.Equal(t, domain.PaymentStatusPaid, view.PaymentStatus)
	})

	t.Run("Non-numeric order code rejected", func(t *testing.T) {
		svc := new(mockPaymentService)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/abc/status", nil)
		req = mux.SetURLVars(req, map[string]string{"orderCode": "abc"})
		rec := httptest.NewRecorder()
		NewPaymentHandler(svc).CheckStatus(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "CheckStatus", mock.Anything, mock.Anything)
	})
}
