// Package payment holds the PayOS gateway adapter: outbound payment-link
// calls and inbound webhook signature verification.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"evstation-backend/internal/logger"
)

// Webhook result codes used by the gateway. "00" is success.
const (
	CodeSuccess = "00"
)

// Gateway-side payment link statuses.
const (
	LinkStatusPending   = "PENDING"
	LinkStatusPaid      = "PAID"
	LinkStatusCancelled = "CANCELLED"
	LinkStatusExpired   = "EXPIRED"
)

// Item is one line item of a payment request.
type Item struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// CreateLinkRequest describes an outbound create-payment-link call. The
// gateway caps Description at 25 characters; callers truncate before here.
type CreateLinkRequest struct {
	OrderCode   int64   `json:"orderCode"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Items       []Item  `json:"items"`
	ReturnURL   string  `json:"returnUrl"`
	CancelURL   string  `json:"cancelUrl"`
	Signature   string  `json:"signature,omitempty"`
}

// PaymentLink is the gateway's view of a payment request.
type PaymentLink struct {
	PaymentLinkID string `json:"paymentLinkId"`
	CheckoutURL   string `json:"checkoutUrl"`
	QRCode        string `json:"qrCode"`
	Bin           string `json:"bin"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
	Status        string `json:"status"`
}

// Client is the outbound gateway surface the payment service depends on.
type Client interface {
	CreatePaymentLink(ctx context.Context, req *CreateLinkRequest) (*PaymentLink, error)
	GetPaymentLink(ctx context.Context, orderCode int64) (*PaymentLink, error)
	CancelPaymentLink(ctx context.Context, orderCode int64, reason string) error
}

type payOSClient struct {
	baseURL     string
	clientID    string
	apiKey      string
	checksumKey string
	httpClient  *http.Client
}

func NewPayOSClient(baseURL, clientID, apiKey, checksumKey string) Client {
	return &payOSClient{
		baseURL:     baseURL,
		clientID:    clientID,
		apiKey:      apiKey,
		checksumKey: checksumKey,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

// envelope is the gateway's response wrapper.
type envelope struct {
	Code string          `json:"code"`
	Desc string          `json:"desc"`
	Data json.RawMessage `json:"data"`
}

func (c *payOSClient) CreatePaymentLink(ctx context.Context, req *CreateLinkRequest) (*PaymentLink, error) {
	// The create call is itself signed: HMAC over the canonical
	// amount/cancelUrl/description/orderCode/returnUrl string.
	req.Signature = signCreateRequest(c.checksumKey, req)

	logger.ExternalServiceCall("payos", "CreatePaymentLink", "order_code", req.OrderCode, "amount", req.Amount)
	var link PaymentLink
	err := c.do(ctx, http.MethodPost, "/v2/payment-requests", req, &link)
	logger.ExternalServiceResult("payos", "CreatePaymentLink", err)
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (c *payOSClient) GetPaymentLink(ctx context.Context, orderCode int64) (*PaymentLink, error) {
	logger.ExternalServiceCall("payos", "GetPaymentLink", "order_code", orderCode)
	var link PaymentLink
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v2/payment-requests/%d", orderCode), nil, &link)
	logger.ExternalServiceResult("payos", "GetPaymentLink", err)
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (c *payOSClient) CancelPaymentLink(ctx context.Context, orderCode int64, reason string) error {
	logger.ExternalServiceCall("payos", "CancelPaymentLink", "order_code", orderCode)
	body := map[string]string{"cancellationReason": reason}
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/v2/payment-requests/%d/cancel", orderCode), body, nil)
	logger.ExternalServiceResult("payos", "CancelPaymentLink", err)
	return err
}

func (c *payOSClient) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-client-id", c.clientID)
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode gateway response: %w", err)
	}
	if env.Code != CodeSuccess {
		return fmt.Errorf("gateway error %s: %s", env.Code, env.Desc)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode gateway payload: %w", err)
		}
	}
	return nil
}
