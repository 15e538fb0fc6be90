package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrMissingSignature = errors.New("webhook has no signature")
	ErrBadSignature     = errors.New("webhook signature mismatch")
)

// WebhookPayload is the inbound webhook body. Data is kept raw: it is
// provider-defined and only participates in signature verification.
type WebhookPayload struct {
	OrderCode int64           `json:"orderCode"`
	Code      string          `json:"code"`
	Desc      string          `json:"desc"`
	Data      json.RawMessage `json:"data"`
	Signature string          `json:"signature"`
}

// VerifyWebhook checks the payload signature against the shared checksum
// key: HMAC-SHA256 over the JSON of every field except signature, with
// top-level keys in alphabetical order. A payload without a signature is
// rejected outright.
func VerifyWebhook(raw []byte, checksumKey string) (*WebhookPayload, error) {
	var payload WebhookPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode webhook: %w", err)
	}
	if payload.Signature == "" {
		return nil, ErrMissingSignature
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode webhook fields: %w", err)
	}
	delete(fields, "signature")

	expected := hmacHex(checksumKey, sortedJSON(fields))
	if !hmac.Equal([]byte(expected), []byte(payload.Signature)) {
		return nil, ErrBadSignature
	}
	return &payload, nil
}

// sortedJSON rebuilds a JSON object with top-level keys sorted
// alphabetically, preserving each value's original byte representation so
// nested objects and number formatting survive untouched.
func sortedJSON(fields map[string]json.RawMessage) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(k))
		b.WriteByte(':')
		b.Write(fields[k])
	}
	b.WriteByte('}')
	return b.String()
}

// signCreateRequest computes the signature the gateway expects on
// create-payment-link calls: HMAC over the canonical key=value string of the
// five signed fields, keys alphabetical.
func signCreateRequest(checksumKey string, req *CreateLinkRequest) string {
	canonical := fmt.Sprintf("amount=%s&cancelUrl=%s&description=%s&orderCode=%d&returnUrl=%s",
		formatAmount(req.Amount), req.CancelURL, req.Description, req.OrderCode, req.ReturnURL)
	return hmacHex(checksumKey, canonical)
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

func hmacHex(key, data string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}
