package payment

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

const checksumKey = "unit-test-checksum-key"

func sign(t *testing.T, canonical string) string {
	t.Helper()
	return hmacHex(checksumKey, canonical)
}

func TestVerifyWebhook(t *testing.T) {
	canonical := `{"code":"00","data":{"amount":150000,"reference":"FT123"},"desc":"success","orderCode":1756400000123}`

	t.Run("Valid signature accepted", func(t *testing.T) {
		body := fmt.Sprintf(`{"orderCode":1756400000123,"code":"00","desc":"success","data":{"amount":150000,"reference":"FT123"},"signature":%q}`,
			sign(t, canonical))

		payload, err := VerifyWebhook([]byte(body), checksumKey)
		assert.NoError(t, err)
		assert.Equal(t, int64(1756400000123), payload.OrderCode)
		assert.Equal(t, "00", payload.Code)
	})

	t.Run("Field order does not matter", func(t *testing.T) {
		body := fmt.Sprintf(`{"signature":%q,"desc":"success","data":{"amount":150000,"reference":"FT123"},"code":"00","orderCode":1756400000123}`,
			sign(t, canonical))

		_, err := VerifyWebhook([]byte(body), checksumKey)
		assert.NoError(t, err)
	})

	t.Run("Missing signature rejected outright", func(t *testing.T) {
		body := `{"orderCode":1756400000123,"code":"00","desc":"success","data":{}}`

		_, err := VerifyWebhook([]byte(body), checksumKey)
		assert.ErrorIs(t, err, ErrMissingSignature)
	})

	t.Run("Empty signature rejected outright", func(t *testing.T) {
		body := `{"orderCode":1756400000123,"code":"00","desc":"success","data":{},"signature":""}`

		_, err := VerifyWebhook([]byte(body), checksumKey)
		assert.ErrorIs(t, err, ErrMissingSignature)
	})

	t.Run("Tampered amount rejected", func(t *testing.T) {
		body := fmt.Sprintf(`{"orderCode":1756400000123,"code":"00","desc":"success","data":{"amount":999,"reference":"FT123"},"signature":%q}`,
			sign(t, canonical))

		_, err := VerifyWebhook([]byte(body), checksumKey)
		assert.ErrorIs(t, err, ErrBadSignature)
	})

	t.Run("Wrong key rejected", func(t *testing.T) {
		body := fmt.Sprintf(`{"orderCode":1756400000123,"code":"00","desc":"success","data":{"amount":150000,"reference":"FT123"},"signature":%q}`,
			hmacHex("other-key", canonical))

		_, err := VerifyWebhook([]byte(body), checksumKey)
		assert.ErrorIs(t, err, ErrBadSignature)
	})

	t.Run("Malformed body rejected", func(t *testing.T) {
		_, err := VerifyWebhook([]byte(`{"orderCode":`), checksumKey)
		assert.Error(t, err)
	})

	t.Run("Number formatting is preserved byte for byte", func(t *testing.T) {
		// 1.50 must not be re-rendered as 1.5 when the digest is rebuilt.
		canonical := `{"code":"00","data":{"amount":1.50},"desc":"ok","orderCode":42}`
		body := fmt.Sprintf(`{"orderCode":42,"code":"00","desc":"ok","data":{"amount":1.50},"signature":%q}`,
			sign(t, canonical))

		_, err := VerifyWebhook([]byte(body), checksumKey)
		assert.NoError(t, err)
	})
}

func TestSignCreateRequest(t *testing.T) {
	req := &CreateLinkRequest{
		OrderCode:   1756400000123,
		Amount:      150000,
		Description: "Thue xe 1756400000123",
		ReturnURL:   "https://app.test/payment/success",
		CancelURL:   "https://app.test/payment/cancel",
	}

	want := hmacHex(checksumKey,
		"amount=150000&cancelUrl=https://app.test/payment/cancel&description=Thue xe 1756400000123&orderCode=1756400000123&returnUrl=https://app.test/payment/success")
	assert.Equal(t, want, signCreateRequest(checksumKey, req))

	// Deterministic for identical input.
	assert.Equal(t, signCreateRequest(checksumKey, req), signCreateRequest(checksumKey, req))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "150000", formatAmount(150000))
	assert.Equal(t, "150000.5", formatAmount(150000.5))
}
