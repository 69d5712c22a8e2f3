package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWebhookSecret = "test-secret"

func signPayload(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func webhookRequest(t *testing.T, body, signature string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if signature != "" {
		req.Header.Set("X-Webhook-Signature", signature)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestPaymentWebhook_NotConfigured(t *testing.T) {
	h := NewWebhookHandlers(nil, nil, "", zerolog.Nop())
	c, _ := webhookRequest(t, `{}`, "sig")

	err := h.PaymentWebhook(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.Code)
}

func TestPaymentWebhook_MissingSignature(t *testing.T) {
	h := NewWebhookHandlers(nil, nil, testWebhookSecret, zerolog.Nop())
	c, _ := webhookRequest(t, `{}`, "")

	err := h.PaymentWebhook(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestPaymentWebhook_BadSignature(t *testing.T) {
	h := NewWebhookHandlers(nil, nil, testWebhookSecret, zerolog.Nop())
	body := `{"event":"payment.succeeded"}`
	c, _ := webhookRequest(t, body, signPayload("wrong-secret", body))

	err := h.PaymentWebhook(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestPaymentWebhook_UnknownEventAcknowledged(t *testing.T) {
	h := NewWebhookHandlers(nil, nil, testWebhookSecret, zerolog.Nop())
	body := `{"event":"payment.refund_requested"}`
	c, rec := webhookRequest(t, body, signPayload(testWebhookSecret, body))

	require.NoError(t, h.PaymentWebhook(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ignored")
}
