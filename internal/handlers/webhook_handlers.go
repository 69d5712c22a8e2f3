package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"scholaris/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// WebhookHandlers receives payment gateway callbacks. The endpoint is
// unauthenticated; the HMAC signature is the only trust anchor.
type WebhookHandlers struct {
	billingService services.BillingService
	tenantService  services.TenantService
	webhookSecret  string
	logger         zerolog.Logger
}

func NewWebhookHandlers(billingService services.BillingService, tenantService services.TenantService, webhookSecret string, logger zerolog.Logger) *WebhookHandlers {
	return &WebhookHandlers{
		billingService: billingService,
		tenantService:  tenantService,
		webhookSecret:  webhookSecret,
		logger:         logger,
	}
}

// paymentEvent is the gateway's payload for payment notifications.
type paymentEvent struct {
	Event string `json:"event"`
	Data  struct {
		Subdomain     string `json:"subdomain"`
		InvoiceNumber string `json:"invoice_number"`
		Reference     string `json:"reference"`
		AmountCents   int64  `json:"amount_cents"`
	} `json:"data"`
}

func (h *WebhookHandlers) verifySignature(signature string, body []byte) bool {
	mac := hmac.New(sha256.New, []byte(h.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}

// PaymentWebhook handles POST /webhooks/payments. Retries of the same
// event are safe: the payment reference deduplicates server-side.
func (h *WebhookHandlers) PaymentWebhook(c echo.Context) error {
	if h.webhookSecret == "" {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "webhooks are not configured")
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read request body")
	}

	signature := c.Request().Header.Get("X-Webhook-Signature")
	if signature == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing webhook signature")
	}
	if !h.verifySignature(signature, body) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid webhook signature")
	}

	var event paymentEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event payload")
	}

	switch event.Event {
	case "payment.succeeded":
		return h.handlePaymentSucceeded(c, &event)
	default:
		// Unknown event types are acknowledged so the gateway stops
		// retrying them.
		h.logger.Debug().Str("event", event.Event).Msg("ignoring webhook event")
		return c.JSON(http.StatusOK, map[string]string{"status": "ignored"})
	}
}

func (h *WebhookHandlers) handlePaymentSucceeded(c echo.Context, event *paymentEvent) error {
	ctx := c.Request().Context()

	if event.Data.Reference == "" || event.Data.InvoiceNumber == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "event is missing reference or invoice number")
	}

	tenant, err := h.tenantService.GetTenantBySubdomain(ctx, event.Data.Subdomain)
	if err != nil || tenant == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown school")
	}

	payment, err := h.billingService.RecordWebhookPayment(ctx, tenant.ID, event.Data.InvoiceNumber, event.Data.Reference, event.Data.AmountCents)
	if err != nil {
		h.logger.Error().Err(err).
			Str("invoice_number", event.Data.InvoiceNumber).
			Str("reference", event.Data.Reference).
			Msg("failed to apply webhook payment")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to apply payment")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":     "applied",
		"payment_id": payment.ID.String(),
	})
}
