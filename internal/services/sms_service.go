package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// SMSService sends text messages through a configured gateway. When no
// provider is configured every send is a logged no-op so the rest of the
// system never has to care whether SMS is wired up.
type SMSService interface {
	Send(ctx context.Context, phone, message string) error
	Configured() bool
}

type SMSConfig struct {
	Provider  string
	AccountID string
	APIKey    string
	Sender    string
}

func NewSMSService(cfg SMSConfig, logger zerolog.Logger) SMSService {
	client := &http.Client{Timeout: 10 * time.Second}
	switch strings.ToLower(cfg.Provider) {
	case "twilio":
		return &twilioSMS{cfg: cfg, client: client, logger: logger}
	case "africastalking":
		return &africasTalkingSMS{cfg: cfg, client: client, logger: logger}
	default:
		return &noopSMS{logger: logger}
	}
}

type noopSMS struct {
	logger zerolog.Logger
}

func (s *noopSMS) Configured() bool { return false }

func (s *noopSMS) Send(_ context.Context, phone, _ string) error {
	s.logger.Debug().Str("phone", phone).Msg("sms provider not configured, dropping message")
	return nil
}

type twilioSMS struct {
	cfg    SMSConfig
	client *http.Client
	logger zerolog.Logger
}

func (s *twilioSMS) Configured() bool { return true }

func (s *twilioSMS) Send(ctx context.Context, phone, message string) error {
	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", s.cfg.AccountID)

	form := url.Values{}
	form.Set("To", phone)
	form.Set("From", s.cfg.Sender)
	form.Set("Body", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build sms request: %w", err)
	}
	req.SetBasicAuth(s.cfg.AccountID, s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sms gateway returned %d: %s", resp.StatusCode, string(body))
	}

	s.logger.Info().Str("phone", phone).Msg("sms sent")
	return nil
}

type africasTalkingSMS struct {
	cfg    SMSConfig
	client *http.Client
	logger zerolog.Logger
}

func (s *africasTalkingSMS) Configured() bool { return true }

func (s *africasTalkingSMS) Send(ctx context.Context, phone, message string) error {
	payload, err := json.Marshal(map[string]any{
		"username": s.cfg.AccountID,
		"to":       []string{phone},
		"message":  message,
		"senderId": s.cfg.Sender,
	})
	if err != nil {
		return fmt.Errorf("failed to encode sms payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.africastalking.com/version1/messaging/bulk", strings.NewReader(string(payload)))
	if err != nil {
		return fmt.Errorf("failed to build sms request: %w", err)
	}
	req.Header.Set("apiKey", s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sms gateway returned %d: %s", resp.StatusCode, string(body))
	}

	s.logger.Info().Str("phone", phone).Msg("sms sent")
	return nil
}
