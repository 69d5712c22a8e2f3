package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Tenant struct {
	ID        uuid.UUID      `json:"id" db:"id"`
	Name      string         `json:"name" db:"name"`
	Subdomain string         `json:"subdomain" db:"subdomain"`
	Status    string         `json:"status" db:"status"`
	Settings  TenantSettings `json:"settings" db:"settings"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

const (
	TenantStatusActive    = "active"
	TenantStatusSuspended = "suspended"
)

// TenantSettings is the versioned, typed settings blob stored as JSONB on
// the tenant row. Unknown versions are rejected at the boundary rather than
// passed through as raw maps.
type TenantSettings struct {
	Version        int    `json:"version"`
	SchoolYear     string `json:"school_year"`
	Timezone       string `json:"timezone"`
	Currency       string `json:"currency"`
	LogoObjectKey  string `json:"logo_object_key,omitempty"`
	SMSSenderName  string `json:"sms_sender_name,omitempty"`
	InvoicePrefix  string `json:"invoice_prefix"`
	TermsPerYear   int    `json:"terms_per_year"`
	TermLengthDays int    `json:"term_length_days"`
}

const SettingsVersion = 1

// DefaultSettings returns the settings a fresh tenant starts with.
func DefaultSettings() TenantSettings {
	return TenantSettings{
		Version:        SettingsVersion,
		Timezone:       "UTC",
		Currency:       "USD",
		InvoicePrefix:  "INV",
		TermsPerYear:   3,
		TermLengthDays: 120,
	}
}

// Validate checks a settings blob at the API boundary.
func (s *TenantSettings) Validate() error {
	if s.Version != SettingsVersion {
		return fmt.Errorf("unsupported settings version %d", s.Version)
	}
	if len(s.Currency) != 3 {
		return fmt.Errorf("currency must be a 3-letter code")
	}
	if s.TermsPerYear < 1 || s.TermsPerYear > 6 {
		return fmt.Errorf("terms_per_year must be between 1 and 6")
	}
	if s.TermLengthDays < 30 || s.TermLengthDays > 200 {
		return fmt.Errorf("term_length_days must be between 30 and 200")
	}
	if s.InvoicePrefix == "" {
		return fmt.Errorf("invoice_prefix is required")
	}
	return nil
}
