package common

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// RequestValidator adapts go-playground/validator to echo's Validator
// interface so handlers can call c.Validate(req).
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *RequestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// ValidateUUID parses an id path/query parameter.
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%s is required", fieldName)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s is not a valid UUID", fieldName)
	}
	return id, nil
}

// ValidateRequiredString validates required string fields.
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ValidateDate parses date strings in YYYY-MM-DD form with sanity bounds.
func ValidateDate(dateStr, fieldName string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", strings.TrimSpace(dateStr))
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be in YYYY-MM-DD format", fieldName)
	}
	if date.After(time.Now().AddDate(10, 0, 0)) {
		return time.Time{}, fmt.Errorf("%s cannot be more than 10 years in the future", fieldName)
	}
	if date.Before(time.Now().AddDate(-100, 0, 0)) {
		return time.Time{}, fmt.Errorf("%s cannot be more than 100 years ago", fieldName)
	}
	return date, nil
}

var admissionNumberPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9/-]{2,19}$`)

// ValidateAdmissionNumber validates the natural key assigned to students.
func ValidateAdmissionNumber(number string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return fmt.Errorf("admission number is required")
	}
	if !admissionNumberPattern.MatchString(number) {
		return fmt.Errorf("admission number must be 3-20 characters of A-Z, 0-9, '-' or '/'")
	}
	return nil
}

var subdomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// ValidateSubdomain validates tenant subdomains used for public site
// resolution.
func ValidateSubdomain(subdomain string) error {
	if !subdomainPattern.MatchString(subdomain) {
		return fmt.Errorf("subdomain must be lowercase alphanumeric with hyphens")
	}
	return nil
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidateSlug validates site page slugs.
func ValidateSlug(slug string) error {
	if !slugPattern.MatchString(slug) {
		return fmt.Errorf("slug must be lowercase alphanumeric with hyphens")
	}
	return nil
}

var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// ValidatePhone validates phone numbers in loose E.164 form.
func ValidatePhone(phone, fieldName string) error {
	if strings.TrimSpace(phone) == "" {
		return nil // optional everywhere it appears
	}
	if !phonePattern.MatchString(phone) {
		return fmt.Errorf("%s must be a valid phone number", fieldName)
	}
	return nil
}

// ValidatePositiveCents validates money amounts held in integer cents.
func ValidatePositiveCents(amount int64, fieldName string) error {
	if amount <= 0 {
		return fmt.Errorf("%s must be positive", fieldName)
	}
	if amount > 100_000_000_00 {
		return fmt.Errorf("%s exceeds the maximum supported amount", fieldName)
	}
	return nil
}

// ParseLimitOffset applies list pagination defaults and caps.
func ParseLimitOffset(limitStr, offsetStr string) (limit, offset int) {
	limit, offset = 50, 0
	if limitStr != "" {
		if n, err := parseInt(limitStr); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if offsetStr != "" {
		if n, err := parseInt(offsetStr); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

func parseInt(s string) (int, error) {
	var n int
	_, err := fmt.Sscanf(s, "%d", &n)
	return n, err
}

// SafeString safely dereferences optional string fields.
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
