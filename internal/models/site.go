package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SitePage is one page of a tenant's public website. Slug is unique per
// tenant; only published pages resolve publicly.
type SitePage struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TenantID  uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Slug      string    `json:"slug" db:"slug"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"` // sanitized HTML
	Published bool      `json:"published" db:"published"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// FormField is one typed field in a form definition. Kind is the
// discriminator; Options applies to select fields only.
type FormField struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Kind     string   `json:"kind"` // text, email, phone, number, date, select, checkbox
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}

// FormDefinition is a versioned public form. Fields are validated both when
// the definition is saved and against every submission.
type FormDefinition struct {
	ID        uuid.UUID   `json:"id" db:"id"`
	TenantID  uuid.UUID   `json:"tenant_id" db:"tenant_id"`
	Title     string      `json:"title" db:"title"`
	Version   int         `json:"version" db:"version"`
	Fields    []FormField `json:"fields" db:"fields"`
	Published bool        `json:"published" db:"published"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
}

var validFieldKinds = map[string]bool{
	"text": true, "email": true, "phone": true, "number": true,
	"date": true, "select": true, "checkbox": true,
}

// Validate checks a form definition at save time.
func (f *FormDefinition) Validate() error {
	if len(f.Fields) == 0 {
		return fmt.Errorf("a form needs at least one field")
	}
	seen := make(map[string]bool, len(f.Fields))
	for _, field := range f.Fields {
		if field.Name == "" {
			return fmt.Errorf("every field needs a name")
		}
		if seen[field.Name] {
			return fmt.Errorf("duplicate field name %q", field.Name)
		}
		seen[field.Name] = true
		if !validFieldKinds[field.Kind] {
			return fmt.Errorf("field %q has unknown kind %q", field.Name, field.Kind)
		}
		if field.Kind == "select" && len(field.Options) == 0 {
			return fmt.Errorf("select field %q needs options", field.Name)
		}
	}
	return nil
}

// ValidateSubmission checks submitted values against the field definitions
// before anything is persisted.
func (f *FormDefinition) ValidateSubmission(values map[string]string) error {
	for _, field := range f.Fields {
		v, present := values[field.Name]
		v = strings.TrimSpace(v)
		if field.Required && (!present || v == "") {
			return fmt.Errorf("field %q is required", field.Name)
		}
		if v == "" {
			continue
		}
		switch field.Kind {
		case "email":
			if !strings.Contains(v, "@") {
				return fmt.Errorf("field %q must be an email address", field.Name)
			}
		case "number":
			for _, r := range v {
				if (r < '0' || r > '9') && r != '.' && r != '-' {
					return fmt.Errorf("field %q must be numeric", field.Name)
				}
			}
		case "date":
			if _, err := time.Parse("2006-01-02", v); err != nil {
				return fmt.Errorf("field %q must be a YYYY-MM-DD date", field.Name)
			}
		case "select":
			found := false
			for _, opt := range field.Options {
				if opt == v {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("field %q must be one of its options", field.Name)
			}
		case "checkbox":
			if v != "true" && v != "false" {
				return fmt.Errorf("field %q must be true or false", field.Name)
			}
		}
	}
	for name := range values {
		if !f.hasField(name) {
			return fmt.Errorf("unknown field %q", name)
		}
	}
	return nil
}

func (f *FormDefinition) hasField(name string) bool {
	for _, field := range f.Fields {
		if field.Name == name {
			return true
		}
	}
	return false
}

type FormSubmission struct {
	ID          uuid.UUID         `json:"id" db:"id"`
	TenantID    uuid.UUID         `json:"tenant_id" db:"tenant_id"`
	FormID      uuid.UUID         `json:"form_id" db:"form_id"`
	FormVersion int               `json:"form_version" db:"form_version"`
	Values      map[string]string `json:"values" db:"values"`
	SubmitterIP string            `json:"submitter_ip" db:"submitter_ip"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
}
