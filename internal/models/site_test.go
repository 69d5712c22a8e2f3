package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contactForm() *FormDefinition {
	return &FormDefinition{
		Title: "Contact us",
		Fields: []FormField{
			{Name: "name", Label: "Your name", Kind: "text", Required: true},
			{Name: "email", Label: "Email", Kind: "email", Required: true},
			{Name: "visit_date", Label: "Preferred visit date", Kind: "date"},
			{Name: "grade", Label: "Grade", Kind: "select", Options: []string{"1", "2", "3"}},
			{Name: "newsletter", Label: "Subscribe", Kind: "checkbox"},
		},
	}
}

func TestFormDefinitionValidate(t *testing.T) {
	require.NoError(t, contactForm().Validate())

	empty := &FormDefinition{Title: "Empty"}
	assert.Error(t, empty.Validate())

	unnamed := contactForm()
	unnamed.Fields[0].Name = ""
	assert.Error(t, unnamed.Validate())

	duplicate := contactForm()
	duplicate.Fields[1].Name = "name"
	assert.Error(t, duplicate.Validate())

	badKind := contactForm()
	badKind.Fields[0].Kind = "textarea"
	assert.Error(t, badKind.Validate())

	selectWithoutOptions := contactForm()
	selectWithoutOptions.Fields[3].Options = nil
	assert.Error(t, selectWithoutOptions.Validate())
}

func TestFormDefinitionValidateSubmission(t *testing.T) {
	form := contactForm()

	tests := []struct {
		name   string
		values map[string]string
		ok     bool
	}{
		{"complete", map[string]string{"name": "Ada", "email": "ada@example.com", "visit_date": "2026-09-15", "grade": "2", "newsletter": "true"}, true},
		{"only required", map[string]string{"name": "Ada", "email": "ada@example.com"}, true},
		{"missing required", map[string]string{"name": "Ada"}, false},
		{"required but blank", map[string]string{"name": "  ", "email": "ada@example.com"}, false},
		{"bad email", map[string]string{"name": "Ada", "email": "not-an-email"}, false},
		{"bad date", map[string]string{"name": "Ada", "email": "a@b.c", "visit_date": "15/09/2026"}, false},
		{"select outside options", map[string]string{"name": "Ada", "email": "a@b.c", "grade": "9"}, false},
		{"bad checkbox", map[string]string{"name": "Ada", "email": "a@b.c", "newsletter": "yes"}, false},
		{"unknown field rejected", map[string]string{"name": "Ada", "email": "a@b.c", "extra": "x"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := form.ValidateSubmission(tt.values)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
