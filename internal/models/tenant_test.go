package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTenantSettingsValidate(t *testing.T) {
	settings := DefaultSettings()
	assert.NoError(t, settings.Validate())

	badVersion := DefaultSettings()
	badVersion.Version = 99
	assert.Error(t, badVersion.Validate())

	badCurrency := DefaultSettings()
	badCurrency.Currency = "DOLLARS"
	assert.Error(t, badCurrency.Validate())

	badTerms := DefaultSettings()
	badTerms.TermsPerYear = 0
	assert.Error(t, badTerms.Validate())

	badTermLength := DefaultSettings()
	badTermLength.TermLengthDays = 10
	assert.Error(t, badTermLength.Validate())

	noPrefix := DefaultSettings()
	noPrefix.InvoicePrefix = ""
	assert.Error(t, noPrefix.Validate())
}
