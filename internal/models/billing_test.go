package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveInvoiceStatus(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	before := due.AddDate(0, 0, -10)
	after := due.AddDate(0, 0, 10)

	tests := []struct {
		name    string
		current string
		total   int64
		paid    int64
		now     time.Time
		want    string
	}{
		{"nothing paid before due date", InvoicePending, 10000, 0, before, InvoicePending},
		{"nothing paid past due date", InvoicePending, 10000, 0, after, InvoiceOverdue},
		{"partial payment", InvoicePending, 10000, 4000, before, InvoicePartiallyPaid},
		{"partial payment past due stays partial", InvoiceOverdue, 10000, 4000, after, InvoicePartiallyPaid},
		{"paid exactly", InvoicePartiallyPaid, 10000, 10000, before, InvoicePaid},
		{"overpaid", InvoicePending, 10000, 12000, before, InvoicePaid},
		{"cancelled is terminal", InvoiceCancelled, 10000, 10000, before, InvoiceCancelled},
		{"paid is terminal", InvoicePaid, 10000, 0, after, InvoicePaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveInvoiceStatus(tt.current, tt.total, tt.paid, due, tt.now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidFrequency(t *testing.T) {
	for _, f := range []string{"WEEKLY", "BIWEEKLY", "MONTHLY", "QUARTERLY", "TERMLY"} {
		assert.NoError(t, ValidFrequency(f))
	}
	assert.Error(t, ValidFrequency("DAILY"))
	assert.Error(t, ValidFrequency("monthly"))
	assert.Error(t, ValidFrequency(""))
}
