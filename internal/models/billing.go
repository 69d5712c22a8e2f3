package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Invoice amounts are integer cents to keep installment arithmetic exact.
type Invoice struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	TenantID      uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	StudentID     uuid.UUID  `json:"student_id" db:"student_id"`
	InvoiceNumber string     `json:"invoice_number" db:"invoice_number"` // unique per tenant
	Description   string     `json:"description" db:"description"`
	TotalCents    int64      `json:"total_cents" db:"total_cents"`
	Status        string     `json:"status" db:"status"`
	DueDate       time.Time  `json:"due_date" db:"due_date"`
	IssuedAt      time.Time  `json:"issued_at" db:"issued_at"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty" db:"cancelled_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

const (
	InvoicePending       = "PENDING"
	InvoicePartiallyPaid = "PARTIALLY_PAID"
	InvoicePaid          = "PAID"
	InvoiceOverdue       = "OVERDUE"
	InvoiceCancelled     = "CANCELLED"
)

// DeriveInvoiceStatus computes the status an invoice should carry given the
// cumulative COMPLETED payment total. CANCELLED and PAID are terminal and
// never recomputed.
func DeriveInvoiceStatus(current string, totalCents, paidCents int64, dueDate, now time.Time) string {
	if current == InvoiceCancelled || current == InvoicePaid {
		return current
	}
	if paidCents >= totalCents {
		return InvoicePaid
	}
	if paidCents > 0 {
		return InvoicePartiallyPaid
	}
	if now.After(dueDate) {
		return InvoiceOverdue
	}
	return InvoicePending
}

type Payment struct {
	ID          uuid.UUID `json:"id" db:"id"`
	TenantID    uuid.UUID `json:"tenant_id" db:"tenant_id"`
	InvoiceID   uuid.UUID `json:"invoice_id" db:"invoice_id"`
	AmountCents int64     `json:"amount_cents" db:"amount_cents"`
	Method      string    `json:"method" db:"method"` // cash, card, bank, stripe
	Reference   *string   `json:"reference,omitempty" db:"reference"`
	Status      string    `json:"status" db:"status"`
	PaidAt      time.Time `json:"paid_at" db:"paid_at"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

const (
	PaymentPending   = "PENDING"
	PaymentCompleted = "COMPLETED"
	PaymentFailed    = "FAILED"
	PaymentRefunded  = "REFUNDED"
)

// InstallmentFrequency enumerates supported schedules.
type InstallmentFrequency string

const (
	FrequencyWeekly    InstallmentFrequency = "WEEKLY"
	FrequencyBiweekly  InstallmentFrequency = "BIWEEKLY"
	FrequencyMonthly   InstallmentFrequency = "MONTHLY"
	FrequencyQuarterly InstallmentFrequency = "QUARTERLY"
	FrequencyTermly    InstallmentFrequency = "TERMLY"
)

// ValidFrequency rejects unknown frequency values.
func ValidFrequency(f string) error {
	switch InstallmentFrequency(f) {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly, FrequencyQuarterly, FrequencyTermly:
		return nil
	}
	return fmt.Errorf("frequency must be one of WEEKLY, BIWEEKLY, MONTHLY, QUARTERLY, TERMLY")
}

type InstallmentPlan struct {
	ID         uuid.UUID            `json:"id" db:"id"`
	TenantID   uuid.UUID            `json:"tenant_id" db:"tenant_id"`
	StudentID  uuid.UUID            `json:"student_id" db:"student_id"`
	InvoiceID  *uuid.UUID           `json:"invoice_id,omitempty" db:"invoice_id"`
	TotalCents int64                `json:"total_cents" db:"total_cents"`
	Count      int                  `json:"count" db:"count"`
	Frequency  InstallmentFrequency `json:"frequency" db:"frequency"`
	StartDate  time.Time            `json:"start_date" db:"start_date"`
	Status     string               `json:"status" db:"status"`
	CreatedAt  time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at" db:"updated_at"`
}

const (
	PlanActive    = "ACTIVE"
	PlanCompleted = "COMPLETED"
	PlanCancelled = "CANCELLED"
)

type InstallmentPayment struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	TenantID    uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	PlanID      uuid.UUID  `json:"plan_id" db:"plan_id"`
	Sequence    int        `json:"sequence" db:"sequence"`
	AmountCents int64      `json:"amount_cents" db:"amount_cents"`
	DueDate     time.Time  `json:"due_date" db:"due_date"`
	Status      string     `json:"status" db:"status"`
	PaidAt      *time.Time `json:"paid_at,omitempty" db:"paid_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

const (
	InstallmentDue  = "DUE"
	InstallmentPaid = "PAID"
)
