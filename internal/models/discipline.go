package models

import (
	"time"

	"github.com/google/uuid"
)

// DisciplineRecord resolution is one-way: once RESOLVED a record cannot be
// reopened through the API, and every resolution writes an audit row.
type DisciplineRecord struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	TenantID    uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	StudentID   uuid.UUID  `json:"student_id" db:"student_id"`
	ReportedBy  uuid.UUID  `json:"reported_by" db:"reported_by"`
	Category    string     `json:"category" db:"category"`
	Description string     `json:"description" db:"description"`
	OccurredAt  time.Time  `json:"occurred_at" db:"occurred_at"`
	Status      string     `json:"status" db:"status"`
	Resolution  *string    `json:"resolution,omitempty" db:"resolution"`
	ResolvedBy  *uuid.UUID `json:"resolved_by,omitempty" db:"resolved_by"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty" db:"resolved_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

const (
	DisciplineOpen     = "OPEN"
	DisciplineResolved = "RESOLVED"
)
