package models

import (
	"time"

	"github.com/google/uuid"
)

// JSONB is a free-form JSON column payload.
type JSONB map[string]interface{}

// AuditLog records who changed what. Written for every status transition
// and mutation on sensitive modules.
type AuditLog struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	TenantID  uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	TableName string     `json:"table_name" db:"table_name"`
	RecordID  string     `json:"record_id" db:"record_id"`
	Action    string     `json:"action" db:"action"`
	OldValues JSONB      `json:"old_values" db:"old_values"`
	NewValues JSONB      `json:"new_values" db:"new_values"`
	ChangedBy *uuid.UUID `json:"changed_by" db:"changed_by"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

const (
	AuditInsert     = "INSERT"
	AuditUpdate     = "UPDATE"
	AuditDelete     = "DELETE"
	AuditSoftDelete = "SOFT_DELETE"
	AuditTransition = "TRANSITION"
)

// AuditLogFilters narrows audit log listings.
type AuditLogFilters struct {
	TableName *string    `json:"table_name"`
	RecordID  *string    `json:"record_id"`
	Action    *string    `json:"action"`
	ChangedBy *uuid.UUID `json:"changed_by"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
}
