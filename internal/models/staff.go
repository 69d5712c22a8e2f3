package models

import (
	"time"

	"github.com/google/uuid"
)

type Teacher struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	TenantID    uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	StaffNumber string     `json:"staff_number" db:"staff_number"`
	Department  *string    `json:"department,omitempty" db:"department"`
	Subjects    []string   `json:"subjects" db:"subjects"`
	HiredAt     *time.Time `json:"hired_at,omitempty" db:"hired_at"`
	Status      string     `json:"status" db:"status"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// Teachers are soft-deactivated like classes.
const (
	TeacherStatusActive      = "active"
	TeacherStatusDeactivated = "deactivated"
)

type StaffAttendance struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	TenantID  uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	Date      time.Time  `json:"date" db:"date"`
	Status    string     `json:"status" db:"status"`
	CheckIn   *time.Time `json:"check_in,omitempty" db:"check_in"`
	CheckOut  *time.Time `json:"check_out,omitempty" db:"check_out"`
	Notes     *string    `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

type Contract struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	TenantID    uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	Title       string     `json:"title" db:"title"`
	SalaryCents int64      `json:"salary_cents" db:"salary_cents"`
	StartDate   time.Time  `json:"start_date" db:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty" db:"end_date"`
	Status      string     `json:"status" db:"status"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

const (
	ContractStatusActive     = "active"
	ContractStatusTerminated = "terminated"
	ContractStatusExpired    = "expired"
)
