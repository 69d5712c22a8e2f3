package models

import (
	"time"

	"github.com/google/uuid"
)

type Student struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	TenantID        uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	AdmissionNumber string     `json:"admission_number" db:"admission_number"` // unique per tenant
	FirstName       string     `json:"first_name" db:"first_name"`
	LastName        string     `json:"last_name" db:"last_name"`
	DateOfBirth     *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Gender          *string    `json:"gender,omitempty" db:"gender"`
	ClassID         *uuid.UUID `json:"class_id,omitempty" db:"class_id"`
	UserID          *uuid.UUID `json:"user_id,omitempty" db:"user_id"` // portal login, if any
	Status          string     `json:"status" db:"status"`
	EnrolledAt      time.Time  `json:"enrolled_at" db:"enrolled_at"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// Students are soft-deactivated, never hard-deleted.
const (
	StudentStatusActive      = "active"
	StudentStatusDeactivated = "deactivated"
	StudentStatusGraduated   = "graduated"
)

type Guardian struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	TenantID  uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	UserID    *uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	FirstName string     `json:"first_name" db:"first_name"`
	LastName  string     `json:"last_name" db:"last_name"`
	Email     *string    `json:"email,omitempty" db:"email"`
	Phone     *string    `json:"phone,omitempty" db:"phone"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// StudentGuardian links guardians to students with a relationship label.
type StudentGuardian struct {
	StudentID    uuid.UUID `json:"student_id" db:"student_id"`
	GuardianID   uuid.UUID `json:"guardian_id" db:"guardian_id"`
	TenantID     uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Relationship string    `json:"relationship" db:"relationship"`
	IsPrimary    bool      `json:"is_primary" db:"is_primary"`
}
