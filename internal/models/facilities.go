package models

import (
	"time"

	"github.com/google/uuid"
)

type Room struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TenantID  uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Name      string    `json:"name" db:"name"`
	Capacity  int       `json:"capacity" db:"capacity"`
	Location  *string   `json:"location,omitempty" db:"location"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// RoomBooking intervals are [start, end). Only PENDING and APPROVED rows
// block new bookings.
type RoomBooking struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TenantID  uuid.UUID `json:"tenant_id" db:"tenant_id"`
	RoomID    uuid.UUID `json:"room_id" db:"room_id"`
	BookedBy  uuid.UUID `json:"booked_by" db:"booked_by"`
	Purpose   string    `json:"purpose" db:"purpose"`
	StartsAt  time.Time `json:"starts_at" db:"starts_at"`
	EndsAt    time.Time `json:"ends_at" db:"ends_at"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

const (
	BookingPending   = "PENDING"
	BookingApproved  = "APPROVED"
	BookingRejected  = "REJECTED"
	BookingCancelled = "CANCELLED"
)

type Visitor struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TenantID  uuid.UUID `json:"tenant_id" db:"tenant_id"`
	FullName  string    `json:"full_name" db:"full_name"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	Purpose   string    `json:"purpose" db:"purpose"`
	HostName  *string   `json:"host_name,omitempty" db:"host_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CheckInOut tracks a visitor's presence on the premises.
type CheckInOut struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	TenantID     uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	VisitorID    uuid.UUID  `json:"visitor_id" db:"visitor_id"`
	CheckedInAt  time.Time  `json:"checked_in_at" db:"checked_in_at"`
	CheckedOutAt *time.Time `json:"checked_out_at,omitempty" db:"checked_out_at"`
	BadgeNumber  *string    `json:"badge_number,omitempty" db:"badge_number"`
	RecordedBy   uuid.UUID  `json:"recorded_by" db:"recorded_by"`
}

type Alumni struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	TenantID       uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	StudentID      *uuid.UUID `json:"student_id,omitempty" db:"student_id"`
	FullName       string     `json:"full_name" db:"full_name"`
	GraduationYear int        `json:"graduation_year" db:"graduation_year"`
	Email          *string    `json:"email,omitempty" db:"email"`
	Occupation     *string    `json:"occupation,omitempty" db:"occupation"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}
