package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AttendanceRecord is unique per (tenant, student, date).
type AttendanceRecord struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TenantID  uuid.UUID `json:"tenant_id" db:"tenant_id"`
	StudentID uuid.UUID `json:"student_id" db:"student_id"`
	ClassID   uuid.UUID `json:"class_id" db:"class_id"`
	Date      time.Time `json:"date" db:"date"`
	Status    string    `json:"status" db:"status"`
	Notes     *string   `json:"notes,omitempty" db:"notes"`
	MarkedBy  uuid.UUID `json:"marked_by" db:"marked_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

const (
	AttendancePresent = "PRESENT"
	AttendanceAbsent  = "ABSENT"
	AttendanceLate    = "LATE"
	AttendanceExcused = "EXCUSED"
)

// ValidAttendanceStatus rejects anything outside the four states.
func ValidAttendanceStatus(status string) error {
	switch status {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return nil
	}
	return fmt.Errorf("attendance status must be one of PRESENT, ABSENT, LATE, EXCUSED")
}
